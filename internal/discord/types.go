// Package discord holds the subset of the Discord interaction and message
// payloads this service consumes and produces, plus a minimal REST client
// for the message-management tools.
package discord

// Interaction types consumed from the webhook.
const (
	InteractionTypePing             = 1
	InteractionTypeMessageComponent = 3
)

// Interaction callback types produced in responses.
const (
	ResponseTypePong          = 1
	ResponseTypeUpdateMessage = 7
)

// Component types.
const (
	ComponentTypeActionRow = 1
	ComponentTypeButton    = 2
)

// Button styles.
const (
	ButtonStyleSecondary = 2
	ButtonStyleSuccess   = 3
	ButtonStyleDanger    = 4
)

// Interaction is the consumed subset of an inbound interaction payload.
// Type is a pointer so a missing discriminator is distinguishable from 0.
type Interaction struct {
	Type    *int             `json:"type"`
	Message *Message         `json:"message"`
	Data    *InteractionData `json:"data"`
}

type Message struct {
	ID string `json:"id"`
}

type InteractionData struct {
	CustomID string `json:"custom_id"`
}

// InteractionResponse is the payload returned to Discord for an interaction.
type InteractionResponse struct {
	Type int          `json:"type"`
	Data *MessageData `json:"data,omitempty"`
}

// MessageData is the full replacement content of the control message.
type MessageData struct {
	Content    string      `json:"content"`
	Components []ActionRow `json:"components"`
}

type ActionRow struct {
	Type       int      `json:"type"`
	Components []Button `json:"components"`
}

type Button struct {
	Type     int    `json:"type"`
	Label    string `json:"label"`
	Style    int    `json:"style"`
	CustomID string `json:"custom_id"`
}
