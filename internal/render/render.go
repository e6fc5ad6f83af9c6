// Package render builds the control message's button grid from instance
// state. Rendering is a pure function: identical snapshots produce
// byte-identical grids.
package render

import (
	"fmt"

	"svrmgr/internal/directory"
	"svrmgr/internal/discord"
)

// Content is the textual body of the control message.
const Content = "Servers"

const refreshLabel = "↻"

// Update renders the full replacement message for the given instances, in
// the order received. Each instance gets one row: a Start button when
// stopped, a Stop button when running, and a neutral refresh row otherwise.
func Update(instances []*directory.Instance) *discord.InteractionResponse {
	rows := make([]discord.ActionRow, 0, len(instances)+1)
	rows = append(rows, buttonRow(discord.Button{
		Type:     discord.ComponentTypeButton,
		Label:    refreshLabel,
		Style:    discord.ButtonStyleSecondary,
		CustomID: "refresh",
	}))

	for _, instance := range instances {
		name := instance.DisplayName()

		var button discord.Button
		switch instance.State {
		case directory.StateStopped:
			button = discord.Button{
				Type:     discord.ComponentTypeButton,
				Label:    fmt.Sprintf("Start %s", name),
				Style:    discord.ButtonStyleSuccess,
				CustomID: fmt.Sprintf("start:%s", instance.ID),
			}
		case directory.StateRunning:
			button = discord.Button{
				Type:     discord.ComponentTypeButton,
				Label:    fmt.Sprintf("Stop %s", name),
				Style:    discord.ButtonStyleDanger,
				CustomID: fmt.Sprintf("stop:%s", instance.ID),
			}
		default:
			state := string(instance.State)
			if state == "" {
				state = "unknown"
			}
			button = discord.Button{
				Type:     discord.ComponentTypeButton,
				Label:    fmt.Sprintf("%s (%s)", name, state),
				Style:    discord.ButtonStyleSecondary,
				CustomID: fmt.Sprintf("refresh:%s", instance.ID),
			}
		}

		rows = append(rows, buttonRow(button))
	}

	return &discord.InteractionResponse{
		Type: discord.ResponseTypeUpdateMessage,
		Data: &discord.MessageData{
			Content:    Content,
			Components: rows,
		},
	}
}

// InitialMessage is the control message created before any instance is
// tagged: the bare refresh row.
func InitialMessage() *discord.MessageData {
	return Update(nil).Data
}

func buttonRow(button discord.Button) discord.ActionRow {
	return discord.ActionRow{
		Type:       discord.ComponentTypeActionRow,
		Components: []discord.Button{button},
	}
}
