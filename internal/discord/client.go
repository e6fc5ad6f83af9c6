package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	commonhttp "svrmgr/internal/common/http"
)

const defaultTimeout = 30 * time.Second

// Client is a bot-token-authenticated client for the handful of Discord
// message-management endpoints the admin tools use.
type Client struct {
	http    *commonhttp.Client
	baseURL string
	token   string
}

func NewClient(baseURL, botToken string) *Client {
	return &Client{
		http:    commonhttp.NewClient(defaultTimeout),
		baseURL: baseURL,
		token:   botToken,
	}
}

// CreateMessage posts a new message to the channel and returns it.
func (c *Client) CreateMessage(ctx context.Context, channelID string, data *MessageData) (*Message, error) {
	url := fmt.Sprintf("%s/channels/%s/messages", c.baseURL, channelID)

	resp, err := c.http.DoJSON(ctx, http.MethodPost, url, c.authHeaders(), data)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var msg Message
	if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
		return nil, fmt.Errorf("decode create-message response: %w", err)
	}
	return &msg, nil
}

// DeleteMessage removes a message from the channel.
func (c *Client) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	url := fmt.Sprintf("%s/channels/%s/messages/%s", c.baseURL, channelID, messageID)

	resp, err := c.http.DoJSON(ctx, http.MethodDelete, url, c.authHeaders(), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return checkStatus(resp)
}

func (c *Client) authHeaders() map[string]string {
	return map[string]string{"Authorization": "Bot " + c.token}
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("discord API returned %d: %s", resp.StatusCode, body)
}
