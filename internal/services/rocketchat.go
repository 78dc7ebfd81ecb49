package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"showwise/internal/config"
	"showwise/internal/notify"
)

// RocketChatAnnouncer posts announcements through the Rocket.Chat REST API as a bot user
type RocketChatAnnouncer struct {
	cfg    config.RocketChatConfig
	client *http.Client
}

func NewRocketChatAnnouncer(cfg config.RocketChatConfig, client *http.Client) *RocketChatAnnouncer {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	cfg.URL = strings.TrimRight(cfg.URL, "/")
	return &RocketChatAnnouncer{cfg: cfg, client: client}
}

// Configured reports whether server, credentials and channel are all set
func (r *RocketChatAnnouncer) Configured() bool {
	return r.cfg.URL != "" && r.cfg.UserID != "" && r.cfg.AuthToken != "" && r.cfg.Channel != ""
}

type rocketChatMessage struct {
	Channel     string                 `json:"channel"`
	Text        string                 `json:"text"`
	Attachments []rocketChatAttachment `json:"attachments,omitempty"`
}

type rocketChatAttachment struct {
	Title  string            `json:"title"`
	Text   string            `json:"text,omitempty"`
	Color  string            `json:"color"`
	Fields []rocketChatField `json:"fields,omitempty"`
}

type rocketChatField struct {
	Short bool   `json:"short"`
	Title string `json:"title"`
	Value string `json:"value"`
}

type rocketChatResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (r *RocketChatAnnouncer) Announce(ctx context.Context, a notify.Announcement) error {
	if !r.Configured() {
		return nil
	}

	body, err := json.Marshal(rocketChatPayload(r.cfg.Channel, a))
	if err != nil {
		return fmt.Errorf("failed to encode rocket.chat message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.URL+"/api/v1/chat.postMessage", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create rocket.chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", r.cfg.UserID)
	req.Header.Set("X-Auth-Token", r.cfg.AuthToken)

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post rocket.chat message: %w", err)
	}
	defer resp.Body.Close()

	var result rocketChatResponse
	_ = json.NewDecoder(resp.Body).Decode(&result)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !result.Success {
		return fmt.Errorf("rocket.chat returned %d: %s", resp.StatusCode, result.Error)
	}
	return nil
}

// Mentions are Rocket.Chat usernames, rendered as @name
func rocketChatPayload(channel string, a notify.Announcement) rocketChatMessage {
	text := a.Content
	for _, handle := range a.Mentions {
		text += " @" + handle
	}
	if text == "" {
		text = a.Title
	}

	fields := make([]rocketChatField, len(a.Fields))
	for i, f := range a.Fields {
		fields[i] = rocketChatField{Short: f.Inline, Title: f.Name, Value: f.Value}
	}

	return rocketChatMessage{
		Channel: channel,
		Text:    strings.TrimSpace(text),
		Attachments: []rocketChatAttachment{{
			Title:  a.Title,
			Text:   a.Description,
			Color:  fmt.Sprintf("#%06X", a.Color),
			Fields: fields,
		}},
	}
}
