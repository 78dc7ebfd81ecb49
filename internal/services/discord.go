package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"showwise/internal/notify"
)

// DiscordAnnouncer posts announcements to a Discord channel webhook
type DiscordAnnouncer struct {
	webhookURL string
	client     *http.Client
}

func NewDiscordAnnouncer(webhookURL string, client *http.Client) *DiscordAnnouncer {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &DiscordAnnouncer{webhookURL: webhookURL, client: client}
}

type discordPayload struct {
	Content         string                 `json:"content,omitempty"`
	Embeds          []discordEmbed         `json:"embeds"`
	AllowedMentions discordAllowedMentions `json:"allowed_mentions"`
}

type discordEmbed struct {
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Color       int            `json:"color"`
	Fields      []notify.Field `json:"fields,omitempty"`
	Footer      *discordFooter `json:"footer,omitempty"`
	Timestamp   string         `json:"timestamp"`
}

type discordFooter struct {
	Text string `json:"text"`
}

type discordAllowedMentions struct {
	Parse []string `json:"parse"`
	Users []string `json:"users,omitempty"`
}

// Announce sends one message. Mentions are rendered as <@id> after the lead line and
// only those users are allowed to be pinged. An unconfigured webhook is a no-op.
func (d *DiscordAnnouncer) Announce(ctx context.Context, a notify.Announcement) error {
	if d.webhookURL == "" {
		return nil
	}

	body, err := json.Marshal(discordMessage(a, time.Now()))
	if err != nil {
		return fmt.Errorf("failed to encode discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("discord webhook returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}

func discordMessage(a notify.Announcement, now time.Time) discordPayload {
	content := a.Content
	if len(a.Mentions) > 0 {
		tags := make([]string, len(a.Mentions))
		for i, id := range a.Mentions {
			tags[i] = "<@" + id + ">"
		}
		content = strings.TrimSpace(content + " " + strings.Join(tags, " "))
	}

	embed := discordEmbed{
		Title:       a.Title,
		Description: a.Description,
		Color:       a.Color,
		Fields:      a.Fields,
		Timestamp:   now.UTC().Format(time.RFC3339),
	}
	if a.Footer != "" {
		embed.Footer = &discordFooter{Text: a.Footer}
	}

	return discordPayload{
		Content:         content,
		Embeds:          []discordEmbed{embed},
		AllowedMentions: discordAllowedMentions{Parse: []string{}, Users: a.Mentions},
	}
}
