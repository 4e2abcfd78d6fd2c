package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ecophos-dev/ecophos/internal/models"
)

type DiscordWebhookField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type DiscordEmbed struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Color       int                   `json:"color"`
	Fields      []DiscordWebhookField `json:"fields"`
	Footer      *DiscordFooter        `json:"footer,omitempty"`
	Timestamp   string                `json:"timestamp"`
}

type DiscordFooter struct {
	Text string `json:"text"`
}

type DiscordWebhookRequest struct {
	Username string         `json:"username"`
	Embeds   []DiscordEmbed `json:"embeds"`
}

type SlackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

type SlackAttachment struct {
	Color     string       `json:"color"`
	Title     string       `json:"title"`
	Text      string       `json:"text"`
	Fields    []SlackField `json:"fields"`
	Footer    string       `json:"footer"`
	Timestamp int64        `json:"ts"`
}

type SlackWebhookRequest struct {
	Username    string            `json:"username"`
	IconEmoji   string            `json:"icon_emoji,omitempty"`
	Text        string            `json:"text"`
	Attachments []SlackAttachment `json:"attachments"`
}

const (
	ColorBlue = 3447003 // #3498DB

	WebhookUsername = "Ecophos"
)

// WebhookNotifier posts contact messages to Discord and/or Slack incoming
// webhooks. Empty URLs are skipped.
type WebhookNotifier struct {
	DiscordURL string
	SlackURL   string
	Client     *http.Client
}

func NewWebhookNotifier(discordURL, slackURL string) *WebhookNotifier {
	return &WebhookNotifier{
		DiscordURL: discordURL,
		SlackURL:   slackURL,
		Client:     &http.Client{Timeout: notifyTimeout},
	}
}

// Enabled reports whether any webhook is configured.
func (n *WebhookNotifier) Enabled() bool {
	return n.DiscordURL != "" || n.SlackURL != ""
}

func (n *WebhookNotifier) NotifyContact(ctx context.Context, msg models.ContactMessage) error {
	var errs []error

	if n.DiscordURL != "" {
		if err := n.post(ctx, n.DiscordURL, discordContactPayload(msg)); err != nil {
			errs = append(errs, fmt.Errorf("discord: %w", err))
		}
	}

	if n.SlackURL != "" {
		if err := n.post(ctx, n.SlackURL, slackContactPayload(msg)); err != nil {
			errs = append(errs, fmt.Errorf("slack: %w", err))
		}
	}

	return errors.Join(errs...)
}

func discordContactPayload(msg models.ContactMessage) DiscordWebhookRequest {
	return DiscordWebhookRequest{
		Username: WebhookUsername,
		Embeds: []DiscordEmbed{
			{
				Title:       "New contact message",
				Description: msg.Message,
				Color:       ColorBlue,
				Fields: []DiscordWebhookField{
					{Name: "Name", Value: msg.Name, Inline: true},
					{Name: "Email", Value: msg.Email, Inline: true},
					{Name: "Phone", Value: msg.Phone, Inline: true},
				},
				Footer: &DiscordFooter{
					Text: "Contact form",
				},
				Timestamp: msg.CreatedAt.Format(time.RFC3339),
			},
		},
	}
}

func slackContactPayload(msg models.ContactMessage) SlackWebhookRequest {
	return SlackWebhookRequest{
		Username:  WebhookUsername,
		IconEmoji: ":envelope:",
		Text:      ":envelope: *New contact message*",
		Attachments: []SlackAttachment{
			{
				Color: "#3498DB",
				Title: fmt.Sprintf("Message from %s", msg.Name),
				Text:  msg.Message,
				Fields: []SlackField{
					{Title: "Email", Value: msg.Email, Short: true},
					{Title: "Phone", Value: msg.Phone, Short: true},
				},
				Footer:    "Contact form",
				Timestamp: msg.CreatedAt.Unix(),
			},
		},
	}
}

func (n *WebhookNotifier) post(ctx context.Context, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	client := n.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
