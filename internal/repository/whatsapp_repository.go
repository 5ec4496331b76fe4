package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	appErrors "github.com/noah-isme/sports-school-ops/pkg/errors"
)

// phoneField is the literal key the messaging webhook expects.
const phoneField = "data.contact.Phone[0]"

// WhatsAppRepository posts outreach messages to the messaging webhook.
type WhatsAppRepository struct {
	client *http.Client
}

// NewWhatsAppRepository constructs the messaging adapter.
func NewWhatsAppRepository(timeout time.Duration) *WhatsAppRepository {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WhatsAppRepository{client: &http.Client{Timeout: timeout}}
}

// Send delivers message to phone (already normalized with country code).
func (r *WhatsAppRepository) Send(ctx context.Context, webhookURL, token, phone, message string) error {
	body, err := json.Marshal(map[string]string{
		phoneField: phone,
		"message":  message,
	})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build message request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", token)

	resp, err := r.client.Do(req)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrRemoteUnavailable.Code, appErrors.ErrRemoteUnavailable.Status, "messaging webhook unreachable")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return appErrors.Wrap(fmt.Errorf("status %d", resp.StatusCode), appErrors.ErrRemoteUnavailable.Code, appErrors.ErrRemoteUnavailable.Status, "messaging webhook rejected message")
	}
	return nil
}
