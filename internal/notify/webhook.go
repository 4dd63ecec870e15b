// Package notify implements interfaces.Notifier for announcing pipeline completion
// or failure to an external chat/incident webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/raysh454/siteshift/internal/model"
)

// WebhookNotifier posts a small JSON payload to a fixed URL on completion or
// failure. It never retries: a stage boundary is not the place to burn time on
// notification delivery, and the controller treats delivery errors as
// log-and-continue, not stage failures.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

// NewWebhookNotifier builds a Notifier that posts to url with a short timeout.
func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

type webhookPayload struct {
	ProjectID string `json:"project_id"`
	Status    string `json:"status"`
	OldURL    string `json:"old_base_url"`
	NewURL    string `json:"new_base_url"`
	Reason    string `json:"reason,omitempty"`
}

func (w *WebhookNotifier) post(ctx context.Context, payload webhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("notify: encode webhook payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("notify: webhook post: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("notify: webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// NotifyCompleted announces a successful audit run.
func (w *WebhookNotifier) NotifyCompleted(ctx context.Context, project *model.Project) error {
	return w.post(ctx, webhookPayload{
		ProjectID: project.ID,
		Status:    string(model.ProjectCompleted),
		OldURL:    project.OldBaseURL,
		NewURL:    project.NewBaseURL,
	})
}

// NotifyFailed announces an audit run that ended in a stage failure.
func (w *WebhookNotifier) NotifyFailed(ctx context.Context, project *model.Project, reason string) error {
	return w.post(ctx, webhookPayload{
		ProjectID: project.ID,
		Status:    string(model.ProjectFailed),
		OldURL:    project.OldBaseURL,
		NewURL:    project.NewBaseURL,
		Reason:    reason,
	})
}
