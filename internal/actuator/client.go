// Package actuator calls the Home Assistant webhook that physically opens
// the gate.
package actuator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/portvakt/portvakt/internal/logger"
)

// Trigger is the port the decision engine depends on. Implementations
// report success as a plain bool; failures never propagate past this
// boundary.
type Trigger interface {
	Trigger(ctx context.Context) bool
}

// request is the webhook payload Home Assistant expects for the gate
// automation. Constructed fresh per decision, never persisted.
type request struct {
	Action    string `json:"action"`
	Timestamp string `json:"timestamp"`
	Source    string `json:"source"`
}

// Client performs a single webhook call per invocation. No retries: a
// missed trigger is not retried, the caller simply hears the gate did not
// open.
type Client struct {
	baseURL    string
	webhookID  string
	httpClient *http.Client
}

func NewClient(baseURL, webhookID string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		webhookID:  webhookID,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Trigger asks Home Assistant to open the gate. It returns true only on
// HTTP 200; timeouts, network errors and other statuses are logged and
// reported as false. When the webhook is not configured it short-circuits
// without a network call.
func (c *Client) Trigger(ctx context.Context) bool {
	if c.baseURL == "" || c.webhookID == "" {
		logger.Log().Error("Home Assistant configuration missing")
		return false
	}

	payload := request{
		Action:    "open_gate",
		Timestamp: time.Now().Format(time.RFC3339),
		Source:    "phone_call",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		logger.Log().WithError(err).Error("Failed to encode gate webhook payload")
		return false
	}

	url := fmt.Sprintf("%s/api/webhook/%s", c.baseURL, c.webhookID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		logger.Log().WithError(err).Error("Failed to build gate webhook request")
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Log().WithError(err).Error("Failed to call Home Assistant webhook")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.WithFields(map[string]interface{}{"status": resp.StatusCode}).Error("Home Assistant webhook failed")
		return false
	}

	logger.Log().Info("Successfully triggered Home Assistant gate webhook")
	return true
}
