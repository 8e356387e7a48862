// Package delivery pushes finished artifacts to a configured webhook.
package delivery

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fetchd/internal/config"
	"fetchd/internal/services"
)

const originTag = "fetchd"

// Metadata describes the artifact being delivered.
type Metadata struct {
	Title    string
	Duration float64
	Source   string
}

// Client defines the delivery surface exposed to the pipeline.
type Client interface {
	Deliver(ctx context.Context, filePath string, meta Metadata) error
	Configured() bool
}

// NewClient builds a webhook delivery client. When no webhook URL is
// configured, a noop implementation is returned.
func NewClient(cfg *config.Config) Client {
	endpoint := strings.TrimSpace(cfg.Delivery.WebhookURL)
	if endpoint == "" {
		return noopClient{}
	}

	timeout := time.Duration(cfg.Delivery.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &webhookClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type webhookClient struct {
	endpoint string
	client   *http.Client
}

type deliveryPayload struct {
	FileName      string           `json:"fileName"`
	FileExtension string           `json:"fileExtension"`
	FileContent   string           `json:"fileContent"`
	Metadata      deliveryMetadata `json:"metadata"`
}

type deliveryMetadata struct {
	Title     string  `json:"title"`
	Duration  float64 `json:"duration"`
	Source    string  `json:"source"`
	Timestamp string  `json:"timestamp"`
	Origin    string  `json:"origin"`
}

func (w *webhookClient) Configured() bool { return true }

// Deliver uploads the file as a base64 JSON payload. Failures are tagged
// ErrDelivery so the pipeline can log and move on.
func (w *webhookClient) Deliver(ctx context.Context, filePath string, meta Metadata) error {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return services.Wrap(services.ErrDelivery, "deliver", "read_artifact", "artifact unreadable", err)
	}

	base := filepath.Base(filePath)
	payload := deliveryPayload{
		FileName:      base,
		FileExtension: strings.TrimPrefix(filepath.Ext(base), "."),
		FileContent:   base64.StdEncoding.EncodeToString(content),
		Metadata: deliveryMetadata{
			Title:     meta.Title,
			Duration:  meta.Duration,
			Source:    meta.Source,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Origin:    originTag,
		},
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return services.Wrap(services.ErrDelivery, "deliver", "encode_payload", "payload encoding failed", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, bytes.NewReader(encoded))
	if err != nil {
		return services.Wrap(services.ErrDelivery, "deliver", "build_request", "request build failed", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrDelivery, "deliver", "post_webhook", "webhook request failed", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		message := fmt.Sprintf("webhook returned http %d", resp.StatusCode)
		return services.Wrap(services.ErrDelivery, "deliver", "post_webhook", message, nil)
	}
	return nil
}

type noopClient struct{}

func (noopClient) Configured() bool { return false }

func (noopClient) Deliver(ctx context.Context, filePath string, meta Metadata) error {
	return nil
}
