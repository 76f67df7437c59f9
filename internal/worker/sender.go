package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// GatewaySender posts notifications to an external push gateway.
type GatewaySender struct {
	client *http.Client
	url    string
	logger *slog.Logger
}

func NewGatewaySender(client *http.Client, url string, logger *slog.Logger) *GatewaySender {
	return &GatewaySender{
		client: client,
		url:    url,
		logger: logger,
	}
}

func (g *GatewaySender) Send(ctx context.Context, n *Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call gateway: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			g.logger.ErrorContext(ctx, "failed to close gateway response body", slog.Any("error", closeErr))
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		payload, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, payload)
	}

	return nil
}

var _ Sender = (*GatewaySender)(nil)
