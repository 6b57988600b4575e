// Package webhook posts validated actions to the external system of record.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/bellavida/clinic-concierge/pkg/logging"
)

const defaultTimeout = 5 * time.Second

// Dispatcher is the narrow interface the intent dispatcher depends on.
type Dispatcher interface {
	Dispatch(ctx context.Context, payload any) error
}

// Client posts JSON action payloads to the configured webhook URL. Failures
// are returned to the caller, never retried here: the user re-issues the
// request instead.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *logging.Logger
	tracer     trace.Tracer
}

// NewClient builds a webhook client with the given request timeout.
func NewClient(url string, timeout time.Duration, logger *logging.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
		tracer: otel.Tracer("bellavida.internal.webhook"),
	}
}

var _ Dispatcher = (*Client)(nil)

// Dispatch posts the payload and treats any non-2xx status as failure.
func (c *Client) Dispatch(ctx context.Context, payload any) error {
	ctx, span := c.tracer.Start(ctx, "webhook.dispatch")
	defer span.End()

	body, err := json.Marshal(payload)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("webhook: failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("webhook: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		c.logger.Error("webhook call failed", "error", err)
		return fmt.Errorf("webhook: request failed: %w", err)
	}
	defer resp.Body.Close()
	// The acknowledgement body carries no display-ready text; drain and drop.
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:errcheck

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("webhook: unexpected status %d", resp.StatusCode)
		span.RecordError(err)
		c.logger.Error("webhook rejected payload", "status", resp.StatusCode)
		return err
	}
	return nil
}
