// Package transport speaks the WhatsApp Cloud API: the Graph sender for
// outbound texts and the webhook handler for inbound events.
package transport

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

	"github.com/bellavida/clinic-concierge/internal/conversation"
	"github.com/bellavida/clinic-concierge/pkg/logging"
)

const (
	graphBaseURL     = "https://graph.facebook.com/v22.0"
	graphSendTimeout = 15 * time.Second
)

// GraphSender delivers text messages through the WhatsApp Cloud API.
type GraphSender struct {
	httpClient    *http.Client
	baseURL       string
	phoneNumberID string
	accessToken   string
	logger        *logging.Logger
}

var _ conversation.Messenger = (*GraphSender)(nil)

// NewGraphSender creates a sender for the given phone number ID.
func NewGraphSender(phoneNumberID, accessToken string, logger *logging.Logger) *GraphSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &GraphSender{
		httpClient:    &http.Client{Timeout: graphSendTimeout},
		baseURL:       graphBaseURL,
		phoneNumberID: phoneNumberID,
		accessToken:   accessToken,
		logger:        logger,
	}
}

type graphTextMessage struct {
	MessagingProduct string    `json:"messaging_product"`
	To               string    `json:"to"`
	Type             string    `json:"type"`
	Text             graphText `json:"text"`
}

type graphText struct {
	Body string `json:"body"`
}

// Send posts one text message to the recipient.
func (s *GraphSender) Send(ctx context.Context, to, text string) error {
	tracer := otel.Tracer("bellavida.internal.transport")
	ctx, span := tracer.Start(ctx, "graph.send_message")
	defer span.End()
	span.SetAttributes(attribute.Int("message.length", len(text)))

	body, err := json.Marshal(graphTextMessage{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             graphText{Body: text},
	})
	if err != nil {
		return fmt.Errorf("marshal graph message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", s.baseURL, s.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build graph request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("send graph message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		err := fmt.Errorf("graph API returned status %d: %s", resp.StatusCode, detail)
		span.RecordError(err)
		return err
	}
	return nil
}
