package transport

import (
	"encoding/json"
	"net/http"

	"github.com/bellavida/clinic-concierge/internal/buffer"
	"github.com/bellavida/clinic-concierge/pkg/logging"
)

// WebhookHandler terminates the WhatsApp Cloud API webhook: verification
// handshake on GET, inbound message events on POST.
type WebhookHandler struct {
	verifyToken string
	debouncer   *buffer.Debouncer
	logger      *logging.Logger
}

// NewWebhookHandler creates a handler feeding inbound texts into the debouncer.
func NewWebhookHandler(verifyToken string, debouncer *buffer.Debouncer, logger *logging.Logger) *WebhookHandler {
	if debouncer == nil {
		panic("transport: debouncer cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &WebhookHandler{
		verifyToken: verifyToken,
		debouncer:   debouncer,
		logger:      logger,
	}
}

// Verify answers Meta's subscription handshake. The challenge echoes back
// only when the verify token matches.
func (h *WebhookHandler) Verify(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode != "subscribe" || token != h.verifyToken {
		h.logger.Warn("webhook verification rejected", "mode", mode)
		w.WriteHeader(http.StatusForbidden)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(challenge)) //nolint:errcheck
}

// Inbound event envelope, trimmed to the fields the assistant consumes.
type webhookEvent struct {
	Object string `json:"object"`
	Entry  []struct {
		Changes []struct {
			Value struct {
				Messages []inboundMessage `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type inboundMessage struct {
	From string `json:"from"`
	Type string `json:"type"`
	Text struct {
		Body string `json:"body"`
	} `json:"text"`
}

// Receive ingests an inbound event. Text messages go to the debouncer;
// everything else is acknowledged and dropped. Meta retries on non-2xx,
// so a well-formed envelope is always acknowledged with 200.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	var event webhookEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		h.logger.Warn("failed to decode webhook event", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if event.Object != "whatsapp_business_account" {
		w.WriteHeader(http.StatusOK)
		return
	}

	for _, entry := range event.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				if msg.Type != "text" {
					h.logger.Info("ignoring non-text message", "from", msg.From, "type", msg.Type)
					continue
				}
				h.debouncer.OnIncoming(msg.From, msg.Text.Body)
			}
		}
	}
	w.WriteHeader(http.StatusOK)
}
