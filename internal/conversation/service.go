// Package conversation runs the per-turn pipeline: session append, model
// classification, action dispatch, reply append, paced outbound delivery.
package conversation

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/bellavida/clinic-concierge/internal/dispatch"
	"github.com/bellavida/clinic-concierge/internal/llm"
	"github.com/bellavida/clinic-concierge/internal/observability/metrics"
	"github.com/bellavida/clinic-concierge/internal/session"
	"github.com/bellavida/clinic-concierge/pkg/logging"
)

// replyInternalError is the catch-all apology when the model call itself
// fails. Collaborator failures never surface raw.
const replyInternalError = "Lo siento, ocurrió un error interno. Intenta de nuevo más tarde."

// Service orchestrates one conversation turn per combined inbound message.
type Service struct {
	store      session.Store
	classifier llm.Classifier
	dispatcher *dispatch.Dispatcher
	metrics    *metrics.ConversationMetrics
	logger     *logging.Logger
}

// NewService wires the pipeline. metrics may be nil.
func NewService(store session.Store, classifier llm.Classifier, dispatcher *dispatch.Dispatcher, m *metrics.ConversationMetrics, logger *logging.Logger) *Service {
	if store == nil {
		panic("conversation: session store cannot be nil")
	}
	if classifier == nil {
		panic("conversation: classifier cannot be nil")
	}
	if dispatcher == nil {
		panic("conversation: dispatcher cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		store:      store,
		classifier: classifier,
		dispatcher: dispatcher,
		metrics:    m,
		logger:     logger,
	}
}

// HandleMessage runs the full pipeline for one combined inbound message
// and returns the reply to deliver. It never returns an empty reply and
// never propagates an error: every failure mode maps to user-facing text.
func (s *Service) HandleMessage(ctx context.Context, senderID, text string) string {
	msgID := uuid.NewString()
	log := s.logger.With("message_id", msgID, "sender", senderID)

	turns, err := s.store.Upsert(ctx, senderID, session.Turn{Role: session.RoleUser, Content: text})
	if err != nil {
		log.Error("failed to record user turn", "error", err)
		s.metrics.ObserveInbound("store_error")
		return replyInternalError
	}

	reply, outcome := s.respond(ctx, log, senderID, turns, text)
	s.metrics.ObserveInbound(outcome)

	if err := s.store.AppendReply(ctx, senderID, session.Turn{Role: session.RoleAssistant, Content: reply}); err != nil {
		// The reply is still delivered; only the history is short one turn.
		log.Warn("failed to record assistant turn", "error", err)
	}
	return reply
}

func (s *Service) respond(ctx context.Context, log *logging.Logger, senderID string, turns []session.Turn, text string) (string, string) {
	result, err := s.classifier.Classify(ctx, turns, text)
	if err != nil {
		log.Error("model classification failed", "error", err)
		return replyInternalError, "llm_error"
	}

	if !result.IsAction() {
		return result.Text, "replied"
	}

	log.Info("model selected action", "tool", result.ToolName)
	reply, err := s.dispatcher.HandleToolCall(ctx, senderID, result.ToolName, result.ToolArgs)
	switch {
	case err == nil:
		return reply, "dispatched"
	case errors.Is(err, dispatch.ErrValidation):
		log.Info("action rejected by validation", "tool", result.ToolName, "error", err)
		return reply, "rejected"
	case errors.Is(err, dispatch.ErrParse):
		log.Warn("action arguments unusable", "tool", result.ToolName, "error", err)
		return reply, "parse_error"
	default:
		log.Error("action dispatch failed", "tool", result.ToolName, "error", err)
		return reply, "collaborator_error"
	}
}
