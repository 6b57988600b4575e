package conversation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bellavida/clinic-concierge/internal/dispatch"
	"github.com/bellavida/clinic-concierge/internal/intent"
	"github.com/bellavida/clinic-concierge/internal/llm"
	"github.com/bellavida/clinic-concierge/internal/session"
	"github.com/bellavida/clinic-concierge/pkg/logging"
)

type stubClassifier struct {
	result llm.Result
	err    error
	turns  []session.Turn
}

func (s *stubClassifier) Classify(_ context.Context, turns []session.Turn, _ string) (llm.Result, error) {
	s.turns = turns
	return s.result, s.err
}

type recordingWebhook struct {
	payloads []any
	err      error
}

func (r *recordingWebhook) Dispatch(_ context.Context, payload any) error {
	if r.err != nil {
		return r.err
	}
	r.payloads = append(r.payloads, payload)
	return nil
}

type mondayClock struct{}

func (mondayClock) Now() time.Time {
	return time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
}

func newTestService(classifier llm.Classifier, hook *recordingWebhook) (*Service, session.Store) {
	store := session.NewMemoryStore(mondayClock{}, func() string { return "reglas" })
	dispatcher := dispatch.New(hook, mondayClock{}, nil, logging.Default())
	return NewService(store, classifier, dispatcher, nil, logging.Default()), store
}

func TestHandleMessagePlainReply(t *testing.T) {
	classifier := &stubClassifier{result: llm.Result{Text: "¡Hola! ¿En qué te ayudo?"}}
	svc, store := newTestService(classifier, &recordingWebhook{})

	reply := svc.HandleMessage(context.Background(), "u1", "hola")
	assert.Equal(t, "¡Hola! ¿En qué te ayudo?", reply)

	// Classifier saw the seeded history including the new user turn.
	require.Len(t, classifier.turns, 2)
	assert.Equal(t, session.RoleSystem, classifier.turns[0].Role)

	// Both the user turn and the assistant reply were recorded.
	turns, err := store.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, turns, 3)
	assert.Equal(t, session.RoleAssistant, turns[2].Role)
	assert.Equal(t, "¡Hola! ¿En qué te ayudo?", turns[2].Content)
}

func TestHandleMessageActionDispatch(t *testing.T) {
	classifier := &stubClassifier{result: llm.Result{
		ToolName: intent.NamePurchase,
		ToolArgs: `{"product_id":"CREMA-ANTIENVE-001"}`,
	}}
	hook := &recordingWebhook{}
	svc, _ := newTestService(classifier, hook)

	reply := svc.HandleMessage(context.Background(), "u1", "quiero la crema")
	assert.Contains(t, reply, "compra ha sido registrada")
	assert.Len(t, hook.payloads, 1)
}

func TestHandleMessageWebhookTimeoutStillRecordsTurns(t *testing.T) {
	classifier := &stubClassifier{result: llm.Result{
		ToolName: intent.NameSchedule,
		ToolArgs: `{"nombre":"Ana","cedula":"123456","treatmentID":"BOTX001","treatment_name":"Botox","email":"a@b.c","date":"mañana","time":"10:00 AM"}`,
	}}
	hook := &recordingWebhook{err: errors.New("timeout")}
	svc, store := newTestService(classifier, hook)

	reply := svc.HandleMessage(context.Background(), "u1", "agendar cita")
	assert.Contains(t, reply, "intenta más tarde")

	turns, err := store.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, turns, 3, "user turn and generic reply are both in history")
	assert.Equal(t, "agendar cita", turns[1].Content)
	assert.Equal(t, reply, turns[2].Content)
}

func TestHandleMessageClassifierFailure(t *testing.T) {
	classifier := &stubClassifier{err: errors.New("rate limited")}
	svc, _ := newTestService(classifier, &recordingWebhook{})

	reply := svc.HandleMessage(context.Background(), "u1", "hola")
	assert.Equal(t, replyInternalError, reply)
	assert.NotContains(t, reply, "rate limited")
}

func TestHandleMessageValidationRejection(t *testing.T) {
	classifier := &stubClassifier{result: llm.Result{
		ToolName: intent.NameSchedule,
		ToolArgs: `{"nombre":"Ana","cedula":"123456","treatmentID":"BOTX001","treatment_name":"Botox","email":"a@b.c","date":"domingo","time":"11:00 AM"}`,
	}}
	hook := &recordingWebhook{}
	svc, _ := newTestService(classifier, hook)

	reply := svc.HandleMessage(context.Background(), "u1", "agendar cita el domingo")
	assert.Contains(t, reply, "horario comercial")
	assert.Empty(t, hook.payloads)
}
