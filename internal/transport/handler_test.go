package transport

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bellavida/clinic-concierge/internal/buffer"
	"github.com/bellavida/clinic-concierge/pkg/logging"
)

type fragmentRecorder struct {
	senders []string
	texts   []string
}

func newTestHandler(t *testing.T) (*WebhookHandler, *fragmentRecorder, *buffer.Debouncer) {
	t.Helper()
	rec := &fragmentRecorder{}
	deb := buffer.New(time.Hour, noopScheduler{}, func(sender, combined string) {
		rec.senders = append(rec.senders, sender)
		rec.texts = append(rec.texts, combined)
	}, logging.Default())
	return NewWebhookHandler("secret-token", deb, logging.Default()), rec, deb
}

// noopScheduler never fires, so flushes stay pending for the whole test.
type noopScheduler struct{}

type noopTimer struct{}

func (noopTimer) Stop() bool { return true }

func (noopScheduler) AfterFunc(time.Duration, func()) buffer.Timer { return noopTimer{} }

func TestVerifyHandshake(t *testing.T) {
	h, _, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=secret-token&hub.challenge=12345", nil)
	w := httptest.NewRecorder()
	h.Verify(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "12345", w.Body.String())
}

func TestVerifyRejectsBadToken(t *testing.T) {
	h, _, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345", nil)
	w := httptest.NewRecorder()
	h.Verify(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Body.String())
}

const inboundTextEvent = `{
  "object": "whatsapp_business_account",
  "entry": [{
    "changes": [{
      "value": {
        "messages": [{"from": "573001112233", "type": "text", "text": {"body": "hola"}}]
      }
    }]
  }]
}`

func TestReceiveFeedsTextIntoBuffer(t *testing.T) {
	rec := &fragmentRecorder{}
	fired := make(chan struct{}, 1)
	deb := buffer.New(time.Millisecond, nil, func(sender, combined string) {
		rec.senders = append(rec.senders, sender)
		rec.texts = append(rec.texts, combined)
		fired <- struct{}{}
	}, logging.Default())
	h := NewWebhookHandler("secret-token", deb, logging.Default())

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(inboundTextEvent))
	w := httptest.NewRecorder()
	h.Receive(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("buffer never flushed")
	}
	require.Equal(t, []string{"573001112233"}, rec.senders)
	require.Equal(t, []string{"hola"}, rec.texts)
}

func TestReceiveIgnoresNonTextMessages(t *testing.T) {
	h, rec, _ := newTestHandler(t)

	body := `{
	  "object": "whatsapp_business_account",
	  "entry": [{"changes": [{"value": {"messages": [
	    {"from": "573001112233", "type": "image"}
	  ]}}]}]
	}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Receive(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, rec.senders)
}

func TestReceiveIgnoresOtherObjects(t *testing.T) {
	h, rec, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"object":"page","entry":[]}`))
	w := httptest.NewRecorder()
	h.Receive(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, rec.senders)
}

func TestReceiveRejectsMalformedBody(t *testing.T) {
	h, _, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	h.Receive(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
