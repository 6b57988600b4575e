package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bellavida/clinic-concierge/pkg/logging"
)

func TestClientDispatchPostsJSON(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, logging.Default())
	payload := SchedulePayload{
		Type:          TypeSchedule,
		SenderID:      "573001112233",
		AppointmentID: "BOTX0011020304050",
		Name:          "Ana Pérez",
		CitizenID:     "1020304050",
		TreatmentID:   "BOTX001",
		TreatmentName: "Botox",
		Email:         "ana@example.com",
		Date:          "2024-05-07",
		Time:          "10:00 AM",
	}
	require.NoError(t, c.Dispatch(context.Background(), payload))

	assert.Equal(t, "agendar", got["type"])
	assert.Equal(t, "573001112233", got["numero"])
	assert.Equal(t, "BOTX0011020304050", got["appointment_id"])
	assert.Equal(t, "BOTX001", got["treatment_id"])
}

func TestClientDispatchNon2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, logging.Default())
	err := c.Dispatch(context.Background(), PurchasePayload{Type: TypePurchase, ProductID: "CREMA-ANTIENVE-001"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestClientDispatchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 20*time.Millisecond, logging.Default())
	err := c.Dispatch(context.Background(), PurchasePayload{Type: TypePurchase, ProductID: "X"})
	require.Error(t, err)
}

func TestClientDispatchConnectionRefused(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", time.Second, logging.Default())
	err := c.Dispatch(context.Background(), CancelPayload{Type: TypeCancel, AppointmentID: "X"})
	require.Error(t, err)
}
