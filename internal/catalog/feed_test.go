package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bellavida/clinic-concierge/pkg/logging"
)

const feedCSV = `Nombre,Cedula,Tratamiento,Fecha,Hora
Ana Pérez,1020304050,Botox,2024-05-10,10:00 AM
Luis Gómez,987654321,Depilación Láser,2024-05-11,11:30 AM
,,,
`

func TestFeedRefreshParsesRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(feedCSV))
	}))
	defer srv.Close()

	feed := NewFeed(srv.URL, logging.Default())
	require.NoError(t, feed.Refresh(context.Background()))

	rows := feed.Appointments()
	require.Len(t, rows, 2, "empty rows are skipped")
	assert.Equal(t, "Ana Pérez", rows[0].Name)
	assert.Equal(t, "1020304050", rows[0].CitizenID)
	assert.Equal(t, "Botox", rows[0].Treatment)
	assert.Equal(t, "2024-05-10", rows[0].Date)
	assert.Equal(t, "10:00 AM", rows[0].Time)
}

func TestFeedRefreshFailureKeepsSnapshot(t *testing.T) {
	fail := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(feedCSV))
	}))
	defer srv.Close()

	feed := NewFeed(srv.URL, logging.Default())
	require.NoError(t, feed.Refresh(context.Background()))

	fail = true
	require.Error(t, feed.Refresh(context.Background()))
	assert.Len(t, feed.Appointments(), 2, "previous snapshot survives a failed refresh")
}

func TestFeedEmptyURLIsNoop(t *testing.T) {
	feed := NewFeed("", logging.Default())
	require.NoError(t, feed.Refresh(context.Background()))
	assert.Empty(t, feed.Appointments())
}

func TestSystemPromptContents(t *testing.T) {
	today := time.Date(2024, 5, 6, 8, 0, 0, 0, time.UTC)
	prompt := SystemPrompt(today, []Appointment{
		{Name: "Ana Pérez", CitizenID: "1020304050", Treatment: "Botox", Date: "2024-05-10", Time: "10:00 AM"},
	})

	assert.Contains(t, prompt, "Hoy es 2024-05-06.")
	assert.Contains(t, prompt, "Ana Pérez de cédula 1020304050 tiene cita para Botox el 2024-05-10 a las 10:00 AM")
	assert.Contains(t, prompt, "BOTX001")
	assert.Contains(t, prompt, "rango de 2 semanas")
	assert.Contains(t, prompt, "anterior a hoy (2024-05-06)")
}

func TestSystemPromptWithoutAppointments(t *testing.T) {
	prompt := SystemPrompt(time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), nil)
	assert.Contains(t, prompt, "No hay citas registradas.")
}

func TestListingMentionsEveryCatalogID(t *testing.T) {
	for _, id := range []string{"BOTX001", "HALU002", "DLZR003", "PIEL004", "CREMA-ANTIENVE-001"} {
		if !strings.Contains(Listing(), id) {
			t.Errorf("catalog listing missing %s", id)
		}
	}
}
