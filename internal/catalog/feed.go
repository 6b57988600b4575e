package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bellavida/clinic-concierge/pkg/logging"
)

// Appointment is one row of the clinic spreadsheet's CSV export.
type Appointment struct {
	Name      string
	CitizenID string
	Treatment string
	Date      string
	Time      string
}

// Feed fetches the appointments CSV export and caches the parsed rows. The
// feed only seeds the system prompt; it is a cold-start snapshot refreshed
// on an interval, never queried per request.
type Feed struct {
	url        string
	httpClient *http.Client
	logger     *logging.Logger

	mu   sync.RWMutex
	rows []Appointment
}

// NewFeed creates a feed reader for the given CSV export URL. An empty URL
// yields a feed that always reports no appointments.
func NewFeed(url string, logger *logging.Logger) *Feed {
	if logger == nil {
		logger = logging.Default()
	}
	return &Feed{
		url: url,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

// Appointments returns the last successfully fetched snapshot.
func (f *Feed) Appointments() []Appointment {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]Appointment(nil), f.rows...)
}

// Refresh fetches and parses the feed, replacing the snapshot on success.
// Failure leaves the previous snapshot in place and is not fatal.
func (f *Feed) Refresh(ctx context.Context) error {
	if f.url == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return fmt.Errorf("catalog: failed to build feed request: %w", err)
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("catalog: feed fetch failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog: feed returned status %d", resp.StatusCode)
	}

	rows, err := parseAppointments(csv.NewReader(resp.Body))
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.rows = rows
	f.mu.Unlock()
	f.logger.Info("appointments feed refreshed", "rows", len(rows))
	return nil
}

// Run refreshes the feed on the given interval until ctx is cancelled.
func (f *Feed) Run(ctx context.Context, interval time.Duration) {
	if f.url == "" || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := f.Refresh(ctx); err != nil {
				f.logger.Warn("appointments feed refresh failed", "error", err)
			}
		}
	}
}

// parseAppointments reads a header row then maps the named columns. Extra
// columns are ignored; rows missing a date or time are skipped.
func parseAppointments(r *csv.Reader) ([]Appointment, error) {
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("catalog: failed to parse feed csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	col := map[string]int{}
	for i, name := range records[0] {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}

	field := func(record []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var rows []Appointment
	for _, record := range records[1:] {
		appt := Appointment{
			Name:      field(record, "nombre"),
			CitizenID: field(record, "cedula"),
			Treatment: field(record, "tratamiento"),
			Date:      field(record, "fecha"),
			Time:      field(record, "hora"),
		}
		if appt.Date == "" && appt.Time == "" {
			continue
		}
		rows = append(rows, appt)
	}
	return rows, nil
}
