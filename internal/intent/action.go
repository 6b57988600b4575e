// Package intent defines the closed set of structured actions the model may
// select, and decodes a model tool call into exactly one of them. The
// dispatcher is a total function over these variants; there is no
// string-keyed dispatch past this boundary.
package intent

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Model-facing action names.
const (
	NameSchedule    = "schedule_appointment"
	NameReschedule  = "reschedule_appointment"
	NameCancel      = "cancel_appointment"
	NamePurchase    = "purchase_product"
	NameCatalog     = "get_products_and_services"
	NameCurrentDate = "get_current_date"
)

// Action is one of the structured intents the model can select. The
// interface is sealed: only the variants in this package implement it.
type Action interface {
	isAction()
}

// ScheduleAction books a new appointment.
type ScheduleAction struct {
	Name          string `json:"nombre"`
	CitizenID     string `json:"cedula"`
	TreatmentID   string `json:"treatmentID"`
	TreatmentName string `json:"treatment_name"`
	Email         string `json:"email"`
	Date          string `json:"date"`
	Time          string `json:"time"`
}

func (ScheduleAction) isAction() {}

// AppointmentID derives the deterministic appointment identifier:
// treatment id concatenated with the citizen id. The same person booking
// the same treatment twice maps to the same id on purpose, so the webhook
// side can treat the re-booking as idempotent.
func (a ScheduleAction) AppointmentID() string {
	return a.TreatmentID + a.CitizenID
}

// RescheduleAction moves an existing appointment to a new slot.
type RescheduleAction struct {
	Name          string `json:"nombre"`
	CitizenID     string `json:"cedula"`
	AppointmentID string `json:"appointment_id"`
	TreatmentName string `json:"treatment_name"`
	Email         string `json:"email"`
	NewDate       string `json:"new_date"`
	NewTime       string `json:"new_time"`
}

func (RescheduleAction) isAction() {}

// CancelAction cancels an existing appointment.
type CancelAction struct {
	Name          string `json:"nombre"`
	CitizenID     string `json:"cedula"`
	AppointmentID string `json:"appointment_id"`
	TreatmentName string `json:"treatment_name"`
	Email         string `json:"email"`
}

func (CancelAction) isAction() {}

// PurchaseAction registers a product purchase.
type PurchaseAction struct {
	ProductID string `json:"product_id"`
}

func (PurchaseAction) isAction() {}

// CatalogAction requests the static catalog listing. No validation and no
// external dispatch.
type CatalogAction struct{}

func (CatalogAction) isAction() {}

// CurrentDateAction asks for today's date.
type CurrentDateAction struct{}

func (CurrentDateAction) isAction() {}

// ErrUnknownAction reports a tool-call name outside the closed set.
type ErrUnknownAction struct {
	Name string
}

func (e ErrUnknownAction) Error() string {
	return fmt.Sprintf("intent: unknown action %q", e.Name)
}

// Parse decodes a tool call (name plus raw JSON arguments) into its
// variant. Malformed argument JSON is an error; it must never escape past
// the dispatcher as anything but a re-prompt to the user.
func Parse(name, argsJSON string) (Action, error) {
	switch name {
	case NameSchedule:
		var a ScheduleAction
		if err := decode(argsJSON, &a); err != nil {
			return nil, err
		}
		return a, nil
	case NameReschedule:
		var a RescheduleAction
		if err := decode(argsJSON, &a); err != nil {
			return nil, err
		}
		return a, nil
	case NameCancel:
		var a CancelAction
		if err := decode(argsJSON, &a); err != nil {
			return nil, err
		}
		return a, nil
	case NamePurchase:
		var a PurchaseAction
		if err := decode(argsJSON, &a); err != nil {
			return nil, err
		}
		return a, nil
	case NameCatalog:
		return CatalogAction{}, nil
	case NameCurrentDate:
		return CurrentDateAction{}, nil
	default:
		return nil, ErrUnknownAction{Name: name}
	}
}

func decode(argsJSON string, into any) error {
	if err := json.Unmarshal([]byte(argsJSON), into); err != nil {
		return fmt.Errorf("intent: malformed action arguments: %w", err)
	}
	return nil
}

// HasSchedulingIntent reports whether the user text mentions scheduling,
// rescheduling or cancelling an appointment. It gates whether the
// get_current_date tool is offered to the model.
func HasSchedulingIntent(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "agendar cita") ||
		strings.Contains(lower, "reagendar cita") ||
		strings.Contains(lower, "cancelar cita")
}
