// Package dispatch validates structured actions selected by the model and
// drives the downstream webhook. Rejections never reach the webhook;
// webhook failures never reach the user as raw errors.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/bellavida/clinic-concierge/internal/catalog"
	"github.com/bellavida/clinic-concierge/internal/intent"
	"github.com/bellavida/clinic-concierge/internal/observability/metrics"
	"github.com/bellavida/clinic-concierge/internal/schedule"
	"github.com/bellavida/clinic-concierge/internal/webhook"
	"github.com/bellavida/clinic-concierge/pkg/logging"
)

// Clock abstracts time.Now so "today" is fixed in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// User-facing replies. All deterministic: confirmations echo the validated
// input fields, never webhook response content.
const (
	replyParseError = "❌ Hubo un problema interpretando tu solicitud. ¿Puedes expresarla de otra manera?"
	replyUnknown    = "Lo siento, no pude procesar esa solicitud."

	replyPastDate      = "❗ La fecha indicada es anterior a hoy. Por favor, proporciona una fecha válida."
	replyOutOfHours    = "❗ La hora o fecha ingresada está fuera del horario comercial. Revisa por favor."
	replyPastNewDate   = "❗ La nueva fecha indicada es anterior a hoy. Por favor, proporciona una fecha válida."
	replyNewOutOfHours = "❗ La nueva hora o fecha está fuera del horario comercial. Revisa por favor."
	replyBeyondHorizon = "❗ Solo agendamos citas dentro de las próximas 2 semanas. Por favor, elige una fecha más cercana."

	replyScheduleFailed   = "Lo siento, no pudimos agendar tu cita en este momento. Por favor, intenta más tarde."
	replyRescheduleFailed = "Lo siento, no pudimos reagendar tu cita en este momento. Por favor, intenta más tarde."
	replyCancelFailed     = "Lo siento, no pudimos cancelar tu cita en este momento. Por favor, intenta más tarde."
	replyPurchaseFailed   = "Lo siento, no pudimos procesar tu compra en este momento. Por favor, intenta más tarde."
)

// Dispatcher executes structured actions after validating them.
type Dispatcher struct {
	webhook webhook.Dispatcher
	clock   Clock
	metrics *metrics.ConversationMetrics
	logger  *logging.Logger
}

// New creates a dispatcher. metrics may be nil.
func New(hook webhook.Dispatcher, clock Clock, m *metrics.ConversationMetrics, logger *logging.Logger) *Dispatcher {
	if hook == nil {
		panic("dispatch: webhook dispatcher cannot be nil")
	}
	if clock == nil {
		clock = systemClock{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Dispatcher{
		webhook: hook,
		clock:   clock,
		metrics: m,
		logger:  logger,
	}
}

// HandleToolCall decodes a model tool call and executes it. It always
// returns a user-facing reply; the error classifies what happened
// (ErrParse, ErrValidation, ErrCollaborator) and is nil on success.
func (d *Dispatcher) HandleToolCall(ctx context.Context, senderID, name, argsJSON string) (string, error) {
	action, err := intent.Parse(name, argsJSON)
	if err != nil {
		d.logger.Warn("failed to decode tool call", "tool", name, "error", err)
		d.observe(name, "parse_error")
		if _, unknown := err.(intent.ErrUnknownAction); unknown {
			return replyUnknown, fmt.Errorf("%w: %v", ErrParse, err)
		}
		return replyParseError, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return d.Dispatch(ctx, senderID, action)
}

// Dispatch validates the action and performs its side effect. It is total
// over the closed variant set.
func (d *Dispatcher) Dispatch(ctx context.Context, senderID string, action intent.Action) (string, error) {
	switch a := action.(type) {
	case intent.ScheduleAction:
		return d.schedule(ctx, senderID, a)
	case intent.RescheduleAction:
		return d.reschedule(ctx, a)
	case intent.CancelAction:
		return d.cancel(ctx, a)
	case intent.PurchaseAction:
		return d.purchase(ctx, a)
	case intent.CatalogAction:
		d.observe(intent.NameCatalog, "replied")
		return catalog.Listing(), nil
	case intent.CurrentDateAction:
		d.observe(intent.NameCurrentDate, "replied")
		return fmt.Sprintf("Hoy es %s.", schedule.ISODate(d.clock.Now())), nil
	default:
		// Unreachable while intent's variant set stays closed.
		d.observe("unknown", "parse_error")
		return replyUnknown, fmt.Errorf("%w: unhandled action %T", ErrParse, action)
	}
}

func (d *Dispatcher) schedule(ctx context.Context, senderID string, a intent.ScheduleAction) (string, error) {
	today := d.clock.Now()
	date := schedule.ResolveDate(a.Date, today)

	if reply, err := d.validateSlot(date, a.Time, today, false); err != nil {
		d.observe(webhook.TypeSchedule, "rejected")
		return reply, err
	}

	payload := webhook.SchedulePayload{
		Type:          webhook.TypeSchedule,
		SenderID:      senderID,
		AppointmentID: a.AppointmentID(),
		Name:          a.Name,
		CitizenID:     a.CitizenID,
		TreatmentID:   a.TreatmentID,
		TreatmentName: a.TreatmentName,
		Email:         a.Email,
		Date:          date,
		Time:          a.Time,
	}
	if err := d.send(ctx, webhook.TypeSchedule, payload); err != nil {
		return replyScheduleFailed, err
	}

	reply := fmt.Sprintf("✅ Tu cita ha sido agendada exitosamente:\n"+
		"• ID de cita: %s\n"+
		"• Cédula: %s\n"+
		"• Correo: %s\n"+
		"• Tratamiento: %s\n"+
		"• Fecha: %s\n"+
		"• Hora: %s",
		a.AppointmentID(), a.CitizenID, a.Email, a.TreatmentName, date, a.Time)
	return reply, nil
}

func (d *Dispatcher) reschedule(ctx context.Context, a intent.RescheduleAction) (string, error) {
	today := d.clock.Now()
	newDate := schedule.ResolveDate(a.NewDate, today)

	if reply, err := d.validateSlot(newDate, a.NewTime, today, true); err != nil {
		d.observe(webhook.TypeReschedule, "rejected")
		return reply, err
	}

	payload := webhook.ReschedulePayload{
		Type:          webhook.TypeReschedule,
		AppointmentID: a.AppointmentID,
		Name:          a.Name,
		CitizenID:     a.CitizenID,
		TreatmentName: a.TreatmentName,
		Email:         a.Email,
		NewDate:       newDate,
		NewTime:       a.NewTime,
	}
	if err := d.send(ctx, webhook.TypeReschedule, payload); err != nil {
		return replyRescheduleFailed, err
	}

	reply := fmt.Sprintf("✅ Tu cita ha sido reagendada exitosamente:\n"+
		"• ID de cita: %s\n"+
		"• Cédula: %s\n"+
		"• Correo: %s\n"+
		"• Nuevo tratamiento: %s\n"+
		"• Nueva fecha: %s\n"+
		"• Nueva hora: %s",
		a.AppointmentID, a.CitizenID, a.Email, a.TreatmentName, newDate, a.NewTime)
	return reply, nil
}

func (d *Dispatcher) cancel(ctx context.Context, a intent.CancelAction) (string, error) {
	payload := webhook.CancelPayload{
		Type:          webhook.TypeCancel,
		AppointmentID: a.AppointmentID,
		Name:          a.Name,
		CitizenID:     a.CitizenID,
		TreatmentName: a.TreatmentName,
		Email:         a.Email,
	}
	if err := d.send(ctx, webhook.TypeCancel, payload); err != nil {
		return replyCancelFailed, err
	}

	reply := fmt.Sprintf("✅ Tu cita ha sido cancelada exitosamente:\n"+
		"• ID de cita: %s\n"+
		"• Cédula: %s\n"+
		"• Correo: %s\n"+
		"• Tratamiento: %s",
		a.AppointmentID, a.CitizenID, a.Email, a.TreatmentName)
	return reply, nil
}

func (d *Dispatcher) purchase(ctx context.Context, a intent.PurchaseAction) (string, error) {
	payload := webhook.PurchasePayload{
		Type:      webhook.TypePurchase,
		ProductID: a.ProductID,
	}
	if err := d.send(ctx, webhook.TypePurchase, payload); err != nil {
		return replyPurchaseFailed, err
	}

	reply := fmt.Sprintf("✅ Tu compra ha sido registrada:\n"+
		"• ID de producto: %s\n"+
		"Nos pondremos en contacto para los detalles de pago y envío.", a.ProductID)
	return reply, nil
}

// validateSlot runs the gate every schedule/reschedule must pass before any
// side effect: past-date, booking horizon, business hours — in that order.
// An unparseable time counts as out-of-hours, not a crash.
func (d *Dispatcher) validateSlot(date, time12h string, today time.Time, rescheduling bool) (string, error) {
	pastReply, hoursReply := replyPastDate, replyOutOfHours
	if rescheduling {
		pastReply, hoursReply = replyPastNewDate, replyNewOutOfHours
	}

	if schedule.IsPastDate(date, today) {
		return pastReply, fmt.Errorf("%w: date %s is in the past", ErrValidation, date)
	}
	if !schedule.WithinBookingHorizon(date, today) {
		return replyBeyondHorizon, fmt.Errorf("%w: date %s beyond booking horizon", ErrValidation, date)
	}
	ok, err := schedule.WithinBusinessHours(date, time12h)
	if err != nil {
		return hoursReply, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if !ok {
		return hoursReply, fmt.Errorf("%w: %s %s outside business hours", ErrValidation, date, time12h)
	}
	return "", nil
}

// send posts the payload and maps any failure to ErrCollaborator.
func (d *Dispatcher) send(ctx context.Context, actionType string, payload any) error {
	start := time.Now()
	err := d.webhook.Dispatch(ctx, payload)
	if d.metrics != nil {
		d.metrics.ObserveWebhookLatency(actionType, time.Since(start).Seconds())
	}
	if err != nil {
		d.logger.Error("webhook dispatch failed", "action", actionType, "error", err)
		d.observe(actionType, "failed")
		return fmt.Errorf("%w: %v", ErrCollaborator, err)
	}
	d.observe(actionType, "dispatched")
	return nil
}

func (d *Dispatcher) observe(action, outcome string) {
	d.metrics.ObserveDispatch(action, outcome)
}
