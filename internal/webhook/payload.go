package webhook

// Payload type discriminators understood by the downstream system of record.
const (
	TypeSchedule   = "agendar"
	TypeReschedule = "reagendar"
	TypeCancel     = "cancelar"
	TypePurchase   = "compra"
)

// SchedulePayload registers a new appointment.
type SchedulePayload struct {
	Type          string `json:"type"`
	SenderID      string `json:"numero"`
	AppointmentID string `json:"appointment_id"`
	Name          string `json:"nombre"`
	CitizenID     string `json:"cedula"`
	TreatmentID   string `json:"treatment_id"`
	TreatmentName string `json:"treatment_name"`
	Email         string `json:"email"`
	Date          string `json:"date"`
	Time          string `json:"time"`
}

// ReschedulePayload moves an existing appointment.
type ReschedulePayload struct {
	Type          string `json:"type"`
	AppointmentID string `json:"appointment_id"`
	Name          string `json:"nombre"`
	CitizenID     string `json:"cedula"`
	TreatmentName string `json:"treatment_name"`
	Email         string `json:"email"`
	NewDate       string `json:"new_date"`
	NewTime       string `json:"new_time"`
}

// CancelPayload cancels an existing appointment.
type CancelPayload struct {
	Type          string `json:"type"`
	AppointmentID string `json:"appointment_id"`
	Name          string `json:"nombre"`
	CitizenID     string `json:"cedula"`
	TreatmentName string `json:"treatment_name"`
	Email         string `json:"email"`
}

// PurchasePayload registers a product purchase.
type PurchasePayload struct {
	Type      string `json:"type"`
	ProductID string `json:"product_id"`
}
