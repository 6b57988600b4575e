package intent

import (
	"encoding/json"

	openai "github.com/sashabaranov/go-openai"
)

// Tools returns the tool schema offered to the model. get_current_date is
// only exposed when the user text shows scheduling intent, keeping the
// default tool surface minimal.
func Tools(includeCurrentDate bool) []openai.Tool {
	tools := []openai.Tool{
		functionTool(NameSchedule,
			"Agendar una nueva cita para un cliente de Estética BellaVida. "+
				"Datos obligatorios: nombre, cedula, treatmentID, treatment_name, email, date, time. "+
				"Verificar fecha y hora según las reglas.",
			scheduleParams),
		functionTool(NameReschedule,
			"Reagendar una cita existente de Estética BellaVida a una nueva fecha y hora. "+
				"Datos obligatorios: nombre, cedula, appointment_id, treatment_name, email, new_date, new_time.",
			rescheduleParams),
		functionTool(NameCancel,
			"Cancelar una cita existente para un cliente de Estética BellaVida. "+
				"Datos obligatorios: nombre, cedula, appointment_id, treatment_name, email.",
			cancelParams),
		functionTool(NamePurchase,
			"Registrar la compra de un producto en Estética BellaVida.",
			purchaseParams),
		functionTool(NameCatalog,
			"Obtiene el catálogo completo de productos y servicios de Estética BellaVida.",
			emptyParams),
	}
	if includeCurrentDate {
		tools = append(tools, functionTool(NameCurrentDate,
			"Obtiene la fecha actual en Bogotá.",
			emptyParams))
	}
	return tools
}

func functionTool(name, description string, params json.RawMessage) openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        name,
			Description: description,
			Parameters:  params,
		},
	}
}

var (
	scheduleParams = json.RawMessage(`{
		"type": "object",
		"properties": {
			"nombre": {"type": "string", "description": "Nombre completo del paciente."},
			"cedula": {"type": "string", "description": "Cédula de ciudadanía del cliente."},
			"treatmentID": {"type": "string", "description": "ID del tratamiento (ej. BOTX001)."},
			"treatment_name": {"type": "string", "description": "Nombre del tratamiento (ej. Botox)."},
			"email": {"type": "string", "description": "Correo electrónico del cliente."},
			"date": {"type": "string", "description": "Fecha de la cita en formato YYYY-MM-DD o palabra relativa."},
			"time": {"type": "string", "description": "Hora de la cita en formato 12 horas (HH:MM AM/PM)."}
		},
		"required": ["nombre", "cedula", "treatmentID", "treatment_name", "email", "date", "time"]
	}`)

	rescheduleParams = json.RawMessage(`{
		"type": "object",
		"properties": {
			"nombre": {"type": "string", "description": "Nombre completo del paciente."},
			"cedula": {"type": "string", "description": "Cédula de ciudadanía del cliente."},
			"appointment_id": {"type": "string", "description": "ID de la cita a reagendar (treatmentID + cedula)."},
			"treatment_name": {"type": "string", "description": "Nombre del tratamiento (ej. Botox)."},
			"email": {"type": "string", "description": "Correo electrónico del cliente."},
			"new_date": {"type": "string", "description": "Nueva fecha en formato YYYY-MM-DD o palabra relativa."},
			"new_time": {"type": "string", "description": "Nueva hora en formato 12 horas (HH:MM AM/PM)."}
		},
		"required": ["nombre", "cedula", "appointment_id", "treatment_name", "email", "new_date", "new_time"]
	}`)

	cancelParams = json.RawMessage(`{
		"type": "object",
		"properties": {
			"nombre": {"type": "string", "description": "Nombre completo del paciente."},
			"cedula": {"type": "string", "description": "Cédula de ciudadanía del cliente."},
			"appointment_id": {"type": "string", "description": "ID de la cita a cancelar (treatmentID + cedula)."},
			"treatment_name": {"type": "string", "description": "Nombre del tratamiento (ej. Botox)."},
			"email": {"type": "string", "description": "Correo electrónico del cliente."}
		},
		"required": ["nombre", "cedula", "appointment_id", "treatment_name", "email"]
	}`)

	purchaseParams = json.RawMessage(`{
		"type": "object",
		"properties": {
			"product_id": {"type": "string", "description": "ID del producto a comprar."}
		},
		"required": ["product_id"]
	}`)

	emptyParams = json.RawMessage(`{"type": "object", "properties": {}}`)
)
