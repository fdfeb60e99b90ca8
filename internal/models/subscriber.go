package models

import "time"

// Estados posibles del registro de suscriptor. Solo el manejador de
// webhooks del procesador de pagos los modifica.
const (
	SubStatusIncomplete = "incomplete"
	SubStatusTrialing   = "trialing"
	SubStatusActive     = "active"
	SubStatusPastDue    = "past_due"
	SubStatusCanceled   = "canceled"
)

// Subscriber representa el estado de facturación y titularidad de una
// cuenta. Existe a lo sumo un registro por cuenta y se actualiza por
// sobreescritura de campos (upsert), por lo que la reentrega del mismo
// evento de webhook es idempotente.
type Subscriber struct {
	AccountUID        string    `json:"account_uid"`          // Coincide con el UID de la cuenta
	CustomerID        string    `json:"customer_id"`          // Cliente en el procesador de pagos
	PlanID            string    `json:"plan_id"`              // Plan contratado
	Status            string    `json:"status"`               // Estado enumerado
	CurrentPeriodEnd  time.Time `json:"current_period_end"`   // Fin del periodo pagado
	CancelAtPeriodEnd bool      `json:"cancel_at_period_end"` // Cancelación pendiente
	UpdatedAt         time.Time `json:"updated_at"`
}
