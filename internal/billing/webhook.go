package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

// Tipos de evento reconocidos del procesador de pagos.
const (
	EventCheckoutCompleted       = "checkout.session.completed"
	EventInvoicePaymentSucceeded = "invoice.payment_succeeded"
	EventInvoicePaymentFailed    = "invoice.payment_failed"
	EventSubscriptionUpdated     = "customer.subscription.updated"
	EventSubscriptionDeleted     = "customer.subscription.deleted"
)

// ErrUnknownEvent marca un tipo de evento no reconocido. El manejador lo
// registra y responde 200 igualmente para no provocar reentregas.
var ErrUnknownEvent = errors.New("unknown webhook event type")

// envelope es la forma externa de todo evento entregado por webhook.
type envelope struct {
	ID   string          `json:"id"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// CheckoutCompletedData es el cuerpo de checkout.session.completed.
type CheckoutCompletedData struct {
	SessionID        string            `json:"session_id"`
	CustomerID       string            `json:"customer_id"`
	SubscriptionID   string            `json:"subscription_id"`
	PlanID           string            `json:"plan_id"`
	Trial            bool              `json:"trial"`
	CurrentPeriodEnd int64             `json:"current_period_end"` // Segundos unix
	Metadata         map[string]string `json:"metadata"`
}

// InvoiceData es el cuerpo de invoice.payment_succeeded y
// invoice.payment_failed.
type InvoiceData struct {
	InvoiceID        string            `json:"invoice_id"`
	CustomerID       string            `json:"customer_id"`
	SubscriptionID   string            `json:"subscription_id"`
	CurrentPeriodEnd int64             `json:"current_period_end"`
	Metadata         map[string]string `json:"metadata"`
}

// SubscriptionData es el cuerpo de customer.subscription.updated y
// customer.subscription.deleted.
type SubscriptionData struct {
	SubscriptionID    string            `json:"subscription_id"`
	CustomerID        string            `json:"customer_id"`
	PlanID            string            `json:"plan_id"`
	Status            string            `json:"status"`
	CurrentPeriodEnd  int64             `json:"current_period_end"`
	CancelAtPeriodEnd bool              `json:"cancel_at_period_end"`
	Metadata          map[string]string `json:"metadata"`
}

// Event es un evento de webhook ya decodificado y validado. Solo el
// campo correspondiente a Type está poblado.
type Event struct {
	ID           string
	Type         string
	Checkout     *CheckoutCompletedData
	Invoice      *InvoiceData
	Subscription *SubscriptionData
}

// AccountUID devuelve el account_uid de los metadatos del evento.
func (e *Event) AccountUID() string {
	var meta map[string]string
	switch {
	case e.Checkout != nil:
		meta = e.Checkout.Metadata
	case e.Invoice != nil:
		meta = e.Invoice.Metadata
	case e.Subscription != nil:
		meta = e.Subscription.Metadata
	}
	return meta["account_uid"]
}

// DecodeEvent valida y decodifica el cuerpo crudo de un webhook en un
// Event tipado según su tipo. Los tipos no reconocidos devuelven
// ErrUnknownEvent con el tipo en el Event parcial.
func DecodeEvent(body []byte) (*Event, error) {
	const op = "billing.DecodeEvent"

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("%s: missing event type", op)
	}

	event := &Event{ID: env.ID, Type: env.Type}
	switch env.Type {
	case EventCheckoutCompleted:
		var data CheckoutCompletedData
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if data.Metadata["account_uid"] == "" {
			return nil, fmt.Errorf("%s: checkout event without account_uid metadata", op)
		}
		event.Checkout = &data
	case EventInvoicePaymentSucceeded, EventInvoicePaymentFailed:
		var data InvoiceData
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if data.Metadata["account_uid"] == "" {
			return nil, fmt.Errorf("%s: invoice event without account_uid metadata", op)
		}
		event.Invoice = &data
	case EventSubscriptionUpdated, EventSubscriptionDeleted:
		var data SubscriptionData
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if data.Metadata["account_uid"] == "" {
			return nil, fmt.Errorf("%s: subscription event without account_uid metadata", op)
		}
		event.Subscription = &data
	default:
		return event, ErrUnknownEvent
	}
	return event, nil
}

// VerifySignature comprueba la firma HMAC-SHA256 en base64 del cuerpo
// crudo contra el secreto compartido, en tiempo constante.
func VerifySignature(secret string, body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expectedSig := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expectedSig), []byte(signature))
}
