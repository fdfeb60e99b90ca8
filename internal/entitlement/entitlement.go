// Package entitlement resuelve si una cuenta tiene acceso a las rutas
// protegidas por suscripción. La decisión es una función pura sobre el
// registro de suscriptor; el registro solo lo muta el manejador de
// webhooks del procesador de pagos.
package entitlement

import (
	"time"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/models"
)

// Reason clasifica una denegación de acceso. Se propaga como parámetro
// `reason` en la redirección a la página de precios.
type Reason string

const (
	// ReasonNone indica acceso concedido.
	ReasonNone Reason = ""
	// ReasonNoSubscription indica ausencia de suscripción vigente.
	ReasonNoSubscription Reason = "no_subscription"
	// ReasonPaymentFailed indica un último cobro fallido (past_due).
	ReasonPaymentFailed Reason = "payment_failed"
)

// Decision es el resultado de evaluar el registro de suscriptor.
type Decision struct {
	Allowed bool
	Reason  Reason
}

// Resolve evalúa el registro de suscriptor en el instante now. Las
// reglas se aplican en orden y gana la primera que coincide:
//
//  1. Sin registro: denegado, no_subscription.
//  2. Estado active o trialing: concedido.
//  3. Cancelación pendiente con fin de periodo estrictamente posterior
//     a now: concedido (la titularidad dura hasta agotar lo pagado).
//  4. En otro caso: denegado; payment_failed si el último estado fue
//     past_due, no_subscription en el resto.
//
// En el límite exacto del fin de periodo el acceso se deniega.
func Resolve(sub *models.Subscriber, now time.Time) Decision {
	if sub == nil {
		return Decision{Allowed: false, Reason: ReasonNoSubscription}
	}

	switch sub.Status {
	case models.SubStatusActive, models.SubStatusTrialing:
		return Decision{Allowed: true}
	}

	if sub.CancelAtPeriodEnd && sub.CurrentPeriodEnd.After(now) {
		return Decision{Allowed: true}
	}

	if sub.Status == models.SubStatusPastDue {
		return Decision{Allowed: false, Reason: ReasonPaymentFailed}
	}
	return Decision{Allowed: false, Reason: ReasonNoSubscription}
}
