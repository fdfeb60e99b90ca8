// Package metrics registra los contadores Prometheus del servicio.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WebhookEventsTotal cuenta los eventos de webhook por tipo y resultado.
	WebhookEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulsoazul_webhook_events_total",
		Help: "Webhook events received from the payment processor.",
	}, []string{"event", "result"})

	// PushSendsTotal cuenta los envíos push por resultado (sent, gone, failed).
	PushSendsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulsoazul_push_sends_total",
		Help: "Web push deliveries by result.",
	}, []string{"result"})

	// GateDecisionsTotal cuenta las decisiones del control de acceso.
	GateDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulsoazul_gate_decisions_total",
		Help: "Access gate decisions by outcome.",
	}, []string{"outcome"})
)
