// Package webhook implementa el receptor de eventos del procesador de
// pagos.
//
// El cuerpo se verifica con la firma HMAC del encabezado
// X-Api-Signature; una firma ausente o incorrecta devuelve 400 sin
// procesar nada. Los eventos reconocidos se aplican al registro de
// suscriptor; los desconocidos se registran y se confirman igualmente
// con 200 para que el procesador no los reintente.
package webhook

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/billing"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/response"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/lib/sl"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/metrics"
)

// Service describe la aplicación de eventos al registro de suscriptor.
type Service interface {
	ApplyEvent(ctx context.Context, event *billing.Event) error
}

// Handler atiende los webhooks del procesador de pagos.
type Handler struct {
	log           *slog.Logger
	service       Service
	webhookSecret string
}

// New crea el Handler con el logger, el servicio y el secreto de firma.
func New(log *slog.Logger, service Service, secret string) *Handler {
	return &Handler{
		log:           log,
		service:       service,
		webhookSecret: secret,
	}
}

// ServeHTTP godoc
// @Summary Recibir un webhook de facturación
// @Description Verifica la firma HMAC y aplica el evento al registro de suscriptor. Responde {"received": true}.
// @Tags Billing
// @Accept json
// @Produce json
// @Success 200 {object} map[string]bool "Evento confirmado"
// @Failure 400 {object} response.ErrorResponse "Firma o cuerpo inválidos"
// @Router /billing/webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billingops.webhook"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid body"))
		return
	}
	defer func() { _ = r.Body.Close() }()

	signature := r.Header.Get("X-Api-Signature")
	if signature == "" || !billing.VerifySignature(h.webhookSecret, body, signature) {
		metrics.WebhookEventsTotal.WithLabelValues("unknown", "bad_signature").Inc()
		log.Error("invalid or missing webhook signature")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid signature"))
		return
	}

	event, err := billing.DecodeEvent(body)
	if err != nil {
		if event != nil {
			// Tipo desconocido: se confirma para evitar reintentos.
			metrics.WebhookEventsTotal.WithLabelValues(event.Type, "ignored").Inc()
			log.Info("ignored webhook event", slog.String("event", event.Type))
			render.JSON(w, r, map[string]bool{"received": true})
			return
		}
		metrics.WebhookEventsTotal.WithLabelValues("unknown", "bad_payload").Inc()
		log.Error("failed to decode webhook payload", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid payload"))
		return
	}

	if err := h.service.ApplyEvent(r.Context(), event); err != nil {
		metrics.WebhookEventsTotal.WithLabelValues(event.Type, "failed").Inc()
		log.Error("failed to apply webhook event", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not apply event"))
		return
	}

	metrics.WebhookEventsTotal.WithLabelValues(event.Type, "applied").Inc()
	log.Info("webhook event applied",
		slog.String("event", event.Type),
		slog.String("event_id", event.ID))
	render.JSON(w, r, map[string]bool{"received": true})
}
