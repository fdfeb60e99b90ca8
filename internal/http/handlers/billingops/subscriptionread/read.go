// Package subscriptionread implementa la consulta del estado de
// suscripción de la cuenta autenticada.
package subscriptionread

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/middlewarectx"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/response"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/lib/sl"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/models"
)

// Service describe la consulta del registro de suscriptor. Devuelve nil
// sin error cuando la cuenta no tiene registro.
type Service interface {
	GetSubscriber(ctx context.Context, accountUID string) (*models.Subscriber, error)
}

// Handler atiende la consulta del estado de suscripción.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New crea el Handler con el logger y el servicio indicados.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Consultar la suscripción
// @Description Devuelve el registro de suscriptor de la cuenta, o null si nunca contrató.
// @Tags Billing
// @Produce json
// @Success 200 {object} map[string]any "Registro de suscriptor"
// @Failure 500 {object} response.ErrorResponse "Error al consultar"
// @Router /billing/subscription [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billingops.subscriptionread"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	accountUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || accountUID == "" {
		log.Error("account uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	sub, err := h.service.GetSubscriber(r.Context(), accountUID)
	if err != nil {
		log.Error("failed to read subscriber", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read subscription"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"subscription": sub,
	}))
}
