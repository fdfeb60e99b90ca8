// Package pushsubscribe implementa el registro de la suscripción web
// push del navegador de la cuenta.
package pushsubscribe

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/middlewarectx"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/response"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/lib/sl"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/models"
)

// Service describe la lógica de negocio del registro de suscripciones.
type Service interface {
	Subscribe(ctx context.Context, accountUID string, dummy models.DummyPushSubscription) (int, error)
}

// Handler atiende el registro de suscripciones push.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New crea el Handler con el logger y el servicio indicados.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Registrar una suscripción push
// @Description Guarda el objeto PushSubscription del navegador. Repetir un endpoint lo reasigna a la cuenta actual.
// @Tags Push
// @Accept json
// @Produce json
// @Param request body models.DummyPushSubscription true "Suscripción del navegador"
// @Success 200 {object} map[string]any "Suscripción registrada"
// @Failure 422 {object} response.ErrorResponse "Error de validación"
// @Router /push/subscriptions [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.push.subscribe"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyPushSubscription
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	accountUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || accountUID == "" {
		log.Error("account uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	id, err := h.service.Subscribe(r.Context(), accountUID, req)
	if err != nil {
		log.Error("failed to register push subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not register push subscription"))
		return
	}

	log.Info("push subscription registered", slog.Int("subscription_id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"subscription_id": id,
	}))
}
