// Package pushunsubscribe implementa la baja de suscripciones push.
package pushunsubscribe

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/response"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/lib/sl"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/models"
)

// Service describe la lógica de negocio de la baja.
type Service interface {
	Unsubscribe(ctx context.Context, endpoint string) error
}

// Handler atiende la baja de suscripciones push.
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
// @Summary Dar de baja una suscripción push
// @Description Elimina el endpoint indicado. Dar de baja un endpoint desconocido no es un error.
// @Tags Push
// @Accept json
// @Produce json
// @Param request body models.DummyPushUnsubscribe true "Endpoint a eliminar"
// @Success 200 {object} response.Response "Suscripción eliminada"
// @Failure 422 {object} response.ErrorResponse "Error de validación"
// @Router /push/subscriptions [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.push.unsubscribe"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyPushUnsubscribe
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

	if err := h.service.Unsubscribe(r.Context(), req.Endpoint); err != nil {
		log.Error("failed to remove push subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove push subscription"))
		return
	}

	log.Info("push subscription removed")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"removed": req.Endpoint,
	}))
}
