// Package checkout implementa el inicio del flujo de pago: crea una
// sesión de checkout en el procesador y devuelve su URL.
package checkout

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

// Service describe la lógica de negocio del checkout.
type Service interface {
	CreateCheckout(ctx context.Context, accountUID, planID string) (string, error)
}

// Handler atiende el inicio del checkout.
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
// @Summary Iniciar el pago de un plan
// @Description Crea una sesión de checkout para el plan elegido y devuelve la URL de redirección.
// @Tags Billing
// @Accept json
// @Produce json
// @Param request body models.DummyCheckout true "Plan elegido"
// @Success 200 {object} map[string]any "URL de la sesión"
// @Failure 422 {object} response.ErrorResponse "Error de validación"
// @Failure 500 {object} response.ErrorResponse "Error del procesador de pagos"
// @Router /billing/checkout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billingops.checkout"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyCheckout
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

	url, err := h.service.CreateCheckout(r.Context(), accountUID, req.PlanID)
	if err != nil {
		log.Error("failed to create checkout session", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create checkout session"))
		return
	}

	log.Info("checkout session created", slog.String("plan_id", req.PlanID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"checkout_url": url,
	}))
}
