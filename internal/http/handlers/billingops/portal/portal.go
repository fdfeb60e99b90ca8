// Package portal implementa el acceso al portal de facturación del
// procesador de pagos.
package portal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/middlewarectx"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/response"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/lib/sl"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/services/billing"
)

// Service describe la lógica de negocio del portal.
type Service interface {
	CreatePortal(ctx context.Context, accountUID string) (string, error)
}

// Handler atiende el acceso al portal de facturación.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New crea el Handler con el logger y el servicio indicados.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Abrir el portal de facturación
// @Description Crea una sesión del portal del procesador para gestionar la suscripción y devuelve su URL.
// @Tags Billing
// @Produce json
// @Success 200 {object} map[string]any "URL del portal"
// @Failure 404 {object} response.ErrorResponse "La cuenta nunca completó un checkout"
// @Failure 500 {object} response.ErrorResponse "Error del procesador de pagos"
// @Router /billing/portal [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billingops.portal"
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

	url, err := h.service.CreatePortal(r.Context(), accountUID)
	if err != nil {
		if errors.Is(err, billing.ErrNoCustomer) {
			log.Info("portal requested without billing customer")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("no billing customer for this account"))
			return
		}
		log.Error("failed to create portal session", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create portal session"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"portal_url": url,
	}))
}
