// Package childlist implementa el listado de perfiles en cuyos equipos
// participa la cuenta autenticada.
package childlist

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

// Service describe la lógica de negocio del listado de perfiles.
type Service interface {
	List(ctx context.Context, accountUID string) ([]*models.Child, error)
}

// Handler atiende el listado de perfiles.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New crea el Handler con el logger y el servicio indicados.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Listar perfiles de niños
// @Description Devuelve los perfiles en cuyos equipos de cuidado participa la cuenta.
// @Tags Children
// @Produce json
// @Success 200 {object} map[string]any "Listado de perfiles"
// @Failure 401 {object} response.ErrorResponse "Sin identidad en el contexto"
// @Failure 500 {object} response.ErrorResponse "Error al listar"
// @Router /children [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.child.list"
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

	children, err := h.service.List(r.Context(), accountUID)
	if err != nil {
		log.Error("failed to list children", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list children"))
		return
	}

	log.Info("children listed", slog.Int("count", len(children)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"children": children,
	}))
}
