// Package goallist implementa el listado de metas de un niño.
package goallist

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/middlewarectx"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/response"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/lib/sl"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/models"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/services/access"
)

// Service describe la lógica de negocio del listado de metas.
type Service interface {
	List(ctx context.Context, accountUID string, childID int) ([]*models.Goal, error)
}

// Handler atiende el listado de metas.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New crea el Handler con el logger y el servicio indicados.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Listar metas de desarrollo
// @Description Devuelve las metas del niño con su estado y valor objetivo.
// @Tags Goals
// @Produce json
// @Param childID path int true "ID del perfil"
// @Success 200 {object} map[string]any "Metas"
// @Failure 403 {object} response.ErrorResponse "La cuenta no pertenece al equipo"
// @Router /children/{childID}/goals [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.goal.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	childID, err := strconv.Atoi(chi.URLParam(r, "childID"))
	if err != nil {
		log.Error("invalid child id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid child id"))
		return
	}

	accountUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || accountUID == "" {
		log.Error("account uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	goals, err := h.service.List(r.Context(), accountUID, childID)
	if err != nil {
		if errors.Is(err, access.ErrNotTeamMember) {
			log.Info("access denied", slog.Int("child_id", childID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("not a member of this care team"))
			return
		}
		log.Error("failed to list goals", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list goals"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"goals": goals,
	}))
}
