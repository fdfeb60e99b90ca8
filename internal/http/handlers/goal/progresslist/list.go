// Package progresslist implementa el listado de mediciones de una meta.
package progresslist

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
	"github.com/juanluis-911/PulsoAzul-sub000/internal/storage/repository"
)

// Service describe la lógica de negocio del listado de mediciones.
type Service interface {
	ListProgress(ctx context.Context, accountUID string, goalID int) ([]*models.GoalProgress, error)
}

// Handler atiende el listado de mediciones.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New crea el Handler con el logger y el servicio indicados.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Listar el progreso de una meta
// @Description Devuelve las mediciones de la meta en orden cronológico.
// @Tags Goals
// @Produce json
// @Param goalID path int true "ID de la meta"
// @Success 200 {object} map[string]any "Mediciones"
// @Failure 403 {object} response.ErrorResponse "La cuenta no pertenece al equipo"
// @Failure 404 {object} response.ErrorResponse "Meta no encontrada"
// @Router /goals/{goalID}/progress [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.goal.progresslist"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	goalID, err := strconv.Atoi(chi.URLParam(r, "goalID"))
	if err != nil {
		log.Error("invalid goal id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid goal id"))
		return
	}

	accountUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || accountUID == "" {
		log.Error("account uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	progress, err := h.service.ListProgress(r.Context(), accountUID, goalID)
	if err != nil {
		switch {
		case errors.Is(err, access.ErrNotTeamMember):
			log.Info("access denied", slog.Int("goal_id", goalID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("not a member of this care team"))
		case errors.Is(err, repository.ErrGoalNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("goal not found"))
		default:
			log.Error("failed to list progress", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not list progress"))
		}
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"progress": progress,
	}))
}
