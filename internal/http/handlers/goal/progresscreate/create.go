// Package progresscreate implementa el alta de mediciones de progreso.
package progresscreate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/middlewarectx"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/response"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/lib/sl"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/models"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/services/access"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/storage/repository"
)

// Service describe la lógica de negocio del alta de mediciones.
type Service interface {
	AddProgress(ctx context.Context, accountUID string, goalID int, dummy models.DummyGoalProgress) (int, error)
}

// Handler atiende el alta de mediciones de progreso.
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
// @Summary Registrar progreso de una meta
// @Description Añade una medición puntual del avance hacia el valor objetivo.
// @Tags Goals
// @Accept json
// @Produce json
// @Param goalID path int true "ID de la meta"
// @Param request body models.DummyGoalProgress true "Medición"
// @Success 200 {object} map[string]any "Medición registrada"
// @Failure 403 {object} response.ErrorResponse "La cuenta no pertenece al equipo"
// @Failure 404 {object} response.ErrorResponse "Meta no encontrada"
// @Router /goals/{goalID}/progress [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.goal.progresscreate"
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

	var req models.DummyGoalProgress
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

	id, err := h.service.AddProgress(r.Context(), accountUID, goalID, req)
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
			log.Error("failed to add progress", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not add progress"))
		}
		return
	}

	log.Info("progress recorded",
		slog.Int("goal_id", goalID),
		slog.Int("progress_id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"progress_id": id,
	}))
}
