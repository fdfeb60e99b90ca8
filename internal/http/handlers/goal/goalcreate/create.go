// Package goalcreate implementa el alta de metas de desarrollo.
package goalcreate

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
)

// Service describe la lógica de negocio del alta de metas.
type Service interface {
	Create(ctx context.Context, accountUID string, childID int, dummy models.DummyGoal) (int, error)
}

// Handler atiende el alta de metas.
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
// @Summary Crear una meta de desarrollo
// @Description Registra una meta activa con su área y valor objetivo.
// @Tags Goals
// @Accept json
// @Produce json
// @Param childID path int true "ID del perfil"
// @Param request body models.DummyGoal true "Datos de la meta"
// @Success 200 {object} map[string]any "Meta creada"
// @Failure 403 {object} response.ErrorResponse "La cuenta no pertenece al equipo"
// @Failure 422 {object} response.ErrorResponse "Error de validación"
// @Router /children/{childID}/goals [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.goal.create"
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

	var req models.DummyGoal
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

	id, err := h.service.Create(r.Context(), accountUID, childID, req)
	if err != nil {
		if errors.Is(err, access.ErrNotTeamMember) {
			log.Info("access denied", slog.Int("child_id", childID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("not a member of this care team"))
			return
		}
		log.Error("failed to create goal", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create goal"))
		return
	}

	log.Info("goal created", slog.Int("goal_id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"goal_id": id,
	}))
}
