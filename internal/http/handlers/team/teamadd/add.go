// Package teamadd implementa la invitación de miembros al equipo de
// cuidado de un niño. Solo el guardián propietario puede invitar.
package teamadd

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
	"github.com/juanluis-911/PulsoAzul-sub000/internal/services/child"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/storage/repository"
)

// Service describe la lógica de negocio de la invitación.
type Service interface {
	AddMember(ctx context.Context, requesterUID string, childID int, username string) error
}

// Handler atiende las invitaciones al equipo.
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
// @Summary Invitar a un miembro al equipo
// @Description Añade la cuenta indicada por nombre de usuario al equipo de cuidado del niño.
// @Tags Team
// @Accept json
// @Produce json
// @Param childID path int true "ID del perfil"
// @Param request body models.DummyTeamMember true "Usuario invitado"
// @Success 200 {object} response.Response "Miembro añadido"
// @Failure 400 {object} response.ErrorResponse "JSON o ID inválidos"
// @Failure 403 {object} response.ErrorResponse "Solo el guardián propietario puede invitar"
// @Failure 404 {object} response.ErrorResponse "Perfil o cuenta no encontrados"
// @Router /children/{childID}/team [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.team.add"
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

	var req models.DummyTeamMember
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

	requesterUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || requesterUID == "" {
		log.Error("account uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.AddMember(r.Context(), requesterUID, childID, req.Username); err != nil {
		switch {
		case errors.Is(err, child.ErrNotGuardian):
			log.Info("non-guardian tried to manage team", slog.Int("child_id", childID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("only the owning guardian can manage the team"))
		case errors.Is(err, repository.ErrChildNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("child not found"))
		case errors.Is(err, repository.ErrAccountNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("account not found"))
		default:
			log.Error("failed to add team member", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not add team member"))
		}
		return
	}

	log.Info("team member added",
		slog.Int("child_id", childID),
		slog.String("username", req.Username))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"added": req.Username,
	}))
}
