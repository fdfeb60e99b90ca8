// Package childread implementa la lectura de un perfil de niño.
package childread

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

// Service describe la lógica de negocio de la lectura de perfiles.
type Service interface {
	Read(ctx context.Context, accountUID string, childID int) (*models.Child, error)
}

// Handler atiende la lectura de un perfil.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New crea el Handler con el logger y el servicio indicados.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Leer un perfil de niño
// @Description Devuelve el perfil si la cuenta pertenece a su equipo de cuidado.
// @Tags Children
// @Produce json
// @Param childID path int true "ID del perfil"
// @Success 200 {object} map[string]any "Perfil"
// @Failure 400 {object} response.ErrorResponse "ID inválido"
// @Failure 401 {object} response.ErrorResponse "Sin identidad en el contexto"
// @Failure 403 {object} response.ErrorResponse "La cuenta no pertenece al equipo"
// @Failure 404 {object} response.ErrorResponse "Perfil no encontrado"
// @Router /children/{childID} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.child.read"
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

	child, err := h.service.Read(r.Context(), accountUID, childID)
	if err != nil {
		switch {
		case errors.Is(err, access.ErrNotTeamMember):
			log.Info("access denied", slog.Int("child_id", childID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("not a member of this care team"))
		case errors.Is(err, repository.ErrChildNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("child not found"))
		default:
			log.Error("failed to read child", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not read child"))
		}
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"child": child,
	}))
}
