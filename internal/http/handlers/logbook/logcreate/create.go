// Package logcreate implementa el alta de registros diarios.
package logcreate

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
	"github.com/juanluis-911/PulsoAzul-sub000/internal/services/logbook"
)

// Service describe la lógica de negocio del alta de registros.
type Service interface {
	Create(ctx context.Context, authorUID string, childID int, dummy models.DummyDailyLog) (int, error)
}

// Handler atiende el alta de registros diarios.
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
// @Summary Crear un registro diario
// @Description Registra la entrada del día con ánimo (1..5), resumen, comidas, sueño e incidencias.
// @Tags Logbook
// @Accept json
// @Produce json
// @Param childID path int true "ID del perfil"
// @Param request body models.DummyDailyLog true "Datos del registro"
// @Success 200 {object} map[string]any "Registro creado"
// @Failure 400 {object} response.ErrorResponse "JSON o fecha inválidos"
// @Failure 403 {object} response.ErrorResponse "La cuenta no pertenece al equipo"
// @Failure 422 {object} response.ErrorResponse "Error de validación"
// @Router /children/{childID}/logs [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.logbook.create"
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

	var req models.DummyDailyLog
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

	authorUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || authorUID == "" {
		log.Error("account uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	id, err := h.service.Create(r.Context(), authorUID, childID, req)
	if err != nil {
		switch {
		case errors.Is(err, access.ErrNotTeamMember):
			log.Info("access denied", slog.Int("child_id", childID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("not a member of this care team"))
		case errors.Is(err, logbook.ErrInvalidLogDate):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid log date, expected YYYY-MM-DD not in the future"))
		default:
			log.Error("failed to create daily log", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create daily log"))
		}
		return
	}

	log.Info("daily log created", slog.Int("log_id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"log_id": id,
	}))
}
