// Package childcreate implementa el manejador HTTP de alta de perfiles
// de niños. El guardián autenticado queda como propietario del perfil.
package childcreate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/middlewarectx"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/response"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/lib/sl"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/models"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/services/child"
)

// Service describe la lógica de negocio del alta de perfiles.
type Service interface {
	Create(ctx context.Context, guardianUID string, dummy models.DummyChild) (int, error)
}

// Handler atiende las peticiones de alta de perfil.
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
// @Summary Crear un perfil de niño
// @Description Registra un perfil y deja al guardián autenticado como propietario y primer miembro del equipo.
// @Tags Children
// @Accept json
// @Produce json
// @Param request body models.DummyChild true "Datos del perfil"
// @Success 200 {object} map[string]any "Perfil creado"
// @Failure 400 {object} response.ErrorResponse "JSON o fecha inválidos"
// @Failure 401 {object} response.ErrorResponse "Sin identidad en el contexto"
// @Failure 422 {object} response.ErrorResponse "Error de validación"
// @Failure 500 {object} response.ErrorResponse "Error al crear el perfil"
// @Router /children [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.child.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyChild
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

	guardianUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || guardianUID == "" {
		log.Error("account uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	id, err := h.service.Create(r.Context(), guardianUID, req)
	if err != nil {
		if errors.Is(err, child.ErrInvalidBirthDate) {
			log.Error("invalid birth date", slog.String("birth_date", req.BirthDate))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid birth date, expected YYYY-MM-DD in the past"))
			return
		}
		log.Error("failed to create child profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create child profile"))
		return
	}

	log.Info("child profile created", slog.Int("child_id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"child_id": id,
	}))
}
