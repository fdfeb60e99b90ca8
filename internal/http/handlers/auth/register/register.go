// Package register implementa el manejador HTTP de registro de cuentas.
//
// Handler recibe los datos de la cuenta en JSON, los valida y delega en
// el servicio de autenticación. Devuelve el UID de la cuenta creada.
package register

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/response"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/lib/sl"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/models"
)

// Service describe la lógica de negocio del registro.
type Service interface {
	Register(ctx context.Context, email, username, password, role, displayName string) (string, error)
}

// Handler atiende las peticiones de registro.
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
// @Summary Registrar una cuenta
// @Description Crea una cuenta con rol guardian, shadow_teacher o therapist y devuelve su UID.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body models.DummyRegister true "Datos de la cuenta"
// @Success 200 {object} map[string]any "Cuenta creada"
// @Failure 400 {object} response.ErrorResponse "JSON inválido"
// @Failure 422 {object} response.ErrorResponse "Error de validación"
// @Failure 500 {object} response.ErrorResponse "Error al crear la cuenta"
// @Router /auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyRegister
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

	uid, err := h.service.Register(r.Context(), req.Email, req.Username, req.Password, req.Role, req.DisplayName)
	if err != nil {
		log.Error("failed to register account", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not register account"))
		return
	}

	log.Info("account registered", slog.String("account_uid", uid))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"account_uid": uid,
	}))
}
