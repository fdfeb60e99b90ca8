// Package login implementa el manejador HTTP de inicio de sesión.
package login

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/response"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/lib/sl"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/models"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/services/auth"
)

// Service describe la lógica de negocio del inicio de sesión.
type Service interface {
	Login(ctx context.Context, username, password string) (token, role string, err error)
}

// Handler atiende las peticiones de inicio de sesión.
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
// @Summary Iniciar sesión
// @Description Comprueba las credenciales y devuelve un token JWT con el rol de la cuenta.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body models.DummyLogin true "Credenciales"
// @Success 200 {object} map[string]any "Token emitido"
// @Failure 400 {object} response.ErrorResponse "JSON inválido"
// @Failure 401 {object} response.ErrorResponse "Credenciales inválidas"
// @Failure 422 {object} response.ErrorResponse "Error de validación"
// @Router /auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyLogin
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

	token, role, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			log.Info("invalid credentials", slog.String("username", req.Username))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("invalid username or password"))
			return
		}
		log.Error("failed to login", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not login"))
		return
	}

	log.Info("login succeeded", slog.String("username", req.Username))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"token": token,
		"role":  role,
	}))
}
