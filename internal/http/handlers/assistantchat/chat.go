// Package assistantchat implementa el asistente del equipo de cuidado.
// El manejador reenvía la pregunta al modelo generativo con la
// instrucción de sistema fija del producto y devuelve la respuesta.
package assistantchat

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

// Service describe la generación de respuestas del asistente.
type Service interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Handler atiende las preguntas al asistente.
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
// @Summary Preguntar al asistente
// @Description Envía la pregunta al asistente del equipo y devuelve su respuesta.
// @Tags Assistant
// @Accept json
// @Produce json
// @Param request body models.DummyChat true "Pregunta"
// @Success 200 {object} map[string]any "Respuesta del asistente"
// @Failure 422 {object} response.ErrorResponse "Error de validación"
// @Failure 502 {object} response.ErrorResponse "El modelo no respondió"
// @Router /assistant/chat [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.assistantchat"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyChat
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

	answer, err := h.service.Generate(r.Context(), req.Prompt)
	if err != nil {
		log.Error("failed to generate answer", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("assistant unavailable"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"answer": answer,
	}))
}
