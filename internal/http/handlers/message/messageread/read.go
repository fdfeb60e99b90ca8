// Package messageread implementa el acuse de lectura de un mensaje.
package messageread

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
	"github.com/juanluis-911/PulsoAzul-sub000/internal/services/access"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/storage/repository"
)

// Service describe la lógica de negocio del acuse de lectura.
type Service interface {
	MarkRead(ctx context.Context, accountUID string, messageID int) error
}

// Handler atiende los acuses de lectura.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New crea el Handler con el logger y el servicio indicados.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Marcar un mensaje como leído
// @Description Registra el acuse de lectura de la cuenta. Repetirlo no es un error.
// @Tags Messages
// @Produce json
// @Param messageID path int true "ID del mensaje"
// @Success 200 {object} response.Response "Acuse registrado"
// @Failure 403 {object} response.ErrorResponse "La cuenta no pertenece al equipo"
// @Failure 404 {object} response.ErrorResponse "Mensaje no encontrado"
// @Router /messages/{messageID}/read [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.message.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	messageID, err := strconv.Atoi(chi.URLParam(r, "messageID"))
	if err != nil {
		log.Error("invalid message id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid message id"))
		return
	}

	accountUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || accountUID == "" {
		log.Error("account uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.MarkRead(r.Context(), accountUID, messageID); err != nil {
		switch {
		case errors.Is(err, access.ErrNotTeamMember):
			log.Info("access denied", slog.Int("message_id", messageID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("not a member of this care team"))
		case errors.Is(err, repository.ErrMessageNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("message not found"))
		default:
			log.Error("failed to mark message read", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not mark message read"))
		}
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"read": messageID,
	}))
}
