// Package report implementa el informe agregado de progreso de un niño.
//
// La ventana se indica con los parámetros from y to en formato
// 2006-01-02; sin ellos se usan los últimos 30 días.
package report

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/middlewarectx"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/response"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/lib/sl"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/models"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/services/access"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/services/goal"
)

// Service describe la lógica de negocio del informe.
type Service interface {
	BuildReport(ctx context.Context, accountUID string, childID int, from, to time.Time) (*models.ChildReport, error)
}

// Handler atiende la generación de informes.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New crea el Handler con el logger y el servicio indicados.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Generar el informe de progreso
// @Description Agrega el diario y las metas del niño en la ventana indicada: media de ánimo, entradas y resumen por meta.
// @Tags Reports
// @Produce json
// @Param childID path int true "ID del perfil"
// @Param from query string false "Inicio de la ventana (2006-01-02)"
// @Param to query string false "Fin de la ventana (2006-01-02)"
// @Success 200 {object} map[string]any "Informe"
// @Failure 400 {object} response.ErrorResponse "Ventana inválida"
// @Failure 403 {object} response.ErrorResponse "La cuenta no pertenece al equipo"
// @Router /children/{childID}/report [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.goal.report"
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

	from, to, err := parseWindow(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		log.Error("invalid report window", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid window, expected from/to as YYYY-MM-DD"))
		return
	}

	report, err := h.service.BuildReport(r.Context(), accountUID, childID, from, to)
	if err != nil {
		switch {
		case errors.Is(err, access.ErrNotTeamMember):
			log.Info("access denied", slog.Int("child_id", childID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("not a member of this care team"))
		case errors.Is(err, goal.ErrInvalidWindow):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid window, from must precede to"))
		default:
			log.Error("failed to build report", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not build report"))
		}
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"report": report,
	}))
}

// parseWindow interpreta los parámetros from y to; por defecto cubre
// los últimos 30 días.
func parseWindow(fromStr, toStr string) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -30)
	to := now

	if fromStr != "" {
		parsed, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
	}
	if toStr != "" {
		parsed, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		// Incluye el día completo del límite superior.
		to = parsed.AddDate(0, 0, 1).Add(-time.Second)
	}
	return from, to, nil
}
