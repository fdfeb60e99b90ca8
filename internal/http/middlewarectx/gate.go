package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/config"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/entitlement"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/response"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/lib/sl"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/metrics"
)

// EntitlementService decide si la cuenta tiene acceso a la aplicación.
type EntitlementService interface {
	Check(ctx context.Context, accountUID string, now time.Time) (entitlement.Decision, error)
}

// EntitlementMiddleware protege la aplicación detrás de la suscripción.
// Una cuenta sin derecho de acceso se redirige a la página de precios
// con el motivo en el parámetro reason. Si el estado de suscripción no
// puede consultarse, el acceso se niega con 503 en lugar de redirigir:
// el cliente distingue así el fallo de infraestructura de la falta de
// suscripción.
func EntitlementMiddleware(service EntitlementService, cfg config.Gate, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.EntitlementMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			accountUID, ok := r.Context().Value(UserUID).(string)
			if !ok || accountUID == "" {
				log.Error("user identification missing")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			decision, err := service.Check(r.Context(), accountUID, time.Now())
			if err != nil {
				metrics.GateDecisionsTotal.WithLabelValues("error").Inc()
				log.Error("failed to check subscription status", sl.Err(err))
				render.Status(r, http.StatusServiceUnavailable)
				render.JSON(w, r, response.Error("subscription status unavailable"))
				return
			}

			if !decision.Allowed {
				metrics.GateDecisionsTotal.WithLabelValues("deny_" + string(decision.Reason)).Inc()
				log.Info("access denied",
					slog.String("account_uid", accountUID),
					slog.String("reason", string(decision.Reason)))
				http.Redirect(w, r, pricingURL(cfg.PricingPath, decision.Reason), http.StatusFound)
				return
			}

			metrics.GateDecisionsTotal.WithLabelValues("allow").Inc()
			next.ServeHTTP(w, r)
		})
	}
}

// pricingURL construye la URL de precios con el motivo de la negación.
func pricingURL(pricingPath string, reason entitlement.Reason) string {
	return pricingPath + "?reason=" + url.QueryEscape(string(reason))
}
