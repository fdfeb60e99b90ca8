package pulsoazul

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/assistant"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/config"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/handlers/assistantchat"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/handlers/auth/login"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/handlers/auth/register"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/handlers/billingops/checkout"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/handlers/billingops/portal"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/handlers/billingops/subscriptionread"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/handlers/billingops/webhook"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/handlers/child/childcreate"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/handlers/child/childlist"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/handlers/child/childread"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/handlers/goal/goalcreate"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/handlers/goal/goallist"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/handlers/goal/goalstatus"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/handlers/goal/progresscreate"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/handlers/goal/progresslist"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/handlers/goal/report"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/handlers/health"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/handlers/logbook/logcreate"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/handlers/logbook/loglist"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/handlers/message/messagecreate"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/handlers/message/messagelist"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/handlers/message/messageread"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/handlers/push/pushsubscribe"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/handlers/push/pushunsubscribe"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/handlers/team/teamadd"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/handlers/team/teamlist"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/middlewarectx"
	authservice "github.com/juanluis-911/PulsoAzul-sub000/internal/services/auth"
	billingservice "github.com/juanluis-911/PulsoAzul-sub000/internal/services/billing"
	childservice "github.com/juanluis-911/PulsoAzul-sub000/internal/services/child"
	entitlementservice "github.com/juanluis-911/PulsoAzul-sub000/internal/services/entitlement"
	goalservice "github.com/juanluis-911/PulsoAzul-sub000/internal/services/goal"
	logbookservice "github.com/juanluis-911/PulsoAzul-sub000/internal/services/logbook"
	messageservice "github.com/juanluis-911/PulsoAzul-sub000/internal/services/message"
	notificationservice "github.com/juanluis-911/PulsoAzul-sub000/internal/services/notification"
)

// Services agrupa los servicios de negocio que consumen los manejadores.
type Services struct {
	Auth         *authservice.AuthService
	Entitlement  *entitlementservice.Service
	Billing      *billingservice.Service
	Child        *childservice.Service
	Logbook      *logbookservice.Service
	Goal         *goalservice.Service
	Message      *messageservice.Service
	Notification *notificationservice.Service
	Assistant    *assistant.Service
}

// RegisterRoutes registra todas las rutas de la aplicación. Las rutas
// de la aplicación quedan detrás del JWT y del control de suscripción;
// las de facturación y push solo del JWT, para que una cuenta sin
// suscripción pueda contratar y gestionar sus avisos.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, s *Services) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Conexiones abiertas
		r.Post("/auth/register", register.New(logger, s.Auth).ServeHTTP)
		r.Post("/auth/login", login.New(logger, s.Auth).ServeHTTP)
		r.Post("/billing/webhook", webhook.New(logger, s.Billing, cfg.Billing.WebhookSecret).ServeHTTP)
		r.Get("/health", health.New(logger).ServeHTTP)

		// Autenticadas pero no condicionadas a la suscripción
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, cfg.Gate.LoginPath, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/billing/checkout", checkout.New(logger, s.Billing).ServeHTTP)
			r.Post("/billing/portal", portal.New(logger, s.Billing).ServeHTTP)
			r.Get("/billing/subscription", subscriptionread.New(logger, s.Entitlement).ServeHTTP)
			r.Post("/push/subscriptions", pushsubscribe.New(logger, s.Notification).ServeHTTP)
			r.Delete("/push/subscriptions", pushunsubscribe.New(logger, s.Notification).ServeHTTP)
		})

		// El producto completo, detrás de la suscripción
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, cfg.Gate.LoginPath, logger))
			r.Use(middlewarectx.EntitlementMiddleware(s.Entitlement, cfg.Gate, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/children", childcreate.New(logger, s.Child).ServeHTTP)
			r.Get("/children", childlist.New(logger, s.Child).ServeHTTP)
			r.Get("/children/{childID}", childread.New(logger, s.Child).ServeHTTP)
			r.Post("/children/{childID}/team", teamadd.New(logger, s.Child).ServeHTTP)
			r.Get("/children/{childID}/team", teamlist.New(logger, s.Child).ServeHTTP)

			r.Post("/children/{childID}/logs", logcreate.New(logger, s.Logbook).ServeHTTP)
			r.Get("/children/{childID}/logs", loglist.New(logger, s.Logbook).ServeHTTP)

			r.Post("/children/{childID}/goals", goalcreate.New(logger, s.Goal).ServeHTTP)
			r.Get("/children/{childID}/goals", goallist.New(logger, s.Goal).ServeHTTP)
			r.Put("/goals/{goalID}/status", goalstatus.New(logger, s.Goal).ServeHTTP)
			r.Post("/goals/{goalID}/progress", progresscreate.New(logger, s.Goal).ServeHTTP)
			r.Get("/goals/{goalID}/progress", progresslist.New(logger, s.Goal).ServeHTTP)
			r.Get("/children/{childID}/report", report.New(logger, s.Goal).ServeHTTP)

			r.Post("/children/{childID}/messages", messagecreate.New(logger, s.Message).ServeHTTP)
			r.Get("/children/{childID}/messages", messagelist.New(logger, s.Message).ServeHTTP)
			r.Post("/messages/{messageID}/read", messageread.New(logger, s.Message).ServeHTTP)

			r.Post("/assistant/chat", assistantchat.New(logger, s.Assistant).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
