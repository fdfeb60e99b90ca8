package middlewarectx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/config"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/entitlement"
)

type fakeEntitlementService struct {
	decision entitlement.Decision
	err      error
}

func (f *fakeEntitlementService) Check(_ context.Context, _ string, _ time.Time) (entitlement.Decision, error) {
	return f.decision, f.err
}

func TestEntitlementMiddleware(t *testing.T) {
	cases := []struct {
		name         string
		uid          string
		service      *fakeEntitlementService
		wantStatus   int
		wantLocation string
	}{
		{
			name:       "suscripción vigente deja pasar",
			uid:        "uid-1",
			service:    &fakeEntitlementService{decision: entitlement.Decision{Allowed: true}},
			wantStatus: http.StatusOK,
		},
		{
			name: "sin suscripción redirige a precios",
			uid:  "uid-1",
			service: &fakeEntitlementService{decision: entitlement.Decision{
				Allowed: false,
				Reason:  entitlement.ReasonNoSubscription,
			}},
			wantStatus:   http.StatusFound,
			wantLocation: "/pricing?reason=no_subscription",
		},
		{
			name: "pago fallido redirige con su motivo",
			uid:  "uid-1",
			service: &fakeEntitlementService{decision: entitlement.Decision{
				Allowed: false,
				Reason:  entitlement.ReasonPaymentFailed,
			}},
			wantStatus:   http.StatusFound,
			wantLocation: "/pricing?reason=payment_failed",
		},
		{
			name:       "fallo de infraestructura responde 503, no redirige",
			uid:        "uid-1",
			service:    &fakeEntitlementService{err: errors.New("connection refused")},
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "sin identidad en el contexto responde 401",
			service:    &fakeEntitlementService{},
			wantStatus: http.StatusUnauthorized,
		},
	}

	cfg := config.Gate{LoginPath: "/login", PricingPath: "/pricing"}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			handler := EntitlementMiddleware(tc.service, cfg, testLogger())(next)

			req := httptest.NewRequest(http.MethodGet, "/children", nil)
			if tc.uid != "" {
				req = req.WithContext(context.WithValue(req.Context(), UserUID, tc.uid))
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			require.Equal(t, tc.wantStatus, rr.Code)
			if tc.wantLocation != "" {
				assert.Equal(t, tc.wantLocation, rr.Header().Get("Location"))
			}
		})
	}
}
