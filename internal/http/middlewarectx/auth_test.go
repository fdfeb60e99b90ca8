package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/models"
)

type fakeAuthService struct {
	account *models.Account
	err     error
}

func (f *fakeAuthService) ValidateToken(_ context.Context, _ string) (*models.Account, error) {
	return f.account, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestJWTMiddleware(t *testing.T) {
	cases := []struct {
		name         string
		authHeader   string
		auth         *fakeAuthService
		wantStatus   int
		wantLocation string
		wantUID      string
	}{
		{
			name:       "token válido puebla el contexto",
			authHeader: "Bearer token-ok",
			auth: &fakeAuthService{account: &models.Account{
				UID:      "uid-1",
				Username: "mariag",
				Role:     models.RoleGuardian,
			}},
			wantStatus: http.StatusOK,
			wantUID:    "uid-1",
		},
		{
			name:         "sin token redirige al inicio de sesión con next",
			auth:         &fakeAuthService{},
			wantStatus:   http.StatusFound,
			wantLocation: "/login?next=%2Fchildren%2F5%3Ftab%3Dlogs",
		},
		{
			name:       "token inválido devuelve 401",
			authHeader: "Bearer token-bad",
			auth:       &fakeAuthService{err: errors.New("token expired")},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var gotUID string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUID, _ = r.Context().Value(UserUID).(string)
				w.WriteHeader(http.StatusOK)
			})

			handler := JWTMiddleware(tc.auth, "/login", testLogger())(next)

			req := httptest.NewRequest(http.MethodGet, "/children/5?tab=logs", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			require.Equal(t, tc.wantStatus, rr.Code)
			if tc.wantLocation != "" {
				assert.Equal(t, tc.wantLocation, rr.Header().Get("Location"))
			}
			if tc.wantUID != "" {
				assert.Equal(t, tc.wantUID, gotUID)
			}
		})
	}
}
