package login

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/models"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/services/auth"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Login(ctx context.Context, username, password string) (string, string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.String(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    any
		mockToken      string
		mockRole       string
		mockErr        error
		expectCall     bool
		wantStatusCode int
		wantBody       string
	}{
		{
			name:           "credenciales válidas devuelven el token",
			requestBody:    models.DummyLogin{Username: "mariag", Password: "secreto123"},
			mockToken:      "tok",
			mockRole:       models.RoleGuardian,
			expectCall:     true,
			wantStatusCode: http.StatusOK,
			wantBody:       `{"status":"OK","data":{"token":"tok","role":"guardian"}}`,
		},
		{
			name:           "JSON inválido devuelve 400",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "falta la contraseña",
			requestBody:    models.DummyLogin{Username: "mariag"},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:           "credenciales inválidas devuelven 401",
			requestBody:    models.DummyLogin{Username: "mariag", Password: "incorrecta1"},
			mockErr:        auth.ErrInvalidCredentials,
			expectCall:     true,
			wantStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			if tt.expectCall {
				req := tt.requestBody.(models.DummyLogin)
				serviceMock.On("Login", mock.Anything, req.Username, req.Password).
					Return(tt.mockToken, tt.mockRole, tt.mockErr).Once()
			}

			handler := New(newNoopLogger(), serviceMock)

			body, _ := json.Marshal(tt.requestBody)
			if s, ok := tt.requestBody.(string); ok {
				body = []byte(s)
			}
			req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatusCode, rr.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rr.Body.String())
			}
			serviceMock.AssertExpectations(t)
		})
	}
}
