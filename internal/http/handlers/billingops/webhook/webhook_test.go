package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/billing"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) ApplyEvent(ctx context.Context, event *billing.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

const secret = "whsec_test"

func sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestWebhookHandler_ServeHTTP(t *testing.T) {
	validBody := []byte(`{
		"id": "evt_1",
		"type": "invoice.payment_succeeded",
		"data": {
			"customer_id": "cus_1",
			"current_period_end": 1735689600,
			"metadata": {"account_uid": "uid-1"}
		}
	}`)
	unknownBody := []byte(`{"id": "evt_2", "type": "customer.created", "data": {}}`)

	tests := []struct {
		name           string
		body           []byte
		signature      string
		applyErr       error
		expectApply    bool
		wantStatusCode int
		wantBody       string
	}{
		{
			name:           "evento válido se aplica y confirma",
			body:           validBody,
			signature:      sign(validBody),
			expectApply:    true,
			wantStatusCode: http.StatusOK,
			wantBody:       `{"received":true}`,
		},
		{
			name:           "firma ausente devuelve 400",
			body:           validBody,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "firma incorrecta devuelve 400",
			body:           validBody,
			signature:      "bm90LXVuYS1maXJtYQ==",
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "evento desconocido se confirma sin aplicar",
			body:           unknownBody,
			signature:      sign(unknownBody),
			wantStatusCode: http.StatusOK,
			wantBody:       `{"received":true}`,
		},
		{
			name:           "cuerpo no JSON devuelve 400",
			body:           []byte("not json"),
			signature:      sign([]byte("not json")),
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "fallo al aplicar devuelve 500 para reintento",
			body:           validBody,
			signature:      sign(validBody),
			applyErr:       errors.New("db down"),
			expectApply:    true,
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			if tt.expectApply {
				serviceMock.On("ApplyEvent", mock.Anything, mock.Anything).
					Return(tt.applyErr).Once()
			}

			handler := New(newNoopLogger(), serviceMock, secret)

			req := httptest.NewRequest(http.MethodPost, "/billing/webhook", bytes.NewReader(tt.body))
			if tt.signature != "" {
				req.Header.Set("X-Api-Signature", tt.signature)
			}
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
