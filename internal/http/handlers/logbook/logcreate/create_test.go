package logcreate

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/middlewarectx"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/models"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/services/access"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Create(ctx context.Context, authorUID string, childID int, dummy models.DummyDailyLog) (int, error) {
	args := m.Called(ctx, authorUID, childID, dummy)
	return args.Int(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newRequest(t *testing.T, childID string, body any, uid string) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/children/"+childID+"/logs", bytes.NewReader(raw))

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("childID", childID)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if uid != "" {
		ctx = context.WithValue(ctx, middlewarectx.UserUID, uid)
	}
	return req.WithContext(ctx)
}

func TestLogCreateHandler_ServeHTTP(t *testing.T) {
	valid := models.DummyDailyLog{
		LogDate:    "2025-03-10",
		Mood:       4,
		Summary:    "Buen día en el colegio, participó en el círculo.",
		SleepHours: 9.5,
	}

	tests := []struct {
		name           string
		childID        string
		requestBody    models.DummyDailyLog
		uid            string
		mockID         int
		mockErr        error
		expectCall     bool
		wantStatusCode int
		wantBody       string
	}{
		{
			name:           "registro válido",
			childID:        "7",
			requestBody:    valid,
			uid:            "uid-1",
			mockID:         11,
			expectCall:     true,
			wantStatusCode: http.StatusOK,
			wantBody:       `{"status":"OK","data":{"log_id":11}}`,
		},
		{
			name:           "ánimo fuera de escala devuelve 422",
			childID:        "7",
			requestBody:    models.DummyDailyLog{LogDate: "2025-03-10", Mood: 6, Summary: "x"},
			uid:            "uid-1",
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:           "quien no es del equipo recibe 403",
			childID:        "7",
			requestBody:    valid,
			uid:            "uid-outsider",
			mockErr:        access.ErrNotTeamMember,
			expectCall:     true,
			wantStatusCode: http.StatusForbidden,
		},
		{
			name:           "id de niño inválido devuelve 400",
			childID:        "abc",
			requestBody:    valid,
			uid:            "uid-1",
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "sin identidad devuelve 401",
			childID:        "7",
			requestBody:    valid,
			wantStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			if tt.expectCall {
				serviceMock.On("Create", mock.Anything, tt.uid, 7, tt.requestBody).
					Return(tt.mockID, tt.mockErr).Once()
			}

			handler := New(newNoopLogger(), serviceMock)

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, newRequest(t, tt.childID, tt.requestBody, tt.uid))

			assert.Equal(t, tt.wantStatusCode, rr.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rr.Body.String())
			}
			serviceMock.AssertExpectations(t)
		})
	}
}
