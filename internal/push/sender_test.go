package push

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/models"
)

func TestSend(t *testing.T) {
	payload := models.PushPayload{
		Title: "Nuevo mensaje del equipo",
		Body:  "Tienes un mensaje sin leer",
		URL:   "/children/1/messages",
	}

	tests := []struct {
		name       string
		statusCode int
		wantErr    bool
		wantGone   bool
	}{
		{name: "entrega aceptada", statusCode: http.StatusCreated},
		{name: "entrega aceptada 200", statusCode: http.StatusOK},
		{name: "endpoint desaparecido", statusCode: http.StatusGone, wantErr: true, wantGone: true},
		{name: "endpoint no encontrado", statusCode: http.StatusNotFound, wantErr: true, wantGone: true},
		{name: "fallo del servicio push", statusCode: http.StatusInternalServerError, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				assert.Equal(t, "86400", r.Header.Get("TTL"))

				var got models.PushPayload
				require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				assert.Equal(t, payload.Title, got.Title)

				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			sender := NewSender("mailto:soporte@pulsoazul.app", "test-key", 5*time.Second)
			err := sender.Send(context.Background(), &models.PushSubscription{
				Endpoint: server.URL,
			}, payload)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantGone, errors.Is(err, ErrSubscriptionGone))
				return
			}
			require.NoError(t, err)
		})
	}
}
