// Package push implementa el envío de notificaciones web push a los
// endpoints registrados por los navegadores de las cuentas.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/models"
)

// ErrSubscriptionGone indica que el endpoint ya no existe (HTTP 410 o
// 404) y la suscripción debe eliminarse del almacén.
var ErrSubscriptionGone = errors.New("push subscription gone")

// Sender entrega cargas JSON a endpoints push.
type Sender struct {
	vapidSubject   string
	vapidPublicKey string
	httpClient     *http.Client
}

// NewSender crea el emisor con las credenciales VAPID del servicio.
func NewSender(vapidSubject, vapidPublicKey string, timeout time.Duration) *Sender {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Sender{
		vapidSubject:   vapidSubject,
		vapidPublicKey: vapidPublicKey,
		httpClient:     &http.Client{Timeout: timeout},
	}
}

// Send entrega la carga al endpoint de la suscripción. Devuelve
// ErrSubscriptionGone cuando el endpoint responde 410 o 404 para que el
// llamante pode la suscripción; el resto de estados no 2xx son errores.
func (s *Sender) Send(ctx context.Context, sub *models.PushSubscription, payload models.PushPayload) error {
	const op = "push.Send"

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sub.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("TTL", "86400")
	if s.vapidSubject != "" {
		req.Header.Set("Authorization", fmt.Sprintf("vapid t=%s, k=%s", s.vapidSubject, s.vapidPublicKey))
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", op, ErrSubscriptionGone)
	default:
		return fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}
}
