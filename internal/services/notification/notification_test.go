package notification

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/models"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/push"
)

type fakePushRepo struct {
	subs    []*models.PushSubscription
	removed []string
}

func (f *fakePushRepo) UpsertPushSubscription(_ context.Context, sub models.PushSubscription) (int, error) {
	f.subs = append(f.subs, &sub)
	return len(f.subs), nil
}

func (f *fakePushRepo) RemovePushSubscription(_ context.Context, endpoint string) (int, error) {
	f.removed = append(f.removed, endpoint)
	return 1, nil
}

func (f *fakePushRepo) ListPushSubscriptions(_ context.Context, _ []string) ([]*models.PushSubscription, error) {
	return f.subs, nil
}

// fakeSender falla según el endpoint para simular destinos caídos.
type fakeSender struct {
	errs map[string]error
	sent []string
}

func (f *fakeSender) Send(_ context.Context, sub *models.PushSubscription, _ models.PushPayload) error {
	if err, ok := f.errs[sub.Endpoint]; ok {
		return err
	}
	f.sent = append(f.sent, sub.Endpoint)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func jobBody(t *testing.T, job models.NotificationJob) []byte {
	t.Helper()
	body, err := json.Marshal(job)
	require.NoError(t, err)
	return body
}

func TestHandleJob_PrunesGoneEndpoints(t *testing.T) {
	repo := &fakePushRepo{subs: []*models.PushSubscription{
		{AccountUID: "uid-1", Endpoint: "https://push.example.com/ok"},
		{AccountUID: "uid-2", Endpoint: "https://push.example.com/gone"},
		{AccountUID: "uid-3", Endpoint: "https://push.example.com/broken"},
	}}
	sender := &fakeSender{errs: map[string]error{
		"https://push.example.com/gone":   push.ErrSubscriptionGone,
		"https://push.example.com/broken": errors.New("timeout"),
	}}
	svc := NewService(repo, sender, testLogger())

	body := jobBody(t, models.NotificationJob{
		RecipientUIDs: []string{"uid-1", "uid-2", "uid-3"},
		Payload:       models.PushPayload{Title: "hola"},
	})

	// Un destinatario caído no interrumpe a los demás.
	require.NoError(t, svc.HandleJob(context.Background(), body))

	assert.Equal(t, []string{"https://push.example.com/ok"}, sender.sent)
	assert.Equal(t, []string{"https://push.example.com/gone"}, repo.removed)
}

func TestHandleJob_MalformedBodyIsDiscarded(t *testing.T) {
	svc := NewService(&fakePushRepo{}, &fakeSender{}, testLogger())

	// No se reencola: el cuerpo nunca va a deserializar bien.
	assert.NoError(t, svc.HandleJob(context.Background(), []byte("{not json")))
}

func TestHandleJob_NoRecipients(t *testing.T) {
	sender := &fakeSender{}
	svc := NewService(&fakePushRepo{}, sender, testLogger())

	body := jobBody(t, models.NotificationJob{Payload: models.PushPayload{Title: "hola"}})

	require.NoError(t, svc.HandleJob(context.Background(), body))
	assert.Empty(t, sender.sent)
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	repo := &fakePushRepo{}
	svc := NewService(repo, &fakeSender{}, testLogger())

	dummy := models.DummyPushSubscription{Endpoint: "https://push.example.com/new"}
	dummy.Keys.P256dh = "pk"
	dummy.Keys.Auth = "secret"

	id, err := svc.Subscribe(context.Background(), "uid-1", dummy)
	require.NoError(t, err)
	assert.Equal(t, 1, id)
	assert.Equal(t, "uid-1", repo.subs[0].AccountUID)

	require.NoError(t, svc.Unsubscribe(context.Background(), "https://push.example.com/new"))
	assert.Equal(t, []string{"https://push.example.com/new"}, repo.removed)
}
