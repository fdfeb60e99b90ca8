package message

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/models"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/rabbitmq"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/services/access"
)

type fakeMessageRepo struct {
	messages map[int]*models.Message
	reads    map[int][]string
	members  []*models.CareTeamMember
}

func newFakeMessageRepo(members ...*models.CareTeamMember) *fakeMessageRepo {
	return &fakeMessageRepo{
		messages: make(map[int]*models.Message),
		reads:    make(map[int][]string),
		members:  members,
	}
}

func (f *fakeMessageRepo) CreateMessage(_ context.Context, message models.Message) (int, error) {
	message.ID = len(f.messages) + 1
	f.messages[message.ID] = &message
	f.reads[message.ID] = []string{message.SenderUID}
	return message.ID, nil
}

func (f *fakeMessageRepo) ReadMessage(_ context.Context, id int) (*models.Message, error) {
	return f.messages[id], nil
}

func (f *fakeMessageRepo) ListMessages(_ context.Context, _ int, limit, _ int) ([]*models.Message, error) {
	var out []*models.Message
	for id := len(f.messages); id >= 1 && len(out) < limit; id-- {
		out = append(out, f.messages[id])
	}
	return out, nil
}

func (f *fakeMessageRepo) MarkMessageRead(_ context.Context, messageID int, accountUID string) error {
	f.reads[messageID] = append(f.reads[messageID], accountUID)
	return nil
}

func (f *fakeMessageRepo) ListUnreadRecipients(_ context.Context, messageID int) ([]string, error) {
	read := make(map[string]bool)
	for _, uid := range f.reads[messageID] {
		read[uid] = true
	}
	var out []string
	for _, m := range f.members {
		if !read[m.AccountUID] {
			out = append(out, m.AccountUID)
		}
	}
	return out, nil
}

func (f *fakeMessageRepo) ReadChild(_ context.Context, id int) (*models.Child, error) {
	return &models.Child{ID: id, Name: "Leo"}, nil
}

func (f *fakeMessageRepo) IsTeamMember(_ context.Context, _ int, accountUID string) (bool, error) {
	for _, m := range f.members {
		if m.AccountUID == accountUID {
			return true, nil
		}
	}
	return false, nil
}

type fakePublisher struct {
	routingKeys []string
	jobs        []models.NotificationJob
	err         error
}

func (f *fakePublisher) Publish(_, routingKey string, message any) error {
	if f.err != nil {
		return f.err
	}
	f.routingKeys = append(f.routingKeys, routingKey)
	f.jobs = append(f.jobs, message.(models.NotificationJob))
	return nil
}

func newTestService(repo *fakeMessageRepo, publisher JobPublisher) *Service {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewService(repo, publisher, access.NewGuard(repo), logger)
}

func team() []*models.CareTeamMember {
	return []*models.CareTeamMember{
		{ChildID: 1, AccountUID: "uid-guardian", Role: models.RoleGuardian},
		{ChildID: 1, AccountUID: "uid-teacher", Role: models.RoleShadowTeacher},
		{ChildID: 1, AccountUID: "uid-therapist", Role: models.RoleTherapist},
	}
}

func TestCreate_NotifiesTeamExceptSender(t *testing.T) {
	repo := newFakeMessageRepo(team()...)
	publisher := &fakePublisher{}
	svc := newTestService(repo, publisher)

	id, err := svc.Create(context.Background(), "uid-teacher", 1, "Hoy comió solo con cuchara.")

	require.NoError(t, err)
	assert.Equal(t, 1, id)
	require.Len(t, publisher.jobs, 1)
	assert.Equal(t, []string{rabbitmq.TeamMessageRouteKey}, publisher.routingKeys)

	job := publisher.jobs[0]
	assert.ElementsMatch(t, []string{"uid-guardian", "uid-therapist"}, job.RecipientUIDs)
	assert.NotContains(t, job.RecipientUIDs, "uid-teacher")
	assert.Contains(t, job.Payload.Title, "Leo")
}

func TestCreate_RejectsNonMembers(t *testing.T) {
	repo := newFakeMessageRepo(team()...)
	svc := newTestService(repo, &fakePublisher{})

	_, err := svc.Create(context.Background(), "uid-outsider", 1, "hola")
	assert.ErrorIs(t, err, access.ErrNotTeamMember)
	assert.Empty(t, repo.messages)
}

func TestCreate_PublishFailureKeepsMessage(t *testing.T) {
	repo := newFakeMessageRepo(team()...)
	publisher := &fakePublisher{err: assert.AnError}
	svc := newTestService(repo, publisher)

	id, err := svc.Create(context.Background(), "uid-guardian", 1, "hola equipo")

	// La notificación es secundaria: el mensaje queda escrito.
	require.NoError(t, err)
	assert.NotNil(t, repo.messages[id])
}

func TestMarkRead(t *testing.T) {
	repo := newFakeMessageRepo(team()...)
	svc := newTestService(repo, &fakePublisher{})

	id, err := svc.Create(context.Background(), "uid-guardian", 1, "hola")
	require.NoError(t, err)

	require.NoError(t, svc.MarkRead(context.Background(), "uid-therapist", id))
	assert.Contains(t, repo.reads[id], "uid-therapist")

	err = svc.MarkRead(context.Background(), "uid-outsider", id)
	assert.ErrorIs(t, err, access.ErrNotTeamMember)
}

func TestList_CapsLimit(t *testing.T) {
	repo := newFakeMessageRepo(team()...)
	svc := newTestService(repo, &fakePublisher{})

	for range [30]struct{}{} {
		_, err := svc.Create(context.Background(), "uid-guardian", 1, "hola")
		require.NoError(t, err)
	}

	// Límite por defecto.
	messages, err := svc.List(context.Background(), "uid-guardian", 1, 0, 0)
	require.NoError(t, err)
	assert.Len(t, messages, DefaultLimit)

	// El tope superior acota valores desorbitados.
	messages, err = svc.List(context.Background(), "uid-guardian", 1, 500, 0)
	require.NoError(t, err)
	assert.Len(t, messages, 30)
}
