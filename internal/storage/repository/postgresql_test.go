package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/migrations"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/models"
)

func setupTestStorage(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(3*time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	var storage *Storage
	for range 10 {
		storage, err = New(dsn)
		if err == nil {
			break
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")

	projectRoot, err := filepath.Abs("../../..")
	require.NoError(t, err)
	err = migrations.Run(storage.DB, filepath.Join(projectRoot, "migrations"))
	require.NoError(t, err, "failed to run migrations")

	cleanup := func() {
		if storage != nil && storage.DB != nil {
			_ = storage.DB.Close()
		}
		if pgContainer != nil {
			_ = pgContainer.Terminate(ctx)
		}
	}

	return storage, cleanup
}

func createTestAccount(t *testing.T, s *Storage, username, role string) string {
	uid, err := s.RegisterAccount(context.Background(), models.Account{
		UID:          uuid.New().String(),
		Email:        fmt.Sprintf("%s@example.com", username),
		Username:     username,
		PasswordHash: "hashedpassword",
		Role:         role,
		DisplayName:  username,
	})
	require.NoError(t, err)
	return uid
}

func TestStorage_ChildAndTeam(t *testing.T) {
	storage, cleanup := setupTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	guardianUID := createTestAccount(t, storage, "madreleo", models.RoleGuardian)
	therapistUID := createTestAccount(t, storage, "terapeuta1", models.RoleTherapist)
	outsiderUID := createTestAccount(t, storage, "ajeno", models.RoleShadowTeacher)

	childID, err := storage.CreateChild(ctx, models.Child{
		GuardianUID: guardianUID,
		Name:        "Leo",
		BirthDate:   time.Date(2018, 4, 12, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Greater(t, childID, 0)

	// El guardián queda como miembro del equipo al crear el perfil
	isMember, err := storage.IsTeamMember(ctx, childID, guardianUID)
	require.NoError(t, err)
	assert.True(t, isMember)

	isMember, err = storage.IsTeamMember(ctx, childID, outsiderUID)
	require.NoError(t, err)
	assert.False(t, isMember)

	err = storage.AddTeamMember(ctx, childID, therapistUID)
	require.NoError(t, err)
	// Repetir la invitación no es un error
	err = storage.AddTeamMember(ctx, childID, therapistUID)
	require.NoError(t, err)

	members, err := storage.ListTeamMembers(ctx, childID)
	require.NoError(t, err)
	require.Len(t, members, 2)

	children, err := storage.ListChildrenForAccount(ctx, therapistUID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "Leo", children[0].Name)
	assert.Equal(t, guardianUID, children[0].GuardianUID)

	_, err = storage.ReadChild(ctx, 99999)
	assert.ErrorIs(t, err, ErrChildNotFound)
}

func TestStorage_DailyLogs(t *testing.T) {
	storage, cleanup := setupTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	guardianUID := createTestAccount(t, storage, "madreana", models.RoleGuardian)
	childID, err := storage.CreateChild(ctx, models.Child{
		GuardianUID: guardianUID,
		Name:        "Ana",
		BirthDate:   time.Date(2019, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	for day := 1; day <= 3; day++ {
		_, err := storage.CreateDailyLog(ctx, models.DailyLog{
			ChildID:    childID,
			AuthorUID:  guardianUID,
			LogDate:    time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC),
			Mood:       day + 2,
			Summary:    fmt.Sprintf("día %d", day),
			SleepHours: 9.5,
		})
		require.NoError(t, err)
	}

	logs, err := storage.ListDailyLogs(ctx, childID, 2, 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	// Del más reciente al más antiguo
	assert.Equal(t, "día 3", logs[0].Summary)
	assert.Equal(t, "día 2", logs[1].Summary)

	between, err := storage.ListDailyLogsBetween(ctx, childID,
		time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 3, 23, 59, 59, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, between, 2)

	missing, err := storage.FindChildrenWithoutLogToday(ctx)
	require.NoError(t, err)
	assert.Contains(t, missing, childID)
	assert.Equal(t, []string{guardianUID}, missing[childID])
}

func TestStorage_SubscriberUpsert(t *testing.T) {
	storage, cleanup := setupTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	accountUID := createTestAccount(t, storage, "suscriptor", models.RoleGuardian)

	_, err := storage.GetSubscriber(ctx, accountUID)
	assert.ErrorIs(t, err, ErrSubscriberNotFound)

	periodEnd := time.Date(2026, 9, 30, 12, 0, 0, 0, time.UTC)
	sub := models.Subscriber{
		AccountUID:       accountUID,
		CustomerID:       "cus_123",
		PlanID:           "plan_mensual",
		Status:           models.SubStatusActive,
		CurrentPeriodEnd: periodEnd,
	}
	err = storage.UpsertSubscriber(ctx, sub)
	require.NoError(t, err)
	// La reentrega del mismo evento sobreescribe los mismos campos
	err = storage.UpsertSubscriber(ctx, sub)
	require.NoError(t, err)

	got, err := storage.GetSubscriber(ctx, accountUID)
	require.NoError(t, err)
	assert.Equal(t, models.SubStatusActive, got.Status)
	assert.Equal(t, "cus_123", got.CustomerID)
	assert.WithinDuration(t, periodEnd, got.CurrentPeriodEnd, time.Second)

	err = storage.UpdateSubscriberStatus(ctx, accountUID, models.SubStatusPastDue)
	require.NoError(t, err)
	got, err = storage.GetSubscriber(ctx, accountUID)
	require.NoError(t, err)
	assert.Equal(t, models.SubStatusPastDue, got.Status)

	err = storage.UpdateSubscriberStatus(ctx, accountUID, models.SubStatusActive)
	require.NoError(t, err)
	ending, err := storage.FindSubscribersWithPeriodEndingBefore(ctx, periodEnd.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, ending, 1)
	assert.Equal(t, accountUID, ending[0].AccountUID)

	ending, err = storage.FindSubscribersWithPeriodEndingBefore(ctx, periodEnd.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, ending)
}

func TestStorage_PushSubscriptions(t *testing.T) {
	storage, cleanup := setupTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	accountUID := createTestAccount(t, storage, "navegante", models.RoleGuardian)

	sub := models.PushSubscription{
		AccountUID: accountUID,
		Endpoint:   "https://push.example.com/ep-1",
		P256dhKey:  "p256dh-key",
		AuthKey:    "auth-key",
	}
	firstID, err := storage.UpsertPushSubscription(ctx, sub)
	require.NoError(t, err)

	// El mismo endpoint renueva claves en lugar de duplicar filas
	sub.P256dhKey = "p256dh-key-2"
	secondID, err := storage.UpsertPushSubscription(ctx, sub)
	require.NoError(t, err)
	assert.Equal(t, firstID, secondID)

	subs, err := storage.ListPushSubscriptions(ctx, []string{accountUID})
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "p256dh-key-2", subs[0].P256dhKey)

	removed, err := storage.RemovePushSubscription(ctx, "https://push.example.com/ep-1")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	removed, err = storage.RemovePushSubscription(ctx, "https://push.example.com/ep-1")
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestStorage_MessagesAndReceipts(t *testing.T) {
	storage, cleanup := setupTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	guardianUID := createTestAccount(t, storage, "madresol", models.RoleGuardian)
	teacherUID := createTestAccount(t, storage, "sombra1", models.RoleShadowTeacher)
	childID, err := storage.CreateChild(ctx, models.Child{
		GuardianUID: guardianUID,
		Name:        "Sol",
		BirthDate:   time.Date(2017, 7, 7, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NoError(t, storage.AddTeamMember(ctx, childID, teacherUID))

	messageID, err := storage.CreateMessage(ctx, models.Message{
		ChildID:   childID,
		SenderUID: guardianUID,
		Body:      "Hoy durmió mejor",
	})
	require.NoError(t, err)

	// El emisor queda con acuse propio; el resto del equipo pendiente
	unread, err := storage.ListUnreadRecipients(ctx, messageID)
	require.NoError(t, err)
	assert.Equal(t, []string{teacherUID}, unread)

	require.NoError(t, storage.MarkMessageRead(ctx, messageID, teacherUID))
	require.NoError(t, storage.MarkMessageRead(ctx, messageID, teacherUID))

	unread, err = storage.ListUnreadRecipients(ctx, messageID)
	require.NoError(t, err)
	assert.Empty(t, unread)

	messages, err := storage.ListMessages(ctx, childID, 20, 0)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "Hoy durmió mejor", messages[0].Body)
	assert.ElementsMatch(t, []string{guardianUID, teacherUID}, messages[0].ReadBy)

	_, err = storage.ReadMessage(ctx, 99999)
	assert.ErrorIs(t, err, ErrMessageNotFound)
}
