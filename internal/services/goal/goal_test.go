package goal

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/models"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/services/access"
)

type fakeGoalRepo struct {
	goals    map[int]*models.Goal
	progress map[int][]*models.GoalProgress
	logs     []*models.DailyLog
	members  map[string]bool
}

func newFakeGoalRepo() *fakeGoalRepo {
	return &fakeGoalRepo{
		goals:    make(map[int]*models.Goal),
		progress: make(map[int][]*models.GoalProgress),
		members:  make(map[string]bool),
	}
}

func (f *fakeGoalRepo) CreateGoal(_ context.Context, goal models.Goal) (int, error) {
	goal.ID = len(f.goals) + 1
	f.goals[goal.ID] = &goal
	return goal.ID, nil
}

func (f *fakeGoalRepo) ReadGoal(_ context.Context, id int) (*models.Goal, error) {
	return f.goals[id], nil
}

func (f *fakeGoalRepo) ListGoals(_ context.Context, childID int) ([]*models.Goal, error) {
	var out []*models.Goal
	for id := 1; id <= len(f.goals); id++ {
		if goal := f.goals[id]; goal != nil && goal.ChildID == childID {
			out = append(out, goal)
		}
	}
	return out, nil
}

func (f *fakeGoalRepo) UpdateGoalStatus(_ context.Context, goalID int, status string) error {
	f.goals[goalID].Status = status
	return nil
}

func (f *fakeGoalRepo) CreateGoalProgress(_ context.Context, p models.GoalProgress) (int, error) {
	p.ID = len(f.progress[p.GoalID]) + 1
	f.progress[p.GoalID] = append(f.progress[p.GoalID], &p)
	return p.ID, nil
}

func (f *fakeGoalRepo) ListGoalProgress(_ context.Context, goalID int) ([]*models.GoalProgress, error) {
	return f.progress[goalID], nil
}

func (f *fakeGoalRepo) ListGoalProgressBetween(_ context.Context, goalID int, from, to time.Time) ([]*models.GoalProgress, error) {
	var out []*models.GoalProgress
	for _, p := range f.progress[goalID] {
		if !p.RecordedAt.Before(from) && !p.RecordedAt.After(to) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeGoalRepo) ListDailyLogsBetween(_ context.Context, _ int, _, _ time.Time) ([]*models.DailyLog, error) {
	return f.logs, nil
}

func (f *fakeGoalRepo) IsTeamMember(_ context.Context, _ int, accountUID string) (bool, error) {
	return f.members[accountUID], nil
}

func newTestService(repo *fakeGoalRepo) *Service {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewService(repo, repo, access.NewGuard(repo), logger)
}

func TestCreate_RejectsNonMembers(t *testing.T) {
	repo := newFakeGoalRepo()
	repo.members["uid-member"] = true
	svc := newTestService(repo)

	dummy := models.DummyGoal{Title: "Pedir ayuda con palabras", Area: "comunicación", TargetValue: 10}

	_, err := svc.Create(context.Background(), "uid-outsider", 1, dummy)
	require.ErrorIs(t, err, access.ErrNotTeamMember)

	id, err := svc.Create(context.Background(), "uid-member", 1, dummy)
	require.NoError(t, err)
	assert.Equal(t, models.GoalStatusActive, repo.goals[id].Status)
}

func TestBuildReport(t *testing.T) {
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC)

	cases := []struct {
		name        string
		values      []int
		target      int
		wantTrend   string
		wantPercent float64
		wantLatest  int
	}{
		{
			name:        "tendencia al alza",
			values:      []int{2, 4, 6},
			target:      10,
			wantTrend:   "improving",
			wantPercent: 60,
			wantLatest:  6,
		},
		{
			name:        "tendencia a la baja",
			values:      []int{6, 3},
			target:      10,
			wantTrend:   "declining",
			wantPercent: 30,
			wantLatest:  3,
		},
		{
			name:      "una sola medición es estable",
			values:    []int{5},
			target:    10,
			wantTrend: "steady",

			wantPercent: 50,
			wantLatest:  5,
		},
		{
			name:      "sin mediciones",
			target:    10,
			wantTrend: "steady",
		},
		{
			name:        "el porcentaje se acota al 100",
			values:      []int{12},
			target:      10,
			wantTrend:   "steady",
			wantPercent: 100,
			wantLatest:  12,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeGoalRepo()
			repo.members["uid-1"] = true
			repo.logs = []*models.DailyLog{{Mood: 3}, {Mood: 5}}

			goalID, err := repo.CreateGoal(context.Background(), models.Goal{
				ChildID: 1, Title: "meta", Area: "motricidad",
				TargetValue: tc.target, Status: models.GoalStatusActive,
			})
			require.NoError(t, err)
			for i, v := range tc.values {
				_, err := repo.CreateGoalProgress(context.Background(), models.GoalProgress{
					GoalID:     goalID,
					RecordedAt: from.AddDate(0, 0, i+1),
					Value:      v,
				})
				require.NoError(t, err)
			}

			svc := newTestService(repo)
			report, err := svc.BuildReport(context.Background(), "uid-1", 1, from, to)
			require.NoError(t, err)

			assert.Equal(t, 2, report.LogCount)
			assert.InDelta(t, 4.0, report.MoodAverage, 0.001)
			require.Len(t, report.Goals, 1)

			summary := report.Goals[0]
			assert.Equal(t, tc.wantTrend, summary.Trend)
			assert.InDelta(t, tc.wantPercent, summary.PercentToTarget, 0.001)
			assert.Equal(t, tc.wantLatest, summary.LatestValue)
			assert.Equal(t, len(tc.values), summary.Entries)
		})
	}
}

func TestBuildReport_InvalidWindow(t *testing.T) {
	repo := newFakeGoalRepo()
	repo.members["uid-1"] = true
	svc := newTestService(repo)

	now := time.Now()
	_, err := svc.BuildReport(context.Background(), "uid-1", 1, now, now.AddDate(0, 0, -7))
	assert.ErrorIs(t, err, ErrInvalidWindow)
}
