package dashboard

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illegalcall/emerge/internal/models"
	"github.com/illegalcall/emerge/internal/recommend"
	"github.com/illegalcall/emerge/internal/storage"
)

type failingSearcher struct{}

func (failingSearcher) SearchVideo(ctx context.Context, query string) (*models.Video, error) {
	return nil, models.NewUpstreamError("video service", errors.New("unreachable"))
}

type failingGoals struct{}

func (failingGoals) ListGoals(ctx context.Context, userID int64) ([]models.Goal, error) {
	return nil, errors.New("connection reset")
}

type failingActivities struct {
	storage.ActivityStore
}

func (failingActivities) ListActivities(ctx context.Context, userID int64, limit int) ([]models.Activity, error) {
	return nil, errors.New("connection reset")
}

func seed(t *testing.T) *storage.MemoryStore {
	t.Helper()
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.UpsertProfile(ctx, &models.Profile{
		UserID:        1,
		Subjects:      []string{"Biology"},
		Interests:     "research",
		Skills:        "lab work",
		ThinkingStyle: models.ThinkingStylePlan,
	}))
	require.NoError(t, store.CreateGoal(ctx, &models.Goal{ID: "g1", UserID: 1, Task: "Read a paper"}))
	require.NoError(t, store.CreateGoal(ctx, &models.Goal{ID: "g2", UserID: 1, Task: "Join a lab", Completed: true}))
	for i := 0; i < 7; i++ {
		require.NoError(t, store.CreateActivity(ctx, &models.Activity{UserID: 1, Type: models.ActivityGoalCreated, Title: fmt.Sprintf("activity %d", i)}))
	}
	return store
}

func TestBuildDashboard(t *testing.T) {
	store := seed(t)
	recs := recommend.NewService(failingSearcher{}, nil, recommend.Options{})
	agg := NewAggregator(store, store, store, recs, nil)

	view, err := agg.BuildDashboard(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "Beginner at Biology", view.ProfileSummary.Level)
	require.Len(t, view.Goals, 2)
	progress := map[string]int{}
	for _, g := range view.Goals {
		progress[g.ID] = g.Progress
	}
	assert.Equal(t, map[string]int{"g1": 0, "g2": 100}, progress)

	require.Len(t, view.Activities, RecentActivities)
	assert.Equal(t, "activity 6", view.Activities[0].Title)

	require.Len(t, view.Trends, 2)
	require.NotNil(t, view.Recommendation.Video)
	assert.Equal(t, "Biology Career Guide", view.Recommendation.Video.Title)
	require.NotNil(t, view.Recommendation.Course)
	assert.Equal(t, "Biology Skills Assessment Workshop", view.Recommendation.Course.Title)
}

func TestBuildDashboardProfileNotFound(t *testing.T) {
	store := storage.NewMemoryStore()
	agg := NewAggregator(store, store, store, recommend.NewService(nil, nil, recommend.Options{}), nil)

	_, err := agg.BuildDashboard(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, models.IsProfileNotFound(err))
}

func TestBuildDashboardPartialData(t *testing.T) {
	store := seed(t)
	agg := NewAggregator(store, store, failingActivities{}, recommend.NewService(nil, nil, recommend.Options{}), nil)

	view, err := agg.BuildDashboard(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, view.Activities)
	assert.Len(t, view.Goals, 2)
}

func TestBuildDashboardGoalStoreFailure(t *testing.T) {
	store := seed(t)
	agg := NewAggregator(store, failingGoals{}, store, recommend.NewService(nil, nil, recommend.Options{}), nil)

	_, err := agg.BuildDashboard(context.Background(), 1)
	assert.ErrorContains(t, err, "connection reset")
}
