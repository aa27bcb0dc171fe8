package goals

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illegalcall/emerge/internal/models"
	"github.com/illegalcall/emerge/internal/storage"
	"github.com/illegalcall/emerge/internal/suggest"
)

// stubSuggester returns a fixed list of tasks
type stubSuggester struct {
	mu       sync.Mutex
	tasks    []string
	requests []suggest.Request
	delay    time.Duration

	inFlight    int32
	maxInFlight int32
}

func (s *stubSuggester) Suggest(ctx context.Context, req suggest.Request, count int) []string {
	n := atomic.AddInt32(&s.inFlight, 1)
	defer atomic.AddInt32(&s.inFlight, -1)
	for {
		peak := atomic.LoadInt32(&s.maxInFlight)
		if n <= peak || atomic.CompareAndSwapInt32(&s.maxInFlight, peak, n) {
			break
		}
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	out := append([]string(nil), s.tasks...)
	if len(out) > count {
		out = out[:count]
	}
	return out
}

// recordingPublisher keeps every published event
type recordingPublisher struct {
	mu     sync.Mutex
	events []models.GoalEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, event models.GoalEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

const testUser int64 = 1

func setupManager(t *testing.T, suggester *stubSuggester, delay time.Duration) (*Manager, *storage.MemoryStore, *recordingPublisher) {
	t.Helper()

	store := storage.NewMemoryStore()
	require.NoError(t, store.UpsertProfile(context.Background(), &models.Profile{
		UserID:        testUser,
		Subjects:      []string{"Biology"},
		Skills:        "lab work",
		Interests:     "research",
		ThinkingStyle: models.ThinkingStylePlan,
	}))

	pub := &recordingPublisher{}
	if suggester == nil {
		suggester = &stubSuggester{}
	}
	m := NewManager(store, suggester, Options{CompletionDelay: delay, Publisher: pub})
	t.Cleanup(m.Close)
	return m, store, pub
}

func TestCreateGoal(t *testing.T) {
	ctx := context.Background()
	m, _, pub := setupManager(t, nil, time.Second)

	_, err := m.CreateGoal(ctx, testUser, "", false)
	assert.True(t, errors.Is(err, models.ErrValidation))

	_, err = m.CreateGoal(ctx, testUser, " x ", false)
	assert.True(t, errors.Is(err, models.ErrValidation))

	g, err := m.CreateGoal(ctx, testUser, "Research 3 companies", false)
	require.NoError(t, err)
	assert.NotEmpty(t, g.ID)
	assert.False(t, g.Completed)
	assert.Equal(t, 0, g.Progress())

	_, err = m.CreateGoal(ctx, 99, "Research 3 companies", false)
	assert.True(t, models.IsProfileNotFound(err))

	assert.Equal(t, []string{models.EventGoalCreated}, pub.types())
}

func TestToggleCompletionRemovesAfterDelay(t *testing.T) {
	ctx := context.Background()
	m, _, pub := setupManager(t, nil, 20*time.Millisecond)

	g, err := m.CreateGoal(ctx, testUser, "Join a study group", false)
	require.NoError(t, err)

	updated, err := m.ToggleCompletion(ctx, g.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, 100, updated.Progress())

	goals, err := m.ListGoals(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.True(t, goals[0].Completed)

	assert.Eventually(t, func() bool {
		goals, err := m.ListGoals(ctx, testUser)
		return err == nil && len(goals) == 0
	}, time.Second, 5*time.Millisecond)

	assert.Contains(t, pub.types(), models.EventGoalCompleted)
}

func TestToggleCompletionBackCancelsRemoval(t *testing.T) {
	ctx := context.Background()
	m, _, _ := setupManager(t, nil, 40*time.Millisecond)

	g, err := m.CreateGoal(ctx, testUser, "Join a study group", false)
	require.NoError(t, err)

	_, err = m.ToggleCompletion(ctx, g.ID, true)
	require.NoError(t, err)
	assert.True(t, m.removals.isPending(g.ID))

	reopened, err := m.ToggleCompletion(ctx, g.ID, false)
	require.NoError(t, err)
	assert.False(t, reopened.Completed)
	assert.False(t, m.removals.isPending(g.ID))

	time.Sleep(120 * time.Millisecond)
	goals, err := m.ListGoals(ctx, testUser)
	require.NoError(t, err)
	assert.Len(t, goals, 1)
}

func TestToggleCompletionMissingGoal(t *testing.T) {
	m, _, _ := setupManager(t, nil, time.Millisecond)
	_, err := m.ToggleCompletion(context.Background(), "missing", true)
	assert.True(t, models.IsNotFound(err))
}

func TestCompleteThenDelete(t *testing.T) {
	ctx := context.Background()
	m, _, _ := setupManager(t, nil, 10*time.Millisecond)

	g, err := m.CreateGoal(ctx, testUser, "Shadow a lab technician", false)
	require.NoError(t, err)

	done, err := m.CompleteThenDelete(ctx, g.ID)
	require.NoError(t, err)
	assert.True(t, done.Completed)

	goals, err := m.ListGoals(ctx, testUser)
	require.NoError(t, err)
	assert.Empty(t, goals)

	// already gone: the delayed delete is a no-op
	removed, err := m.DeleteGoal(ctx, g.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestCompleteThenDeleteCancelled(t *testing.T) {
	m, _, _ := setupManager(t, nil, 30*time.Millisecond)

	g, err := m.CreateGoal(context.Background(), testUser, "Shadow a lab technician", false)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	_, err = m.CompleteThenDelete(ctx, g.ID)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	assert.Eventually(t, func() bool {
		goals, err := m.ListGoals(context.Background(), testUser)
		return err == nil && len(goals) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestCompleteThenDeleteKeepsGoalReopenedDuringWait(t *testing.T) {
	ctx := context.Background()
	m, _, _ := setupManager(t, nil, 100*time.Millisecond)

	g, err := m.CreateGoal(ctx, testUser, "Shadow a lab technician", false)
	require.NoError(t, err)

	type result struct {
		goal *models.Goal
		err  error
	}
	done := make(chan result, 1)
	go func() {
		goal, err := m.CompleteThenDelete(ctx, g.ID)
		done <- result{goal, err}
	}()

	assert.Eventually(t, func() bool {
		cur, err := m.store.GetGoal(ctx, g.ID)
		return err == nil && cur.Completed
	}, time.Second, time.Millisecond)

	reopened, err := m.ToggleCompletion(ctx, g.ID, false)
	require.NoError(t, err)
	assert.False(t, reopened.Completed)

	res := <-done
	require.NoError(t, res.err)
	assert.False(t, res.goal.Completed)

	goals, err := m.ListGoals(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.False(t, goals[0].Completed)
}

func TestReopenFromAnotherManagerKeepsGoal(t *testing.T) {
	ctx := context.Background()
	a, store, _ := setupManager(t, nil, 40*time.Millisecond)
	b := NewManager(store, &stubSuggester{}, Options{CompletionDelay: 40 * time.Millisecond})
	t.Cleanup(b.Close)

	g, err := a.CreateGoal(ctx, testUser, "Join a study group", false)
	require.NoError(t, err)

	_, err = a.ToggleCompletion(ctx, g.ID, true)
	require.NoError(t, err)
	_, err = b.ToggleCompletion(ctx, g.ID, false)
	require.NoError(t, err)
	assert.True(t, a.removals.isPending(g.ID), "b cannot cancel a's timer")

	time.Sleep(120 * time.Millisecond)
	assert.False(t, a.removals.isPending(g.ID))

	goals, err := a.ListGoals(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.False(t, goals[0].Completed)
}

func TestDeleteGoal(t *testing.T) {
	ctx := context.Background()
	m, _, pub := setupManager(t, nil, time.Second)

	removed, err := m.DeleteGoal(ctx, "does-not-exist")
	require.NoError(t, err)
	assert.False(t, removed)

	g, err := m.CreateGoal(ctx, testUser, "Update resume", false)
	require.NoError(t, err)

	removed, err = m.DeleteGoal(ctx, g.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, []string{models.EventGoalCreated, models.EventGoalDeleted}, pub.types())
}

func TestDeleteDuringCompletionDelay(t *testing.T) {
	ctx := context.Background()
	m, _, _ := setupManager(t, nil, 20*time.Millisecond)

	g, err := m.CreateGoal(ctx, testUser, "Update resume", false)
	require.NoError(t, err)
	_, err = m.ToggleCompletion(ctx, g.ID, true)
	require.NoError(t, err)

	removed, err := m.DeleteGoal(ctx, g.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.False(t, m.removals.isPending(g.ID))
}

func TestRefreshSuggestionsKeepsGoalsWhenGenerationFails(t *testing.T) {
	ctx := context.Background()
	m, _, pub := setupManager(t, &stubSuggester{tasks: nil}, time.Second)

	_, err := m.CreateGoal(ctx, testUser, "Existing goal one", false)
	require.NoError(t, err)
	_, err = m.CreateGoal(ctx, testUser, "Existing goal two", true)
	require.NoError(t, err)

	before, err := m.ListGoals(ctx, testUser)
	require.NoError(t, err)

	_, err = m.RefreshSuggestions(ctx, testUser, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrGeneration))
	assert.Equal(t, GenerationFailedMessage, err.Error())

	after, err := m.ListGoals(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.NotContains(t, pub.types(), models.EventGoalsRefreshed)
}

func TestRefreshSuggestionsBiology(t *testing.T) {
	ctx := context.Background()
	stub := &stubSuggester{tasks: []string{"Research 2 biotech companies and list requirements"}}
	m, _, pub := setupManager(t, stub, time.Second)

	goals, err := m.RefreshSuggestions(ctx, testUser, 1)
	require.NoError(t, err)
	require.Len(t, goals, 1)

	stored, err := m.ListGoals(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Research 2 biotech companies and list requirements", stored[0].Task)
	assert.False(t, stored[0].Completed)

	require.Len(t, stub.requests, 1)
	assert.Equal(t, []string{"Biology"}, stub.requests[0].Subjects)
	assert.Equal(t, "lab work", stub.requests[0].Skills)
	assert.Equal(t, "research", stub.requests[0].Interests)
	assert.Contains(t, pub.types(), models.EventGoalsRefreshed)
}

func TestRefreshSuggestionsReplacesAllGoals(t *testing.T) {
	ctx := context.Background()
	stub := &stubSuggester{tasks: []string{"New one", "New two", "New three"}}
	m, _, _ := setupManager(t, stub, time.Second)

	old, err := m.CreateGoal(ctx, testUser, "Old goal", false)
	require.NoError(t, err)
	_, err = m.ToggleCompletion(ctx, old.ID, true)
	require.NoError(t, err)

	_, err = m.RefreshSuggestions(ctx, testUser, 3)
	require.NoError(t, err)

	goals, err := m.ListGoals(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, goals, 3)
	assert.Equal(t, "New one", goals[0].Task)
	assert.Equal(t, "New three", goals[2].Task)
	assert.False(t, m.removals.isPending(old.ID))
}

func TestRefreshSuggestionsValidation(t *testing.T) {
	ctx := context.Background()
	m, _, _ := setupManager(t, &stubSuggester{tasks: []string{"a task"}}, time.Second)

	_, err := m.RefreshSuggestions(ctx, testUser, 0)
	assert.True(t, errors.Is(err, models.ErrValidation))

	_, err = m.RefreshSuggestions(ctx, testUser, MaxSuggestionCount+1)
	assert.True(t, errors.Is(err, models.ErrValidation))

	_, err = m.SuggestGoals(ctx, testUser, 100000)
	assert.True(t, errors.Is(err, models.ErrValidation))

	_, err = m.RefreshSuggestions(ctx, 404, 3)
	assert.True(t, models.IsProfileNotFound(err))
}

func TestRefreshSuggestionsSerializedPerUser(t *testing.T) {
	ctx := context.Background()
	stub := &stubSuggester{tasks: []string{"One", "Two", "Three"}, delay: 10 * time.Millisecond}
	m, _, _ := setupManager(t, stub, time.Second)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.RefreshSuggestions(ctx, testUser, 3)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&stub.maxInFlight))
	goals, err := m.ListGoals(ctx, testUser)
	require.NoError(t, err)
	assert.Len(t, goals, 3)
}

func TestSuggestGoalsAppends(t *testing.T) {
	ctx := context.Background()
	stub := &stubSuggester{tasks: []string{"Appended goal"}}
	m, _, _ := setupManager(t, stub, time.Second)

	_, err := m.CreateGoal(ctx, testUser, "Existing goal", false)
	require.NoError(t, err)

	created, err := m.SuggestGoals(ctx, testUser, 1)
	require.NoError(t, err)
	require.Len(t, created, 1)

	goals, err := m.ListGoals(ctx, testUser)
	require.NoError(t, err)
	assert.Len(t, goals, 2)

	stub.tasks = nil
	_, err = m.SuggestGoals(ctx, testUser, 1)
	assert.True(t, errors.Is(err, models.ErrGeneration))
}

func TestCloseStopsPendingRemovals(t *testing.T) {
	ctx := context.Background()
	m, _, _ := setupManager(t, nil, 30*time.Millisecond)

	g, err := m.CreateGoal(ctx, testUser, "Finish a tutorial", false)
	require.NoError(t, err)
	_, err = m.ToggleCompletion(ctx, g.ID, true)
	require.NoError(t, err)

	m.Close()
	time.Sleep(100 * time.Millisecond)

	goals, err := m.ListGoals(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.True(t, goals[0].Completed)
}
