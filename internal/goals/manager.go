// Package goals mediates every goal mutation: manual creation, completion,
// deletion and AI driven refresh.
package goals

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/illegalcall/emerge/internal/events"
	"github.com/illegalcall/emerge/internal/metrics"
	"github.com/illegalcall/emerge/internal/models"
	"github.com/illegalcall/emerge/internal/storage"
	"github.com/illegalcall/emerge/internal/suggest"
)

// GenerationFailedMessage is reported when refresh or append got nothing usable.
const GenerationFailedMessage = "Could not generate goal suggestions at this time"

// MaxSuggestionCount bounds how many goals one refresh or append may ask for.
const MaxSuggestionCount = 10

// Store is the persistence the manager needs
type Store interface {
	storage.ProfileStore
	storage.GoalStore
}

// Suggester produces goal text for a profile. It never fails; an empty
// result means nothing usable came back.
type Suggester interface {
	Suggest(ctx context.Context, req suggest.Request, count int) []string
}

type Options struct {
	// CompletionDelay is how long a completed goal stays visible
	CompletionDelay time.Duration
	// Locker serializes refresh and append per user. Defaults to a KeyedMutex.
	Locker    Locker
	Publisher events.Publisher
	Logger    *slog.Logger
}

// Manager owns the goal lifecycle Active -> Completed -> Deleted
type Manager struct {
	store     Store
	suggester Suggester
	locker    Locker
	publisher events.Publisher
	logger    *slog.Logger
	delay     time.Duration
	newID     func() string
	now       func() time.Time

	removals *removalScheduler
}

func NewManager(store Store, suggester Suggester, opts Options) *Manager {
	m := &Manager{
		store:     store,
		suggester: suggester,
		locker:    opts.Locker,
		publisher: opts.Publisher,
		logger:    opts.Logger,
		delay:     opts.CompletionDelay,
		newID:     uuid.NewString,
		now:       time.Now,
	}
	if m.locker == nil {
		m.locker = NewKeyedMutex()
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.publisher == nil {
		m.publisher = events.Noop{Logger: m.logger}
	}
	m.removals = newRemovalScheduler(m.removeCompleted)
	return m
}

// ListGoals returns every goal of the user ordered by creation time.
func (m *Manager) ListGoals(ctx context.Context, userID int64) ([]models.Goal, error) {
	return m.store.ListGoals(ctx, userID)
}

// CreateGoal validates the task text and persists a new goal.
func (m *Manager) CreateGoal(ctx context.Context, userID int64, task string, completed bool) (*models.Goal, error) {
	if userID <= 0 {
		return nil, models.NewValidationError("userId must be a positive integer")
	}
	task, err := models.ValidateTask(task)
	if err != nil {
		return nil, err
	}

	g := &models.Goal{
		ID:        m.newID(),
		UserID:    userID,
		Task:      task,
		Completed: completed,
		CreatedAt: m.now(),
	}
	if err := m.store.CreateGoal(ctx, g); err != nil {
		return nil, err
	}

	metrics.GoalOperations.WithLabelValues("create").Inc()
	m.publish(ctx, models.GoalEvent{Type: models.EventGoalCreated, UserID: userID, GoalID: g.ID, Task: g.Task})
	return g, nil
}

// ToggleCompletion persists the completed flag. Completing a goal schedules
// its removal after the completion delay; un-completing cancels it.
func (m *Manager) ToggleCompletion(ctx context.Context, goalID string, completed bool) (*models.Goal, error) {
	if !completed {
		m.removals.cancel(goalID)
	}

	g, err := m.store.SetGoalCompleted(ctx, goalID, completed)
	if err != nil {
		return nil, err
	}

	m.logTransition(g, g.State())
	if !completed {
		metrics.GoalOperations.WithLabelValues("reopen").Inc()
		return g, nil
	}

	metrics.GoalOperations.WithLabelValues("complete").Inc()
	m.publish(ctx, models.GoalEvent{Type: models.EventGoalCompleted, UserID: g.UserID, GoalID: g.ID, Task: g.Task})
	m.removals.schedule(g.ID, m.delay)
	return g, nil
}

// CompleteThenDelete marks the goal completed, keeps it visible for the
// completion delay and then removes it. If ctx ends during the wait the
// removal is left to the background timer. A goal reopened during the wait
// is kept and returned in its current state.
func (m *Manager) CompleteThenDelete(ctx context.Context, goalID string) (*models.Goal, error) {
	m.removals.cancel(goalID)

	g, err := m.store.SetGoalCompleted(ctx, goalID, true)
	if err != nil {
		return nil, err
	}
	metrics.GoalOperations.WithLabelValues("complete").Inc()
	m.logTransition(g, models.GoalStateCompleted)
	m.publish(ctx, models.GoalEvent{Type: models.EventGoalCompleted, UserID: g.UserID, GoalID: g.ID, Task: g.Task})

	timer := time.NewTimer(m.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		m.removals.schedule(g.ID, m.delay)
		return g, ctx.Err()
	case <-timer.C:
	}

	removed, err := m.store.DeleteCompletedGoal(ctx, g.ID)
	if err != nil {
		return g, err
	}
	if !removed {
		// reopened meanwhile, or already deleted
		if current, err := m.store.GetGoal(ctx, g.ID); err == nil {
			return current, nil
		}
		return g, nil
	}
	metrics.GoalOperations.WithLabelValues("remove_completed").Inc()
	m.logTransition(g, models.GoalStateDeleted)
	return g, nil
}

// DeleteGoal removes the goal and reports whether it existed.
func (m *Manager) DeleteGoal(ctx context.Context, goalID string) (bool, error) {
	m.removals.cancel(goalID)

	g, err := m.store.GetGoal(ctx, goalID)
	if err != nil {
		if models.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	removed, err := m.store.DeleteGoal(ctx, goalID)
	if err != nil {
		return false, err
	}
	if removed {
		metrics.GoalOperations.WithLabelValues("delete").Inc()
		m.logTransition(g, models.GoalStateDeleted)
		m.publish(ctx, models.GoalEvent{Type: models.EventGoalDeleted, UserID: g.UserID, GoalID: g.ID, Task: g.Task})
	}
	return removed, nil
}

// RefreshSuggestions replaces all of the user's goals with count freshly
// generated ones. Generation happens first; when it yields nothing the
// existing goals are left untouched and a generation error is returned.
func (m *Manager) RefreshSuggestions(ctx context.Context, userID int64, count int) ([]models.Goal, error) {
	if err := validateCount(count); err != nil {
		return nil, err
	}

	unlock, err := m.locker.Lock(ctx, userLockKey(userID))
	if err != nil {
		metrics.RefreshResults.WithLabelValues("replace", "busy").Inc()
		return nil, err
	}
	defer unlock()

	profile, err := m.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	tasks := m.suggester.Suggest(ctx, suggest.RequestFromProfile(profile), count)
	if len(tasks) == 0 {
		metrics.RefreshResults.WithLabelValues("replace", "generation_failed").Inc()
		m.logger.Warn("Refresh produced no suggestions, keeping existing goals", "user_id", userID)
		return nil, models.NewGenerationError(GenerationFailedMessage)
	}

	previous, err := m.store.ListGoals(ctx, userID)
	if err != nil {
		return nil, err
	}

	fresh := m.newGoals(userID, tasks)
	if err := m.store.ReplaceGoals(ctx, userID, fresh); err != nil {
		metrics.RefreshResults.WithLabelValues("replace", "error").Inc()
		return nil, err
	}
	for _, g := range previous {
		m.removals.cancel(g.ID)
	}

	metrics.RefreshResults.WithLabelValues("replace", "ok").Inc()
	m.logger.Info("Goals refreshed", "user_id", userID, "replaced", len(previous), "created", len(fresh))
	m.publish(ctx, models.GoalEvent{Type: models.EventGoalsRefreshed, UserID: userID, Count: len(fresh)})
	return fresh, nil
}

// SuggestGoals appends up to count generated goals without touching the
// existing ones.
func (m *Manager) SuggestGoals(ctx context.Context, userID int64, count int) ([]models.Goal, error) {
	if err := validateCount(count); err != nil {
		return nil, err
	}

	unlock, err := m.locker.Lock(ctx, userLockKey(userID))
	if err != nil {
		metrics.RefreshResults.WithLabelValues("append", "busy").Inc()
		return nil, err
	}
	defer unlock()

	profile, err := m.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	tasks := m.suggester.Suggest(ctx, suggest.RequestFromProfile(profile), count)
	if len(tasks) == 0 {
		metrics.RefreshResults.WithLabelValues("append", "generation_failed").Inc()
		return nil, models.NewGenerationError(GenerationFailedMessage)
	}

	created := m.newGoals(userID, tasks)
	for i := range created {
		if err := m.store.CreateGoal(ctx, &created[i]); err != nil {
			metrics.RefreshResults.WithLabelValues("append", "error").Inc()
			return created[:i], err
		}
		m.publish(ctx, models.GoalEvent{Type: models.EventGoalCreated, UserID: userID, GoalID: created[i].ID, Task: created[i].Task})
	}

	metrics.RefreshResults.WithLabelValues("append", "ok").Inc()
	return created, nil
}

// Close stops pending completion removals.
func (m *Manager) Close() {
	m.removals.stop()
}

func (m *Manager) newGoals(userID int64, tasks []string) []models.Goal {
	now := m.now()
	out := make([]models.Goal, 0, len(tasks))
	for i, task := range tasks {
		// spaced a microsecond apart so the generated order survives storage
		out = append(out, models.Goal{
			ID:        m.newID(),
			UserID:    userID,
			Task:      task,
			CreatedAt: now.Add(time.Duration(i) * time.Microsecond),
		})
	}
	return out
}

func (m *Manager) removeCompleted(goalID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	removed, err := m.store.DeleteCompletedGoal(ctx, goalID)
	if err != nil {
		m.logger.Error("Failed to remove completed goal", "goal_id", goalID, "error", err)
		return
	}
	if !removed {
		m.logger.Debug("Completed goal was reopened or already gone, keeping it", "goal_id", goalID)
		return
	}
	metrics.GoalOperations.WithLabelValues("remove_completed").Inc()
	m.logger.Debug("Goal state changed", "goal_id", goalID, "state", models.GoalStateDeleted)
}

func (m *Manager) logTransition(g *models.Goal, state models.GoalState) {
	m.logger.Debug("Goal state changed", "goal_id", g.ID, "user_id", g.UserID, "state", state)
}

func validateCount(count int) error {
	if count < 1 || count > MaxSuggestionCount {
		return models.NewValidationError(fmt.Sprintf("count must be between 1 and %d", MaxSuggestionCount))
	}
	return nil
}

func (m *Manager) publish(ctx context.Context, event models.GoalEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = m.now()
	}
	if err := m.publisher.Publish(ctx, event); err != nil {
		m.logger.Warn("Failed to publish goal event", "type", event.Type, "user_id", event.UserID, "error", err)
	}
}

func userLockKey(userID int64) string {
	return fmt.Sprintf("goals:%d", userID)
}
