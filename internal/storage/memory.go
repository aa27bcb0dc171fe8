package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/illegalcall/emerge/internal/models"
)

// MemoryStore implements Store with in-process maps. It is used by the
// memory store driver and by tests.
type MemoryStore struct {
	mu         sync.RWMutex
	profiles   map[int64]*models.Profile
	goals      map[string]*models.Goal
	activities map[int64][]models.Activity
	nextID     int64
	now        func() time.Time
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles:   make(map[int64]*models.Profile),
		goals:      make(map[string]*models.Goal),
		activities: make(map[int64][]models.Activity),
		now:        time.Now,
	}
}

func (s *MemoryStore) GetProfile(ctx context.Context, userID int64) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[userID]
	if !ok {
		return nil, models.NewProfileNotFoundError(userID)
	}
	cp := *p
	cp.Subjects = append(cp.Subjects[:0:0], p.Subjects...)
	return &cp, nil
}

func (s *MemoryStore) UpsertProfile(ctx context.Context, p *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *p
	cp.Subjects = append(cp.Subjects[:0:0], p.Subjects...)
	s.profiles[p.UserID] = &cp
	return nil
}

func (s *MemoryStore) ListGoals(ctx context.Context, userID int64) ([]models.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	goals := make([]models.Goal, 0)
	for _, g := range s.goals {
		if g.UserID == userID {
			goals = append(goals, *g)
		}
	}
	sort.SliceStable(goals, func(i, j int) bool {
		if goals[i].CreatedAt.Equal(goals[j].CreatedAt) {
			return goals[i].ID < goals[j].ID
		}
		return goals[i].CreatedAt.Before(goals[j].CreatedAt)
	})
	return goals, nil
}

func (s *MemoryStore) GetGoal(ctx context.Context, id string) (*models.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.goals[id]
	if !ok {
		return nil, models.NewNotFoundError("goal", id)
	}
	cp := *g
	return &cp, nil
}

func (s *MemoryStore) CreateGoal(ctx context.Context, g *models.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[g.UserID]; !ok {
		return models.NewProfileNotFoundError(g.UserID)
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = s.now()
	}
	cp := *g
	s.goals[g.ID] = &cp
	return nil
}

func (s *MemoryStore) SetGoalCompleted(ctx context.Context, id string, completed bool) (*models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.goals[id]
	if !ok {
		return nil, models.NewNotFoundError("goal", id)
	}
	g.Completed = completed
	cp := *g
	return &cp, nil
}

func (s *MemoryStore) DeleteGoal(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.goals[id]; !ok {
		return false, nil
	}
	delete(s.goals, id)
	return true, nil
}

func (s *MemoryStore) DeleteCompletedGoal(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.goals[id]
	if !ok || !g.Completed {
		return false, nil
	}
	delete(s.goals, id)
	return true, nil
}

func (s *MemoryStore) ReplaceGoals(ctx context.Context, userID int64, goals []models.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[userID]; !ok {
		return models.NewProfileNotFoundError(userID)
	}
	for id, g := range s.goals {
		if g.UserID == userID {
			delete(s.goals, id)
		}
	}
	for i := range goals {
		if goals[i].CreatedAt.IsZero() {
			goals[i].CreatedAt = s.now()
		}
		cp := goals[i]
		s.goals[cp.ID] = &cp
	}
	return nil
}

func (s *MemoryStore) CreateActivity(ctx context.Context, a *models.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	a.ID = s.nextID
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.now()
	}
	s.activities[a.UserID] = append(s.activities[a.UserID], *a)
	return nil
}

// ListActivities returns the newest activities first.
func (s *MemoryStore) ListActivities(ctx context.Context, userID int64, limit int) ([]models.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.activities[userID]
	out := make([]models.Activity, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, all[i])
	}
	return out, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
