package storage

import (
	"context"

	"github.com/illegalcall/emerge/internal/models"
)

// ProfileStore persists survey profiles, one per user
type ProfileStore interface {
	// GetProfile returns models.ErrNotFound when the user has no profile
	GetProfile(ctx context.Context, userID int64) (*models.Profile, error)

	// UpsertProfile inserts or overwrites the profile row for p.UserID
	UpsertProfile(ctx context.Context, p *models.Profile) error
}

// GoalStore persists goals keyed by id and owning user
type GoalStore interface {
	// ListGoals returns the user's goals ordered by creation time
	ListGoals(ctx context.Context, userID int64) ([]models.Goal, error)

	// GetGoal returns models.ErrNotFound when the goal does not exist
	GetGoal(ctx context.Context, id string) (*models.Goal, error)

	// CreateGoal returns models.ErrNotFound when the owner has no profile
	CreateGoal(ctx context.Context, g *models.Goal) error

	// SetGoalCompleted returns models.ErrNotFound when the goal does not exist
	SetGoalCompleted(ctx context.Context, id string, completed bool) (*models.Goal, error)

	// DeleteGoal reports whether a row was removed
	DeleteGoal(ctx context.Context, id string) (bool, error)

	// DeleteCompletedGoal removes the goal only while it is still completed,
	// so a goal reopened meanwhile survives its pending removal
	DeleteCompletedGoal(ctx context.Context, id string) (bool, error)

	// ReplaceGoals atomically swaps every goal of the user for goals
	ReplaceGoals(ctx context.Context, userID int64, goals []models.Goal) error
}

// ActivityStore persists the recent activity feed
type ActivityStore interface {
	CreateActivity(ctx context.Context, a *models.Activity) error
	ListActivities(ctx context.Context, userID int64, limit int) ([]models.Activity, error)
}

// Store is everything the services need from persistence
type Store interface {
	ProfileStore
	GoalStore
	ActivityStore

	Close() error
}
