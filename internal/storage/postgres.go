package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/illegalcall/emerge/internal/metrics"
	"github.com/illegalcall/emerge/internal/models"
)

// foreignKeyViolation is the postgres SQLSTATE for a missing referenced row.
const foreignKeyViolation = "23503"

const (
	selectProfile = `SELECT user_id, subjects, interests, skills, goal, thinking_style, extra_info, created_at, updated_at
		FROM profiles WHERE user_id = $1`
	upsertProfile = `INSERT INTO profiles (user_id, subjects, interests, skills, goal, thinking_style, extra_info, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id) DO UPDATE SET
			subjects = EXCLUDED.subjects,
			interests = EXCLUDED.interests,
			skills = EXCLUDED.skills,
			goal = EXCLUDED.goal,
			thinking_style = EXCLUDED.thinking_style,
			extra_info = EXCLUDED.extra_info,
			updated_at = EXCLUDED.updated_at`
	selectGoals         = `SELECT id, user_id, task, completed, created_at FROM goals WHERE user_id = $1 ORDER BY created_at, id`
	selectGoal          = `SELECT id, user_id, task, completed, created_at FROM goals WHERE id = $1`
	insertGoal          = `INSERT INTO goals (id, user_id, task, completed, created_at) VALUES ($1, $2, $3, $4, $5)`
	updateGoal          = `UPDATE goals SET completed = $1 WHERE id = $2 RETURNING id, user_id, task, completed, created_at`
	deleteGoal          = `DELETE FROM goals WHERE id = $1`
	deleteCompletedGoal = `DELETE FROM goals WHERE id = $1 AND completed`
	deleteUserGoals     = `DELETE FROM goals WHERE user_id = $1`
	insertActivity      = `INSERT INTO activities (user_id, type, title, created_at) VALUES ($1, $2, $3, $4) RETURNING id`
	selectActivities    = `SELECT id, user_id, type, title, created_at FROM activities WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2`
	defaultListLimit    = 50
)

// PostgresStore implements Store on top of sqlx
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps an open database handle
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetProfile(ctx context.Context, userID int64) (*models.Profile, error) {
	defer metrics.TrackQuery("select", "profiles")()

	var p models.Profile
	if err := s.db.GetContext(ctx, &p, selectProfile, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NewProfileNotFoundError(userID)
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

func (s *PostgresStore) UpsertProfile(ctx context.Context, p *models.Profile) error {
	defer metrics.TrackQuery("upsert", "profiles")()

	_, err := s.db.ExecContext(ctx, upsertProfile,
		p.UserID, p.Subjects, p.Interests, p.Skills, p.Goal,
		string(p.ThinkingStyle), p.ExtraInfo, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListGoals(ctx context.Context, userID int64) ([]models.Goal, error) {
	defer metrics.TrackQuery("select", "goals")()

	goals := make([]models.Goal, 0)
	if err := s.db.SelectContext(ctx, &goals, selectGoals, userID); err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	return goals, nil
}

func (s *PostgresStore) GetGoal(ctx context.Context, id string) (*models.Goal, error) {
	defer metrics.TrackQuery("select", "goals")()

	var g models.Goal
	if err := s.db.GetContext(ctx, &g, selectGoal, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NewNotFoundError("goal", id)
		}
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	return &g, nil
}

func (s *PostgresStore) CreateGoal(ctx context.Context, g *models.Goal) error {
	defer metrics.TrackQuery("insert", "goals")()

	_, err := s.db.ExecContext(ctx, insertGoal, g.ID, g.UserID, g.Task, g.Completed, g.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return models.NewProfileNotFoundError(g.UserID)
		}
		return fmt.Errorf("failed to insert goal: %w", err)
	}
	return nil
}

func (s *PostgresStore) SetGoalCompleted(ctx context.Context, id string, completed bool) (*models.Goal, error) {
	defer metrics.TrackQuery("update", "goals")()

	var g models.Goal
	if err := s.db.GetContext(ctx, &g, updateGoal, completed, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NewNotFoundError("goal", id)
		}
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}
	return &g, nil
}

func (s *PostgresStore) DeleteGoal(ctx context.Context, id string) (bool, error) {
	defer metrics.TrackQuery("delete", "goals")()
	return s.deleteGoalWhere(ctx, deleteGoal, id)
}

func (s *PostgresStore) DeleteCompletedGoal(ctx context.Context, id string) (bool, error) {
	defer metrics.TrackQuery("delete_completed", "goals")()
	return s.deleteGoalWhere(ctx, deleteCompletedGoal, id)
}

func (s *PostgresStore) deleteGoalWhere(ctx context.Context, query, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete goal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

func (s *PostgresStore) ReplaceGoals(ctx context.Context, userID int64, goals []models.Goal) (err error) {
	defer metrics.TrackQuery("replace", "goals")()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, deleteUserGoals, userID); err != nil {
		return fmt.Errorf("failed to clear goals: %w", err)
	}
	for _, g := range goals {
		if _, err = tx.ExecContext(ctx, insertGoal, g.ID, userID, g.Task, g.Completed, g.CreatedAt); err != nil {
			if isForeignKeyViolation(err) {
				err = models.NewProfileNotFoundError(userID)
				return err
			}
			return fmt.Errorf("failed to insert goal: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit goals: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateActivity(ctx context.Context, a *models.Activity) error {
	defer metrics.TrackQuery("insert", "activities")()

	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	err := s.db.QueryRowxContext(ctx, insertActivity, a.UserID, a.Type, a.Title, a.CreatedAt).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListActivities(ctx context.Context, userID int64, limit int) ([]models.Activity, error) {
	defer metrics.TrackQuery("select", "activities")()

	if limit <= 0 {
		limit = defaultListLimit
	}
	activities := make([]models.Activity, 0)
	if err := s.db.SelectContext(ctx, &activities, selectActivities, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == foreignKeyViolation
}
