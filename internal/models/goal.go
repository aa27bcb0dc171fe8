package models

import (
	"strings"
	"time"
)

// MinTaskLength is the shortest task text accepted for a goal.
const MinTaskLength = 2

// GoalState is the lifecycle state of a goal
type GoalState string

const (
	GoalStateActive    GoalState = "active"
	GoalStateCompleted GoalState = "completed"
	GoalStateDeleted   GoalState = "deleted"
)

// Goal is a single actionable task owned by a user
type Goal struct {
	ID        string    `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Task      string    `json:"task" db:"task"`
	Completed bool      `json:"completed" db:"completed"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Progress is derived from the completion flag; there is no partial progress.
func (g Goal) Progress() int {
	if g.Completed {
		return 100
	}
	return 0
}

// State reports the lifecycle state of a stored goal.
func (g Goal) State() GoalState {
	if g.Completed {
		return GoalStateCompleted
	}
	return GoalStateActive
}

// View converts the goal into its presentation form.
func (g Goal) View() GoalView {
	return GoalView{
		ID:        g.ID,
		Task:      g.Task,
		Completed: g.Completed,
		Progress:  g.Progress(),
		State:     g.State(),
	}
}

// GoalView is what the dashboard and the goal endpoints return
type GoalView struct {
	ID        string    `json:"id"`
	Task      string    `json:"task"`
	Completed bool      `json:"completed"`
	Progress  int       `json:"progress"`
	State     GoalState `json:"state"`
}

// GoalViews converts a slice of goals.
func GoalViews(goals []Goal) []GoalView {
	views := make([]GoalView, 0, len(goals))
	for _, g := range goals {
		views = append(views, g.View())
	}
	return views
}

// ValidateTask trims the task text and enforces the minimum length.
func ValidateTask(task string) (string, error) {
	task = strings.TrimSpace(task)
	if len([]rune(task)) < MinTaskLength {
		return "", NewValidationError("task must be at least 2 characters")
	}
	return task, nil
}

// CreateGoalRequest is the body of POST /api/goals
type CreateGoalRequest struct {
	UserID    int64  `json:"userId"`
	Task      string `json:"task"`
	Completed bool   `json:"completed"`
}

// UpdateGoalRequest is the body of PUT /api/goals/:id
type UpdateGoalRequest struct {
	Completed *bool `json:"completed"`
}
