package models

import "time"

// Activity types recorded for the recent activity feed.
const (
	ActivityGoalCreated      = "goal_created"
	ActivityGoalCompleted    = "goal_completed"
	ActivityGoalDeleted      = "goal_deleted"
	ActivityGoalsRefreshed   = "goals_refreshed"
	ActivityProfileSubmitted = "profile_submitted"
)

// Activity is one entry in a user's recent activity feed
type Activity struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Type      string    `json:"type" db:"type"`
	Title     string    `json:"title" db:"title"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// CreateActivityRequest is the body of POST /api/activities
type CreateActivityRequest struct {
	UserID int64  `json:"userId"`
	Type   string `json:"type"`
	Title  string `json:"title"`
}

// Validate checks the required fields.
func (r *CreateActivityRequest) Validate() error {
	if r.UserID <= 0 || r.Type == "" || r.Title == "" {
		return NewValidationError("userId, type and title are required")
	}
	return nil
}
