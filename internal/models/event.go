package models

import "time"

// Lifecycle event types published to the events topic.
const (
	EventGoalCreated      = "goal.created"
	EventGoalCompleted    = "goal.completed"
	EventGoalDeleted      = "goal.deleted"
	EventGoalsRefreshed   = "goals.refreshed"
	EventProfileSubmitted = "profile.submitted"
)

// GoalEvent describes a change in a user's goals or profile
type GoalEvent struct {
	Type       string    `json:"type"`
	UserID     int64     `json:"userId"`
	GoalID     string    `json:"goalId,omitempty"`
	Task       string    `json:"task,omitempty"`
	Count      int       `json:"count,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
