// Package profile handles survey submission and profile lookups.
package profile

import (
	"context"
	"log/slog"
	"time"

	"github.com/illegalcall/emerge/internal/events"
	"github.com/illegalcall/emerge/internal/models"
	"github.com/illegalcall/emerge/internal/storage"
)

type Service struct {
	store     storage.ProfileStore
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(store storage.ProfileStore, publisher events.Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if publisher == nil {
		publisher = events.Noop{Logger: logger}
	}
	return &Service{store: store, publisher: publisher, logger: logger, now: time.Now}
}

// Submit validates the survey and merges it into the user's stored profile.
// Resubmission keeps CreatedAt and, when ExtraInfo is omitted, the old notes.
func (s *Service) Submit(ctx context.Context, survey *models.Survey) (*models.Profile, error) {
	if err := survey.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.store.GetProfile(ctx, survey.UserID)
	if err != nil {
		if !models.IsProfileNotFound(err) {
			return nil, err
		}
		existing = nil
	}

	now := s.now()
	p := survey.ApplyTo(existing, now)
	if err := s.store.UpsertProfile(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("Profile saved", "user_id", p.UserID, "resubmission", existing != nil)
	event := models.GoalEvent{Type: models.EventProfileSubmitted, UserID: p.UserID, OccurredAt: now}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish profile event", "user_id", p.UserID, "error", err)
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, userID int64) (*models.Profile, error) {
	if userID <= 0 {
		return nil, models.NewValidationError("Invalid user ID")
	}
	return s.store.GetProfile(ctx, userID)
}
