// Package dashboard assembles the single read view shown after the survey.
package dashboard

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/illegalcall/emerge/internal/models"
	"github.com/illegalcall/emerge/internal/storage"
)

// RecentActivities is how many activity entries the dashboard shows.
const RecentActivities = 5

// GoalLister is the read side of the goal manager
type GoalLister interface {
	ListGoals(ctx context.Context, userID int64) ([]models.Goal, error)
}

// Recommender supplies the course, video and trend cards. It never fails.
type Recommender interface {
	Recommendation(ctx context.Context, p *models.Profile) models.Recommendation
	Trends(subject string) []models.TrendItem
}

type Aggregator struct {
	profiles   storage.ProfileStore
	goals      GoalLister
	activities storage.ActivityStore
	recommend  Recommender
	logger     *slog.Logger
}

func NewAggregator(profiles storage.ProfileStore, goals GoalLister, activities storage.ActivityStore, recommend Recommender, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		profiles:   profiles,
		goals:      goals,
		activities: activities,
		recommend:  recommend,
		logger:     logger,
	}
}

// BuildDashboard returns the profile not found error unchanged so callers can
// send the user to the survey. Activity and recommendation failures only
// leave their sections empty or on fallback values.
func (a *Aggregator) BuildDashboard(ctx context.Context, userID int64) (*models.DashboardView, error) {
	profile, err := a.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &models.DashboardView{
		ProfileSummary: profile.Summary(),
		Goals:          []models.GoalView{},
		Activities:     []models.Activity{},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		goals, err := a.goals.ListGoals(gctx, userID)
		if err != nil {
			return err
		}
		view.Goals = models.GoalViews(goals)
		return nil
	})
	g.Go(func() error {
		activities, err := a.activities.ListActivities(gctx, userID, RecentActivities)
		if err != nil {
			a.logger.Warn("Failed to load activities for dashboard", "user_id", userID, "error", err)
			return nil
		}
		view.Activities = activities
		return nil
	})
	g.Go(func() error {
		view.Recommendation = a.recommend.Recommendation(gctx, profile)
		return nil
	})
	view.Trends = a.recommend.Trends(profile.PrimarySubject("Career Development"))

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return view, nil
}
