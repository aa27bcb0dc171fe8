// Package coach answers free-form career questions with the user's profile
// as context.
package coach

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/illegalcall/emerge/internal/models"
	"github.com/illegalcall/emerge/internal/storage"
	"github.com/illegalcall/emerge/internal/suggest"
)

const notSpecified = "Not specified"

type Coach struct {
	profiles storage.ProfileStore
	llm      suggest.TextGenerator
	logger   *slog.Logger
}

func New(profiles storage.ProfileStore, llm suggest.TextGenerator, logger *slog.Logger) *Coach {
	if logger == nil {
		logger = slog.Default()
	}
	if llm == nil {
		llm = suggest.Unconfigured{}
	}
	return &Coach{profiles: profiles, llm: llm, logger: logger}
}

// Ask returns the coach's reply. A missing profile is not an error; the
// prompt then says the details are not specified.
func (c *Coach) Ask(ctx context.Context, userID int64, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", models.NewValidationError("Message is required")
	}

	var profile *models.Profile
	if userID > 0 {
		p, err := c.profiles.GetProfile(ctx, userID)
		switch {
		case err == nil:
			profile = p
		case models.IsProfileNotFound(err):
		default:
			return "", err
		}
	}

	reply, err := c.llm.Generate(ctx, Prompt(profile, message))
	if err != nil {
		c.logger.Error("Career coach generation failed", "user_id", userID, "error", err)
		return "", models.NewUpstreamError("career coach", err)
	}
	return reply, nil
}

func field(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return notSpecified
	}
	return s
}

// Prompt renders the coaching prompt. profile may be nil.
func Prompt(profile *models.Profile, message string) string {
	var subjects, interests, skills, goal, style string
	if profile != nil {
		subjects = strings.Join(profile.Subjects, ", ")
		interests = profile.Interests
		skills = profile.Skills
		goal = profile.Goal
		style = string(profile.ThinkingStyle)
	}

	return fmt.Sprintf(`As a career coach, consider this user's profile:
Subjects: %s
Interests: %s
Skills: %s
Career Goal: %s
Thinking Style: %s

Based on this profile, respond to their question: %s

Provide personalized, actionable advice that aligns with their interests and goals. Keep the response concise and practical.`,
		field(subjects), field(interests), field(skills), field(goal), field(style), message)
}
