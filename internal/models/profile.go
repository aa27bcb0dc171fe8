package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

// ThinkingStyle describes how a user prefers to approach work.
type ThinkingStyle string

const (
	ThinkingStylePlan ThinkingStyle = "Plan"
	ThinkingStyleFlow ThinkingStyle = "Flow"
)

// Valid reports whether the style is one of the known values.
func (s ThinkingStyle) Valid() bool {
	return s == ThinkingStylePlan || s == ThinkingStyleFlow
}

const (
	minInterestsLen = 2
	minSkillsLen    = 2
)

// Profile represents the survey answers stored for a user
type Profile struct {
	UserID        int64          `json:"userId" db:"user_id"`
	Subjects      pq.StringArray `json:"subjects" db:"subjects"`
	Interests     string         `json:"interests" db:"interests"`
	Skills        string         `json:"skills" db:"skills"`
	Goal          string         `json:"goal" db:"goal"`
	ThinkingStyle ThinkingStyle  `json:"thinkingStyle" db:"thinking_style"`
	ExtraInfo     string         `json:"extraInfo,omitempty" db:"extra_info"`
	CreatedAt     time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time      `json:"updatedAt" db:"updated_at"`
}

// PrimarySubject returns the first subject, or fallback when the profile has none.
func (p *Profile) PrimarySubject(fallback string) string {
	if p == nil {
		return fallback
	}
	for _, s := range p.Subjects {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return fallback
}

// FirstInterest returns the first comma separated interest, or fallback.
func (p *Profile) FirstInterest(fallback string) string {
	if p == nil {
		return fallback
	}
	first, _, _ := strings.Cut(p.Interests, ",")
	if first = strings.TrimSpace(first); first != "" {
		return first
	}
	return fallback
}

// Level is the journey label shown on the dashboard.
func (p *Profile) Level() string {
	return fmt.Sprintf("Beginner at %s", p.PrimarySubject("Career Development"))
}

// Survey is the payload submitted from the onboarding form
type Survey struct {
	UserID        int64         `json:"userId"`
	Subjects      []string      `json:"subjects"`
	Interests     string        `json:"interests"`
	Skills        string        `json:"skills"`
	Goal          string        `json:"goal"`
	ThinkingStyle ThinkingStyle `json:"thinkingStyle"`
	// ExtraInfo is optional; nil keeps whatever was stored before.
	ExtraInfo *string `json:"extraInfo,omitempty"`
}

// Validate checks that the survey carries every required field
func (s *Survey) Validate() error {
	if s.UserID <= 0 {
		return NewValidationError("userId must be a positive integer")
	}

	subjects := 0
	for _, subject := range s.Subjects {
		if strings.TrimSpace(subject) != "" {
			subjects++
		}
	}
	if subjects == 0 {
		return NewValidationError("at least one subject is required")
	}

	if len(strings.TrimSpace(s.Interests)) < minInterestsLen {
		return NewValidationError("interests must be at least 2 characters")
	}
	if len(strings.TrimSpace(s.Skills)) < minSkillsLen {
		return NewValidationError("skills must be at least 2 characters")
	}
	if !s.ThinkingStyle.Valid() {
		return NewValidationError("thinkingStyle must be one of: Plan, Flow")
	}

	return nil
}

// ApplyTo merges the survey into an existing profile. A nil existing profile
// yields a fresh one.
func (s *Survey) ApplyTo(existing *Profile, now time.Time) *Profile {
	p := &Profile{UserID: s.UserID, CreatedAt: now}
	if existing != nil {
		*p = *existing
	}

	subjects := make(pq.StringArray, 0, len(s.Subjects))
	for _, subject := range s.Subjects {
		if subject = strings.TrimSpace(subject); subject != "" {
			subjects = append(subjects, subject)
		}
	}

	p.Subjects = subjects
	p.Interests = strings.TrimSpace(s.Interests)
	p.Skills = strings.TrimSpace(s.Skills)
	p.Goal = strings.TrimSpace(s.Goal)
	p.ThinkingStyle = s.ThinkingStyle
	if s.ExtraInfo != nil {
		p.ExtraInfo = strings.TrimSpace(*s.ExtraInfo)
	}
	p.UpdatedAt = now

	return p
}

// ProfileSummary is the dashboard view of a profile
type ProfileSummary struct {
	UserID         int64         `json:"userId"`
	Subjects       []string      `json:"subjects"`
	PrimarySubject string        `json:"primarySubject"`
	Interests      string        `json:"interests"`
	Skills         string        `json:"skills"`
	Goal           string        `json:"goal"`
	ThinkingStyle  ThinkingStyle `json:"thinkingStyle"`
	Level          string        `json:"level"`
}

// Summary builds the dashboard view of the profile.
func (p *Profile) Summary() ProfileSummary {
	return ProfileSummary{
		UserID:         p.UserID,
		Subjects:       []string(p.Subjects),
		PrimarySubject: p.PrimarySubject("Career Development"),
		Interests:      p.Interests,
		Skills:         p.Skills,
		Goal:           p.Goal,
		ThinkingStyle:  p.ThinkingStyle,
		Level:          p.Level(),
	}
}
