package recommend

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/illegalcall/emerge/internal/models"
	"github.com/illegalcall/emerge/internal/suggest"
)

func coursePrompt(p *models.Profile) string {
	return fmt.Sprintf(`Recommend one online course for a learner with this profile:
Subjects: %s
Interests: %s
Current Skills: %s
Career Goal: %s
Thinking Style: %s

The course should be beginner friendly and help them explore careers in %s.

Format as a single JSON object with the keys "title", "provider", "url" and "description". Example:
{"title": "Introduction to Genetics", "provider": "Coursera", "url": "https://www.coursera.org/learn/genetics", "description": "Foundations of heredity and gene expression."}

Response must be only the JSON object, no other text.`,
		strings.Join(p.Subjects, ", "),
		p.Interests,
		p.Skills,
		p.Goal,
		p.ThinkingStyle,
		p.PrimarySubject("career development"),
	)
}

// ParseCourse reads a course object out of free text, trying the whole text
// and then the first balanced {...} substring. ok is false when no object
// with a title was found.
func ParseCourse(text string) (*models.Course, bool) {
	text = strings.TrimSpace(text)

	var obj gjson.Result
	if gjson.Valid(text) {
		obj = gjson.Parse(text)
	} else {
		sub, found := suggest.ExtractBalanced(text, '{', '}')
		if !found || !gjson.Valid(sub) {
			return nil, false
		}
		obj = gjson.Parse(sub)
	}
	if !obj.IsObject() {
		return nil, false
	}

	course := &models.Course{
		Title:       strings.TrimSpace(obj.Get("title").String()),
		Provider:    strings.TrimSpace(obj.Get("provider").String()),
		URL:         strings.TrimSpace(obj.Get("url").String()),
		Description: strings.TrimSpace(obj.Get("description").String()),
	}
	if course.Title == "" {
		return nil, false
	}
	return course, true
}

// FallbackCourse is served when the generative service cannot answer.
func FallbackCourse(subject string) *models.Course {
	return &models.Course{
		Title:       subject + " Skills Assessment Workshop",
		Provider:    "Coursera",
		Description: fmt.Sprintf("Map your current strengths and gaps in %s before choosing a specialization.", subject),
		URL:         "https://www.coursera.org/search?query=" + url.QueryEscape(subject),
	}
}

func recommendCourse(ctx context.Context, llm suggest.TextGenerator, p *models.Profile) (*models.Course, error) {
	text, err := llm.Generate(ctx, coursePrompt(p))
	if err != nil {
		return nil, err
	}
	course, ok := ParseCourse(text)
	if !ok {
		return nil, errors.New("could not parse course recommendation")
	}
	return course, nil
}
