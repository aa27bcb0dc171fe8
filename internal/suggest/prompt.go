package suggest

import (
	"fmt"
	"strings"

	"github.com/illegalcall/emerge/internal/models"
)

const notSpecified = "Not specified"

// Request carries the profile attributes the prompt is built from. Only
// Subjects, Skills and Interests are required.
type Request struct {
	Subjects      []string
	Skills        string
	Interests     string
	Goal          string
	ThinkingStyle string
	ExtraInfo     string
}

// RequestFromProfile copies the prompt inputs out of a stored profile.
func RequestFromProfile(p *models.Profile) Request {
	return Request{
		Subjects:      []string(p.Subjects),
		Skills:        p.Skills,
		Interests:     p.Interests,
		Goal:          p.Goal,
		ThinkingStyle: string(p.ThinkingStyle),
		ExtraInfo:     p.ExtraInfo,
	}
}

func orNotSpecified(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return notSpecified
	}
	return s
}

// BuildPrompt renders the goal suggestion instruction. The model is told to
// answer with a bare JSON array of strings.
func BuildPrompt(req Request, count int) string {
	subjects := strings.Join(req.Subjects, ", ")
	primary := "your field"
	if len(req.Subjects) > 0 && strings.TrimSpace(req.Subjects[0]) != "" {
		primary = strings.TrimSpace(req.Subjects[0])
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Suggest %d specific and actionable career development goals focused on the subjects: %s\n", count, subjects)
	fmt.Fprintf(&b, "Consider these aspects - Current Skills: %s, Interests: %s, Career Goals: %s, Thinking Style: %s, Additional Info: %s\n\n",
		orNotSpecified(req.Skills),
		orNotSpecified(req.Interests),
		orNotSpecified(req.Goal),
		orNotSpecified(req.ThinkingStyle),
		orNotSpecified(req.ExtraInfo),
	)
	b.WriteString("Based on the user's thinking style and career goals, adjust the difficulty and complexity of tasks accordingly.\n\n")
	b.WriteString("Requirements for goals:\n")
	b.WriteString("- Must be achievable in 1-2 hours\n")
	b.WriteString("- Focus on career exploration and professional development in the subject field\n")
	b.WriteString("- Should help understand career paths and opportunities\n")
	b.WriteString("- Include industry-relevant skills or knowledge\n")
	b.WriteString("- Be specific and measurable\n")
	fmt.Fprintf(&b, "- Example: \"Research 2 companies hiring %s professionals and list their requirements\"\n\n", primary)
	b.WriteString("Format as JSON array of strings. Example:\n")
	b.WriteString("[\"Complete 3 linear algebra practice problems\", \"Write a 1-page summary of photosynthesis process\"]\n\n")
	b.WriteString("Response must be only the JSON array, no other text.")
	return b.String()
}
