package suggest

import (
	"context"
	"log/slog"

	"github.com/illegalcall/emerge/internal/metrics"
)

// Generator turns profile attributes into goal text. It never returns an
// error: every failure degrades to an empty slice and is logged.
type Generator struct {
	llm    TextGenerator
	logger *slog.Logger
}

func NewGenerator(llm TextGenerator, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{llm: llm, logger: logger}
}

// Suggest asks the generative service for up to count goals.
func (g *Generator) Suggest(ctx context.Context, req Request, count int) []string {
	if count < 1 {
		g.logger.Warn("Ignoring suggestion request with non-positive count", "count", count)
		return []string{}
	}

	text, err := g.llm.Generate(ctx, BuildPrompt(req, count))
	if err != nil {
		metrics.SuggestionOutcomes.WithLabelValues("upstream_error").Inc()
		g.logger.Error("Error generating goals", "error", err)
		return []string{}
	}

	res := ParseSuggestions(text)
	if !res.OK() {
		metrics.SuggestionOutcomes.WithLabelValues("malformed").Inc()
		g.logger.Warn("Could not parse goal suggestions", "response_length", len(text))
		return []string{}
	}
	if len(res.Suggestions) == 0 {
		metrics.SuggestionOutcomes.WithLabelValues("empty").Inc()
		g.logger.Warn("Generator returned no usable goal suggestions")
		return []string{}
	}

	metrics.SuggestionOutcomes.WithLabelValues("ok").Inc()
	if len(res.Suggestions) > count {
		return res.Suggestions[:count]
	}
	return res.Suggestions
}
