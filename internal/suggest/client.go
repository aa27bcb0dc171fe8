package suggest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/illegalcall/emerge/internal/metrics"
	"github.com/illegalcall/emerge/internal/models"
)

const generativeService = "generative service"

var errMissingAPIKey = errors.New("GEMINI_API_KEY is not set")

// TextGenerator is the external generative text service. Implementations
// return the raw model output and make no promises about its shape.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GenAIClient implements TextGenerator with the Gemini API
type GenAIClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGenAIClient creates a Gemini backed generator. Calls are single-shot and
// bounded by timeout.
func NewGenAIClient(ctx context.Context, apiKey, model string, timeout time.Duration) (*GenAIClient, error) {
	if apiKey == "" {
		return nil, errMissingAPIKey
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIClient{
		client:  client,
		model:   model,
		timeout: timeout,
	}, nil
}

func (c *GenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.7),
	})
	metrics.ObserveUpstream("gemini", start, err)
	if err != nil {
		return "", models.NewUpstreamError(generativeService, err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", models.NewUpstreamError(generativeService, errors.New("empty response"))
	}
	return text, nil
}

// Unconfigured stands in for the generative service when no API key is set.
// Every call fails as upstream unavailable so callers take their fallback path.
type Unconfigured struct{}

func (Unconfigured) Generate(ctx context.Context, prompt string) (string, error) {
	return "", models.NewUpstreamError(generativeService, errMissingAPIKey)
}
