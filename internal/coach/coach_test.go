package coach

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illegalcall/emerge/internal/models"
	"github.com/illegalcall/emerge/internal/storage"
)

type stubLLM struct {
	reply  string
	err    error
	prompt string
}

func (s *stubLLM) Generate(ctx context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.reply, s.err
}

func TestAsk(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.UpsertProfile(ctx, &models.Profile{
		UserID:        5,
		Subjects:      []string{"Chemistry", "Math"},
		Interests:     "pharma",
		Skills:        "titration",
		ThinkingStyle: models.ThinkingStyleFlow,
	}))

	t.Run("WithProfile", func(t *testing.T) {
		llm := &stubLLM{reply: "Try an internship."}
		reply, err := New(store, llm, nil).Ask(ctx, 5, "How do I start?")
		require.NoError(t, err)
		assert.Equal(t, "Try an internship.", reply)
		assert.Contains(t, llm.prompt, "Subjects: Chemistry, Math")
		assert.Contains(t, llm.prompt, "Career Goal: Not specified")
		assert.Contains(t, llm.prompt, "respond to their question: How do I start?")
	})

	t.Run("WithoutProfile", func(t *testing.T) {
		llm := &stubLLM{reply: "ok"}
		_, err := New(store, llm, nil).Ask(ctx, 77, "Any tips?")
		require.NoError(t, err)
		assert.Contains(t, llm.prompt, "Subjects: Not specified")
	})

	t.Run("EmptyMessage", func(t *testing.T) {
		_, err := New(store, &stubLLM{}, nil).Ask(ctx, 5, "   ")
		assert.True(t, errors.Is(err, models.ErrValidation))
	})

	t.Run("UpstreamFailure", func(t *testing.T) {
		_, err := New(store, &stubLLM{err: errors.New("timeout")}, nil).Ask(ctx, 5, "Hello")
		assert.True(t, errors.Is(err, models.ErrUpstreamUnavailable))
	})

	t.Run("Unconfigured", func(t *testing.T) {
		_, err := New(store, nil, nil).Ask(ctx, 5, "Hello")
		assert.True(t, errors.Is(err, models.ErrUpstreamUnavailable))
	})
}
