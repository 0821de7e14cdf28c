// Package insights asks a text-generation model to comment on dashboard figures.
package insights

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/simonvc/minipnl/internal/ledger"
)

// Generator turns dashboard figures into free text. Callers never parse
// the result.
type Generator interface {
	Generate(ctx context.Context, d ledger.Dashboard) (string, error)
}

const DefaultModel = "gemini-2.5-flash"

type Options struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	Logger  zerolog.Logger
}

// Gemini is a Generator backed by the Gemini API.
type Gemini struct {
	opts Options
}

func NewGemini(opts Options) *Gemini {
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	return &Gemini{opts: opts}
}

// WithAPIKey returns a copy using key, or g itself when key is empty.
func (g *Gemini) WithAPIKey(key string) *Gemini {
	key = strings.TrimSpace(key)
	if key == "" {
		return g
	}
	opts := g.opts
	opts.APIKey = key
	return &Gemini{opts: opts}
}

func (g *Gemini) Generate(ctx context.Context, d ledger.Dashboard) (string, error) {
	if g.opts.APIKey == "" {
		return "", ledger.ErrInsightsDisabled
	}
	if d.Empty() {
		return "", ledger.ErrNoTransactions
	}
	if g.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.opts.Timeout)
		defer cancel()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create genai client: %w", err)
	}

	started := time.Now()
	resp, err := client.Models.GenerateContent(ctx, g.opts.Model, genai.Text(BuildPrompt(d)), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.7),
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("generate content: empty response from model")
	}
	g.opts.Logger.Debug().
		Str("model", g.opts.Model).
		Dur("elapsed", time.Since(started)).
		Int("chars", len(text)).
		Msg("insights generated")
	return text, nil
}
