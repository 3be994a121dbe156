package sentence

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"flashdoc/internal/card"
)

// Gemini implements Generator using Gemini text generation.
type Gemini struct {
	client *genai.Client
	model  string
	prompt string
	logger *slog.Logger
}

func NewGemini(ctx context.Context, apiKey, model, prompt string, logger *slog.Logger) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &Gemini{
		client: client,
		model:  model,
		prompt: prompt,
		logger: logger.With(slog.String("module", "gemini")),
	}, nil
}

func (g *Gemini) Examples(ctx context.Context, word string) []card.Example {
	contents := genai.Text(PromptFor(g.prompt, word))
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		g.logger.Warn("generation failed", slog.String("word", word), slog.String("err", err.Error()))
		return nil
	}

	examples := card.Extract(resp.Text())
	if len(examples) == 0 {
		g.logger.Warn("no tuples extracted from model reply", slog.String("word", word))
	}
	return examples
}
