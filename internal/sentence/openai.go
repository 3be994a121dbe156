package sentence

import (
	"context"
	"log/slog"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"flashdoc/internal/card"
)

// OpenAI implements Generator on top of OpenAI's chat completion API.
type OpenAI struct {
	model  string
	prompt string

	client *goopenai.Client
	logger *slog.Logger
}

// NewOpenAI creates a new OpenAI generator. The client is built once
// here and owned by the generator for the whole run.
func NewOpenAI(apiKey, model, prompt string, logger *slog.Logger) *OpenAI {
	return &OpenAI{
		model:  model,
		prompt: prompt,
		client: goopenai.NewClient(apiKey),
		logger: logger.With(slog.String("module", "openai")),
	}
}

// Examples asks the model for sentence pairs for word. Request errors
// and unparseable replies are logged and collapse to zero examples.
func (o *OpenAI) Examples(ctx context.Context, word string) []card.Example {
	ctx, cancel := context.WithTimeout(ctx, 1*time.Minute)
	defer cancel()

	resp, err := o.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: o.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: goopenai.ChatMessageRoleUser, Content: PromptFor(o.prompt, word)},
		},
	})
	if err != nil {
		o.logger.Warn("chat completion failed", slog.String("word", word), slog.String("err", err.Error()))
		return nil
	}
	if len(resp.Choices) == 0 {
		o.logger.Warn("chat completion returned no choices", slog.String("word", word))
		return nil
	}

	examples := card.Extract(resp.Choices[0].Message.Content)
	if len(examples) == 0 {
		o.logger.Warn("no tuples extracted from model reply", slog.String("word", word))
	}
	return examples
}
