// Package sentence turns vocabulary words into example sentence pairs
// by prompting a chat-completion model and extracting the tuple list
// from its reply.
package sentence

import (
	"context"
	"strings"

	"flashdoc/internal/card"
)

// Generator produces example sentence pairs for a single word.
//
// Implementations never return an error: a failed or garbled model
// call collapses to zero examples so one bad word cannot sink the run.
type Generator interface {
	Examples(ctx context.Context, word string) []card.Example
}

// PromptFor substitutes word into the {word} placeholder of the prompt
// template.
func PromptFor(template, word string) string {
	return strings.ReplaceAll(template, "{word}", word)
}

// GenerateAll runs the generator over each word in order and maps every
// word to its examples. Words that produced nothing are still present
// with an empty list, which is what the aggregator expects.
func GenerateAll(ctx context.Context, g Generator, words []string) map[string][]card.Example {
	results := make(map[string][]card.Example, len(words))
	for _, word := range words {
		results[word] = g.Examples(ctx, word)
	}
	return results
}

const systemMessage = "You are a helpful assistant."
