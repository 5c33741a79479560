// Package answer packages retrieved units into a grounded prompt and
// turns the generation service's reply into an Answer with its sources.
package answer

import (
	"context"
	"fmt"
	"strings"

	"bankdocs/internal/domain"
	"bankdocs/internal/llm"
)

// systemPrompt constrains the model to the supplied context. Temperature
// stays at 0 for reproducible answers.
const systemPrompt = "You are an analyst for a development bank. " +
	"Answer strictly from the provided context. " +
	"If the context does not contain the answer, say that the documents do not cover it."

// Generator builds grounded prompts over a chat client.
type Generator struct {
	client llm.Client
}

func New(client llm.Client) *Generator {
	return &Generator{client: client}
}

// Generate asks the generation service to answer the question from the
// retrieved units only. The context block keeps retrieval rank order;
// sources are the deduplicated labels of the retrieved units.
func (g *Generator) Generate(ctx context.Context, question string, retrieved []domain.Result) (domain.Answer, error) {
	texts := make([]string, len(retrieved))
	for i, r := range retrieved {
		texts[i] = r.Unit.Text
	}
	user := fmt.Sprintf("Context:\n%s\n\nQuestion: %s", strings.Join(texts, "\n\n"), question)

	messages := []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: user},
	}
	text, err := g.client.Chat(ctx, messages, llm.Options{Temperature: 0})
	if err != nil {
		return domain.Answer{}, err
	}

	return domain.Answer{Text: text, Sources: sourceSet(retrieved)}, nil
}

// sourceSet deduplicates source labels, first occurrence first.
func sourceSet(retrieved []domain.Result) []string {
	seen := make(map[string]struct{}, len(retrieved))
	var sources []string
	for _, r := range retrieved {
		if _, ok := seen[r.Unit.Source]; ok {
			continue
		}
		seen[r.Unit.Source] = struct{}{}
		sources = append(sources, r.Unit.Source)
	}
	return sources
}
