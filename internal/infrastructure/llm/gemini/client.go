package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/open-lectern/lectern/internal/core/domain"
)

// Generator produces glossary items from lecture text through the Gemini
// API. Built without an API key it still constructs, but every Generate
// call refuses with ErrServiceUnavailable until a key is configured.
type Generator struct {
	client         *genai.Client
	model          *genai.GenerativeModel
	maxPromptChars int
}

func New(ctx context.Context, apiKey, modelName string, maxPromptChars int) (*Generator, error) {
	if maxPromptChars <= 0 {
		maxPromptChars = defaultMaxPromptChars
	}
	g := &Generator{maxPromptChars: maxPromptChars}
	if apiKey == "" {
		return g, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	g.client = client
	g.model = client.GenerativeModel(modelName)
	return g, nil
}

func (g *Generator) Available() bool { return g.model != nil }

func (g *Generator) Close() {
	if g.client != nil {
		_ = g.client.Close()
	}
}

// Generate makes a single model call for the given material. There is no
// retry: a failed call surfaces as ErrServiceUnavailable and the caller
// decides whether to ask again. The reply always parses into items, in the
// worst case as a single degraded entry.
func (g *Generator) Generate(ctx context.Context, text string) ([]domain.GlossaryItem, error) {
	if !g.Available() {
		return nil, domain.WrapError(domain.ErrServiceUnavailable, "generate glossary",
			fmt.Errorf("no api key configured"))
	}

	resp, err := g.model.GenerateContent(ctx, genai.Text(buildGlossaryPrompt(text, g.maxPromptChars)))
	if err != nil {
		return nil, domain.WrapError(domain.ErrServiceUnavailable, "generate glossary", err)
	}

	items, _ := ParseReply(responseText(resp))
	return items, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
	}
	return b.String()
}
