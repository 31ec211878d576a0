package summary

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.0-flash"

const geminiPrompt = `Summarize the following transcript excerpt in plain prose.
Write between %d and %d words. Do not add information that is not in the text.

---
%s
---`

// GeminiSummarizer asks a Gemini model for each chunk summary, with
// temperature zero so repeated calls agree.
type GeminiSummarizer struct {
	model    string
	generate func(ctx context.Context, prompt string, maxTokens int32) (string, error)
}

func NewGeminiSummarizer(ctx context.Context, apiKey, model string) (*GeminiSummarizer, error) {
	// SUMMARY_MODEL defaults to a Hugging Face id, which Gemini does not serve.
	if model == "" || strings.Contains(model, "/") {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "create gemini client")
	}

	g := &GeminiSummarizer{model: model}
	g.generate = func(ctx context.Context, prompt string, maxTokens int32) (string, error) {
		result, err := client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
			Temperature:     genai.Ptr[float32](0),
			MaxOutputTokens: maxTokens,
		})
		if err != nil {
			return "", pkgerrors.Wrap(err, "generate content")
		}
		return responseText(result)
	}
	return g, nil
}

func (g *GeminiSummarizer) Summarize(ctx context.Context, text string, bounds Bounds) (string, error) {
	prompt := fmt.Sprintf(geminiPrompt, bounds.Min, bounds.Max, text)
	// Allow headroom over the word bound; tokens run shorter than words.
	maxTokens := int32(bounds.Max * 2)

	summary, err := g.generate(ctx, prompt, maxTokens)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(summary), nil
}

func responseText(result *genai.GenerateContentResponse) (string, error) {
	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		var b strings.Builder
		for _, part := range result.Candidates[0].Content.Parts {
			if part.Text != "" {
				b.WriteString(part.Text)
			}
		}
		if b.Len() > 0 {
			return b.String(), nil
		}
	}
	return "", pkgerrors.New("empty response from Gemini")
}
