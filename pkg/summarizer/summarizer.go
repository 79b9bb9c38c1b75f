package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

const defaultModel = "gemini-1.5-flash"

// TextGenerator is the slice of an LLM client the summarizer needs.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Summarizer produces short summaries of blog content. Failures are never
// surfaced: Summarize returns nil instead.
type Summarizer struct {
	gen     TextGenerator
	timeout time.Duration
}

func New(gen TextGenerator) *Summarizer {
	return &Summarizer{gen: gen, timeout: 20 * time.Second}
}

func Prompt(content string) string {
	return "Summarize in 2-3 sentences:\n\n" + content
}

// Summarize is safe to call on a nil receiver.
func (s *Summarizer) Summarize(ctx context.Context, content string) *string {
	if s == nil || s.gen == nil || strings.TrimSpace(content) == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.gen.GenerateText(ctx, Prompt(content))
	if err != nil {
		log.Warn().Err(err).Msg("summary generation failed")
		return nil
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return &text
}

// GeminiProvider implements TextGenerator over Google Gemini.
type GeminiProvider struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiProvider(ctx context.Context, apiKey, modelName string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = defaultModel
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.3)

	return &GeminiProvider{client: client, model: model}, nil
}

func (g *GeminiProvider) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response from LLM")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no text content in response")
	}
	return sb.String(), nil
}

func (g *GeminiProvider) Close() {
	g.client.Close()
}
