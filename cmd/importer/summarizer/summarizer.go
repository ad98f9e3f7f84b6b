package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"space-traveling/config"
	"space-traveling/logger"
)

// maxInputRunes bounds the article text sent to the model.
const maxInputRunes = 20000

const systemInstruction = `
You write subtitles for blog posts.
Read the provided article text and answer with a JSON object with two keys:

1. subtitle: one sentence in Brazilian Portuguese, at most 160 characters, that tells
   the reader what the post is about. No quotes, no emojis.
2. error: null, or a short message when the text is not an article
   (e.g. a bot check or a login wall).

Return ONLY the raw JSON, never wrapped in a markdown code block.
`

// ErrNotSummarizable is returned when the model refuses the content.
var ErrNotSummarizable = errors.New("content is not summarizable")

// Summarizer writes a one-line subtitle for an article.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

type result struct {
	Subtitle string  `json:"subtitle"`
	Error    *string `json:"error"`
}

// GeminiSummarizer calls the Gemini API through google.golang.org/genai.
type GeminiSummarizer struct {
	client    *genai.Client
	modelName string
}

func NewGeminiSummarizer(ctx context.Context, apiKey string, cfg config.LLMConfig) (*GeminiSummarizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}
	if cfg.Provider != "google" {
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	return &GeminiSummarizer{client: client, modelName: cfg.ModelName}, nil
}

func (s *GeminiSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	start := time.Now()
	resp, err := s.client.Models.GenerateContent(ctx, s.modelName, genai.Text(truncate(text, maxInputRunes)),
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
			ResponseMIMEType:  "application/json",
		})
	if err != nil {
		return "", err
	}

	subtitle, err := parseResult(resp.Text())
	if err != nil {
		return "", err
	}

	fields := logger.Fields{"model": s.modelName, "latency_ms": time.Since(start).Milliseconds()}
	if resp.UsageMetadata != nil {
		fields["input_tokens"] = resp.UsageMetadata.PromptTokenCount
		fields["output_tokens"] = resp.UsageMetadata.CandidatesTokenCount
	}
	logger.DebugWithFields("subtitle generated", fields)
	return subtitle, nil
}

func parseResult(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimSuffix(strings.TrimPrefix(raw, "```"), "```")

	var r result
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return "", fmt.Errorf("decode summary: %w", err)
	}
	if r.Error != nil {
		return "", fmt.Errorf("%w: %s", ErrNotSummarizable, *r.Error)
	}
	subtitle := strings.TrimSpace(r.Subtitle)
	if subtitle == "" {
		return "", fmt.Errorf("%w: empty subtitle", ErrNotSummarizable)
	}
	return truncate(subtitle, 160), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
