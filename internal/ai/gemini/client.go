// Package gemini implements the text-generation capability on top of
// the Google Gemini API.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultModel is used when the configuration leaves the model empty.
const DefaultModel = "gemini-1.5-flash"

// Client wraps a genai client for single-shot prompt calls.
type Client struct {
	client *genai.Client
	model  string
}

// New dials the Gemini API with the given key.
func New(ctx context.Context, apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini: empty api key")
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	c, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: new client: %w", err)
	}
	return &Client{client: c, model: model}, nil
}

// Generate sends one prompt with the given system instruction and
// returns the concatenated text parts of the first candidate. One call,
// one answer: a failure surfaces immediately and the dialog layer
// decides what the user sees.
func (c *Client) Generate(ctx context.Context, system, prompt string) (string, error) {
	model := c.client.GenerativeModel(c.model)
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini: generate: %w", err)
	}
	text := extractText(resp)
	if text == "" {
		return "", fmt.Errorf("gemini: empty candidate")
	}
	return text, nil
}

// Close releases the underlying API client.
func (c *Client) Close() error {
	return c.client.Close()
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				b.WriteString(string(txt))
			}
		}
		break
	}
	return strings.TrimSpace(b.String())
}
