// Package recommend turns a gift interview profile into product
// recommendations using a text-generation capability.
package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cadolab/giftbot/internal/catalog"
	"github.com/cadolab/giftbot/internal/dialog"
	"github.com/cadolab/giftbot/internal/texts"
)

// Generator is the minimal text-generation capability the adapter
// needs. Implemented by the gemini client.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// CapabilityError wraps failures of the generation capability so
// callers can distinguish them from programming errors.
type CapabilityError struct {
	Op  string
	Err error
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("recommend: %s: %v", e.Op, e.Err)
}

func (e *CapabilityError) Unwrap() error { return e.Err }

// Result is a parsed recommendation.
type Result struct {
	Products   []catalog.Product // resolved catalog products, may be empty
	Reasoning  string
	UpsellText string
	Raw        string // set when the model answer was not structured
}

// DefaultTimeout bounds a single generation call.
const DefaultTimeout = 45 * time.Second

// Adapter binds the generator to the shop catalog and prompt persona.
type Adapter struct {
	gen     Generator
	timeout time.Duration
}

// New builds an adapter; a non-positive timeout falls back to the default.
func New(gen Generator, timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Adapter{gen: gen, timeout: timeout}
}

// Recommend runs one bounded generation call for the given profile.
func (a *Adapter) Recommend(ctx context.Context, lang texts.Language, profile dialog.GiftProfile) (Result, error) {
	if a.gen == nil {
		return Result{}, &CapabilityError{Op: "generate", Err: fmt.Errorf("no generator configured")}
	}
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	raw, err := a.gen.Generate(ctx, systemPrompt(lang), userPrompt(lang, profile))
	if err != nil {
		return Result{}, &CapabilityError{Op: "generate", Err: err}
	}
	return Parse(raw), nil
}

type wireResult struct {
	RecommendedIDs []string `json:"recommended_ids"`
	Reasoning      string   `json:"reasoning"`
	UpsellText     string   `json:"upsell_text"`
}

// Parse extracts the structured recommendation from a model answer.
// Code fences and surrounding chatter are tolerated; ids not present
// in the catalog are dropped. When no JSON object can be decoded the
// whole answer is kept as free text.
func Parse(raw string) Result {
	body := stripFences(raw)
	start := strings.Index(body, "{")
	end := strings.LastIndex(body, "}")
	if start < 0 || end <= start {
		return Result{Raw: strings.TrimSpace(raw)}
	}

	var wire wireResult
	if err := json.Unmarshal([]byte(body[start:end+1]), &wire); err != nil {
		return Result{Raw: strings.TrimSpace(raw)}
	}

	res := Result{
		Reasoning:  strings.TrimSpace(wire.Reasoning),
		UpsellText: strings.TrimSpace(wire.UpsellText),
	}
	for _, id := range wire.RecommendedIDs {
		if p, ok := catalog.ByID(strings.TrimSpace(id)); ok {
			res.Products = append(res.Products, p)
		}
	}
	if len(res.Products) == 0 && res.Reasoning == "" {
		return Result{Raw: strings.TrimSpace(raw)}
	}
	return res
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// Render formats a result as the user-facing recommendation message.
func Render(lang texts.Language, res Result) string {
	if res.Raw != "" {
		return res.Raw
	}
	var b strings.Builder
	if res.Reasoning != "" {
		b.WriteString(res.Reasoning)
	}
	for _, p := range res.Products {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "🎁 %s — %d %s\n%s", p.Name(lang), p.Price, catalog.Currency, p.Description(lang))
	}
	if res.UpsellText != "" {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(res.UpsellText)
	}
	return b.String()
}
