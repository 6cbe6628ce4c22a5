// Package seotest provides fake LLM and image generators for pipeline tests.
package seotest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/yungbote/seobrain/internal/modules/seo/generators"
	"github.com/yungbote/seobrain/internal/modules/seo/prompts"
)

var ErrInjected = errors.New("injected failure")

// Intro returns a valid introduction mentioning city.
func Intro(city string) string {
	return strings.TrimSpace(strings.Repeat("Printing for "+city+" businesses made simple and local. ", 20))
}

func BenefitsJSON(n int) string {
	items := make([]map[string]string, n)
	for i := range items {
		items[i] = map[string]string{"title": fmt.Sprintf("Benefit %d", i+1), "description": "Delivered fast."}
	}
	b, _ := json.Marshal(map[string]any{"benefits": items})
	return string(b)
}

func FAQsJSON(n int) string {
	items := make([]map[string]string, n)
	for i := range items {
		items[i] = map[string]string{"question": fmt.Sprintf("Question %d?", i+1), "answer": "Yes."}
	}
	b, _ := json.Marshal(map[string]any{"faqs": items})
	return string(b)
}

// PatternJSON is a valid winner pattern naming title format titleFormat.
func PatternJSON(titleFormat string) string {
	b, _ := json.Marshal(map[string]any{
		"pattern_name": "Local proof first",
		"content_structure": map[string]any{
			"intro_word_count": 480,
			"local_references": 6,
			"benefit_count":    12,
			"faq_count":        18,
			"tone":             "friendly",
		},
		"seo_structure": map[string]any{
			"title_format": titleFormat,
			"meta_format":  "{product} in {city}. Order online.",
			"h1_format":    "{product} in {city}, {state}",
		},
		"conversion_elements": map[string]any{
			"cta_phrases":   []string{"Order today"},
			"trust_signals": []string{"5-star reviews"},
		},
	})
	return string(b)
}

// OptionsJSON is a valid A/B/C improvement ladder.
func OptionsJSON() string {
	opt := func(id, level string, conf int) map[string]any {
		return map[string]any{
			"id":               id,
			"level":            level,
			"action":           "Apply the " + level + " changes",
			"pros":             []string{"p1", "p2", "p3"},
			"cons":             []string{"c1", "c2"},
			"confidence":       conf,
			"estimated_impact": map[string]int{"min": 5, "max": 20},
		}
	}
	b, _ := json.Marshal(map[string]any{"options": []any{
		opt("A", "conservative", 80),
		opt("B", "moderate", 65),
		opt("C", "aggressive", 45),
	}})
	return string(b)
}

// Text answers each prompt with valid content unless a failure rule matches.
type Text struct {
	mu sync.Mutex
	// FailWhen makes GenerateText fail for matching requests.
	FailWhen func(req generators.TextRequest) bool
	// Replies overrides the reply per prompt name.
	Replies map[prompts.PromptName]string
	Calls   map[prompts.PromptName]int
	Last    map[prompts.PromptName]generators.TextRequest
}

func NewText() *Text {
	return &Text{
		Replies: map[prompts.PromptName]string{},
		Calls:   map[prompts.PromptName]int{},
		Last:    map[prompts.PromptName]generators.TextRequest{},
	}
}

func (f *Text) GenerateText(ctx context.Context, req generators.TextRequest) (string, error) {
	f.mu.Lock()
	f.Calls[req.Prompt.Name]++
	f.Last[req.Prompt.Name] = req
	reply, override := f.Replies[req.Prompt.Name]
	fail := f.FailWhen
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if fail != nil && fail(req) {
		return "", ErrInjected
	}
	if !override {
		switch req.Prompt.Name {
		case prompts.PromptIntroduction:
			reply = Intro("local")
		case prompts.PromptBenefits:
			reply = BenefitsJSON(prompts.BenefitCount)
		case prompts.PromptFAQs:
			reply = FAQsJSON(prompts.FAQCount)
		case prompts.PromptWinnerPattern:
			reply = PatternJSON("{product} in {city}, {state} | {quantity} from {price}")
		case prompts.PromptImprovementOptions:
			reply = OptionsJSON()
		default:
			return "", fmt.Errorf("no reply configured for %s", req.Prompt.Name)
		}
	}
	if req.Validate != nil {
		if err := req.Validate(reply); err != nil {
			return "", err
		}
	}
	return reply, nil
}

func (f *Text) CallCount(name prompts.PromptName) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Calls[name]
}

func (f *Text) LastRequest(name prompts.PromptName) generators.TextRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Last[name]
}

// Images returns deterministic URLs derived from the request name.
type Images struct {
	mu       sync.Mutex
	FailWhen func(req generators.ImageRequest) bool
	Requests []generators.ImageRequest
}

func (f *Images) GenerateImage(ctx context.Context, req generators.ImageRequest) (string, error) {
	f.mu.Lock()
	f.Requests = append(f.Requests, req)
	fail := f.FailWhen
	f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if fail != nil && fail(req) {
		return "", ErrInjected
	}
	url := "https://cdn.test/" + req.Name + ".jpg"
	if req.Variant != "" {
		url = "https://cdn.test/" + req.Name + "-" + req.Variant + ".jpg"
	}
	return url, nil
}

func (f *Images) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Requests)
}
