package content

import (
	"fmt"
	"strings"
	"unicode"

	types "github.com/yungbote/seobrain/internal/domain"
	"github.com/yungbote/seobrain/internal/modules/seo/prompts"
)

// MinIntroductionWords is the shortest introduction accepted from the model.
const MinIntroductionWords = 100

type BenefitsPayload struct {
	Benefits []types.Benefit `json:"benefits" validate:"len=10,dive"`
}

type FAQsPayload struct {
	FAQs []types.FAQ `json:"faqs" validate:"len=15,dive"`
}

type ContentStructure struct {
	IntroWordCount    int      `json:"intro_word_count" validate:"gte=0"`
	LocalReferences   int      `json:"local_references" validate:"gte=0"`
	BenefitCount      int      `json:"benefit_count" validate:"gte=0"`
	FAQCount          int      `json:"faq_count" validate:"gte=0"`
	Tone              string   `json:"tone,omitempty"`
	SectionOrder      []string `json:"section_order,omitempty"`
	RecurringKeywords []string `json:"recurring_keywords,omitempty"`
}

type SEOStructure struct {
	TitleFormat      string `json:"title_format" validate:"required"`
	TitleLength      int    `json:"title_length,omitempty" validate:"gte=0"`
	MetaFormat       string `json:"meta_format" validate:"required"`
	H1Format         string `json:"h1_format" validate:"required"`
	KeywordPlacement string `json:"keyword_placement,omitempty"`
}

type ConversionElements struct {
	PriceMentions   int      `json:"price_mentions,omitempty" validate:"gte=0"`
	CTAPhrases      []string `json:"cta_phrases"`
	TrustSignals    []string `json:"trust_signals"`
	UrgencyElements []string `json:"urgency_elements,omitempty"`
}

// Pattern is the analyzer's view of what winning pages share.
type Pattern struct {
	PatternName        string             `json:"pattern_name" validate:"required,max=120"`
	ContentStructure   ContentStructure   `json:"content_structure"`
	SEOStructure       SEOStructure       `json:"seo_structure"`
	ConversionElements ConversionElements `json:"conversion_elements"`
}

type OptionsPayload struct {
	Options []types.DecisionOption `json:"options" validate:"len=3,dive"`
}

// ParseIntroduction accepts plain prose of at least MinIntroductionWords words.
func ParseIntroduction(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		if nl := strings.IndexByte(text, '\n'); nl >= 0 {
			text = text[nl+1:]
		}
		text = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "```"))
	}
	if n := WordCount(text); n < MinIntroductionWords {
		return "", &ValidationError{
			Contract: string(prompts.PromptIntroduction),
			Problems: []string{fmt.Sprintf("introduction has %d words, want at least %d", n, MinIntroductionWords)},
		}
	}
	return text, nil
}

func ParseBenefits(raw string) ([]types.Benefit, error) {
	contract := string(prompts.PromptBenefits)
	var p BenefitsPayload
	if err := DecodeStrict(contract, raw, &p); err != nil {
		return nil, err
	}
	if err := Check(contract, p); err != nil {
		return nil, err
	}
	return p.Benefits, nil
}

func ParseFAQs(raw string) ([]types.FAQ, error) {
	contract := string(prompts.PromptFAQs)
	var p FAQsPayload
	if err := DecodeStrict(contract, raw, &p); err != nil {
		return nil, err
	}
	if err := Check(contract, p); err != nil {
		return nil, err
	}
	return p.FAQs, nil
}

func ParsePattern(raw string) (*Pattern, error) {
	contract := string(prompts.PromptWinnerPattern)
	var p Pattern
	if err := DecodeStrict(contract, raw, &p); err != nil {
		return nil, err
	}
	p.PatternName = strings.TrimSpace(p.PatternName)
	if err := Check(contract, p); err != nil {
		return nil, err
	}
	return &p, nil
}

// expectedLevels pins option ids to their aggressiveness.
var expectedLevels = map[string]string{
	"A": types.ImprovementLevelConservative,
	"B": types.ImprovementLevelModerate,
	"C": types.ImprovementLevelAggressive,
}

// ParseOptions decodes exactly three options, A conservative through C aggressive.
func ParseOptions(raw string) ([]types.DecisionOption, error) {
	contract := string(prompts.PromptImprovementOptions)
	var p OptionsPayload
	if err := DecodeStrict(contract, raw, &p); err != nil {
		return nil, err
	}
	if err := Check(contract, p); err != nil {
		return nil, err
	}
	if err := CheckOptions(p.Options); err != nil {
		return nil, err
	}
	return p.Options, nil
}

// CheckOptions enforces the A/B/C ladder beyond per-field validation.
func CheckOptions(opts []types.DecisionOption) error {
	contract := string(prompts.PromptImprovementOptions)
	if err := Check(contract, OptionsPayload{Options: opts}); err != nil {
		return err
	}
	seen := map[string]bool{}
	var problems []string
	for _, o := range opts {
		if seen[o.ID] {
			problems = append(problems, "duplicate option "+o.ID)
		}
		seen[o.ID] = true
		if want := expectedLevels[o.ID]; o.Level != want {
			problems = append(problems, fmt.Sprintf("option %s level %q, want %q", o.ID, o.Level, want))
		}
	}
	if len(problems) > 0 {
		return &ValidationError{Contract: contract, Problems: problems}
	}
	return nil
}

func WordCount(s string) int {
	return len(strings.FieldsFunc(s, func(r rune) bool { return unicode.IsSpace(r) }))
}
