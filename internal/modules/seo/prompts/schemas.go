package prompts

func objectSchema(properties map[string]any, required ...string) map[string]any {
	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}
}

func arraySchema(items map[string]any, minItems, maxItems int) map[string]any {
	s := map[string]any{"type": "array", "items": items}
	if minItems > 0 {
		s["minItems"] = minItems
	}
	if maxItems > 0 {
		s["maxItems"] = maxItems
	}
	return s
}

func stringSchema() map[string]any  { return map[string]any{"type": "string"} }
func integerSchema() map[string]any { return map[string]any{"type": "integer"} }

func enumSchema(values ...string) map[string]any {
	arr := make([]any, 0, len(values))
	for _, v := range values {
		arr = append(arr, v)
	}
	return map[string]any{"type": "string", "enum": arr}
}

func BenefitsSchema() map[string]any {
	item := objectSchema(map[string]any{
		"title":       stringSchema(),
		"description": stringSchema(),
	}, "title", "description")
	return objectSchema(map[string]any{
		"benefits": arraySchema(item, BenefitCount, BenefitCount),
	}, "benefits")
}

func FAQsSchema() map[string]any {
	item := objectSchema(map[string]any{
		"question": stringSchema(),
		"answer":   stringSchema(),
	}, "question", "answer")
	return objectSchema(map[string]any{
		"faqs": arraySchema(item, FAQCount, FAQCount),
	}, "faqs")
}

func WinnerPatternSchema() map[string]any {
	content := objectSchema(map[string]any{
		"intro_word_count":   integerSchema(),
		"local_references":   integerSchema(),
		"benefit_count":      integerSchema(),
		"faq_count":          integerSchema(),
		"tone":               stringSchema(),
		"section_order":      arraySchema(stringSchema(), 0, 0),
		"recurring_keywords": arraySchema(stringSchema(), 0, 0),
	}, "intro_word_count", "local_references", "benefit_count", "faq_count")
	seo := objectSchema(map[string]any{
		"title_format":      stringSchema(),
		"title_length":      integerSchema(),
		"meta_format":       stringSchema(),
		"h1_format":         stringSchema(),
		"keyword_placement": stringSchema(),
	}, "title_format", "meta_format", "h1_format")
	conversion := objectSchema(map[string]any{
		"price_mentions":   integerSchema(),
		"cta_phrases":      arraySchema(stringSchema(), 0, 0),
		"trust_signals":    arraySchema(stringSchema(), 0, 0),
		"urgency_elements": arraySchema(stringSchema(), 0, 0),
	}, "cta_phrases", "trust_signals")
	return objectSchema(map[string]any{
		"pattern_name":        stringSchema(),
		"content_structure":   content,
		"seo_structure":       seo,
		"conversion_elements": conversion,
	}, "pattern_name", "content_structure", "seo_structure", "conversion_elements")
}

func ImprovementOptionsSchema() map[string]any {
	option := objectSchema(map[string]any{
		"id":         enumSchema("A", "B", "C"),
		"level":      enumSchema("conservative", "moderate", "aggressive"),
		"action":     stringSchema(),
		"pros":       arraySchema(stringSchema(), 3, 5),
		"cons":       arraySchema(stringSchema(), 2, 4),
		"confidence": integerSchema(),
		"estimated_impact": objectSchema(map[string]any{
			"min": integerSchema(),
			"max": integerSchema(),
		}, "min", "max"),
	}, "id", "level", "action", "pros", "cons", "confidence", "estimated_impact")
	return objectSchema(map[string]any{
		"options": arraySchema(option, 3, 3),
	}, "options")
}
