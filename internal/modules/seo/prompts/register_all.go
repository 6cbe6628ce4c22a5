package prompts

// RegisterAll registers every prompt. Build calls it once on first use.
func RegisterAll() {
	// ---------- City page content ----------

	RegisterSpec(Spec{
		Name:    PromptIntroduction,
		Version: 1,
		System: `
You write localized landing page copy for an online print shop.
Write for local business owners. Be specific to the city; never write copy that could be reused for another city.
Return plain prose only: no headings, no markdown, no lists.`,
		User: `
Write an introduction of about {{.IntroductionWords}} words for a landing page selling {{.ProductName}} to businesses in {{.CityDisplay}}.

City facts:
- City: {{.City}}, {{.State}}{{if .Population}} (population {{.Population}}){{end}}
{{- if .Industries}}
- Major industries: {{.Industries}}{{end}}
{{- if .Neighborhoods}}
- Neighborhoods: {{.Neighborhoods}}{{end}}
{{- if .Venues}}
- Notable venues: {{.Venues}}{{end}}
{{- if .FamousFor}}
- Known for: {{.FamousFor}}{{end}}

Product facts (use these exact values):
- Quantity: {{.Quantity}}
- Size: {{.Size}}
- Material: {{.Material}}
- Turnaround: {{.Turnaround}}
- Price: {{.Price}}
{{- if .OnlineOnly}}
- Ordering: online only, shipped to {{.City}}{{end}}
{{- if .Keywords}}

Work these keywords in naturally: {{.Keywords}}{{end}}
{{- if .TargetIndustries}}
Speak to these industries first: {{.TargetIndustries}}{{end}}

Rules:
- Mention at least {{.MinLocalReferences}} distinct local references (neighborhoods, venues, industries, landmarks).
- State the quantity, size, material, turnaround and price exactly as given.
- Do not invent discounts, store addresses or phone numbers.
{{- if .Guidance}}

Rewrite guidance (follow it while keeping every rule above):
{{.Guidance}}{{end}}`,
		Validators: []Validator{requireCity, requireProduct},
	})

	RegisterSpec(Spec{
		Name:       PromptBenefits,
		Version:    1,
		SchemaName: "city_benefits",
		Schema:     BenefitsSchema,
		System: `
You write benefit statements for localized print product landing pages.
Return JSON only.`,
		User: `
List exactly {{.BenefitCount}} benefits of ordering {{.ProductName}} ({{.Quantity}} × {{.Size}}, {{.Material}}, {{.Turnaround}}, {{.Price}}) for businesses in {{.CityDisplay}}.
{{- if .Industries}}
Local industries: {{.Industries}}.{{end}}
{{- if .FamousFor}}
The city is known for: {{.FamousFor}}.{{end}}

Output shape:
{"benefits":[{"title":"...","description":"..."}]}

Rules:
- Exactly {{.BenefitCount}} items, no more, no less.
- title: at most 8 words. description: 1-2 sentences tied to {{.City}}.
- Use the product values exactly as given.
{{- if .Guidance}}

Rewrite guidance (follow it while keeping every rule above):
{{.Guidance}}{{end}}`,
		Validators: []Validator{requireCity, requireProduct},
	})

	RegisterSpec(Spec{
		Name:       PromptFAQs,
		Version:    1,
		SchemaName: "city_faqs",
		Schema:     FAQsSchema,
		System: `
You write FAQ sections for localized print product landing pages.
Answers must be accurate to the product facts you are given.
Return JSON only.`,
		User: `
Write exactly {{.FAQCount}} frequently asked questions with answers about ordering {{.ProductName}} in {{.CityDisplay}}.

Product facts: quantity {{.Quantity}}, size {{.Size}}, material {{.Material}}, turnaround {{.Turnaround}}, price {{.Price}}{{if .OnlineOnly}}, online ordering only{{end}}.
{{- if .ZipCodes}}
Delivery zip codes include: {{.ZipCodes}}.{{end}}
{{- if .Neighborhoods}}
Neighborhoods: {{.Neighborhoods}}.{{end}}

Output shape:
{"faqs":[{"question":"...","answer":"..."}]}

Rules:
- Exactly {{.FAQCount}} items, no more, no less.
- At least 5 questions must mention {{.City}} or one of its neighborhoods.
- Answers: 1-3 sentences, no invented policies.
{{- if .Guidance}}

Rewrite guidance (follow it while keeping every rule above):
{{.Guidance}}{{end}}`,
		Validators: []Validator{requireCity, requireProduct},
	})

	// ---------- Images ----------

	RegisterSpec(Spec{
		Name:    PromptHeroImage,
		Version: 1,
		System:  `Photorealistic commercial photography. No text, no logos, no watermarks.`,
		User: `
Hero banner for a {{.ProductName}} landing page in {{.CityDisplay}}.
Scene: {{.VisualStyle}}.
Foreground: a neat stack of {{.ProductName}} ({{.Size}}, {{.Material}}) on a clean surface, in sharp focus.
Lighting: natural, bright, inviting. Aspect ratio {{.AspectRatio}}.
{{- if .Guidance}}
Direction: {{.Guidance}}{{end}}`,
		Validators: []Validator{
			requireCity,
			requireProduct,
			RequireNonEmpty("VisualStyle", func(in Input) string { return in.VisualStyle }),
		},
	})

	RegisterSpec(Spec{
		Name:    PromptMainProductImage,
		Version: 1,
		System:  `Studio product photography. No text, no logos, no watermarks.`,
		User: `
Studio shot of {{.ProductName}}: {{.Size}}, {{.Material}}.
Show a fanned arrangement with a few pieces standing, soft shadows, neutral seamless background.
Aspect ratio {{.AspectRatio}}.`,
		Validators: []Validator{requireProduct},
	})

	// ---------- Optimization loop ----------

	RegisterSpec(Spec{
		Name:       PromptWinnerPattern,
		Version:    1,
		SchemaName: "winner_pattern",
		Schema:     WinnerPatternSchema,
		System: `
You are an SEO and conversion analyst.
Find what the best performing landing pages have in common, using only the evidence given.
Return JSON only.`,
		User: `
These are the top {{.SampleSize}} {{.ProductType}} landing pages by revenue, with their scores (0-100):
{{.PagesJSON}}

Describe their shared success pattern.

Output shape:
{"pattern_name":"...","content_structure":{...},"seo_structure":{...},"conversion_elements":{...}}

Rules:
- pattern_name: 2-6 words.
- content_structure: intro_word_count, local_references, benefit_count, faq_count, tone, section_order, recurring_keywords.
- seo_structure: title_format, title_length, meta_format, h1_format, keyword_placement. Use {city}, {state} and {product} placeholders in formats.
- conversion_elements: price_mentions, cta_phrases, trust_signals, urgency_elements.
- Base every number on the pages above; do not invent metrics.`,
		Validators: []Validator{
			RequireNonEmpty("PagesJSON", func(in Input) string { return in.PagesJSON }),
			RequirePositive("SampleSize", func(in Input) int { return in.SampleSize }),
		},
	})

	RegisterSpec(Spec{
		Name:       PromptImprovementOptions,
		Version:    1,
		SchemaName: "improvement_options",
		Schema:     ImprovementOptionsSchema,
		System: `
You are an SEO strategist proposing changes to an underperforming landing page.
A human will pick one option, so make the trade-offs explicit.
Return JSON only.`,
		User: `
Underperforming page:
{{.PageJSON}}

Winning pattern for this product type:
{{.PatternJSON}}

Propose exactly three options:
- A: conservative (low risk, small impact; structural fixes such as the title format)
- B: moderate (rewrite intro, benefits and FAQs toward the pattern)
- C: aggressive (full regeneration including the hero image)

Output shape:
{"options":[{"id":"A","level":"conservative","action":"...","pros":["..."],"cons":["..."],"confidence":0,"estimated_impact":{"min":0,"max":0}}]}

Rules:
- pros: 3-5 items. cons: 2-4 items.
- confidence: 0-100.
- estimated_impact: performance score points, min <= max.`,
		Validators: []Validator{
			RequireNonEmpty("PageJSON", func(in Input) string { return in.PageJSON }),
			RequireNonEmpty("PatternJSON", func(in Input) string { return in.PatternJSON }),
		},
	})
}
