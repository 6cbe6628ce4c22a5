package prompts

type PromptName string

const (
	// City page content
	PromptIntroduction PromptName = "city_introduction"
	PromptBenefits     PromptName = "city_benefits"
	PromptFAQs         PromptName = "city_faqs"

	// Images
	PromptHeroImage        PromptName = "city_hero_image"
	PromptMainProductImage PromptName = "main_product_image"

	// Optimization loop
	PromptWinnerPattern      PromptName = "winner_pattern"
	PromptImprovementOptions PromptName = "improvement_options"
)

// Fixed output contracts. Downstream parsing rejects any other count.
const (
	IntroductionWords  = 500
	MinLocalReferences = 5
	BenefitCount       = 10
	FAQCount           = 15
)
