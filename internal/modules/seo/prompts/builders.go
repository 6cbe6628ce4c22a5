package prompts

import (
	types "github.com/yungbote/seobrain/internal/domain"
)

const (
	AspectHero    = "16:9"
	AspectProduct = "1:1"
)

func Introduction(city *types.CityProfile, c *types.ProductCampaign, opts ...Option) (Prompt, error) {
	return Build(PromptIntroduction, apply(CityInput(city, c), opts))
}

func Benefits(city *types.CityProfile, c *types.ProductCampaign, opts ...Option) (Prompt, error) {
	return Build(PromptBenefits, apply(CityInput(city, c), opts))
}

func FAQs(city *types.CityProfile, c *types.ProductCampaign, opts ...Option) (Prompt, error) {
	return Build(PromptFAQs, apply(CityInput(city, c), opts))
}

// HeroImage builds the city-specific image prompt, with the scene taken from styles.
func HeroImage(city *types.CityProfile, c *types.ProductCampaign, styles *StyleTable, opts ...Option) (Prompt, error) {
	if styles == nil {
		styles = DefaultStyles()
	}
	in := apply(CityInput(city, c), opts)
	in.VisualStyle = styles.Lookup(city).Scene
	in.AspectRatio = AspectHero
	return Build(PromptHeroImage, in)
}

func MainProductImage(c *types.ProductCampaign) (Prompt, error) {
	in := CampaignInput(c)
	in.AspectRatio = AspectProduct
	return Build(PromptMainProductImage, in)
}

func WinnerPattern(productType, pagesJSON string, sampleSize int) (Prompt, error) {
	in := newInput()
	in.ProductType = productType
	in.PagesJSON = pagesJSON
	in.SampleSize = sampleSize
	return Build(PromptWinnerPattern, in)
}

func ImprovementOptions(pageJSON, patternJSON string) (Prompt, error) {
	in := newInput()
	in.PageJSON = pageJSON
	in.PatternJSON = patternJSON
	return Build(PromptImprovementOptions, in)
}
