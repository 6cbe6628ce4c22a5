package improver

import types "github.com/yungbote/seobrain/internal/domain"

// FallbackOptions is offered when the model cannot produce a valid ladder.
func FallbackOptions() []types.DecisionOption {
	return []types.DecisionOption{
		{
			ID:     "A",
			Level:  types.ImprovementLevelConservative,
			Action: "Adopt the winning title format and list the FAQs and benefits still missing versus the pattern.",
			Pros: []string{
				"No content is rewritten",
				"Reversible in one edit",
				"Keeps current rankings stable",
			},
			Cons: []string{
				"Small expected lift",
				"Leaves thin sections in place",
			},
			Confidence:      70,
			EstimatedImpact: types.ImpactRange{Min: 2, Max: 8},
		},
		{
			ID:     "B",
			Level:  types.ImprovementLevelModerate,
			Action: "Regenerate the introduction, benefits, FAQs, metadata and schema following the winning pattern.",
			Pros: []string{
				"Aligns copy with proven pages",
				"Refreshes local references",
				"Keeps the existing hero image",
			},
			Cons: []string{
				"Rankings may fluctuate while re-indexed",
				"Costs several model calls",
			},
			Confidence:      55,
			EstimatedImpact: types.ImpactRange{Min: 8, Max: 20},
		},
		{
			ID:     "C",
			Level:  types.ImprovementLevelAggressive,
			Action: "Rebuild every section including the hero image and schema markup.",
			Pros: []string{
				"Largest possible change",
				"New visual for the page",
				"Fully consistent with the pattern",
			},
			Cons: []string{
				"Highest ranking volatility",
				"Most expensive to run",
				"Discards content that may already rank",
			},
			Confidence:      40,
			EstimatedImpact: types.ImpactRange{Min: 10, Max: 35},
		},
	}
}
