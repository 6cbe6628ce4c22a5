package prompts

import (
	"fmt"
	"strconv"
	"strings"

	types "github.com/yungbote/seobrain/internal/domain"
)

// Input is a superset of all fields any prompt might need.
// Missing fields render empty strings (templates use missingkey=zero).
type Input struct {
	// City
	City          string
	State         string
	StateCode     string
	CityDisplay   string
	Population    string
	Industries    string
	Neighborhoods string
	Venues        string
	FamousFor     string
	ZipCodes      string

	// Product
	ProductName      string
	ProductType      string
	Quantity         int
	Size             string
	Material         string
	Turnaround       string
	Price            string
	OnlineOnly       bool
	Keywords         string
	TargetIndustries string

	// Contracts
	IntroductionWords  int
	MinLocalReferences int
	BenefitCount       int
	FAQCount           int

	// Images
	VisualStyle string
	AspectRatio string

	// Guidance steers a regeneration toward a winning pattern.
	Guidance string

	// Optimization loop
	PagesJSON   string
	SampleSize  int
	PageJSON    string
	PatternJSON string
}

func newInput() Input {
	return Input{
		IntroductionWords:  IntroductionWords,
		MinLocalReferences: MinLocalReferences,
		BenefitCount:       BenefitCount,
		FAQCount:           FAQCount,
	}
}

// CampaignInput fills the product fields.
func CampaignInput(c *types.ProductCampaign) Input {
	in := newInput()
	if c == nil {
		return in
	}
	in.ProductName = strings.TrimSpace(c.ProductName)
	in.ProductType = strings.TrimSpace(c.ProductType)
	in.Quantity = c.Quantity
	in.Size = strings.TrimSpace(c.Size)
	in.Material = strings.TrimSpace(c.Material)
	in.Turnaround = strings.TrimSpace(c.Turnaround)
	in.Price = FormatPrice(c.Price)
	in.OnlineOnly = c.OnlineOnly
	in.Keywords = csv(c.KeywordList())
	in.TargetIndustries = csv(c.IndustryList())
	return in
}

// CityInput fills both the city and the product fields.
func CityInput(city *types.CityProfile, c *types.ProductCampaign) Input {
	in := CampaignInput(c)
	if city == nil {
		return in
	}
	in.City = strings.TrimSpace(city.Name)
	in.State = strings.TrimSpace(city.State)
	in.StateCode = strings.TrimSpace(city.StateCode)
	in.CityDisplay = city.DisplayName()
	in.Population = FormatPopulation(city.Population)
	in.Industries = csv(city.IndustryList())
	in.Neighborhoods = csv(city.NeighborhoodList())
	in.Venues = csv(city.VenueList())
	in.FamousFor = csv(city.FamousForList())
	in.ZipCodes = csv(city.ZipCodeList())
	return in
}

// FormatPrice renders 49.9 as "$49.90".
func FormatPrice(p float64) string {
	return fmt.Sprintf("$%.2f", p)
}

// FormatPopulation renders 961855 as "961,855".
func FormatPopulation(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

func csv(items []string) string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return strings.Join(out, ", ")
}

// Option adjusts the Input a builder renders.
type Option func(*Input)

// WithGuidance adds free-form rewrite guidance to content prompts.
func WithGuidance(g string) Option {
	return func(in *Input) { in.Guidance = strings.TrimSpace(g) }
}

func apply(in Input, opts []Option) Input {
	for _, o := range opts {
		if o != nil {
			o(&in)
		}
	}
	return in
}
