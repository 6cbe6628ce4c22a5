package content

import (
	"fmt"
	"regexp"
	"strings"

	types "github.com/yungbote/seobrain/internal/domain"
	"github.com/yungbote/seobrain/internal/modules/seo/prompts"
)

const (
	MaxTitleLength           = 60
	MaxMetaDescriptionLength = 160
	MaxKeywords              = 15
)

type Metadata struct {
	Title           string   `json:"title"`
	MetaDescription string   `json:"meta_description"`
	H1              string   `json:"h1"`
	Keywords        []string `json:"keywords"`
}

var slugUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

func Slugify(s string) string {
	return strings.Trim(slugUnsafe.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// PageSlug is "<campaign-slug>-<city-slug>", unique within a campaign.
func PageSlug(c *types.ProductCampaign, city *types.CityProfile) string {
	base := c.Slug
	if strings.TrimSpace(base) == "" {
		base = c.ProductName
	}
	citySlug := city.Slug
	if strings.TrimSpace(citySlug) == "" {
		citySlug = city.DisplayName()
	}
	return Slugify(base) + "-" + Slugify(citySlug)
}

// BuildMetadata derives title, meta description, H1 and keywords by templating.
func BuildMetadata(city *types.CityProfile, c *types.ProductCampaign) Metadata {
	product := strings.TrimSpace(c.ProductName)
	price := prompts.FormatPrice(c.Price)
	place := city.DisplayName()

	title := firstFitting(MaxTitleLength,
		fmt.Sprintf("%s in %s | %d from %s", product, place, c.Quantity, price),
		fmt.Sprintf("%s in %s | From %s", product, place, price),
		fmt.Sprintf("%s in %s", product, place),
		fmt.Sprintf("%s %s", product, city.Name),
	)

	var meta strings.Builder
	fmt.Fprintf(&meta, "Order %d %s", c.Quantity, product)
	if m := strings.TrimSpace(c.Material); m != "" {
		fmt.Fprintf(&meta, " on %s", m)
	}
	fmt.Fprintf(&meta, " in %s for %s.", place, price)
	if t := strings.TrimSpace(c.Turnaround); t != "" {
		fmt.Fprintf(&meta, " %s turnaround", t)
		if c.OnlineOnly {
			meta.WriteString(", shipped to your door.")
		} else {
			meta.WriteString(".")
		}
	}
	meta.WriteString(" Trusted by local businesses.")

	h1 := fmt.Sprintf("%s in %s", product, city.Name)
	if s := strings.TrimSpace(city.State); s != "" {
		h1 += ", " + s
	}

	return Metadata{
		Title:           title,
		MetaDescription: Truncate(meta.String(), MaxMetaDescriptionLength),
		H1:              h1,
		Keywords:        buildKeywords(city, c),
	}
}

// TitleFromFormat fills a pattern title format ("{product} in {city} | {price}")
// and enforces the title length limit.
func TitleFromFormat(format string, city *types.CityProfile, c *types.ProductCampaign) string {
	r := strings.NewReplacer(
		"{product}", strings.TrimSpace(c.ProductName),
		"{city}", city.Name,
		"{state}", city.StateCode,
		"{price}", prompts.FormatPrice(c.Price),
		"{quantity}", fmt.Sprint(c.Quantity),
	)
	return Truncate(strings.TrimSpace(r.Replace(format)), MaxTitleLength)
}

func buildKeywords(city *types.CityProfile, c *types.ProductCampaign) []string {
	product := strings.ToLower(strings.TrimSpace(c.ProductName))
	cityName := strings.ToLower(city.Name)
	st := strings.ToLower(city.StateCode)

	candidates := []string{
		product + " " + cityName,
		product + " " + cityName + " " + st,
		product + " near me",
		"custom " + product + " " + cityName,
	}
	for _, kw := range c.KeywordList() {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		candidates = append(candidates, kw, kw+" "+cityName)
	}
	for _, n := range city.NeighborhoodList() {
		candidates = append(candidates, product+" "+strings.ToLower(n))
	}

	seen := map[string]bool{}
	out := make([]string, 0, MaxKeywords)
	for _, k := range candidates {
		k = strings.Join(strings.Fields(k), " ")
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
		if len(out) == MaxKeywords {
			break
		}
	}
	return out
}

func firstFitting(limit int, candidates ...string) string {
	for _, c := range candidates {
		if len([]rune(c)) <= limit {
			return c
		}
	}
	return Truncate(candidates[len(candidates)-1], limit)
}

// Truncate cuts s to at most limit runes, preferring a word boundary.
func Truncate(s string, limit int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= limit {
		return string(r)
	}
	cut := string(r[:limit])
	if i := strings.LastIndexByte(cut, ' '); i > limit/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;:|-")
}
