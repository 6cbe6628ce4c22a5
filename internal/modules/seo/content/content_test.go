package content

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	types "github.com/yungbote/seobrain/internal/domain"
)

func testCity() *types.CityProfile {
	lat, lng := 30.2672, -97.7431
	return &types.CityProfile{
		Name:          "Austin",
		State:         "Texas",
		StateCode:     "TX",
		Slug:          "austin-tx",
		Population:    961855,
		Neighborhoods: types.JSONList([]string{"East Austin", "Zilker"}),
		ZipCodes:      types.JSONList([]string{"78701", "78702"}),
		Latitude:      &lat,
		Longitude:     &lng,
	}
}

func testCampaign() *types.ProductCampaign {
	return &types.ProductCampaign{
		ProductName: "Business Cards",
		Slug:        "business-cards",
		Quantity:    500,
		Size:        `3.5" x 2"`,
		Material:    "16pt matte cardstock",
		Turnaround:  "3 business days",
		Price:       49.99,
		Keywords:    types.JSONList([]string{"Custom Business Cards", "business card printing"}),
	}
}

func benefitsJSON(n int) string {
	items := make([]map[string]string, n)
	for i := range items {
		items[i] = map[string]string{"title": fmt.Sprintf("Benefit %d", i+1), "description": "Fast local delivery."}
	}
	b, _ := json.Marshal(map[string]any{"benefits": items})
	return string(b)
}

func faqsJSON(n int) string {
	items := make([]map[string]string, n)
	for i := range items {
		items[i] = map[string]string{"question": fmt.Sprintf("Question %d?", i+1), "answer": "Yes."}
	}
	b, _ := json.Marshal(map[string]any{"faqs": items})
	return string(b)
}

func TestParseBenefitsExactCount(t *testing.T) {
	got, err := ParseBenefits("```json\n" + benefitsJSON(10) + "\n```")
	if err != nil {
		t.Fatalf("ParseBenefits: %v", err)
	}
	if len(got) != 10 || got[9].Title != "Benefit 10" {
		t.Fatalf("benefits: %+v", got)
	}
	for _, n := range []int{9, 11} {
		if _, err := ParseBenefits(benefitsJSON(n)); !IsValidationError(err) {
			t.Fatalf("%d benefits: want ValidationError, got %v", n, err)
		}
	}
}

func TestParseBenefitsRejectsUnknownAndEmptyFields(t *testing.T) {
	raw := strings.Replace(benefitsJSON(10), `"title":"Benefit 1"`, `"title":"Benefit 1","icon":"x"`, 1)
	if _, err := ParseBenefits(raw); !IsValidationError(err) {
		t.Fatalf("unknown field: want ValidationError, got %v", err)
	}
	raw = strings.Replace(benefitsJSON(10), `"title":"Benefit 3"`, `"title":""`, 1)
	err := func() error { _, err := ParseBenefits(raw); return err }()
	if !IsValidationError(err) || !strings.Contains(err.Error(), "title") {
		t.Fatalf("empty title: want ValidationError naming title, got %v", err)
	}
}

func TestParseFAQs(t *testing.T) {
	if _, err := ParseFAQs(faqsJSON(15)); err != nil {
		t.Fatalf("ParseFAQs: %v", err)
	}
	if _, err := ParseFAQs(faqsJSON(14)); !IsValidationError(err) {
		t.Fatalf("14 faqs: want ValidationError, got %v", err)
	}
	if _, err := ParseFAQs("not json"); !IsValidationError(err) {
		t.Fatalf("garbage: want ValidationError, got %v", err)
	}
	if _, err := ParseFAQs(faqsJSON(15) + `{"faqs":[]}`); !IsValidationError(err) {
		t.Fatalf("trailing data: want ValidationError, got %v", err)
	}
}

func TestParseIntroduction(t *testing.T) {
	long := strings.Repeat("Austin printing ", 60)
	got, err := ParseIntroduction("```\n" + long + "\n```")
	if err != nil {
		t.Fatalf("ParseIntroduction: %v", err)
	}
	if strings.Contains(got, "`") || WordCount(got) != 120 {
		t.Fatalf("intro not unfenced: %q", got[:20])
	}
	if _, err := ParseIntroduction("too short"); !IsValidationError(err) {
		t.Fatalf("short intro: want ValidationError, got %v", err)
	}
}

const patternJSON = `{
  "pattern_name": "Local proof first",
  "content_structure": {"intro_word_count": 520, "local_references": 7, "benefit_count": 10, "faq_count": 15},
  "seo_structure": {"title_format": "{product} in {city}, {state} | {price}", "meta_format": "Order {product}", "h1_format": "{product} in {city}"},
  "conversion_elements": {"cta_phrases": ["Order today"], "trust_signals": ["5-star reviews"]}
}`

func TestParsePattern(t *testing.T) {
	p, err := ParsePattern(patternJSON)
	if err != nil {
		t.Fatalf("ParsePattern: %v", err)
	}
	if p.PatternName != "Local proof first" || p.ContentStructure.FAQCount != 15 {
		t.Fatalf("pattern: %+v", p)
	}
	if _, err := ParsePattern(`{"pattern_name":"x","content_structure":{},"seo_structure":{},"conversion_elements":{}}`); !IsValidationError(err) {
		t.Fatalf("missing seo formats: want ValidationError, got %v", err)
	}
}

func validOptions() []types.DecisionOption {
	mk := func(id, level string) types.DecisionOption {
		return types.DecisionOption{
			ID: id, Level: level, Action: "do " + level,
			Pros:            []string{"a", "b", "c"},
			Cons:            []string{"x", "y"},
			Confidence:      70,
			EstimatedImpact: types.ImpactRange{Min: 5, Max: 10},
		}
	}
	return []types.DecisionOption{mk("A", "conservative"), mk("B", "moderate"), mk("C", "aggressive")}
}

func TestParseOptions(t *testing.T) {
	raw, _ := json.Marshal(map[string]any{"options": validOptions()})
	got, err := ParseOptions(string(raw))
	if err != nil {
		t.Fatalf("ParseOptions: %v", err)
	}
	if diff := cmp.Diff(validOptions(), got); diff != "" {
		t.Fatalf("options (-want +got):\n%s", diff)
	}

	swapped := validOptions()
	swapped[0].Level, swapped[2].Level = "aggressive", "conservative"
	if err := CheckOptions(swapped); !IsValidationError(err) {
		t.Fatalf("swapped levels: want ValidationError, got %v", err)
	}

	tooFewPros := validOptions()
	tooFewPros[1].Pros = []string{"only one"}
	if err := CheckOptions(tooFewPros); !IsValidationError(err) {
		t.Fatalf("pros: want ValidationError, got %v", err)
	}

	inverted := validOptions()
	inverted[2].EstimatedImpact = types.ImpactRange{Min: 20, Max: 10}
	if err := CheckOptions(inverted); !IsValidationError(err) {
		t.Fatalf("impact: want ValidationError, got %v", err)
	}
}

func TestBuildMetadataLimits(t *testing.T) {
	m := BuildMetadata(testCity(), testCampaign())
	if m.Title != "Business Cards in Austin, TX | 500 from $49.99" {
		t.Fatalf("title: got=%q", m.Title)
	}
	if len([]rune(m.MetaDescription)) > MaxMetaDescriptionLength {
		t.Fatalf("meta too long: %d", len(m.MetaDescription))
	}
	if !strings.Contains(m.MetaDescription, "Austin, TX") || !strings.Contains(m.MetaDescription, "$49.99") {
		t.Fatalf("meta: got=%q", m.MetaDescription)
	}
	if m.H1 != "Business Cards in Austin, Texas" {
		t.Fatalf("h1: got=%q", m.H1)
	}
	want := []string{
		"business cards austin",
		"business cards austin tx",
		"business cards near me",
		"custom business cards austin",
		"custom business cards",
		"business card printing",
		"business card printing austin",
		"business cards east austin",
		"business cards zilker",
	}
	if diff := cmp.Diff(want, m.Keywords); diff != "" {
		t.Fatalf("keywords (-want +got):\n%s", diff)
	}

	long := testCampaign()
	long.ProductName = "Premium Heavyweight Soft-Touch Laminated Business Cards"
	if got := BuildMetadata(testCity(), long).Title; len([]rune(got)) > MaxTitleLength {
		t.Fatalf("title over limit: %q", got)
	}
}

func TestTitleFromFormat(t *testing.T) {
	got := TitleFromFormat("{product} in {city}, {state} | {price}", testCity(), testCampaign())
	if got != "Business Cards in Austin, TX | $49.99" {
		t.Fatalf("title: got=%q", got)
	}
}

func TestPageSlug(t *testing.T) {
	if got := PageSlug(testCampaign(), testCity()); got != "business-cards-austin-tx" {
		t.Fatalf("slug: got=%q", got)
	}
}

func TestBuildSchemaGraph(t *testing.T) {
	faqs := []types.FAQ{{Question: "Do you deliver to Zilker?", Answer: "Yes."}}
	raw, err := BuildSchema(SchemaInput{
		City:         testCity(),
		Campaign:     testCampaign(),
		Metadata:     BuildMetadata(testCity(), testCampaign()),
		FAQs:         faqs,
		HeroImageURL: "https://cdn/hero.jpg",
		MainImageURL: "https://cdn/main.jpg",
		PageURL:      "https://shop.test/business-cards-austin-tx",
		BusinessName: "PrintCo",
	})
	if err != nil {
		t.Fatalf("BuildSchema: %v", err)
	}
	var doc struct {
		Context string           `json:"@context"`
		Graph   []map[string]any `json:"@graph"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Context != "https://schema.org" || len(doc.Graph) != 3 {
		t.Fatalf("graph: %s", raw)
	}
	var typesSeen []string
	for _, n := range doc.Graph {
		typesSeen = append(typesSeen, n["@type"].(string))
	}
	if diff := cmp.Diff([]string{"Product", "LocalBusiness", "FAQPage"}, typesSeen); diff != "" {
		t.Fatalf("types (-want +got):\n%s", diff)
	}
	offers := doc.Graph[0]["offers"].(map[string]any)
	if offers["price"] != "49.99" || offers["priceCurrency"] != "USD" {
		t.Fatalf("offers: %v", offers)
	}
	biz := doc.Graph[1]
	if biz["geo"] == nil || biz["address"].(map[string]any)["postalCode"] != "78701" {
		t.Fatalf("local business: %v", biz)
	}
	q := doc.Graph[2]["mainEntity"].([]any)[0].(map[string]any)
	if q["name"] != "Do you deliver to Zilker?" || q["acceptedAnswer"].(map[string]any)["text"] != "Yes." {
		t.Fatalf("faq node: %v", q)
	}
}
