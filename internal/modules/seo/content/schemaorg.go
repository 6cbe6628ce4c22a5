package content

import (
	"encoding/json"
	"fmt"
	"strings"

	types "github.com/yungbote/seobrain/internal/domain"
)

// SchemaInput is everything the JSON-LD graph is built from.
type SchemaInput struct {
	City         *types.CityProfile
	Campaign     *types.ProductCampaign
	Metadata     Metadata
	FAQs         []types.FAQ
	HeroImageURL string
	MainImageURL string
	PageURL      string
	BusinessName string
	Currency     string
}

type schemaGraph struct {
	Context string `json:"@context"`
	Graph   []any  `json:"@graph"`
}

type schemaCity struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

type schemaOffer struct {
	Type          string     `json:"@type"`
	Price         string     `json:"price"`
	PriceCurrency string     `json:"priceCurrency"`
	Availability  string     `json:"availability"`
	URL           string     `json:"url,omitempty"`
	AreaServed    schemaCity `json:"areaServed"`
}

type schemaProduct struct {
	Type        string      `json:"@type"`
	ID          string      `json:"@id,omitempty"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       []string    `json:"image,omitempty"`
	Material    string      `json:"material,omitempty"`
	Size        string      `json:"size,omitempty"`
	Offers      schemaOffer `json:"offers"`
}

type schemaAddress struct {
	Type            string `json:"@type"`
	AddressLocality string `json:"addressLocality"`
	AddressRegion   string `json:"addressRegion"`
	PostalCode      string `json:"postalCode,omitempty"`
	AddressCountry  string `json:"addressCountry"`
}

type schemaGeo struct {
	Type      string  `json:"@type"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type schemaLocalBusiness struct {
	Type       string        `json:"@type"`
	ID         string        `json:"@id,omitempty"`
	Name       string        `json:"name"`
	URL        string        `json:"url,omitempty"`
	Image      string        `json:"image,omitempty"`
	PriceRange string        `json:"priceRange"`
	AreaServed schemaCity    `json:"areaServed"`
	Address    schemaAddress `json:"address"`
	Geo        *schemaGeo    `json:"geo,omitempty"`
}

type schemaAnswer struct {
	Type string `json:"@type"`
	Text string `json:"text"`
}

type schemaQuestion struct {
	Type           string       `json:"@type"`
	Name           string       `json:"name"`
	AcceptedAnswer schemaAnswer `json:"acceptedAnswer"`
}

type schemaFAQPage struct {
	Type       string           `json:"@type"`
	ID         string           `json:"@id,omitempty"`
	MainEntity []schemaQuestion `json:"mainEntity"`
}

// BuildSchema renders the Product + LocalBusiness + FAQPage JSON-LD graph.
func BuildSchema(in SchemaInput) (json.RawMessage, error) {
	if in.City == nil || in.Campaign == nil {
		return nil, fmt.Errorf("schema: city and campaign required")
	}
	currency := strings.TrimSpace(in.Currency)
	if currency == "" {
		currency = "USD"
	}
	business := strings.TrimSpace(in.BusinessName)
	if business == "" {
		business = in.Campaign.ProductName
	}
	city := schemaCity{Type: "City", Name: in.City.DisplayName()}
	price := fmt.Sprintf("%.2f", in.Campaign.Price)

	var images []string
	for _, u := range []string{in.MainImageURL, in.HeroImageURL} {
		if strings.TrimSpace(u) != "" {
			images = append(images, u)
		}
	}

	product := schemaProduct{
		Type:        "Product",
		ID:          anchor(in.PageURL, "product"),
		Name:        fmt.Sprintf("%s in %s", in.Campaign.ProductName, in.City.Name),
		Description: in.Metadata.MetaDescription,
		Image:       images,
		Material:    in.Campaign.Material,
		Size:        in.Campaign.Size,
		Offers: schemaOffer{
			Type:          "Offer",
			Price:         price,
			PriceCurrency: currency,
			Availability:  "https://schema.org/InStock",
			URL:           in.PageURL,
			AreaServed:    city,
		},
	}

	var postal string
	if zips := in.City.ZipCodeList(); len(zips) > 0 {
		postal = zips[0]
	}
	local := schemaLocalBusiness{
		Type:       "LocalBusiness",
		ID:         anchor(in.PageURL, "business"),
		Name:       fmt.Sprintf("%s %s", business, in.City.Name),
		URL:        in.PageURL,
		Image:      in.HeroImageURL,
		PriceRange: "$" + price,
		AreaServed: city,
		Address: schemaAddress{
			Type:            "PostalAddress",
			AddressLocality: in.City.Name,
			AddressRegion:   in.City.StateCode,
			PostalCode:      postal,
			AddressCountry:  "US",
		},
	}
	if in.City.Latitude != nil && in.City.Longitude != nil {
		local.Geo = &schemaGeo{Type: "GeoCoordinates", Latitude: *in.City.Latitude, Longitude: *in.City.Longitude}
	}

	faq := schemaFAQPage{Type: "FAQPage", ID: anchor(in.PageURL, "faq"), MainEntity: make([]schemaQuestion, 0, len(in.FAQs))}
	for _, f := range in.FAQs {
		faq.MainEntity = append(faq.MainEntity, schemaQuestion{
			Type:           "Question",
			Name:           f.Question,
			AcceptedAnswer: schemaAnswer{Type: "Answer", Text: f.Answer},
		})
	}

	return json.Marshal(schemaGraph{
		Context: "https://schema.org",
		Graph:   []any{product, local, faq},
	})
}

func anchor(pageURL, frag string) string {
	if strings.TrimSpace(pageURL) == "" {
		return ""
	}
	return pageURL + "#" + frag
}
