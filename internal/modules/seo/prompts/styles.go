package prompts

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	types "github.com/yungbote/seobrain/internal/domain"
)

//go:embed city_styles.yaml
var defaultCityStyles []byte

// Where a scene came from.
const (
	StyleSourceCity    = "city"
	StyleSourceFeature = "feature"
	StyleSourceDefault = "default"
)

type featureRule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Scene    string   `yaml:"scene"`
}

type styleFile struct {
	Default  string            `yaml:"default"`
	Cities   map[string]string `yaml:"cities"`
	Features []featureRule     `yaml:"features"`
}

// StyleTable maps cities onto hero image scenes.
type StyleTable struct {
	def      string
	cities   map[string]string
	features []featureRule
}

type Style struct {
	Scene  string
	Source string
	// Feature is the matched rule name when Source is StyleSourceFeature.
	Feature string
}

// DefaultStyles parses the embedded table.
func DefaultStyles() *StyleTable {
	t, err := ParseStyles(defaultCityStyles)
	if err != nil {
		panic(fmt.Sprintf("embedded city styles: %v", err))
	}
	return t
}

// LoadStyles reads a table from path, or the embedded one when path is empty.
func LoadStyles(path string) (*StyleTable, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return ParseStyles(defaultCityStyles)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read city styles: %w", err)
	}
	return ParseStyles(raw)
}

func ParseStyles(raw []byte) (*StyleTable, error) {
	var f styleFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse city styles: %w", err)
	}
	if strings.TrimSpace(f.Default) == "" {
		return nil, fmt.Errorf("city styles: default scene required")
	}
	t := &StyleTable{def: strings.TrimSpace(f.Default), cities: map[string]string{}}
	for k, v := range f.Cities {
		if v = strings.TrimSpace(v); v != "" {
			t.cities[normalizeCityKey(k)] = v
		}
	}
	for _, r := range f.Features {
		if strings.TrimSpace(r.Scene) == "" || len(r.Keywords) == 0 {
			return nil, fmt.Errorf("city styles: feature %q needs scene and keywords", r.Name)
		}
		kws := make([]string, 0, len(r.Keywords))
		for _, kw := range r.Keywords {
			if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
				kws = append(kws, kw)
			}
		}
		t.features = append(t.features, featureRule{Name: r.Name, Keywords: kws, Scene: strings.TrimSpace(r.Scene)})
	}
	return t, nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// normalizeCityKey folds "Austin, TX" and "austin-tx" onto the same key.
func normalizeCityKey(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// Lookup resolves a scene: exact city, then feature keywords, then default.
func (t *StyleTable) Lookup(city *types.CityProfile) Style {
	if city == nil {
		return Style{Scene: t.def, Source: StyleSourceDefault}
	}
	fill := strings.NewReplacer("{city}", city.Name, "{state}", stateName(city))
	for _, key := range []string{city.Slug, city.Name + ", " + city.StateCode, city.Name + ", " + city.State} {
		if scene, ok := t.cities[normalizeCityKey(key)]; ok {
			return Style{Scene: fill.Replace(scene), Source: StyleSourceCity}
		}
	}

	var traits []string
	for _, list := range [][]string{city.FamousForList(), city.IndustryList(), city.VenueList(), city.NeighborhoodList()} {
		for _, s := range list {
			traits = append(traits, strings.ToLower(s))
		}
	}
	for _, rule := range t.features {
		for _, kw := range rule.Keywords {
			for _, trait := range traits {
				if strings.Contains(trait, kw) {
					return Style{Scene: fill.Replace(rule.Scene), Source: StyleSourceFeature, Feature: rule.Name}
				}
			}
		}
	}
	return Style{Scene: fill.Replace(t.def), Source: StyleSourceDefault}
}

func stateName(city *types.CityProfile) string {
	if s := strings.TrimSpace(city.State); s != "" {
		return s
	}
	return city.StateCode
}
