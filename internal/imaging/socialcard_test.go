package imaging

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"
)

func TestRenderSocialCard(t *testing.T) {
	data, err := RenderSocialCard(SocialCard{
		Title:    "500 Business Cards in Austin, TX",
		Subtitle: "Next-day turnaround on 16pt matte stock",
		Footer:   "seobrain.example",
		Accent:   "#ff7a00",
	})
	if err != nil {
		t.Fatalf("RenderSocialCard: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != SocialCardWidth || b.Dy() != SocialCardHeight {
		t.Fatalf("dims: want=%dx%d got=%dx%d", SocialCardWidth, SocialCardHeight, b.Dx(), b.Dy())
	}
}

func TestRenderSocialCardRequiresTitle(t *testing.T) {
	if _, err := RenderSocialCard(SocialCard{}); err == nil {
		t.Fatalf("want error for empty title")
	}
}

func TestParseHexColor(t *testing.T) {
	fb := color.RGBA{R: 1, G: 2, B: 3, A: 0xff}
	if got := parseHexColor("#ff7a00", fb); got != (color.RGBA{R: 0xff, G: 0x7a, B: 0x00, A: 0xff}) {
		t.Fatalf("parse: got=%v", got)
	}
	for _, in := range []string{"", "zz", "#12345", "#gggggg"} {
		if got := parseHexColor(in, fb); got != fb {
			t.Fatalf("%q: want fallback got=%v", in, got)
		}
	}
}
