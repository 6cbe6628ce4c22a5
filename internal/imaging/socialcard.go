package imaging

import (
	"bytes"
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	SocialCardWidth  = 1200
	SocialCardHeight = 630
)

// SocialCard is the Open Graph preview rendered for every city page.
type SocialCard struct {
	Title    string
	Subtitle string
	Footer   string
	// Accent is a #rrggbb color for the gradient and footer band.
	Accent string
}

var (
	fontsOnce sync.Once
	fontsErr  error
	boldFont  *truetype.Font
	plainFont *truetype.Font
)

func loadFonts() error {
	fontsOnce.Do(func() {
		boldFont, fontsErr = truetype.Parse(gobold.TTF)
		if fontsErr != nil {
			return
		}
		plainFont, fontsErr = truetype.Parse(goregular.TTF)
	})
	return fontsErr
}

func face(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingNone})
}

// RenderSocialCard draws the card and returns PNG bytes.
func RenderSocialCard(card SocialCard) ([]byte, error) {
	if strings.TrimSpace(card.Title) == "" {
		return nil, fmt.Errorf("social card title required")
	}
	if err := loadFonts(); err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}
	accent := parseHexColor(card.Accent, color.RGBA{R: 0x1f, G: 0x6f, B: 0xeb, A: 0xff})

	w, h := float64(SocialCardWidth), float64(SocialCardHeight)
	dc := gg.NewContext(SocialCardWidth, SocialCardHeight)

	grad := gg.NewLinearGradient(0, 0, w, h)
	grad.AddColorStop(0, color.RGBA{R: 0x10, G: 0x14, B: 0x1c, A: 0xff})
	grad.AddColorStop(1, accent)
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, w, h)
	dc.Fill()

	dc.SetColor(accent)
	dc.DrawRectangle(0, h-80, w, 80)
	dc.Fill()

	dc.SetColor(color.White)
	dc.SetFontFace(face(boldFont, 64))
	dc.DrawStringWrapped(card.Title, 80, 120, 0, 0, w-160, 1.25, gg.AlignLeft)

	if s := strings.TrimSpace(card.Subtitle); s != "" {
		dc.SetColor(color.RGBA{R: 0xe6, G: 0xe9, B: 0xef, A: 0xff})
		dc.SetFontFace(face(plainFont, 36))
		dc.DrawStringWrapped(s, 80, 380, 0, 0, w-160, 1.3, gg.AlignLeft)
	}
	if f := strings.TrimSpace(card.Footer); f != "" {
		dc.SetColor(color.White)
		dc.SetFontFace(face(plainFont, 30))
		dc.DrawStringAnchored(f, 80, h-40, 0, 0.35)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func parseHexColor(s string, fallback color.RGBA) color.RGBA {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return fallback
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fallback
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}
