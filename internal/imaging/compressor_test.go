package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

func noiseImage(w, h int, seed int64) *image.RGBA {
	r := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(r.Intn(256)), G: uint8(r.Intn(256)), B: uint8(r.Intn(256)), A: 0xff})
		}
	}
	return img
}

func solidImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 30, G: 120, B: 200, A: 0xff})
		}
	}
	return img
}

func mustJPEG(t *testing.T, img image.Image, q int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: q}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func mustPNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func decoded(t *testing.T, raw []byte) image.Image {
	t.Helper()
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return img
}

// b64SizeAt reports the base64 size the ladder would measure at quality q.
func b64SizeAt(t *testing.T, img image.Image, q int) int {
	t.Helper()
	data, err := encodeJPEG(flatten(img), q)
	if err != nil {
		t.Fatalf("encodeJPEG: %v", err)
	}
	return encodedLen(len(data))
}

func TestCeilingForTargets(t *testing.T) {
	if got := CeilingFor(TargetAnthropic); got != 5*1024*1024 {
		t.Fatalf("anthropic: want=%d got=%d", 5*1024*1024, got)
	}
	for _, tg := range []Target{TargetOpenAI, TargetGemini, TargetOllama, TargetDefault, Target("unknown")} {
		if got := CeilingFor(tg); got != 20*1024*1024 {
			t.Fatalf("%s: want=%d got=%d", tg, 20*1024*1024, got)
		}
	}
	if got := ParseTarget("Claude"); got != TargetAnthropic {
		t.Fatalf("ParseTarget(Claude): want=%s got=%s", TargetAnthropic, got)
	}
}

func TestCompressReturnsFittingJPEGUntouched(t *testing.T) {
	raw := mustJPEG(t, solidImage(64, 64), 90)
	res, err := Compress(FromBytes(raw), Options{Target: TargetOllama})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if res.WasCompressed {
		t.Fatalf("WasCompressed: want=false got=true")
	}
	if !bytes.Equal(res.Bytes, raw) {
		t.Fatalf("bytes changed for an image that already fits")
	}
	if res.Format != "jpeg" {
		t.Fatalf("format: want=jpeg got=%s", res.Format)
	}
}

func TestCompressNeverUpscales(t *testing.T) {
	raw := mustJPEG(t, noiseImage(120, 60, 1), 95)
	ceiling := b64SizeAt(t, decoded(t, raw), 40)
	res, err := Compress(FromBytes(raw), Options{MaxBytes: ceiling})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if res.Width != 120 || res.Height != 60 {
		t.Fatalf("dims: want=120x60 got=%dx%d", res.Width, res.Height)
	}
	if res.SizeBytes > ceiling {
		t.Fatalf("size: want<=%d got=%d", ceiling, res.SizeBytes)
	}
}

func TestCompressDownscalesPreservingAspect(t *testing.T) {
	raw := mustJPEG(t, solidImage(4000, 1000), 80)
	res, err := Compress(FromBytes(raw), Options{})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if res.Width != 1920 || res.Height != 480 {
		t.Fatalf("dims: want=1920x480 got=%dx%d", res.Width, res.Height)
	}
	if !res.WasCompressed {
		t.Fatalf("WasCompressed: want=true got=false")
	}
}

func TestCompressKeepsPNGWhenLosslessFits(t *testing.T) {
	raw := mustPNG(t, solidImage(3000, 100))
	res, err := Compress(FromBytes(raw), Options{})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if res.Format != "png" {
		t.Fatalf("format: want=png got=%s", res.Format)
	}
	if res.Width != 1920 {
		t.Fatalf("width: want=1920 got=%d", res.Width)
	}
}

func TestCompressPNGFallsToJPEGLadder(t *testing.T) {
	raw := mustPNG(t, noiseImage(200, 200, 2))
	ceiling := b64SizeAt(t, decoded(t, raw), 50)
	res, err := Compress(FromBytes(raw), Options{MaxBytes: ceiling})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if res.Format != "jpeg" {
		t.Fatalf("format: want=jpeg got=%s", res.Format)
	}
	if res.Quality > 50 {
		t.Fatalf("quality: want<=50 got=%d", res.Quality)
	}
	if res.SizeBytes > ceiling {
		t.Fatalf("size: want<=%d got=%d", ceiling, res.SizeBytes)
	}
}

func TestCompressNormalizesGIFToJPEG(t *testing.T) {
	var buf bytes.Buffer
	if err := gif.Encode(&buf, solidImage(32, 32), nil); err != nil {
		t.Fatalf("encode gif: %v", err)
	}
	res, err := Compress(FromBytes(buf.Bytes()), Options{})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if res.Format != "jpeg" || res.Quality != DefaultStartQuality {
		t.Fatalf("want jpeg@%d got %s@%d", DefaultStartQuality, res.Format, res.Quality)
	}
}

func TestCompressCeilingError(t *testing.T) {
	raw := mustJPEG(t, noiseImage(128, 128, 3), 95)
	_, err := Compress(FromBytes(raw), Options{Target: TargetAnthropic, MaxBytes: 100})
	var ce *CeilingError
	if !errors.As(err, &ce) {
		t.Fatalf("want CeilingError got %v", err)
	}
	if ce.FloorQuality != DefaultMinQuality {
		t.Fatalf("floor quality: want=%d got=%d", DefaultMinQuality, ce.FloorQuality)
	}
	if ce.FloorBytes <= 100 || ce.CeilingBytes != 100 {
		t.Fatalf("unexpected error fields: %+v", ce)
	}
}

func TestCompressWithRetryReachesLowerFloor(t *testing.T) {
	raw := mustJPEG(t, noiseImage(256, 256, 4), 95)
	img := decoded(t, raw)
	at20 := b64SizeAt(t, img, 20)
	at30 := b64SizeAt(t, img, 30)
	if at20 >= at30 {
		t.Fatalf("expected q20 output smaller than q30: %d vs %d", at20, at30)
	}
	ceiling := (at20 + at30) / 2

	if _, err := Compress(FromBytes(raw), Options{MaxBytes: ceiling}); !IsCeilingError(err) {
		t.Fatalf("first pass: want ceiling error got %v", err)
	}
	res, err := CompressWithRetry(FromBytes(raw), Options{MaxBytes: ceiling})
	if err != nil {
		t.Fatalf("CompressWithRetry: %v", err)
	}
	if res.Quality != RetryMinQuality {
		t.Fatalf("quality: want=%d got=%d", RetryMinQuality, res.Quality)
	}
	if res.SizeBytes > ceiling {
		t.Fatalf("size: want<=%d got=%d", ceiling, res.SizeBytes)
	}
}

func TestCompressInputsFromPathAndBase64(t *testing.T) {
	raw := mustJPEG(t, solidImage(16, 16), 90)
	path := filepath.Join(t.TempDir(), "in.jpg")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Compress(FromPath(path), Options{}); err != nil {
		t.Fatalf("path input: %v", err)
	}
	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(raw)
	res, err := Compress(FromBase64(dataURL), Options{})
	if err != nil {
		t.Fatalf("base64 input: %v", err)
	}
	if res.Base64() != base64.StdEncoding.EncodeToString(raw) {
		t.Fatalf("base64 round trip mismatch")
	}
	if _, err := Compress(Input{}, Options{}); err == nil {
		t.Fatalf("empty input: want error")
	}
}
