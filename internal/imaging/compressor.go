package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxDimension = 1920
	DefaultStartQuality = 80
	DefaultMinQuality   = 30
	DefaultQualityStep  = 10
	DefaultMaxAttempts  = 10

	RetryStartQuality = 60
	RetryMinQuality   = 20
)

// Input is exactly one of raw bytes, a file path or a base64 string
// (data URLs are accepted).
type Input struct {
	Bytes  []byte
	Path   string
	Base64 string
}

func FromBytes(b []byte) Input  { return Input{Bytes: b} }
func FromPath(p string) Input   { return Input{Path: p} }
func FromBase64(s string) Input { return Input{Base64: s} }

type Options struct {
	Target Target
	// MaxBytes overrides the target ceiling when > 0.
	MaxBytes     int
	MaxDimension int
	StartQuality int
	MinQuality   int
	QualityStep  int
	MaxAttempts  int
}

func (o Options) withDefaults() Options {
	if o.Target == "" {
		o.Target = TargetDefault
	}
	if o.MaxDimension <= 0 {
		o.MaxDimension = DefaultMaxDimension
	}
	if o.StartQuality <= 0 || o.StartQuality > 100 {
		o.StartQuality = DefaultStartQuality
	}
	if o.MinQuality <= 0 {
		o.MinQuality = DefaultMinQuality
	}
	if o.MinQuality > o.StartQuality {
		o.MinQuality = o.StartQuality
	}
	if o.QualityStep <= 0 {
		o.QualityStep = DefaultQualityStep
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	return o
}

func (o Options) ceiling() int {
	if o.MaxBytes > 0 {
		return o.MaxBytes
	}
	return CeilingFor(o.Target)
}

type Result struct {
	Bytes []byte
	// SizeBytes is the length of the base64 encoding, the unit every ceiling is expressed in.
	SizeBytes     int
	Quality       int
	Width         int
	Height        int
	Format        string
	WasCompressed bool
	Attempts      int
}

func (r *Result) Base64() string {
	if r == nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(r.Bytes)
}

func (r *Result) MIMEType() string {
	if r == nil {
		return ""
	}
	return "image/" + r.Format
}

// CeilingError reports that even the lowest quality setting stayed above the ceiling.
type CeilingError struct {
	Target       Target
	CeilingBytes int
	FloorBytes   int
	FloorQuality int
}

func (e *CeilingError) Error() string {
	return fmt.Sprintf(
		"image exceeds %s ceiling: %d bytes at quality floor %d (ceiling %d bytes)",
		e.Target, e.FloorBytes, e.FloorQuality, e.CeilingBytes,
	)
}

func IsCeilingError(err error) bool {
	var ce *CeilingError
	return errors.As(err, &ce)
}

// Compress brings an image under the ceiling of opts.Target (or opts.MaxBytes).
// Sources that already fit, need no resize and are JPEG or PNG are returned as-is.
func Compress(in Input, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	raw, err := in.load()
	if err != nil {
		return nil, err
	}
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	ceiling := opts.ceiling()
	b := img.Bounds()
	needsResize := b.Dx() > opts.MaxDimension || b.Dy() > opts.MaxDimension
	passthrough := format == "jpeg" || format == "png"

	if !needsResize && passthrough && encodedLen(len(raw)) <= ceiling {
		return &Result{
			Bytes:     raw,
			SizeBytes: encodedLen(len(raw)),
			Width:     b.Dx(),
			Height:    b.Dy(),
			Format:    format,
		}, nil
	}

	if needsResize {
		img = Fit(img, opts.MaxDimension)
	}
	b = img.Bounds()

	attempts := 0
	if format == "png" {
		attempts++
		data, err := encodePNG(img)
		if err != nil {
			return nil, err
		}
		if encodedLen(len(data)) <= ceiling {
			return &Result{
				Bytes:         data,
				SizeBytes:     encodedLen(len(data)),
				Width:         b.Dx(),
				Height:        b.Dy(),
				Format:        "png",
				WasCompressed: true,
				Attempts:      attempts,
			}, nil
		}
	}

	flat := flatten(img)
	lastSize, lastQuality := 0, opts.StartQuality
	for q := opts.StartQuality; q >= opts.MinQuality && attempts < opts.MaxAttempts; q -= opts.QualityStep {
		attempts++
		data, err := encodeJPEG(flat, q)
		if err != nil {
			return nil, err
		}
		lastSize, lastQuality = encodedLen(len(data)), q
		if lastSize <= ceiling {
			return &Result{
				Bytes:         data,
				SizeBytes:     lastSize,
				Quality:       q,
				Width:         b.Dx(),
				Height:        b.Dy(),
				Format:        "jpeg",
				WasCompressed: true,
				Attempts:      attempts,
			}, nil
		}
	}
	return nil, &CeilingError{
		Target:       opts.Target,
		CeilingBytes: ceiling,
		FloorBytes:   lastSize,
		FloorQuality: lastQuality,
	}
}

// CompressWithRetry runs Compress and, on a ceiling failure, redrives once
// with a lower starting quality and floor.
func CompressWithRetry(in Input, opts Options) (*Result, error) {
	res, err := Compress(in, opts)
	if err == nil || !IsCeilingError(err) {
		return res, err
	}
	if in.Bytes == nil {
		// Load once so the second pass does not reread the source.
		raw, lerr := in.load()
		if lerr != nil {
			return nil, lerr
		}
		in = FromBytes(raw)
	}
	retry := opts
	retry.StartQuality = RetryStartQuality
	retry.MinQuality = RetryMinQuality
	return Compress(in, retry)
}

// Fit scales img down so neither side exceeds maxDim, keeping aspect ratio.
// Images already within bounds are returned unchanged.
func Fit(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return img
	}
	nw, nh := maxDim, maxDim
	if w >= h {
		nh = int(float64(h) * float64(maxDim) / float64(w))
	} else {
		nw = int(float64(w) * float64(maxDim) / float64(h))
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

func (in Input) load() ([]byte, error) {
	switch {
	case len(in.Bytes) > 0:
		return in.Bytes, nil
	case strings.TrimSpace(in.Path) != "":
		data, err := os.ReadFile(in.Path)
		if err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
		return data, nil
	case strings.TrimSpace(in.Base64) != "":
		s := strings.TrimSpace(in.Base64)
		if strings.HasPrefix(s, "data:") {
			if i := strings.Index(s, ","); i >= 0 {
				s = s[i+1:]
			}
		}
		data, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("decode base64 image: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("empty image input")
	}
}

// flatten composites onto white so transparent regions do not turn black in JPEG.
func flatten(img image.Image) image.Image {
	if _, ok := img.(*image.YCbCr); ok {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func encodedLen(n int) int {
	return base64.StdEncoding.EncodedLen(n)
}
