package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/yungbote/seobrain/internal/platform/gcp"
	"github.com/yungbote/seobrain/internal/platform/logger"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 90, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func newService(t *testing.T, rt roundTripperFunc, retries int) (*Service, *gcp.MemoryBucketService) {
	t.Helper()
	bucket := gcp.NewMemoryBucketService("https://cdn.test")
	svc, err := NewWithHTTPClient(logger.Nop(), Config{
		BaseURL:    "https://images.test",
		APIKey:     "sk-test",
		Model:      "dall-e-3",
		MaxRetries: retries,
	}, bucket, &http.Client{Transport: rt})
	if err != nil {
		t.Fatalf("NewWithHTTPClient: %v", err)
	}
	return svc, bucket
}

func TestSizeFor(t *testing.T) {
	cases := map[string]string{"16:9": "1792x1024", "9:16": "1024x1792", "1:1": "1024x1024", "": "1024x1024"}
	for in, want := range cases {
		if got := SizeFor(in); got != want {
			t.Fatalf("SizeFor(%q): want=%q got=%q", in, want, got)
		}
	}
}

func TestGenerateUploadsB64Image(t *testing.T) {
	raw := testPNG(t, 64, 36)
	var sent generationRequest
	svc, bucket := newService(t, func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/v1/images/generations" {
			t.Fatalf("path: got=%q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Fatalf("auth header: got=%q", got)
		}
		_ = json.NewDecoder(r.Body).Decode(&sent)
		body, _ := json.Marshal(map[string]any{"data": []map[string]string{{"b64_json": base64.StdEncoding.EncodeToString(raw)}}})
		return jsonResponse(200, string(body)), nil
	}, 0)

	res, err := svc.Generate(context.Background(), Request{Prompt: "skyline", AspectRatio: "16:9", Name: "hero/Austin TX"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if sent.Size != "1792x1024" || sent.ResponseFormat != "b64_json" || sent.N != 1 {
		t.Fatalf("request body: %+v", sent)
	}
	if !res.Success || res.Width != 64 || res.Height != 36 {
		t.Fatalf("result: %+v", res)
	}
	if !strings.HasPrefix(res.Key, "seo/hero/austin-tx-") || !strings.HasSuffix(res.Key, ".png") {
		t.Fatalf("key: got=%q", res.Key)
	}
	if res.URL != "https://cdn.test/image/"+res.Key {
		t.Fatalf("url: got=%q", res.URL)
	}
	keys, _ := bucket.ListKeys(context.Background(), gcp.BucketCategoryImage, "seo/")
	if len(keys) != 1 {
		t.Fatalf("uploaded keys: %v", keys)
	}
}

func TestGenerateDownloadsURLWithoutLeakingAuth(t *testing.T) {
	raw := testPNG(t, 16, 16)
	svc, _ := newService(t, func(r *http.Request) (*http.Response, error) {
		if r.URL.Host == "blob.test" {
			if r.Header.Get("Authorization") != "" {
				t.Fatalf("auth header must not be sent to blob host")
			}
			return &http.Response{StatusCode: 200, Header: http.Header{}, Body: io.NopCloser(bytes.NewReader(raw))}, nil
		}
		return jsonResponse(200, `{"data":[{"url":"https://blob.test/img.png","revised_prompt":"a skyline"}]}`), nil
	}, 0)

	res, err := svc.Generate(context.Background(), Request{Prompt: "skyline", Name: "main"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.RevisedPrompt != "a skyline" {
		t.Fatalf("revised prompt: got=%q", res.RevisedPrompt)
	}
}

func TestGenerateRejectsOversizedBodies(t *testing.T) {
	origResp, origDownload := maxResponseBytes, maxDownloadBytes
	maxResponseBytes, maxDownloadBytes = 4096, 64
	t.Cleanup(func() { maxResponseBytes, maxDownloadBytes = origResp, origDownload })

	raw := testPNG(t, 16, 16)
	svc, bucket := newService(t, func(r *http.Request) (*http.Response, error) {
		if r.URL.Host == "blob.test" {
			return &http.Response{StatusCode: 200, Header: http.Header{}, Body: io.NopCloser(bytes.NewReader(raw))}, nil
		}
		return jsonResponse(200, `{"data":[{"url":"https://blob.test/img.png"}]}`), nil
	}, 0)
	if _, err := svc.Generate(context.Background(), Request{Prompt: "skyline", Name: "main"}); !errors.Is(err, ErrBodyTooLarge) {
		t.Fatalf("download: want ErrBodyTooLarge got %v", err)
	}

	big := `{"data":[{"b64_json":"` + strings.Repeat("A", 8192) + `"}]}`
	svc, _ = newService(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(200, big), nil
	}, 0)
	if _, err := svc.Generate(context.Background(), Request{Prompt: "skyline"}); !errors.Is(err, ErrBodyTooLarge) {
		t.Fatalf("response: want ErrBodyTooLarge got %v", err)
	}
	if keys, _ := bucket.ListKeys(context.Background(), gcp.BucketCategoryImage, ""); len(keys) != 0 {
		t.Fatalf("nothing may be uploaded: %v", keys)
	}
}

func TestGenerateRetriesServerErrors(t *testing.T) {
	raw := testPNG(t, 8, 8)
	var calls int32
	svc, _ := newService(t, func(r *http.Request) (*http.Response, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			resp := jsonResponse(503, `{"error":"busy"}`)
			resp.Header.Set("Retry-After", "0")
			return resp, nil
		}
		body, _ := json.Marshal(map[string]any{"data": []map[string]string{{"b64_json": base64.StdEncoding.EncodeToString(raw)}}})
		return jsonResponse(200, string(body)), nil
	}, 2)

	if _, err := svc.Generate(context.Background(), Request{Prompt: "x"}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if calls != 2 {
		t.Fatalf("calls: want=2 got=%d", calls)
	}
}

func TestGenerateDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	svc, _ := newService(t, func(r *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		return jsonResponse(400, `{"error":"content policy"}`), nil
	}, 3)

	_, err := svc.Generate(context.Background(), Request{Prompt: "x"})
	var he *HTTPError
	if err == nil || !errors.As(err, &he) || he.StatusCode != 400 {
		t.Fatalf("want 400 HTTPError, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls: want=1 got=%d", calls)
	}
}

func TestGenerateRequiresPrompt(t *testing.T) {
	svc, _ := newService(t, func(r *http.Request) (*http.Response, error) {
		t.Fatalf("no request expected")
		return nil, nil
	}, 0)
	if _, err := svc.Generate(context.Background(), Request{Prompt: "  "}); err == nil {
		t.Fatalf("expected error for empty prompt")
	}
}
