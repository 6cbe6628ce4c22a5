// Package imagegen generates images through an OpenAI-compatible
// /v1/images/generations endpoint, compresses them and publishes them to
// object storage.
package imagegen

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/yungbote/seobrain/internal/imaging"
	"github.com/yungbote/seobrain/internal/platform/dbctx"
	"github.com/yungbote/seobrain/internal/platform/gcp"
	"github.com/yungbote/seobrain/internal/platform/httpx"
	"github.com/yungbote/seobrain/internal/platform/logger"
)

type Config struct {
	BaseURL    string
	APIKey     string
	Model      string
	Path       string
	Timeout    time.Duration
	MaxRetries int
	// KeyPrefix is prepended to every object key ("seo/images").
	KeyPrefix    string
	MaxDimension int
}

type Request struct {
	Prompt string
	// AspectRatio is "16:9", "1:1" or "9:16"; anything else maps to 1:1.
	AspectRatio string
	// Name becomes part of the object key (e.g. "hero/austin-tx").
	Name string
}

type Result struct {
	Success       bool
	URL           string
	Key           string
	Width         int
	Height        int
	SizeBytes     int
	RevisedPrompt string
}

type Generator interface {
	Generate(ctx context.Context, req Request) (*Result, error)
	Model() string
}

// Bucket is the slice of gcp.BucketService the generator needs.
type Bucket interface {
	UploadFile(dbc dbctx.Context, category gcp.BucketCategory, key string, file io.Reader) error
	GetPublicURL(category gcp.BucketCategory, key string) string
}

type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("image generation http %d: %s", e.StatusCode, e.Body)
}

func (e *HTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

type Service struct {
	log          *logger.Logger
	baseURL      string
	apiKey       string
	model        string
	path         string
	maxRetries   int
	keyPrefix    string
	maxDimension int
	bucket       Bucket
	httpClient   *http.Client
}

func New(log *logger.Logger, cfg Config, bucket Bucket) (*Service, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 180 * time.Second
	}
	return NewWithHTTPClient(log, cfg, bucket, &http.Client{Timeout: timeout})
}

func NewWithHTTPClient(log *logger.Logger, cfg Config, bucket Bucket, httpClient *http.Client) (*Service, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("imagegen: base url required")
	}
	if bucket == nil {
		return nil, errors.New("imagegen: bucket required")
	}
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		path = "/v1/images/generations"
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gpt-image-1"
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	prefix := strings.Trim(strings.TrimSpace(cfg.KeyPrefix), "/")
	if prefix == "" {
		prefix = "seo"
	}
	maxDim := cfg.MaxDimension
	if maxDim <= 0 {
		maxDim = imaging.DefaultMaxDimension
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 180 * time.Second}
	}
	return &Service{
		log:          log.With("service", "ImageGenerator"),
		baseURL:      baseURL,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		model:        model,
		path:         path,
		maxRetries:   maxRetries,
		keyPrefix:    prefix,
		maxDimension: maxDim,
		bucket:       bucket,
		httpClient:   httpClient,
	}, nil
}

// SizeFor maps an aspect ratio onto a supported generation size.
func SizeFor(aspectRatio string) string {
	switch strings.TrimSpace(aspectRatio) {
	case "16:9":
		return "1792x1024"
	case "9:16":
		return "1024x1792"
	default:
		return "1024x1024"
	}
}

type generationRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size,omitempty"`
	ResponseFormat string `json:"response_format,omitempty"`
}

type generationResponse struct {
	Data []struct {
		B64JSON       string `json:"b64_json"`
		URL           string `json:"url"`
		RevisedPrompt string `json:"revised_prompt"`
	} `json:"data"`
}

func (s *Service) Model() string { return s.model }

func (s *Service) Generate(ctx context.Context, req Request) (*Result, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, errors.New("image prompt required")
	}

	raw, revised, err := s.fetch(ctx, prompt, SizeFor(req.AspectRatio))
	if err != nil {
		return nil, err
	}

	compressed, err := imaging.CompressWithRetry(imaging.FromBytes(raw), imaging.Options{
		Target:       imaging.TargetDefault,
		MaxDimension: s.maxDimension,
	})
	if err != nil {
		return nil, fmt.Errorf("compress generated image: %w", err)
	}

	key := s.objectKey(req.Name, compressed)
	if err := s.bucket.UploadFile(dbctx.Background(ctx), gcp.BucketCategoryImage, key, bytes.NewReader(compressed.Bytes)); err != nil {
		return nil, fmt.Errorf("upload generated image: %w", err)
	}

	s.log.Debug("image generated",
		"key", key,
		"width", compressed.Width,
		"height", compressed.Height,
		"size_bytes", compressed.SizeBytes,
		"quality", compressed.Quality,
	)
	return &Result{
		Success:       true,
		URL:           s.bucket.GetPublicURL(gcp.BucketCategoryImage, key),
		Key:           key,
		Width:         compressed.Width,
		Height:        compressed.Height,
		SizeBytes:     compressed.SizeBytes,
		RevisedPrompt: revised,
	}, nil
}

func (s *Service) fetch(ctx context.Context, prompt, size string) ([]byte, string, error) {
	body := generationRequest{Model: s.model, Prompt: prompt, N: 1, Size: size}
	// gpt-image models always answer with b64_json and reject the parameter.
	if !strings.HasPrefix(strings.ToLower(s.model), "gpt-image-") {
		body.ResponseFormat = "b64_json"
	}

	var resp generationResponse
	if err := s.post(ctx, body, &resp); err != nil {
		return nil, "", err
	}
	if len(resp.Data) == 0 {
		return nil, "", errors.New("no image returned")
	}
	item := resp.Data[0]
	revised := strings.TrimSpace(item.RevisedPrompt)
	if b64 := strings.TrimSpace(item.B64JSON); b64 != "" {
		raw, err := base64.StdEncoding.DecodeString(b64)
		if err != nil || len(raw) == 0 {
			return nil, "", fmt.Errorf("decode image base64: %w", err)
		}
		return raw, revised, nil
	}
	if u := strings.TrimSpace(item.URL); u != "" {
		raw, err := s.download(ctx, u)
		if err != nil {
			return nil, "", fmt.Errorf("download generated image: %w", err)
		}
		return raw, revised, nil
	}
	return nil, "", errors.New("image response missing b64_json and url")
}

func (s *Service) post(ctx context.Context, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	for attempt := 0; ; attempt++ {
		resp, raw, err := s.doOnce(ctx, payload)
		if err == nil {
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				return fmt.Errorf("image generation decode error: %w", uErr)
			}
			return nil
		}
		if !httpx.IsRetryableError(err) || attempt >= s.maxRetries {
			return err
		}
		sleepFor := httpx.JitterSleep(httpx.RetryAfterDuration(resp, httpx.Backoff(attempt, time.Second, 10*time.Second), 10*time.Second))
		s.log.Warn("image generation retrying",
			"attempt", attempt+1,
			"max_retries", s.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		if err := httpx.Sleep(ctx, sleepFor); err != nil {
			return err
		}
	}
}

func (s *Service) doOnce(ctx context.Context, payload []byte) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+s.path, bytes.NewReader(payload))
	if err != nil {
		return nil, nil, err
	}
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	raw, readErr := readLimited(resp.Body, maxResponseBytes)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

func (s *Service) download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	// Signed blob URLs break when an unrelated Authorization header is sent.
	if s.apiKey != "" && sameHost(s.baseURL, rawURL) {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	raw, readErr := readLimited(resp.Body, maxDownloadBytes)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return raw, nil
}

// Upper bounds on bodies read into memory. A b64_json payload carries the
// whole image, so the API response limit is the larger one.
var (
	maxResponseBytes int64 = 64 << 20
	maxDownloadBytes int64 = 48 << 20
)

var ErrBodyTooLarge = errors.New("imagegen: response body too large")

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(raw)) > limit {
		return nil, fmt.Errorf("%w (limit %d bytes)", ErrBodyTooLarge, limit)
	}
	return raw, nil
}

func sameHost(a, b string) bool {
	ua, errA := url.Parse(a)
	ub, errB := url.Parse(b)
	if errA != nil || errB != nil {
		return false
	}
	return ua.Hostname() != "" && strings.EqualFold(ua.Hostname(), ub.Hostname())
}

var keyUnsafe = regexp.MustCompile(`[^a-z0-9/_-]+`)

func (s *Service) objectKey(name string, img *imaging.Result) string {
	name = strings.Trim(keyUnsafe.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-"), "/-")
	if name == "" {
		name = "image"
	}
	sum := sha256.Sum256(img.Bytes)
	ext := ".jpg"
	if img.Format == "png" {
		ext = ".png"
	}
	return fmt.Sprintf("%s/%s-%s%s", s.keyPrefix, name, hex.EncodeToString(sum[:6]), ext)
}
