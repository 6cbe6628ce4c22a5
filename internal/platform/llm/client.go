// Package llm talks to an OpenAI-compatible chat-completions endpoint
// (Ollama, vLLM, OpenAI).
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/seobrain/internal/platform/logger"
)

type Config struct {
	BaseURL             string
	APIKey              string
	Model               string
	ChatCompletionsPath string
	Timeout             time.Duration
	// JSONMode is "auto" (response_format first, schema prompt on retries),
	// "json_object" or "prompt".
	JSONMode string
	// JSONMaxRetries re-asks only after a reply that is not valid JSON.
	// Transport, HTTP and empty-completion failures are never retried.
	JSONMaxRetries int
}

// Request is a single prompt/response exchange.
type Request struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
	// JSON asks for a bare JSON object; the reply is unfenced and syntax-checked.
	JSON       bool
	SchemaName string
	Schema     map[string]any
}

type Client interface {
	GenerateText(ctx context.Context, req Request) (string, error)
	Model() string
}

type Engine struct {
	log            *logger.Logger
	baseURL        string
	apiKey         string
	model          string
	chatPath       string
	timeout        time.Duration
	jsonMode       string
	jsonMaxRetries int
	httpClient     *http.Client
}

func New(log *logger.Logger, cfg Config) (*Engine, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("llm: base url required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, errors.New("llm: model required")
	}
	chatPath := strings.TrimSpace(cfg.ChatCompletionsPath)
	if chatPath == "" {
		chatPath = "/v1/chat/completions"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	mode := strings.ToLower(strings.TrimSpace(cfg.JSONMode))
	if mode == "" {
		mode = "auto"
	}
	retries := cfg.JSONMaxRetries
	if retries < 0 {
		retries = 0
	}
	if log == nil {
		log = logger.Nop()
	}

	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Engine{
		log:            log.With("client", "LLM", "model", model),
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		model:          model,
		chatPath:       chatPath,
		timeout:        timeout,
		jsonMode:       mode,
		jsonMaxRetries: retries,
		httpClient:     &http.Client{Transport: tr},
	}, nil
}

// NewWithHTTPClient swaps the transport, typically for a test round tripper.
func NewWithHTTPClient(log *logger.Logger, cfg Config, httpClient *http.Client) (*Engine, error) {
	e, err := New(log, cfg)
	if err != nil {
		return nil, err
	}
	if httpClient != nil {
		e.httpClient = httpClient
	}
	return e, nil
}

func (e *Engine) Model() string { return e.model }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	MaxTokens      int            `json:"max_tokens,omitempty"`
	Stream         bool           `json:"stream"`
	ResponseFormat map[string]any `json:"response_format,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content,omitempty"`
		} `json:"message,omitempty"`
		Text string `json:"text,omitempty"`
	} `json:"choices"`
}

func (e *Engine) GenerateText(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", errors.New("llm: empty prompt")
	}
	attempts := 1
	if req.JSON {
		attempts += e.jsonMaxRetries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		body := e.buildChatRequest(req, attempt)
		start := time.Now()

		var resp chatCompletionResponse
		if err := e.doJSON(ctx, e.chatPath, body, &resp); err != nil {
			return "", err
		}
		text := extractChatText(resp)
		if strings.TrimSpace(text) == "" {
			return "", ErrEmptyCompletion
		}
		e.log.Debug("completion received", "attempt", attempt, "chars", len(text), "latency_ms", time.Since(start).Milliseconds())

		if !req.JSON {
			return strings.TrimSpace(text), nil
		}
		clean := SanitizeJSONText(text)
		if err := validateJSON(clean); err != nil {
			lastErr = err
			continue
		}
		return clean, nil
	}
	if lastErr == nil {
		lastErr = errors.New("generation failed")
	}
	return "", lastErr
}

func (e *Engine) buildChatRequest(req Request, attempt int) chatCompletionRequest {
	msgs := make([]chatMessage, 0, 3)
	if s := strings.TrimSpace(req.System); s != "" {
		msgs = append(msgs, chatMessage{Role: "system", Content: s})
	}
	msgs = append(msgs, chatMessage{Role: "user", Content: strings.TrimSpace(req.Prompt)})

	out := chatCompletionRequest{
		Model:       e.model,
		Messages:    msgs,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if !req.JSON {
		return out
	}
	useFormat := e.jsonMode == "json_object" || (e.jsonMode == "auto" && attempt == 0)
	usePrompt := e.jsonMode == "prompt" || (e.jsonMode == "auto" && attempt > 0)
	if useFormat {
		out.ResponseFormat = map[string]any{"type": "json_object"}
	}
	if usePrompt {
		out.Messages = append(out.Messages, chatMessage{Role: "system", Content: jsonSchemaPrompt(req)})
	}
	return out
}

func jsonSchemaPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("Return ONLY a valid JSON object. Do not include markdown or commentary.")
	if name := strings.TrimSpace(req.SchemaName); name != "" {
		b.WriteString("\nSchema name: ")
		b.WriteString(name)
	}
	if req.Schema != nil {
		if raw, err := json.Marshal(req.Schema); err == nil && len(raw) <= 32<<10 {
			b.WriteString("\nSchema:\n")
			b.Write(raw)
		}
	}
	return b.String()
}

func extractChatText(resp chatCompletionResponse) string {
	for _, c := range resp.Choices {
		if strings.TrimSpace(c.Message.Content) != "" {
			return c.Message.Content
		}
		if strings.TrimSpace(c.Text) != "" {
			return c.Text
		}
	}
	return ""
}

// SanitizeJSONText strips markdown fences and any prose around the outermost JSON object.
func SanitizeJSONText(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		} else {
			s = strings.Trim(s, "`")
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
		return s
	}
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

func validateJSON(s string) error {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

func (e *Engine) doJSON(ctx context.Context, path string, body any, out any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return err
	}
	ctx2, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx2, http.MethodPost, e.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
