package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// OpenAIGateway calls an OpenAI-compatible chat/completions endpoint
// (OpenAI, Ollama, LM Studio, vLLM, etc.) with retry and caching.
type OpenAIGateway struct {
	baseURL string // e.g. "http://localhost:3000/v1"
	apiKey  string
	model   string // default model for requests that don't name one
	policy  Policy
	client  *http.Client // reused across calls
	cache   *responseCache
	logger  *slog.Logger
}

// Compile-time check: *OpenAIGateway satisfies the JSONClient interface.
var _ JSONClient = (*OpenAIGateway)(nil)

type Option func(*OpenAIGateway)

// WithCache enables the bounded, TTL-expiring response cache.
func WithCache(size int, ttl time.Duration) Option {
	return func(g *OpenAIGateway) {
		g.cache = newResponseCache(size, ttl)
	}
}

func NewOpenAIGateway(baseURL, apiKey, model string, policy Policy, logger *slog.Logger, opts ...Option) *OpenAIGateway {
	g := &OpenAIGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		policy:  policy,
		client: &http.Client{
			// The per-attempt deadline comes from the request context;
			// this is a hard safety net only.
			Timeout: policy.Timeout + 5*time.Second,
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Invoke performs the call, retrying transient failures with exponential
// backoff up to the policy's maximum. Terminal failures (auth, malformed
// request) surface immediately. On exhaustion it returns the last
// *CallFailure with the total attempt count.
func (g *OpenAIGateway) Invoke(ctx context.Context, req Request) (*Response, error) {
	if req.Model == "" {
		req.Model = g.model
	}

	if cached, ok := g.cache.get(req); ok {
		return cached, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = g.policy.InitialInterval
	bo.MaxInterval = g.policy.MaxInterval
	bo.Multiplier = g.policy.Multiplier
	bo.MaxElapsedTime = 0 // attempts are bounded by MaxRetries, not wall time
	bo.Reset()

	var last *CallFailure
	for attempt := 0; ; attempt++ {
		resp, failure := g.attempt(ctx, req)
		if failure == nil {
			resp.Retries = attempt
			g.cache.put(req, resp)
			return resp, nil
		}

		failure.Attempts = attempt + 1
		last = failure

		if !failure.Transient() || attempt >= g.policy.MaxRetries {
			break
		}

		delay := bo.NextBackOff()
		g.logger.Warn("model call failed, retrying",
			"kind", failure.Kind,
			"attempt", attempt+1,
			"delay", delay,
			"error", failure.Err,
		)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, &CallFailure{Kind: KindTimeout, Attempts: attempt + 1, Err: ctx.Err()}
		}
	}
	return nil, last
}

// InvokeJSON calls the model and parses the outermost JSON object of the
// reply into out. A reply without usable JSON is a malformed_response
// failure carrying the attempts already spent.
func (g *OpenAIGateway) InvokeJSON(ctx context.Context, req Request, out any) (*Response, error) {
	resp, err := g.Invoke(ctx, req)
	if err != nil {
		return nil, err
	}

	raw := extractJSON(resp.Content)
	if raw == "" {
		return nil, &CallFailure{
			Kind:     KindMalformed,
			Attempts: resp.Retries + 1,
			Err:      fmt.Errorf("no JSON object found in model response"),
		}
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return nil, &CallFailure{
			Kind:     KindMalformed,
			Attempts: resp.Retries + 1,
			Err:      fmt.Errorf("invalid JSON from model: %w", err),
		}
	}
	return resp, nil
}

// ── Wire types ──────────────────────────────────────────────────────

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage Usage `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// attempt performs a single HTTP call and classifies any failure.
func (g *OpenAIGateway) attempt(ctx context.Context, req Request) (*Response, *CallFailure) {
	var messages []chatMessage
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.User})

	body, err := json.Marshal(chatRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: req.Temperature,
	})
	if err != nil {
		return nil, &CallFailure{Kind: KindUnknown, Err: fmt.Errorf("marshal request: %w", err)}
	}

	callCtx, cancel := context.WithTimeout(ctx, g.policy.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(callCtx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, &CallFailure{Kind: KindUnknown, Err: fmt.Errorf("create request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)

	start := time.Now()
	httpResp, err := g.client.Do(httpReq)
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return nil, &CallFailure{Kind: KindTimeout, Err: err}
		}
		return nil, &CallFailure{Kind: KindConnection, Err: err}
	}
	defer httpResp.Body.Close()

	if kind, ok := classifyStatus(httpResp.StatusCode); ok {
		// Drain a little of the body for the error message.
		snippet, _ := io.ReadAll(io.LimitReader(httpResp.Body, 512))
		return nil, &CallFailure{
			Kind: kind,
			Err:  fmt.Errorf("endpoint returned status %d: %s", httpResp.StatusCode, strings.TrimSpace(string(snippet))),
		}
	}

	var parsed chatResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&parsed); err != nil {
		return nil, &CallFailure{Kind: KindMalformed, Err: fmt.Errorf("decode response: %w", err)}
	}
	if parsed.Error != nil {
		return nil, &CallFailure{Kind: KindMalformed, Err: fmt.Errorf("endpoint error: %s", parsed.Error.Message)}
	}
	if len(parsed.Choices) == 0 {
		return nil, &CallFailure{Kind: KindMalformed, Err: fmt.Errorf("endpoint returned no choices")}
	}
	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return nil, &CallFailure{Kind: KindMalformed, Err: fmt.Errorf("endpoint returned empty content")}
	}

	model := parsed.Model
	if model == "" {
		model = req.Model
	}
	return &Response{
		Content: content,
		Model:   model,
		Usage:   parsed.Usage,
		Latency: time.Since(start),
	}, nil
}

// classifyStatus maps a non-2xx status to a failure kind. Rate limiting and
// server errors are transient; auth and client errors are terminal.
func classifyStatus(status int) (Kind, bool) {
	switch {
	case status >= 200 && status < 300:
		return "", false
	case status == http.StatusTooManyRequests:
		return KindRateLimit, true
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth, true
	case status >= 500:
		return KindConnection, true
	case status >= 400:
		return KindMalformed, true
	default:
		return KindUnknown, true
	}
}
