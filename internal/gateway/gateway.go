// Package gateway wraps every outbound model call with timeout, retry with
// exponential backoff, typed failure classification, and a bounded response
// cache. It never touches persisted trainer state and is safe for concurrent
// use.
package gateway

import (
	"context"
	"time"
)

// Request is one structured prompt for the model. An empty Model falls back
// to the gateway's configured default.
type Request struct {
	System      string
	User        string
	Model       string
	Temperature float64
}

// Usage reports token consumption as returned by the provider.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a successful model reply plus call metadata.
type Response struct {
	Content string
	Model   string
	Usage   Usage
	Latency time.Duration
	Retries int  // retries actually used (0 = succeeded on first attempt)
	Cached  bool // served from the response cache
}

// Client is the model-call boundary the services depend on.
// Implementations may call an LLM or return canned results (for tests).
type Client interface {
	Invoke(ctx context.Context, req Request) (*Response, error)
}

// JSONClient extends Client with structured-output calls.
type JSONClient interface {
	Client
	InvokeJSON(ctx context.Context, req Request, out any) (*Response, error)
}

// Policy configures the resilient-call behavior.
type Policy struct {
	Timeout         time.Duration // per-attempt timeout
	MaxRetries      int           // retries after the first attempt
	InitialInterval time.Duration // first backoff delay
	MaxInterval     time.Duration // backoff cap
	Multiplier      float64       // backoff growth factor
}

func DefaultPolicy() Policy {
	return Policy{
		Timeout:         60 * time.Second,
		MaxRetries:      3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     10 * time.Second,
		Multiplier:      2.0,
	}
}
