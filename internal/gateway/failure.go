package gateway

import "fmt"

// Kind classifies why a model call failed.
type Kind string

const (
	KindConnection Kind = "connection"
	KindTimeout    Kind = "timeout"
	KindAuth       Kind = "auth"
	KindRateLimit  Kind = "rate_limit"
	KindMalformed  Kind = "malformed_response"
	KindUnknown    Kind = "unknown"
)

// CallFailure is returned when a call could not produce a usable response,
// either immediately (terminal kinds) or after retries were exhausted.
// Attempts counts every attempt actually made, including the first.
type CallFailure struct {
	Kind     Kind
	Attempts int
	Err      error
}

func (f *CallFailure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("model call failed (%s, %d attempts): %v", f.Kind, f.Attempts, f.Err)
	}
	return fmt.Sprintf("model call failed (%s, %d attempts)", f.Kind, f.Attempts)
}

func (f *CallFailure) Unwrap() error { return f.Err }

// Transient reports whether the failure class is worth retrying. Auth and
// malformed-request failures will not get better on a second try.
func (f *CallFailure) Transient() bool {
	switch f.Kind {
	case KindConnection, KindTimeout, KindRateLimit:
		return true
	default:
		return false
	}
}
