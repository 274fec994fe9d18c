package providers

import (
	"errors"
	"fmt"
)

// Failure taxonomy for one upstream round-trip. No failure is retried; the
// caller maps each class to an HTTP status for the end user.
var (
	ErrMissingCredential = errors.New("upstream credential is not configured")
	ErrUpstream          = errors.New("upstream request failed")
)

// RequestKind sub-classifies a structured upstream error envelope.
type RequestKind string

const (
	KindBadRequest RequestKind = "bad_request"
	KindAuth       RequestKind = "auth"
	KindBilling    RequestKind = "billing"
	KindRateLimit  RequestKind = "rate_limit"
	KindServer     RequestKind = "server"
)

// ConfigError reports missing or unusable process configuration.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Message)
}

func (e *ConfigError) Is(target error) bool {
	if target == ErrMissingCredential {
		return true
	}
	_, ok := target.(*ConfigError)
	return ok
}

// ProtocolError reports a transport failure or a response that was not the
// JSON the upstream API is supposed to speak.
type ProtocolError struct {
	Message string
	Err     error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream protocol error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("upstream protocol error: %s", e.Message)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

func (e *ProtocolError) Is(target error) bool {
	if target == ErrUpstream {
		return true
	}
	_, ok := target.(*ProtocolError)
	return ok
}

// RequestError carries a structured error envelope the upstream returned.
type RequestError struct {
	StatusCode int
	Kind       RequestKind
	Message    string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("upstream error [%d %s]: %s", e.StatusCode, e.Kind, e.Message)
}

func (e *RequestError) Is(target error) bool {
	if target == ErrUpstream {
		return true
	}
	_, ok := target.(*RequestError)
	return ok
}

// ResponseError reports a 2xx reply whose envelope was missing the fields a
// chat completion must carry.
type ResponseError struct {
	Message string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("upstream response error: %s", e.Message)
}

func (e *ResponseError) Is(target error) bool {
	if target == ErrUpstream {
		return true
	}
	_, ok := target.(*ResponseError)
	return ok
}

// ClassifyStatus maps an upstream HTTP status onto a RequestKind.
func ClassifyStatus(status int) RequestKind {
	switch {
	case status == 401 || status == 403:
		return KindAuth
	case status == 402:
		return KindBilling
	case status == 429:
		return KindRateLimit
	case status >= 500:
		return KindServer
	default:
		return KindBadRequest
	}
}
