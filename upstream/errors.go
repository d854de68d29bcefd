package upstream

import (
	"errors"
	"fmt"
)

// Kind classifies an upstream failure.
type Kind string

const (
	KindNetwork    Kind = "NETWORK_ERROR"
	KindTimeout    Kind = "TIMEOUT_ERROR"
	KindValidation Kind = "VALIDATION_ERROR"
	KindRateLimit  Kind = "RATE_LIMIT_EXCEEDED"
	KindCanceled   Kind = "CANCELLED"
)

// Error is returned by every Client call that fails.
type Error struct {
	Kind    Kind
	Message string
	Status  int // HTTP status, 0 when no response was received
	Err     error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether the request may succeed if sent again.
func (e *Error) Retryable() bool {
	return e.Kind == KindNetwork || e.Kind == KindTimeout
}

// UserMessage is a short message suitable for showing to a user.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindNetwork:
		return "Unable to reach the poem service. Check your connection and try again."
	case KindTimeout:
		return "The poem service took too long to respond. Please try again."
	case KindValidation:
		if e.Message != "" {
			return "Please check your words: " + e.Message + "."
		}
		return "Please check your words and try again."
	case KindRateLimit:
		return "Too many requests. Please wait a moment before trying again."
	case KindCanceled:
		return "The request was cancelled."
	default:
		return "Something went wrong. Please try again."
	}
}

// KindOf returns the kind of an upstream error anywhere in err's chain,
// or "" when err is not one.
func KindOf(err error) Kind {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Kind
	}
	return ""
}
