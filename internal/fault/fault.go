package fault

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure so handlers can map it to an HTTP status and
// callers can decide whether retrying makes sense. Upstream bodies are
// logged at the adapter; Message is always safe to show to the end user.
type Kind int

const (
	// KindValidation is a bad request detected before any outbound call.
	KindValidation Kind = iota
	// KindRateLimited means the provider returned a rate-limit status.
	KindRateLimited
	// KindAuthOrQuota means rejected credentials or exhausted billing.
	KindAuthOrQuota
	// KindFormat means a 2xx payload that could not be parsed.
	KindFormat
	// KindIncomplete means parsed output missing required fields.
	KindIncomplete
	// KindEmptyResult means a 2xx response with no usable payload.
	KindEmptyResult
	// KindTranscription means the speech-to-text provider failed.
	KindTranscription
	// KindGeneric is any other upstream failure.
	KindGeneric
)

type Fault struct {
	Kind    Kind
	Message string // sanitized, user-facing
	Status  int    // upstream HTTP status, when one exists
	cause   error
}

func (f *Fault) Error() string {
	if f.cause != nil {
		return fmt.Sprintf("%s: %v", f.Message, f.cause)
	}
	return f.Message
}

func (f *Fault) Unwrap() error {
	return f.cause
}

func New(kind Kind, message string) *Fault {
	return &Fault{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Fault {
	return &Fault{Kind: kind, Message: message, cause: cause}
}

// Upstream records the provider status alongside the kind so auth
// failures can surface the original 401/402/403 on the wire.
func Upstream(kind Kind, message string, status int) *Fault {
	return &Fault{Kind: kind, Message: message, Status: status}
}

func As(err error) (*Fault, bool) {
	var f *Fault
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// HTTPStatus maps an error to the status the handler should return.
func HTTPStatus(err error) int {
	f, ok := As(err)
	if !ok {
		return http.StatusInternalServerError
	}

	switch f.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindAuthOrQuota:
		switch f.Status {
		case http.StatusUnauthorized, http.StatusPaymentRequired, http.StatusForbidden:
			return f.Status
		}
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage returns the sanitized message for the caller, or fallback
// when the error carries no user-facing text.
func UserMessage(err error, fallback string) string {
	if f, ok := As(err); ok && f.Message != "" {
		return f.Message
	}
	return fallback
}
