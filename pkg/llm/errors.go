package llm

import (
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/googleapi"
)

// QuotaError marks a provider failure caused by rate limiting or quota
// exhaustion. The gateway retries these with backoff before falling back.
type QuotaError struct {
	Provider string
	Err      error
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("%s: quota exceeded: %v", e.Provider, e.Err)
}

func (e *QuotaError) Unwrap() error {
	return e.Err
}

// IsQuotaError reports whether err (or anything it wraps) is a QuotaError.
func IsQuotaError(err error) bool {
	var qe *QuotaError
	return errors.As(err, &qe)
}

// MalformedResponseError marks a response the model produced but the caller
// could not decode. Retrying will not help, so the gateway surfaces it as-is.
type MalformedResponseError struct {
	Op  string
	Err error
	Raw string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s: malformed model response: %v", e.Op, e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// ProcessingError marks a non-quota provider failure (network, safety block,
// empty candidate set). The gateway does not retry it but may fall back.
type ProcessingError struct {
	Provider string
	Err      error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("%s: generation failed: %v", e.Provider, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

var rateLimitMarkers = []string{
	"429",
	"quota",
	"rate limit",
	"too many requests",
	"resource_exhausted",
}

// IsRateLimited reports whether err looks like a rate-limit or quota
// rejection from any backend. SDKs surface these inconsistently, so this
// checks the structured googleapi error first and falls back to message
// matching.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	var gErr *googleapi.Error
	if errors.As(err, &gErr) && gErr.Code == 429 {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range rateLimitMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
