package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers for the failure classes surfaced by external collaborators.
// Callers classify with errors.Is rather than string matching.
var (
	// ErrTransient tags rate-limited or overloaded upstream failures that are
	// worth retrying with backoff.
	ErrTransient = errors.New("transient upstream failure")
	// ErrMalformed tags provider responses that fail schema or JSON parsing.
	// Retrying will not fix a contract violation, so these are never retried.
	ErrMalformed = errors.New("malformed provider response")
	// ErrConfiguration tags missing credentials or endpoints. The dependent
	// feature degrades instead of crashing the process.
	ErrConfiguration = errors.New("configuration missing")
	// ErrStorage tags network or HTTP failures while talking to the remote
	// object storage service.
	ErrStorage = errors.New("storage transport failure")
	// ErrValidation tags locally detected invariant violations, such as a
	// scheduled post without a future scheduled date.
	ErrValidation = errors.New("validation error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether an error should abort the flow it occurred in
// rather than degrade to a fallback value. Only missing configuration
// qualifies; every other class has a defined fallback.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
