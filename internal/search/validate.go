package search

import (
	"fmt"
	"regexp"
	"strings"
)

// Reason classifies why a query was rejected before any platform was queried.
type Reason string

const (
	ReasonEmpty         Reason = "empty"
	ReasonInvalidFormat Reason = "invalid_format"
	ReasonTooShort      Reason = "too_short"
)

// ValidationError rejects a query up front. A run that fails validation
// never invokes a single adapter.
type ValidationError struct {
	Reason Reason
	Type   QueryType
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s query: %s", e.Type, e.Detail)
}

var (
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRe = regexp.MustCompile(`^\+?[\d\s-]{10,}$`)
)

const (
	minUsernameLen = 3
	minNameLen     = 2
)

// Validate checks the query text against the format rules of its declared
// type. Empty or whitespace-only text fails for every type before the
// type-specific checks run. Validate has no side effects.
func Validate(q Query) error {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return &ValidationError{Reason: ReasonEmpty, Type: q.Type, Detail: "query text is empty"}
	}

	switch q.Type {
	case TypeEmail:
		if !emailRe.MatchString(text) {
			return &ValidationError{Reason: ReasonInvalidFormat, Type: q.Type, Detail: "not a valid email address"}
		}
	case TypePhone:
		if !phoneRe.MatchString(text) {
			return &ValidationError{Reason: ReasonInvalidFormat, Type: q.Type, Detail: "not a valid phone number"}
		}
	case TypeUsername:
		if len(text) < minUsernameLen {
			return &ValidationError{
				Reason: ReasonTooShort,
				Type:   q.Type,
				Detail: fmt.Sprintf("username must be at least %d characters", minUsernameLen),
			}
		}
	case TypeName:
		if len(text) < minNameLen {
			return &ValidationError{
				Reason: ReasonTooShort,
				Type:   q.Type,
				Detail: fmt.Sprintf("name must be at least %d characters", minNameLen),
			}
		}
	default:
		return &ValidationError{
			Reason: ReasonInvalidFormat,
			Type:   q.Type,
			Detail: fmt.Sprintf("unsupported query type %q", string(q.Type)),
		}
	}

	return nil
}
