// Package validate performs explicit request validation. Each rule produces a
// violation naming the field, an error-kind name, and the constraint
// attributes; translation resolves the kind by name (falling back to
// INVALID_KEY when the name has no table entry) and substitutes attributes
// into the message template.
package validate

import (
	"fmt"
	"strings"
	"time"

	"github.com/identity-service/backend/internal/apperr"
	"github.com/identity-service/backend/internal/model"
)

const (
	minUsernameLength = 3
	minPasswordLength = 8
	minAgeYears       = 10
)

type Violation struct {
	Field      string
	Kind       string
	Attributes map[string]any
}

func UserCreation(req model.UserCreationRequest) []Violation {
	var violations []Violation
	if len(req.Username) < minUsernameLength {
		violations = append(violations, Violation{
			Field:      "username",
			Kind:       "INVALID_USERNAME",
			Attributes: map[string]any{"min": minUsernameLength},
		})
	}
	violations = append(violations, password(req.Password)...)
	violations = append(violations, dob(req.Dob)...)
	return violations
}

func UserUpdate(req model.UserUpdateRequest) []Violation {
	var violations []Violation
	if req.Password != "" {
		violations = append(violations, password(req.Password)...)
	}
	if req.Dob != "" {
		violations = append(violations, dob(req.Dob)...)
	}
	return violations
}

func password(value string) []Violation {
	if len(value) >= minPasswordLength {
		return nil
	}
	return []Violation{{
		Field:      "password",
		Kind:       "INVALID_PASSWORD",
		Attributes: map[string]any{"min": minPasswordLength},
	}}
}

func dob(value string) []Violation {
	violation := []Violation{{
		Field:      "dob",
		Kind:       "INVALID_DOB",
		Attributes: map[string]any{"min": minAgeYears},
	}}
	parsed, err := time.Parse(model.DobLayout, value)
	if err != nil {
		return violation
	}
	if parsed.AddDate(minAgeYears, 0, 0).After(time.Now()) {
		return violation
	}
	return nil
}

// Translate converts the first violation to an application error. Unknown
// kind names map to InvalidKey with its unmodified message.
func Translate(violations []Violation) *apperr.Error {
	if len(violations) == 0 {
		return nil
	}
	v := violations[0]
	kind, ok := apperr.ByName(v.Kind)
	if !ok {
		return apperr.New(apperr.InvalidKey)
	}
	return apperr.NewMessage(kind, substitute(kind.Message, v.Attributes))
}

func substitute(message string, attributes map[string]any) string {
	for key, value := range attributes {
		message = strings.ReplaceAll(message, "{"+key+"}", fmt.Sprintf("%v", value))
	}
	return message
}
