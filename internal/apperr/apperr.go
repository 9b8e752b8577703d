package apperr

import (
	"errors"
	"net/http"
)

// Kind is one entry of the error table exposed to clients: a stable numeric
// code, a default message, and the HTTP status it maps to.
type Kind struct {
	Code    int
	Message string
	Status  int
}

var (
	Uncategorized   = Kind{Code: 9999, Message: "Uncategorized error", Status: http.StatusBadRequest}
	InvalidKey      = Kind{Code: 1001, Message: "Invalid key", Status: http.StatusBadRequest}
	UserExisted     = Kind{Code: 1002, Message: "User already existed", Status: http.StatusBadRequest}
	InvalidUsername = Kind{Code: 1003, Message: "Username must be at least {min} characters", Status: http.StatusBadRequest}
	InvalidPassword = Kind{Code: 1004, Message: "Password must be at least {min} characters", Status: http.StatusBadRequest}
	UserNotExisted  = Kind{Code: 1005, Message: "User not existed", Status: http.StatusNotFound}
	Unauthenticated = Kind{Code: 1006, Message: "Unauthenticated", Status: http.StatusUnauthorized}
	InvalidToken    = Kind{Code: 1007, Message: "Invalid token", Status: http.StatusBadRequest}
	AccessDenied    = Kind{Code: 1008, Message: "You do not have permission", Status: http.StatusForbidden}
)

// kindsByName resolves validation error-kind names to table entries.
var kindsByName = map[string]Kind{
	"INVALID_KEY":      InvalidKey,
	"USER_EXISTED":     UserExisted,
	"INVALID_USERNAME": InvalidUsername,
	"INVALID_PASSWORD": InvalidPassword,
	"USER_NOT_EXISTED": UserNotExisted,
	"UNAUTHENTICATED":  Unauthenticated,
	"INVALID_TOKEN":    InvalidToken,
	"ACCESS_DENIED":    AccessDenied,
}

// ByName looks up a Kind by its error-kind name. The second return is false
// when the name has no table entry; callers fall back to InvalidKey.
func ByName(name string) (Kind, bool) {
	kind, ok := kindsByName[name]
	return kind, ok
}

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(kind Kind) *Error {
	return &Error{Kind: kind, Message: kind.Message}
}

// NewMessage returns an Error of the given kind with the message overridden,
// used when violation attributes have been substituted into the template.
func NewMessage(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Convert maps any error to an *Error, defaulting to Uncategorized so that
// internal failures never leak their cause to the client.
func Convert(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return New(Uncategorized)
}
