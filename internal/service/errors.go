package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrPostNotFound       = errors.New("post not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrLoginRequired      = errors.New("login required")
	ErrNotAuthor          = errors.New("only the author can change this post")
	ErrNotStaff           = errors.New("staff permission required")
	ErrInvalidCredentials = errors.New("please enter a correct username and password")
)

// ValidationError collects field level messages of a rejected form.
type ValidationError struct {
	Fields map[string]string
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

// Add records the first message for a field.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

// Empty reports whether no field was rejected.
func (e *ValidationError) Empty() bool {
	return e == nil || len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+e.Fields[key])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// orNil converts an empty ValidationError into a nil error.
func (e *ValidationError) orNil() error {
	if e.Empty() {
		return nil
	}
	return e
}
