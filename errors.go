package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Service outcomes. Handlers translate these to HTTP statuses; anything
// else coming out of a service is an infrastructure failure and becomes
// a 500.
var (
	// ErrAuthenticationRequired means no actor is attached to the request.
	// The HTTP layer answers with a redirect to the login form carrying
	// the original path.
	ErrAuthenticationRequired = errors.New("authentication required")
	// ErrForbidden means the actor is authenticated but does not own the
	// resource.
	ErrForbidden = errors.New("access forbidden")
	// ErrNotFound means the slug or username resolves to nothing.
	ErrNotFound = errors.New("not found")
	// ErrUniquenessConflict means a derived slug is already taken by a
	// different post.
	ErrUniquenessConflict = errors.New("slug already in use")
)

// ValidationError carries per-field messages back to the form that was
// submitted. It is a rejection of user input, never a server fault.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for f, msg := range e.Fields {
		parts = append(parts, f+": "+msg)
	}
	sort.Strings(parts)
	return "validation failed: " + strings.Join(parts, "; ")
}

func newValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) add(field, format string, args ...any) *ValidationError {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	e.Fields[field] = fmt.Sprintf(format, args...)
	return e
}

// isUniqueConstraintError recognises duplicate-key failures across the
// postgres and sqlite drivers. It is the storage backstop behind the
// service-level pre-checks; a race between check and commit still comes
// back as a conflict instead of corrupting state.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "UNIQUE constraint") || strings.Contains(s, "unique constraint")
}

// uniqueConstraintField names the column behind a duplicate-key failure.
// Both drivers include the index or column name in the message
// (postgres: `violates unique constraint "idx_users_email"`, sqlite:
// `UNIQUE constraint failed: users.email`). Empty when indeterminate.
func uniqueConstraintField(err error) string {
	s := strings.ToLower(err.Error())
	switch {
	case strings.Contains(s, "email"):
		return "email"
	case strings.Contains(s, "username"):
		return "username"
	}
	return ""
}
