package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrSessionNotFound is returned when the actor instance holds no session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrParticipantNotFound is returned when a user id has not joined the session.
	ErrParticipantNotFound = errors.New("participant not found")
	// ErrProposalNotFound is returned when a proposal id is not in the current proposals.
	ErrProposalNotFound = errors.New("proposal not found")
	// ErrSessionExists is returned when creating a session on an instance that already has one.
	ErrSessionExists = errors.New("session already exists")
	// ErrInvalidTransition is returned when an operation would move the status backward.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError captures missing or malformed request fields.
type ValidationError struct {
	FieldErrors map[string]string
}

// NewValidationError returns a validation error for a single field.
func NewValidationError(field, message string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, message)
	return v
}

// Add records a field level validation error.
func (v *ValidationError) Add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil || len(v.FieldErrors) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(v.FieldErrors))
	for field := range v.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+" "+v.FieldErrors[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// UpstreamError reports a failure of the AI collaborator.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s failed: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
