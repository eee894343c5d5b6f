package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrArticleNotFound      = errors.New("article not found")
	ErrCommentNotFound      = errors.New("comment not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrTagNotFound          = errors.New("tag not found")
	ErrInvalidParent        = errors.New("answers can only be posted to questions")
	ErrNotAQuestion         = errors.New("tags can only be changed on questions")
	ErrInvalidVoteDirection = errors.New("vote direction must be up or down")
)

// Field keys used in ValidationErrors.
const (
	FieldText  = "text"
	FieldTitle = "title"
	FieldTag   = "tag"
	FieldName  = "name"
	FieldValue = "value"
)

// ValidationErrors collects recoverable per-field errors so the caller gets
// every problem at once.
type ValidationErrors struct {
	Fields map[string][]string
}

// NewValidationErrors creates an empty error set.
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{Fields: map[string][]string{}}
}

// Add records message under field.
func (v *ValidationErrors) Add(field, message string) {
	v.Fields[field] = append(v.Fields[field], message)
}

// HasErrors reports whether any field has an error.
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Fields) > 0
}

func (v *ValidationErrors) Error() string {
	keys := make([]string, 0, len(v.Fields))
	for key := range v.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", key, strings.Join(v.Fields[key], ", ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// fieldError builds a ValidationErrors holding a single message.
func fieldError(field, message string) *ValidationErrors {
	v := NewValidationErrors()
	v.Add(field, message)
	return v
}

// AsValidationErrors unwraps err into a ValidationErrors if it holds one.
func AsValidationErrors(err error) (*ValidationErrors, bool) {
	var v *ValidationErrors
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
