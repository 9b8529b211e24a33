package apperr

import (
  "errors"
  "fmt"
  "sort"
  "strings"
)

// ValidationError carries a field -> message map describing every constraint
// the input violated. It is always recoverable: callers surface the map and
// nothing gets persisted.
type ValidationError struct {
  Fields map[string]string
}

func NewValidation() *ValidationError {
  return &ValidationError{Fields: map[string]string{}}
}

func (e *ValidationError) Add(field, message string) {
  if _, taken := e.Fields[field]; taken {
    return
  }
  e.Fields[field] = message
}

func (e *ValidationError) HasErrors() bool {
  return len(e.Fields) > 0
}

// Err returns the error itself when any field failed, nil otherwise, so a
// validator can end with `return v.Err()`.
func (e *ValidationError) Err() error {
  if e.HasErrors() {
    return e
  }
  return nil
}

func (e *ValidationError) Error() string {
  if len(e.Fields) == 0 {
    return "validation failed"
  }
  fields := make([]string, 0, len(e.Fields))
  for f := range e.Fields {
    fields = append(fields, f)
  }
  sort.Strings(fields)
  return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}

// NotFoundError means the operation targeted an id that is not in storage.
type NotFoundError struct {
  Resource string
  ID       string
}

func NotFound(resource, id string) *NotFoundError {
  return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
  if e.ID == "" {
    return fmt.Sprintf("%s not found", e.Resource)
  }
  return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func IsNotFound(err error) bool {
  var nf *NotFoundError
  return errors.As(err, &nf)
}

func AsValidation(err error) (*ValidationError, bool) {
  var ve *ValidationError
  if errors.As(err, &ve) {
    return ve, true
  }
  return nil, false
}
