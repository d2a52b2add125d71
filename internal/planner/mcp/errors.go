package mcp

import (
	"fmt"
	"strings"
)

// NotFoundError reports a material or character ID missing from the static data.
type NotFoundError struct {
	Kind        string   `json:"kind"`
	ID          string   `json:"id"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
	if len(e.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(e.Suggestions, ", ") + "?)"
	}
	return msg
}

// InvalidParamsError wraps a malformed or invalid tool request.
type InvalidParamsError struct {
	Err error
}

func (e *InvalidParamsError) Error() string {
	return "invalid params: " + e.Err.Error()
}

func (e *InvalidParamsError) Unwrap() error {
	return e.Err
}
