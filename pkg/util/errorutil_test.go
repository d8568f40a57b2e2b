package util

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationErrorListsFields(t *testing.T) {
	err := NewValidationError("customer", "title", "group")
	want := "missing required parameters: customer, title, group"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestStatusCodeExtraction(t *testing.T) {
	err := fmt.Errorf("reconcile: %w", NewAPIError(404, "Ticket not found"))
	if got := StatusCode(err); got != 404 {
		t.Errorf("StatusCode = %d, want 404", got)
	}
	if got := StatusCode(errors.New("transport broke")); got != 0 {
		t.Errorf("StatusCode = %d, want 0 for non-API failures", got)
	}
}

func TestMalformedResponseUnwraps(t *testing.T) {
	cause := errors.New("unexpected character")
	err := NewMalformedResponseError(cause)
	if !errors.Is(err, cause) {
		t.Error("MalformedResponseError must unwrap to the decode failure")
	}
}
