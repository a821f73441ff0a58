package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"already exists", ErrAlreadyExists},
		{"not found", ErrNotFound},
		{"invalid credentials", ErrInvalidCredentials},
		{"unauthorized", ErrUnauthorized},
		{"forbidden", ErrForbidden},
		{"invalid status", ErrInvalidStatus},
		{"invalid transition", ErrInvalidTransition},
		{"invalid order", ErrInvalidOrder},
		{"unavailable", ErrUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := fmt.Errorf("context: %w", tc.err)
			if !stdErrors.Is(wrapped, tc.err) {
				t.Fatalf("expected wrapped error to match: %v", tc.err)
			}
		})
	}
}

func TestSentinelErrorsAreDistinct(t *testing.T) {
	all := []error{ErrNotFound, ErrInvalidCredentials, ErrUnauthorized, ErrForbidden,
		ErrInvalidStatus, ErrInvalidTransition, ErrInvalidOrder, ErrUnavailable, ErrAlreadyExists}
	for i, a := range all {
		for j, b := range all {
			if i != j && stdErrors.Is(a, b) {
				t.Fatalf("%v should not match %v", a, b)
			}
		}
	}
	if !stdErrors.Is(ErrConflict, ErrAlreadyExists) {
		t.Fatal("conflict must alias already exists")
	}
}
