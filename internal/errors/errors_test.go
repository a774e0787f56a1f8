package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorString(t *testing.T) {
	err := New(InternalError, "boom")
	if got := err.Error(); got != "boom (SQLSTATE XX000)" {
		t.Errorf("Error() = %q", got)
	}

	err = New(InsufficientResources, "out of resources").WithDetail("cloning").WithRoutine("split")
	want := "split: out of resources (SQLSTATE 53000) DETAIL: cloning"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestIsErrorThroughWrapping(t *testing.T) {
	base := SubplanLimitError(8)
	wrapped := fmt.Errorf("split query 3: %w", base)

	if !IsError(wrapped, InsufficientResources) {
		t.Error("IsError should see through fmt wrapping")
	}
	if IsError(wrapped, InternalError) {
		t.Error("IsError matched the wrong code")
	}
	if IsError(nil, InternalError) {
		t.Error("IsError(nil) should be false")
	}
	if got := GetError(wrapped); got != base {
		t.Errorf("GetError() = %v, want %v", got, base)
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("yaml: line 3: did not find expected key")
	err := Wrap(cause, InvalidParameterValue, "malformed plan file")

	if !stderrors.Is(err, cause) {
		t.Error("Wrap should keep the cause")
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Errorf("Error() = %q, want cause in detail", err.Error())
	}

	generic := GetError(cause)
	if generic.Code != InternalError {
		t.Errorf("GetError(plain) code = %s, want %s", generic.Code, InternalError)
	}
}

func TestCategories(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		code string
		text string
	}{
		{"invalid plan", InvalidPlanErrorf("join needs %d inputs", 2), InvalidParameterValue, "join needs 2 inputs"},
		{"unknown node", UnknownNodeTypeError("window"), WrongObjectType, `"window"`},
		{"clone", CloneFailedError("Scan(t)"), InsufficientResources, "Scan(t)"},
		{"limit", SubplanLimitError(16), InsufficientResources, "16 subplans"},
		{"group ids", GroupIDExhaustedError(2147483647), InsufficientResources, "root 2147483647"},
		{"parameter", InvalidParameterValueError("max_passes", "-1", "Cannot be negative."), InvalidParameterValue, `"max_passes": "-1"`},
		{"stale", StaleParentError("Scan(t)", "Filter(x)"), InternalError, "stale parent"},
		{"converge", SplitNotConvergedError(4), InternalError, "4 passes"},
		{"invariant", InvariantViolationError("orphan subplan", "g3"), InternalError, "orphan subplan"},
		{"config", InvalidConfigurationError("max_passes", "-1"), ConfigFileError, "max_passes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("code = %s, want %s", tt.err.Code, tt.code)
			}
			if !strings.Contains(tt.err.Error(), tt.text) {
				t.Errorf("Error() = %q, want it to contain %q", tt.err.Error(), tt.text)
			}
		})
	}
}

func TestErrorClass(t *testing.T) {
	if got := ErrorClass(InsufficientResources); got != "53" {
		t.Errorf("ErrorClass() = %q", got)
	}
	if ErrorClass("X") != "" {
		t.Error("short codes have no class")
	}
	if !IsResourceError(OutOfMemory) || !IsResourceError(StatementTooComplex) {
		t.Error("classes 53 and 54 are resource errors")
	}
	if IsResourceError(InternalError) {
		t.Error("XX000 is not a resource error")
	}
}
