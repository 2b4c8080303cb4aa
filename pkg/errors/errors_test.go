package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidGeometry, "line %s has %d coordinates", "f1", 1)

	if err.Code != ErrCodeInvalidGeometry {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidGeometry)
	}

	if err.Message != "line f1 has 1 coordinates" {
		t.Errorf("Message = %v, want %v", err.Message, "line f1 has 1 coordinates")
	}

	expected := "INVALID_GEOMETRY: line f1 has 1 coordinates"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("toml: line 3: expected '='")
	err := Wrap(ErrCodeInvalidConfig, cause, "load %s", "rules.toml")

	if err.Code != ErrCodeInvalidConfig {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidConfig)
	}
	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvariant, "test"),
			code:     ErrCodeInvariant,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeInvariant,
			expected: false,
		},
		{
			name:     "wrapped by fmt",
			err:      fmt.Errorf("feature f7: %w", New(ErrCodeUnsupportedGeometry, "polygon")),
			code:     ErrCodeUnsupportedGeometry,
			expected: true,
		},
		{
			name:     "outer code wins",
			err:      Wrap(ErrCodeInvalidInput, New(ErrCodeInvalidGeometry, "inner"), "outer"),
			code:     ErrCodeInvalidInput,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeInvalidFormat, "test"), ErrCodeInvalidFormat},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidInput, "friendly message")); got != "friendly message" {
		t.Errorf("UserMessage() = %q, want %q", got, "friendly message")
	}
	if got := UserMessage(errors.New("plain error")); got != "plain error" {
		t.Errorf("UserMessage() = %q, want %q", got, "plain error")
	}
}

func TestIsSkippable(t *testing.T) {
	if !IsSkippable(New(ErrCodeUnsupportedGeometry, "polygon")) {
		t.Error("unsupported geometry should be skippable")
	}
	if IsSkippable(New(ErrCodeInvalidGeometry, "one coordinate")) {
		t.Error("degenerate geometry must not be skippable")
	}
	if IsSkippable(New(ErrCodeInvariant, "double bind")) {
		t.Error("invariant violations must not be skippable")
	}
	if IsSkippable(nil) {
		t.Error("nil is not skippable")
	}
}
