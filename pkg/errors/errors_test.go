package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeTempDir, "not a directory: %s", "/nope")

	if err.Code != ErrCodeTempDir {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeTempDir)
	}

	if err.Message != "not a directory: /nope" {
		t.Errorf("Message = %v, want %v", err.Message, "not a directory: /nope")
	}

	expected := "TEMPDIR: not a directory: /nope"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(ErrCodeArtifactWrite, cause, "write artifact")

	if err.Code != ErrCodeArtifactWrite {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeArtifactWrite)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	expected := "ARTIFACT_WRITE: write artifact: disk full"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
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
			err:      New(ErrCodeNoConverter, "test"),
			code:     ErrCodeNoConverter,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeNoConverter, "test"),
			code:     ErrCodeTempDir,
			expected: false,
		},
		{
			name:     "outer code wins",
			err:      Wrap(ErrCodeRenderInternal, New(ErrCodeDiagramSyntax, "inner"), "outer"),
			code:     ErrCodeRenderInternal,
			expected: true,
		},
		{
			name:     "fmt wrapped",
			err:      fmt.Errorf("block 2: %w", New(ErrCodeDiagramSyntax, "bad edge")),
			code:     ErrCodeDiagramSyntax,
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
		{"Error type", New(ErrCodeConversionFailed, "test"), ErrCodeConversionFailed},
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
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeInvalidInput, "friendly message"), "friendly message"},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"syntax", New(ErrCodeDiagramSyntax, "x"), false},
		{"wrapped syntax", fmt.Errorf("ctx: %w", New(ErrCodeDiagramSyntax, "x")), false},
		{"internal", New(ErrCodeRenderInternal, "x"), true},
		{"no converter", New(ErrCodeNoConverter, "x"), true},
		{"plain", errors.New("boom"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFatal(tt.err); got != tt.want {
				t.Errorf("IsFatal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidConfig,
		ErrCodeUnsupported,
		ErrCodeDiagramSyntax,
		ErrCodeRenderInternal,
		ErrCodeTempDir,
		ErrCodeArtifactWrite,
		ErrCodeNoConverter,
		ErrCodeConversionFailed,
		ErrCodeInternal,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
