package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"plain", New(ErrCodeUnknownType, "unknown type %s", "Widget"), "UNKNOWN_TYPE: unknown type Widget"},
		{"with cause", Wrap(ErrCodeInvalidPath, errors.New("is a directory"), "cannot use %s", "/data"), "INVALID_PATH: cannot use /data: is a directory"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(ErrCodeInternal, cause, "factory for Settings")

	if errors.Unwrap(err) != cause {
		t.Error("Unwrap() did not return the cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false")
	}
}

func TestIs(t *testing.T) {
	nested := Wrap(ErrCodeUnknownType, New(ErrCodeDanglingReference, "ref 3"), "decode")
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching code", New(ErrCodeNotFound, "x"), ErrCodeNotFound, true},
		{"other code", New(ErrCodeNotFound, "x"), ErrCodeInvalidInput, false},
		{"behind fmt wrap", fmt.Errorf("load: %w", New(ErrCodeUnknownType, "x")), ErrCodeUnknownType, true},
		{"outer of nested", nested, ErrCodeUnknownType, true},
		{"inner of nested", nested, ErrCodeDanglingReference, false},
		{"plain error", errors.New("x"), ErrCodeInvalidInput, false},
		{"nil", nil, ErrCodeInvalidInput, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCodeAsTarget(t *testing.T) {
	nested := Wrap(ErrCodeUnknownType, New(ErrCodeDanglingReference, "ref 3"), "decode")

	for _, code := range []Code{ErrCodeUnknownType, ErrCodeDanglingReference} {
		if !errors.Is(nested, code) {
			t.Errorf("errors.Is(nested, %s) = false", code)
		}
	}
	if errors.Is(nested, ErrCodeNotFound) {
		t.Error("errors.Is matched an absent code")
	}
	if errors.Is(errors.New("UNKNOWN_TYPE"), ErrCodeUnknownType) {
		t.Error("plain error with the same text matched")
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"coded", New(ErrCodeInvalidName, "x"), ErrCodeInvalidName},
		{"wrapped", fmt.Errorf("set: %w", New(ErrCodeUnsupported, "x")), ErrCodeUnsupported},
		{"plain", errors.New("x"), ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeNotFound, "no stored settings at %s", "/x.xml")); got != "no stored settings at /x.xml" {
		t.Errorf("UserMessage(coded) = %q", got)
	}
	if got := UserMessage(errors.New("plain error")); got != "plain error" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}
