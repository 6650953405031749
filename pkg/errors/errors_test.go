package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "WithoutCause",
			err:  New(ErrCodeInvalidFormat, "unknown report format: %s", "xml"),
			want: "INVALID_FORMAT: unknown report format: xml",
		},
		{
			name: "WithCause",
			err:  Wrap(ErrCodeInvalidPath, stderrors.New("permission denied"), "read vault %s", "/notes"),
			want: "INVALID_PATH: read vault /notes: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeDuplicateID, "duplicate note identifier")
	if !Is(err, ErrCodeDuplicateID) {
		t.Error("Is() should match the error's own code")
	}
	if Is(err, ErrCodeNotFound) {
		t.Error("Is() should not match a different code")
	}
	if Is(stderrors.New("plain"), ErrCodeDuplicateID) {
		t.Error("Is() should not match a non-structured error")
	}
}

func TestIsUnwrapsChain(t *testing.T) {
	inner := New(ErrCodeInvalidFrontmatter, "bad delimiter")
	outer := Wrap(ErrCodeInternal, inner, "parse note")

	// errors.As finds the outermost *Error, so the outer code wins.
	if !Is(outer, ErrCodeInternal) {
		t.Error("Is() should report the outermost code")
	}
	if !stderrors.Is(outer, inner) {
		t.Error("stderrors.Is should find the wrapped cause")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeVaultNotFound, "no vault")); got != ErrCodeVaultNotFound {
		t.Errorf("GetCode() = %q, want %q", got, ErrCodeVaultNotFound)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode() = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidConfig, "unused_tag_threshold must be >= 0")
	if got := UserMessage(err); strings.Contains(got, "INVALID_CONFIG") {
		t.Errorf("UserMessage() should strip the code prefix, got %q", got)
	}
	plain := stderrors.New("plain failure")
	if got := UserMessage(plain); got != "plain failure" {
		t.Errorf("UserMessage() = %q, want %q", got, "plain failure")
	}
}
