package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidTemplate, "template %q has no sections", "longform")

	if err.Code != ErrCodeInvalidTemplate {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidTemplate)
	}
	want := `INVALID_TEMPLATE: template "longform" has no sections`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("disk on fire")
	err := Wrap(ErrCodeFileNotFound, cause, "open template")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped cause lost from the chain")
	}
	if GetCode(err) != ErrCodeFileNotFound {
		t.Errorf("GetCode = %v, want %v", GetCode(err), ErrCodeFileNotFound)
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeSectionNotFound, "no such section")

	if !Is(err, ErrCodeSectionNotFound) {
		t.Error("Is failed on direct match")
	}
	if Is(err, ErrCodeInternal) {
		t.Error("Is matched the wrong code")
	}
	if Is(stderrors.New("plain"), ErrCodeInternal) {
		t.Error("Is matched a plain error")
	}

	// Codes survive fmt wrapping.
	wrapped := fmt.Errorf("load template: %w", err)
	if !Is(wrapped, ErrCodeSectionNotFound) {
		t.Error("Is failed through fmt.Errorf wrapping")
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidBreakpoint, "invalid breakpoint")
	if got := UserMessage(err); got != "invalid breakpoint" {
		t.Errorf("UserMessage = %q, want message without code prefix", got)
	}
	plain := stderrors.New("plain failure")
	if got := UserMessage(plain); got != "plain failure" {
		t.Errorf("UserMessage = %q, want error string as-is", got)
	}
}
