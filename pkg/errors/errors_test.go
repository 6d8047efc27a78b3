package errors

import (
	stderrors "errors"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrCodeInvalidPlatform, "unrecognized platform tag %q", "bogus")
	want := `INVALID_PLATFORM: unrecognized platform tag "bogus"`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(ErrCodeStorage, cause, "inserting release")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match its cause with errors.Is")
	}
	if !Is(err, ErrCodeStorage) {
		t.Error("Is() should match the wrapping code")
	}
	if GetCode(err) != ErrCodeStorage {
		t.Errorf("GetCode() = %v, want %v", GetCode(err), ErrCodeStorage)
	}
}

func TestIsOnForeignError(t *testing.T) {
	err := stderrors.New("plain")
	if Is(err, ErrCodeStorage) {
		t.Error("Is() matched a non-structured error")
	}
	if GetCode(err) != "" {
		t.Errorf("GetCode() = %q, want empty", GetCode(err))
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeForbidden, "nope")); got != "nope" {
		t.Errorf("UserMessage() = %q, want message without code", got)
	}
	if got := UserMessage(stderrors.New("plain")); got != "plain" {
		t.Errorf("UserMessage() = %q", got)
	}
}
