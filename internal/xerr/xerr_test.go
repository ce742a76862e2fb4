package xerr

import (
	"errors"
	"testing"
)

func TestIsMatchesByKind(t *testing.T) {
	err := Wrap(KindUntrackedWindow, "window 42", errors.New("boom"))
	if !errors.Is(err, ErrUntrackedWindow) {
		t.Errorf("errors.Is(%v, ErrUntrackedWindow) = false, want true", err)
	}
	if errors.Is(err, ErrSiblingNotFound) {
		t.Errorf("errors.Is(%v, ErrSiblingNotFound) = true, want false", err)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(KindConnectionError, "dial", cause)
	if got := errors.Unwrap(err); got != cause {
		t.Errorf("Unwrap()=%v, want %v", got, cause)
	}
}

func TestErrorString(t *testing.T) {
	err := New(KindConfigError, "bad uniform")
	want := "ConfigError: bad uniform"
	if got := err.Error(); got != want {
		t.Errorf("Error()=%q, want %q", got, want)
	}
}
