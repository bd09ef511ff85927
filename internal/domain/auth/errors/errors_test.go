package errors

import (
	"errors"
	"testing"
)

func TestErrorHelpers(t *testing.T) {
	err := NewInvalidArgument("bad")
	if !IsInvalidArgument(err) {
		t.Fatal("expected invalid argument")
	}

	wrapped := WrapInternal(err, "ctx")
	if !IsInternal(wrapped) {
		t.Fatal("expected internal")
	}
}

func TestWrapInternal_KeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	wrapped := WrapInternal(cause, "GetUserByEmail")

	if !errors.Is(wrapped, cause) {
		t.Fatal("cause must stay in the chain")
	}
	if IsNotFound(wrapped) || IsAlreadyExists(wrapped) {
		t.Fatal("internal error must not match other sentinels")
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	if IsInvalidCredentials(ErrInvalidToken) {
		t.Fatal("invalid token is not invalid credentials")
	}
	if !IsInvalidToken(ErrInvalidToken) {
		t.Fatal("expected invalid token")
	}
}
