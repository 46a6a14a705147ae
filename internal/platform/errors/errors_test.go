package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := New(CodePermissionDenied, "child acting on sibling account")
	if !stderrors.Is(err, New(CodePermissionDenied, "other message")) {
		t.Fatal("expected errors with equal codes to match")
	}
	if stderrors.Is(err, New(CodeNotFound, "other")) {
		t.Fatal("expected errors with different codes not to match")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("sqlite busy")
	err := Wrap(CodeConflict, "append transaction", cause)
	if !stderrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be found in chain")
	}
	if GetCode(err) != CodeConflict {
		t.Fatalf("code = %q, want %q", GetCode(err), CodeConflict)
	}
}

func TestGetCodeUnknownForForeignError(t *testing.T) {
	if GetCode(fmt.Errorf("plain")) != CodeUnknown {
		t.Fatal("expected CodeUnknown for non-domain error")
	}
	if GetCode(nil) != CodeUnknown {
		t.Fatal("expected CodeUnknown for nil error")
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		code Code
		want int
	}{
		{CodeTransactionAmountInvalid, http.StatusBadRequest},
		{CodeTransactionTypeInvalid, http.StatusBadRequest},
		{CodeVerificationIndexInvalid, http.StatusBadRequest},
		{CodePermissionDenied, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeUpstreamUnavailable, http.StatusBadGateway},
		{CodeUnknown, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := tc.code.HTTPStatus(); got != tc.want {
			t.Fatalf("%s status = %d, want %d", tc.code, got, tc.want)
		}
	}
}

func TestUserMessageTemplatesMetadata(t *testing.T) {
	err := WithMetadata(CodeTransactionTypeInvalid, "bad type", map[string]string{"type": "LOAN"})
	got := UserMessage(err)
	if got != "Unknown transaction type LOAN." {
		t.Fatalf("user message = %q", got)
	}
}

func TestUserMessageWithoutMetadata(t *testing.T) {
	got := UserMessage(New(CodePermissionDenied, "denied"))
	if got != "You are not allowed to act on this account." {
		t.Fatalf("user message = %q", got)
	}
}

func TestUserMessageUnknownCode(t *testing.T) {
	got := UserMessage(fmt.Errorf("plain"))
	if got != "An unexpected error occurred." {
		t.Fatalf("user message = %q", got)
	}
}
