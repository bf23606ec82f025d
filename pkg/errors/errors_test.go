package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, publicMsg: "validation failed", detailsOK: true},
		{code: CodeUnauthorized, publicMsg: "authentication required"},
		{code: CodeNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, publicMsg: "conflict detected"},
		{code: CodeInternal, publicMsg: "internal error", retryable: true},
		{code: CodeDependency, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	meta := MetadataFor(Code("NOPE"))
	if meta.PublicMessage != "internal error" {
		t.Fatalf("expected internal fallback, got %q", meta.PublicMessage)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("disk full")
	err := Wrap(CodeDependency, cause, "persist state")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to survive errors.Is")
	}
	if got := err.Error(); got != "DEPENDENCY_ERROR: persist state" {
		t.Fatalf("unexpected error string %q", got)
	}
}

func TestAsUnwrapsThroughFmtErrorf(t *testing.T) {
	inner := New(CodeUnauthorized, "invalid credentials")
	outer := fmt.Errorf("login: %w", inner)

	typed := As(outer)
	if typed == nil || typed.Code() != CodeUnauthorized {
		t.Fatalf("expected unauthorized code, got %v", typed)
	}
	if !HasCode(outer, CodeUnauthorized) {
		t.Fatal("HasCode should match through wrapping")
	}
	if HasCode(outer, CodeConflict) {
		t.Fatal("HasCode should not match a different code")
	}
}

func TestWithDetails(t *testing.T) {
	err := New(CodeValidation, "email is required").WithDetails(map[string]string{"email": "is required"})
	details, ok := err.Details().(map[string]string)
	if !ok || details["email"] != "is required" {
		t.Fatalf("unexpected details %v", err.Details())
	}
}
