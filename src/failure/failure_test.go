package failure_test

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"static-deploy/src/failure"
)

func TestKindOf_Wrapped(t *testing.T) {
	base := failure.New(failure.Transfer, "web-01", "put", os.ErrPermission)
	wrapped := fmt.Errorf("deploy: %w", base)

	if got := failure.KindOf(wrapped); got != failure.Transfer {
		t.Fatalf("KindOf = %v, want transfer", got)
	}
	if !failure.Is(wrapped, failure.Transfer) {
		t.Fatalf("expected Is(transfer) on wrapped error")
	}
	if !errors.Is(wrapped, os.ErrPermission) {
		t.Fatalf("expected underlying cause to be preserved")
	}
}

func TestKindOf_PlainError(t *testing.T) {
	if got := failure.KindOf(errors.New("boom")); got != failure.Unknown {
		t.Fatalf("KindOf = %v, want unknown", got)
	}
	if failure.Is(nil, failure.Unknown) {
		t.Fatalf("nil error must not match any kind")
	}
}

func TestError_Message(t *testing.T) {
	err := failure.Newf(failure.LinkSwap, "10.0.0.5", "ln", "exit status %d", 1)
	msg := err.Error()
	for _, want := range []string{"link-swap", "10.0.0.5", "(ln)", "exit status 1"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message %q missing %q", msg, want)
		}
	}
	if got := failure.New(failure.Pack, "", "", nil).Error(); got != "pack" {
		t.Fatalf("bare message = %q, want pack", got)
	}
}
