package localexec_test

import (
	"context"
	"os/exec"
	"strings"
	"testing"

	"static-deploy/src/localexec"
)

func TestExec_CapturesStdout(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	dir := t.TempDir()
	out, err := localexec.Exec{Dir: dir}.Run(context.Background(), "sh", "-c", "pwd")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out, dir) {
		t.Fatalf("expected working dir %s in output, got %q", dir, out)
	}
}

func TestExec_ErrorIncludesStderr(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	_, err := localexec.Exec{}.Run(context.Background(), "sh", "-c", "echo no space left >&2; exit 3")
	if err == nil {
		t.Fatalf("expected error from failing command")
	}
	if !strings.Contains(err.Error(), "no space left") {
		t.Fatalf("expected stderr in error, got %v", err)
	}
}

func TestFunc_Adapter(t *testing.T) {
	var gotName string
	r := localexec.Func(func(_ context.Context, name string, args ...string) (string, error) {
		gotName = name
		return strings.Join(args, ","), nil
	})
	out, err := r.Run(context.Background(), "tar", "-c", "x")
	if err != nil || out != "-c,x" || gotName != "tar" {
		t.Fatalf("unexpected adapter result out=%q name=%q err=%v", out, gotName, err)
	}
}
