package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"static-deploy/src/cli"
	"static-deploy/src/localexec"
	"static-deploy/src/remote"
	"static-deploy/src/remote/remotetest"
	"static-deploy/src/target"
)

// fakeHosts swaps the host opener for recorders, one per target, and
// returns them keyed by the --host value they were opened for.
func fakeHosts(t *testing.T, handler func(string) (string, error)) map[string]*remotetest.Recorder {
	t.Helper()
	recs := map[string]*remotetest.Recorder{}
	restore := cli.SetHostOpenerForTest(func(_ context.Context, targets []target.Target, _ remote.Options) ([]remote.Executor, error) {
		var out []remote.Executor
		for _, tg := range targets {
			r := remotetest.New(tg.String())
			r.Handler = handler
			recs[tg.Raw] = r
			out = append(out, r)
		}
		return out, nil
	})
	t.Cleanup(restore)
	return recs
}

// fakeTar writes a small file wherever tar was asked to create an archive.
func fakeTar(t *testing.T) *int {
	t.Helper()
	calls := 0
	restore := cli.SetLocalRunnerForTest(localexec.Func(func(_ context.Context, name string, args ...string) (string, error) {
		calls++
		if name == "tar" && len(args) > 1 {
			if err := os.WriteFile(args[1], []byte("archive"), 0o644); err != nil {
				return "", err
			}
		}
		return "", nil
	}))
	t.Cleanup(restore)
	return &calls
}

// hostRecorder returns the recorder opened for the --host value raw.
func hostRecorder(t *testing.T, recs map[string]*remotetest.Recorder, raw string) *remotetest.Recorder {
	t.Helper()
	r, ok := recs[raw]
	if !ok {
		t.Fatalf("host %q was never opened (opened: %d)", raw, len(recs))
	}
	return r
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errBuf bytes.Buffer
	cmd := cli.NewRootCmd(&out, &errBuf)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	_, err := cmd.ExecuteC()
	return out.String(), errBuf.String(), err
}

func mustWrite(t *testing.T, p string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}
