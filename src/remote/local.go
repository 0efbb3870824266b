package remote

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
)

// Local runs commands on this machine through sh.
type Local struct{}

func NewLocal() *Local { return &Local{} }

func (*Local) Host() string { return "local" }

func (*Local) Run(ctx context.Context, command string) (string, error) {
	out, err := exec.CommandContext(ctx, "sh", "-c", command).CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("local: %s: %w: %s", command, err, out)
	}
	return string(out), nil
}

func (*Local) Put(ctx context.Context, localPath, remotePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	in, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(remotePath), 0o755); err != nil {
		return err
	}
	out, err := os.Create(remotePath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func (*Local) Close() error { return nil }
