// Package localexec runs commands on the machine static-deploy runs on.
package localexec

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes a local program and returns its captured output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, err error)
}

// Exec runs programs with os/exec. Dir, when set, is the working directory.
type Exec struct {
	Dir string
}

func (e Exec) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = e.Dir
	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf
	if err := cmd.Run(); err != nil {
		return stdoutBuf.String(), fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, strings.TrimSpace(stderrBuf.String()))
	}
	return stdoutBuf.String(), nil
}

// Func adapts a function to Runner.
type Func func(ctx context.Context, name string, args ...string) (string, error)

func (f Func) Run(ctx context.Context, name string, args ...string) (string, error) {
	return f(ctx, name, args...)
}
