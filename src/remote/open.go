package remote

import (
	"context"
	"fmt"

	"static-deploy/src/target"
)

// Options carries connection settings shared by all hosts.
type Options struct {
	SSH         SSHOptions
	DefaultPort int
}

// Open connects to the host described by t.
func Open(ctx context.Context, t target.Target, opts Options) (Executor, error) {
	switch t.Scheme {
	case "ssh":
		sshOpts := opts.SSH
		if t.User != "" {
			sshOpts.User = t.User
		}
		port := opts.DefaultPort
		if port == 0 {
			port = 22
		}
		return DialSSH(ctx, t.Address(port), sshOpts)
	case "incus":
		return ConnectIncus(t.Project, t.Instance)
	case "local":
		return NewLocal(), nil
	default:
		return nil, fmt.Errorf("remote: unsupported host scheme %q", t.Scheme)
	}
}

// OpenAll connects to every host in order. On error the executors opened so
// far are closed.
func OpenAll(ctx context.Context, targets []target.Target, opts Options) ([]Executor, error) {
	out := make([]Executor, 0, len(targets))
	for _, t := range targets {
		ex, err := Open(ctx, t, opts)
		if err != nil {
			CloseAll(out)
			return nil, fmt.Errorf("connect %s: %w", t, err)
		}
		out = append(out, ex)
	}
	return out, nil
}

// CloseAll closes every executor, ignoring errors.
func CloseAll(execs []Executor) {
	for _, ex := range execs {
		_ = ex.Close()
	}
}
