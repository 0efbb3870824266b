// Package remote runs shell commands and uploads files on deployment hosts.
package remote

import (
	"context"
	"strings"
)

// Executor is a connection to one host.
type Executor interface {
	// Host names the host in logs and reports.
	Host() string
	// Run executes command with a POSIX shell and returns its combined output.
	// A non-zero exit status is an error.
	Run(ctx context.Context, command string) (string, error)
	// Put copies a local file to remotePath, replacing it if present.
	Put(ctx context.Context, localPath, remotePath string) error
	Close() error
}

// Quote single-quotes s for a POSIX shell.
func Quote(s string) string {
	if s != "" && strings.IndexFunc(s, needsQuote) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func needsQuote(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	case strings.ContainsRune("/._-+=:,@%", r):
		return false
	}
	return true
}
