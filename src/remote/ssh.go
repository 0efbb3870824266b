package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"

	"static-deploy/src/util/progress"
)

// SSHOptions configures an SSH connection.
type SSHOptions struct {
	User                  string
	IdentityFile          string
	KnownHostsFile        string
	InsecureIgnoreHostKey bool
	UseAgent              bool
	Timeout               time.Duration
	// Progress, when set, receives upload progress lines.
	Progress io.Writer
}

// SSH runs commands over an SSH session and uploads with SFTP.
type SSH struct {
	addr     string
	client   *ssh.Client
	sftp     *sftp.Client
	agent    net.Conn
	progress io.Writer
}

// DialSSH connects to addr (host:port).
func DialSSH(ctx context.Context, addr string, opts SSHOptions) (*SSH, error) {
	cfg, agentConn, err := clientConfig(opts)
	if err != nil {
		return nil, err
	}
	closeAgent := func() {
		if agentConn != nil {
			_ = agentConn.Close()
		}
	}
	d := net.Dialer{Timeout: opts.Timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		closeAgent()
		return nil, fmt.Errorf("ssh: dial %s: %w", addr, err)
	}
	c, chans, reqs, err := ssh.NewClientConn(conn, addr, cfg)
	if err != nil {
		conn.Close()
		closeAgent()
		return nil, fmt.Errorf("ssh: handshake %s: %w", addr, err)
	}
	return &SSH{addr: addr, client: ssh.NewClient(c, chans, reqs), agent: agentConn, progress: opts.Progress}, nil
}

// clientConfig builds the ssh config. The returned agent connection, when
// non-nil, backs the agent signers and must stay open for the client's
// lifetime.
func clientConfig(opts SSHOptions) (*ssh.ClientConfig, net.Conn, error) {
	var agentConn net.Conn
	fail := func(err error) (*ssh.ClientConfig, net.Conn, error) {
		if agentConn != nil {
			_ = agentConn.Close()
		}
		return nil, nil, err
	}
	var auth []ssh.AuthMethod
	if opts.IdentityFile != "" {
		key, err := os.ReadFile(expandHome(opts.IdentityFile))
		switch {
		case err == nil:
			signer, err := ssh.ParsePrivateKey(key)
			if err != nil {
				return fail(fmt.Errorf("ssh: parse identity %s: %w", opts.IdentityFile, err))
			}
			auth = append(auth, ssh.PublicKeys(signer))
		case !errors.Is(err, os.ErrNotExist) || !opts.UseAgent:
			return fail(fmt.Errorf("ssh: read identity: %w", err))
		}
	}
	if opts.UseAgent {
		if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
			conn, err := net.Dial("unix", sock)
			if err == nil {
				agentConn = conn
				auth = append(auth, ssh.PublicKeysCallback(agent.NewClient(conn).Signers))
			}
		}
	}
	if len(auth) == 0 {
		return fail(errors.New("ssh: no authentication method available (set ssh.identityFile or run an ssh-agent)"))
	}

	hostKey := ssh.InsecureIgnoreHostKey()
	if !opts.InsecureIgnoreHostKey {
		cb, err := knownhosts.New(expandHome(opts.KnownHostsFile))
		if err != nil {
			return fail(fmt.Errorf("ssh: load known_hosts: %w", err))
		}
		hostKey = cb
	}
	return &ssh.ClientConfig{
		User:            opts.User,
		Auth:            auth,
		HostKeyCallback: hostKey,
		Timeout:         opts.Timeout,
	}, agentConn, nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

func (s *SSH) Host() string { return s.addr }

func (s *SSH) Run(ctx context.Context, command string) (string, error) {
	sess, err := s.client.NewSession()
	if err != nil {
		return "", fmt.Errorf("ssh: new session on %s: %w", s.addr, err)
	}
	defer sess.Close()

	type result struct {
		out []byte
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := sess.CombinedOutput(command)
		done <- result{out, err}
	}()
	select {
	case <-ctx.Done():
		_ = sess.Close()
		return "", ctx.Err()
	case r := <-done:
		if r.err != nil {
			return string(r.out), fmt.Errorf("ssh %s: %s: %w: %s", s.addr, command, r.err, strings.TrimSpace(string(r.out)))
		}
		return string(r.out), nil
	}
}

func (s *SSH) Put(ctx context.Context, localPath, remotePath string) error {
	if s.sftp == nil {
		c, err := sftp.NewClient(s.client)
		if err != nil {
			return fmt.Errorf("sftp: open on %s: %w", s.addr, err)
		}
		s.sftp = c
	}
	in, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer in.Close()
	st, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := s.sftp.Create(remotePath)
	if err != nil {
		return fmt.Errorf("sftp: create %s: %w", remotePath, err)
	}
	var r io.Reader = in
	if s.progress != nil {
		r = progress.NewReader(in, st.Size(), "upload "+s.addr, s.progress)
	}
	copyErr := make(chan error, 1)
	go func() {
		_, err := io.Copy(out, r)
		copyErr <- err
	}()
	select {
	case <-ctx.Done():
		_ = out.Close()
		return ctx.Err()
	case err := <-copyErr:
		if err != nil {
			_ = out.Close()
			return fmt.Errorf("sftp: upload %s: %w", remotePath, err)
		}
	}
	return out.Close()
}

func (s *SSH) Close() error {
	if s.sftp != nil {
		_ = s.sftp.Close()
	}
	var err error
	if s.client != nil {
		err = s.client.Close()
	}
	if s.agent != nil {
		_ = s.agent.Close()
	}
	return err
}
