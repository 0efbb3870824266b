package target

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Target is a parsed deployment host.
// Examples: 34.138.32.248, ssh:ubuntu@web-01:2222, incus:prod/web, local:
type Target struct {
	// Raw is the original input string.
	Raw string
	// Scheme is one of "ssh", "incus" or "local".
	Scheme string

	// User, Host and Port are set for ssh. Port 0 means the configured default.
	User string
	Host string
	Port int

	// Project and Instance are set for incus. Project may be empty.
	Project  string
	Instance string
}

// SupportedSchemes lists the schemes the parser accepts.
var SupportedSchemes = map[string]struct{}{
	"ssh":   {},
	"incus": {},
	"local": {},
}

// Parse parses a host entry. Entries without a recognised scheme are
// treated as ssh addresses, so the plain IP lists of older setups keep
// working.
func Parse(raw string) (Target, error) {
	t := Target{Raw: raw}
	s := strings.TrimSpace(raw)
	if s == "" {
		return t, fmt.Errorf("host must not be empty; expected e.g. 'ssh:user@host' or '10.0.0.5'")
	}
	if strings.EqualFold(s, "local") {
		t.Scheme = "local"
		return t, nil
	}

	scheme, val := "ssh", s
	if i := strings.Index(s, ":"); i > 0 {
		head, rest := strings.ToLower(s[:i]), s[i+1:]
		if _, ok := SupportedSchemes[head]; ok {
			scheme, val = head, strings.TrimSpace(rest)
		} else if !isDigits(rest) && !strings.Contains(head, "@") && !strings.HasPrefix(s, "[") {
			return t, fmt.Errorf("unsupported host scheme %q", head)
		}
	}
	t.Scheme = scheme

	switch scheme {
	case "local":
		if val != "" {
			return t, fmt.Errorf("local target takes no value, got %q", val)
		}
	case "incus":
		project, instance := "", val
		if i := strings.Index(val, "/"); i >= 0 {
			project, instance = val[:i], val[i+1:]
		}
		if instance == "" || strings.Contains(instance, "/") {
			return t, fmt.Errorf("invalid incus target %q; expected 'incus:[project/]instance'", raw)
		}
		t.Project, t.Instance = project, instance
	case "ssh":
		if err := parseSSH(&t, val); err != nil {
			return t, err
		}
	}
	return t, nil
}

func parseSSH(t *Target, val string) error {
	if i := strings.LastIndex(val, "@"); i >= 0 {
		t.User, val = val[:i], val[i+1:]
		if t.User == "" {
			return fmt.Errorf("invalid ssh target %q: empty user", t.Raw)
		}
	}
	host := val
	if strings.Contains(val, ":") {
		h, p, err := net.SplitHostPort(val)
		if err != nil {
			return fmt.Errorf("invalid ssh target %q: %w", t.Raw, err)
		}
		port, err := strconv.Atoi(p)
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("invalid ssh port in %q", t.Raw)
		}
		host, t.Port = h, port
	}
	if host == "" {
		return fmt.Errorf("invalid ssh target %q: empty host", t.Raw)
	}
	t.Host = host
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IsSupported returns true if the scheme is recognized.
func IsSupported(scheme string) bool {
	_, ok := SupportedSchemes[strings.ToLower(scheme)]
	return ok
}

// Address returns host:port, using defaultPort when none was given.
func (t Target) Address(defaultPort int) string {
	port := t.Port
	if port == 0 {
		port = defaultPort
	}
	return net.JoinHostPort(t.Host, strconv.Itoa(port))
}

// String returns a canonical string form of the target.
func (t Target) String() string {
	switch t.Scheme {
	case "local":
		return "local:"
	case "incus":
		if t.Project != "" {
			return fmt.Sprintf("incus:%s/%s", t.Project, t.Instance)
		}
		return "incus:" + t.Instance
	case "ssh":
		s := t.Host
		if t.Port != 0 {
			s = net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
		}
		if t.User != "" {
			s = t.User + "@" + s
		}
		return "ssh:" + s
	}
	return t.Raw
}
