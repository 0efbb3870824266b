package target_test

import (
	"testing"

	"static-deploy/src/target"
)

func TestParse_BareIP(t *testing.T) {
	got, err := target.Parse("34.138.32.248")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if got.Scheme != "ssh" || got.Host != "34.138.32.248" || got.Port != 0 {
		t.Fatalf("unexpected target: %+v", got)
	}
	if addr := got.Address(22); addr != "34.138.32.248:22" {
		t.Fatalf("Address = %q", addr)
	}
}

func TestParse_BareHostPort(t *testing.T) {
	got, err := target.Parse("ubuntu@3.226.74.205:2222")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if got.User != "ubuntu" || got.Host != "3.226.74.205" || got.Port != 2222 {
		t.Fatalf("unexpected target: %+v", got)
	}
	if got.String() != "ssh:ubuntu@3.226.74.205:2222" {
		t.Fatalf("String = %q", got.String())
	}
}

func TestParse_SSHScheme(t *testing.T) {
	got, err := target.Parse("ssh:deploy@web-01")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if got.User != "deploy" || got.Host != "web-01" {
		t.Fatalf("unexpected target: %+v", got)
	}
	if addr := got.Address(22); addr != "web-01:22" {
		t.Fatalf("Address = %q", addr)
	}
}

func TestParse_Incus(t *testing.T) {
	got, err := target.Parse("incus:prod/web")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if got.Scheme != "incus" || got.Project != "prod" || got.Instance != "web" {
		t.Fatalf("unexpected target: %+v", got)
	}
	noProject, err := target.Parse("incus:web")
	if err != nil || noProject.Project != "" || noProject.Instance != "web" {
		t.Fatalf("unexpected target: %+v err=%v", noProject, err)
	}
}

func TestParse_Local(t *testing.T) {
	for _, in := range []string{"local", "local:", "LOCAL"} {
		got, err := target.Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", in, err)
		}
		if got.Scheme != "local" {
			t.Fatalf("Parse(%q) scheme = %q", in, got.Scheme)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"s3:bucket",
		"incus:",
		"incus:prod/",
		"ssh:@host",
		"ssh:host:notaport",
		"ssh:host:70000",
		"local:/root",
	}
	for _, in := range cases {
		if _, err := target.Parse(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}
