package cli_test

import (
	"strings"
	"testing"

	"static-deploy/src/cli"
	"static-deploy/src/version"
)

func TestVersionCommand_PrintsVersion(t *testing.T) {
	out, _, err := run(t, "", "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, version.Version) {
		t.Fatalf("expected version %q in output; got: %s", version.Version, out)
	}
}

func TestGlobalFlags_Present(t *testing.T) {
	cmd := cli.NewRootCmd(nil, nil)
	for _, name := range []string{"config", "host", "dry-run", "yes", "force", "verbose"} {
		if f := cmd.PersistentFlags().Lookup(name); f == nil {
			t.Fatalf("missing global flag --%s", name)
		}
	}
}

func TestRootHelp_ListsCommands(t *testing.T) {
	out, _, err := run(t, "", "--help")
	if err != nil {
		t.Fatalf("help failed: %v", err)
	}
	for _, name := range []string{"pack", "install", "deploy", "clean", "full", "releases", "schedule", "version"} {
		if !strings.Contains(out, name) {
			t.Fatalf("help output missing %q:\n%s", name, out)
		}
	}
}

func TestDeploy_RequiresHosts(t *testing.T) {
	_, _, err := run(t, "", "deploy", "--versions-dir", t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "no hosts") {
		t.Fatalf("expected missing hosts error, got %v", err)
	}
}

func TestUnknownHostScheme(t *testing.T) {
	_, _, err := run(t, "", "deploy", "--host", "ftp:web-01")
	if err == nil {
		t.Fatal("expected error for unsupported scheme")
	}
}
