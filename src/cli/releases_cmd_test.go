package cli_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReleasesCmd_JSONMarksCurrent(t *testing.T) {
	fakeHosts(t, func(cmd string) (string, error) {
		switch {
		case strings.HasPrefix(cmd, "ls -1t"):
			return "web_static_20240202000000\nweb_static_20240101000000\n", nil
		case strings.HasPrefix(cmd, "readlink"):
			return "/data/web_static/releases/web_static_20240202000000/\n", nil
		}
		return "", nil
	})
	out, _, err := run(t, "", "releases", "-o", "json", "--host", "web-01")
	if err != nil {
		t.Fatalf("releases failed: %v", err)
	}
	type entry struct {
		Host    string `json:"host"`
		Name    string `json:"name"`
		Current bool   `json:"current"`
	}
	var got []entry
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, out)
	}
	want := []entry{
		{Host: "ssh:web-01", Name: "web_static_20240202000000", Current: true},
		{Host: "ssh:web-01", Name: "web_static_20240101000000"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("releases mismatch (-want +got):\n%s", diff)
	}
}

func TestReleasesCmd_RejectsUnknownOutput(t *testing.T) {
	fakeHosts(t, nil)
	if _, _, err := run(t, "", "releases", "-o", "yaml", "--host", "web-01"); err == nil {
		t.Fatal("expected error for unsupported output")
	}
}
