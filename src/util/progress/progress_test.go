package progress

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestReader_ReportsCompletion(t *testing.T) {
	var out bytes.Buffer
	payload := strings.Repeat("x", 3000)
	r := NewReader(strings.NewReader(payload), int64(len(payload)), "upload web-01", &out)

	n, err := io.Copy(io.Discard, r)
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if n != 3000 || r.Bytes() != 3000 {
		t.Fatalf("read %d bytes, Bytes()=%d", n, r.Bytes())
	}
	got := out.String()
	if !strings.Contains(got, "[upload web-01] 100.0% (2.9 KiB/2.9 KiB)") {
		t.Fatalf("missing final progress line; got %q", got)
	}
	if !strings.HasSuffix(got, "\n") || strings.Count(got, "\n") != 1 {
		t.Fatalf("expected exactly one trailing newline; got %q", got)
	}
}

func TestReader_UnknownTotal(t *testing.T) {
	var out bytes.Buffer
	r := NewReader(strings.NewReader("abc"), 0, "pack", &out)
	if _, err := io.ReadAll(r); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "[pack] 3 B") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestHumanBytes(t *testing.T) {
	cases := map[int64]string{0: "0 B", 1023: "1023 B", 1024: "1.0 KiB", 5 << 20: "5.0 MiB"}
	for in, want := range cases {
		if got := humanBytes(in); got != want {
			t.Fatalf("humanBytes(%d) = %q, want %q", in, got, want)
		}
	}
}
