package archive

import (
	"fmt"
	"strings"
	"time"
)

const (
	// Prefix starts every archive and release name.
	Prefix = "web_static_"
	// Ext is the compressed tar extension stripped to form a release name.
	Ext = ".tgz"
)

// Name returns the archive file name for t. Without pad each date and time
// field is printed at its natural width (2024-06-01 12:30:00 becomes
// web_static_20246112300.tgz), which is what existing deployments carry.
// With pad the fields are fixed-width and names sort chronologically.
func Name(t time.Time, pad bool) string {
	if pad {
		return Prefix + t.Format("20060102150405") + Ext
	}
	return fmt.Sprintf("%s%d%d%d%d%d%d%s", Prefix,
		t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second(), Ext)
}

// ReleaseName strips the archive extension from a file name.
func ReleaseName(fileName string) string {
	return strings.ReplaceAll(fileName, Ext, "")
}
