package release

import (
	"path"

	"static-deploy/src/archive"
)

// Layout names the remote paths a deployment touches.
type Layout struct {
	ReleasesDir string
	CurrentLink string
	TmpDir      string
}

// DefaultLayout is /data/web_static/{releases,current} with uploads in /tmp.
func DefaultLayout() Layout {
	return Layout{
		ReleasesDir: "/data/web_static/releases",
		CurrentLink: "/data/web_static/current",
		TmpDir:      "/tmp",
	}
}

// ReleasePath returns the release directory for an archive file name,
// with a trailing slash.
func (l Layout) ReleasePath(fileName string) string {
	return path.Join(l.ReleasesDir, archive.ReleaseName(fileName)) + "/"
}

// UploadPath returns where the archive is staged on the host.
func (l Layout) UploadPath(fileName string) string {
	return path.Join(l.TmpDir, fileName)
}
