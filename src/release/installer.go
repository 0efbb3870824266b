// Package release installs archives as versioned releases on remote hosts.
package release

import (
	"context"
	"os"
	"path"
	"path/filepath"

	"static-deploy/src/archive"
	"static-deploy/src/failure"
	"static-deploy/src/logging"
	"static-deploy/src/remote"
)

// Release is an installed archive on one host.
type Release struct {
	Host string
	Name string
	Path string
}

// Installer unpacks archives into Layout and swaps the current link.
type Installer struct {
	Layout Layout
	// SourceName is the base name of the packed directory. Archives whose
	// root entry is that directory get its contents moved up one level.
	SourceName string
	Log        logging.Logger
}

// NewInstaller returns an Installer for archives of sourceDir.
func NewInstaller(layout Layout, sourceDir string, log logging.Logger) *Installer {
	return &Installer{Layout: layout, SourceName: filepath.Base(filepath.Clean(sourceDir)), Log: log}
}

// Install ships archivePath to ex and makes it the current release.
// Steps run in order and the first failure aborts the rest; the current
// link is absent if the failure falls between its removal and recreation.
func (in *Installer) Install(ctx context.Context, archivePath string, ex remote.Executor) (Release, error) {
	host := ex.Host()
	if _, err := os.Stat(archivePath); err != nil {
		return Release{}, failure.New(failure.MissingArchive, host, "stat", err)
	}
	fileName := filepath.Base(archivePath)
	rel := Release{
		Host: host,
		Name: archive.ReleaseName(fileName),
		Path: in.Layout.ReleasePath(fileName),
	}
	tmp := in.Layout.UploadPath(fileName)
	q := remote.Quote

	in.log().Debug("[%s] uploading %s to %s", host, archivePath, tmp)
	if err := ex.Put(ctx, archivePath, tmp); err != nil {
		return Release{}, failure.New(failure.Transfer, host, "put", err)
	}

	extract := []step{
		{"mkdir", "mkdir -p " + q(rel.Path)},
		{"untar", "tar -xzf " + q(tmp) + " -C " + q(rel.Path)},
		{"cleanup", "rm -rf " + q(tmp)},
	}
	if err := in.run(ctx, ex, failure.Extract, extract); err != nil {
		return Release{}, err
	}

	if in.SourceName != "" {
		nested := path.Join(rel.Path, in.SourceName)
		if _, err := ex.Run(ctx, "test -d "+q(nested)); err == nil {
			flatten := []step{
				// find, not a glob, so dotfiles move too and an empty tree is fine
				{"flatten", "find " + q(nested) + " -mindepth 1 -maxdepth 1 -exec mv {} " + q(rel.Path) + " \\;"},
				{"flatten", "rmdir " + q(nested)},
			}
			if err := in.run(ctx, ex, failure.Extract, flatten); err != nil {
				return Release{}, err
			}
		}
	}

	swap := []step{
		{"unlink", "rm -rf " + q(in.Layout.CurrentLink)},
		{"link", "ln -s " + q(rel.Path) + " " + q(in.Layout.CurrentLink)},
	}
	if err := in.run(ctx, ex, failure.LinkSwap, swap); err != nil {
		return Release{}, err
	}
	in.log().Info("[%s] New version deployed! %s", host, rel.Name)
	return rel, nil
}

type step struct {
	name    string
	command string
}

func (in *Installer) run(ctx context.Context, ex remote.Executor, kind failure.Kind, steps []step) error {
	for _, s := range steps {
		in.log().Debug("[%s] run: %s", ex.Host(), s.command)
		if _, err := ex.Run(ctx, s.command); err != nil {
			return failure.New(kind, ex.Host(), s.name, err)
		}
	}
	return nil
}

func (in *Installer) log() logging.Logger {
	if in.Log == nil {
		return logging.Nop{}
	}
	return in.Log
}
