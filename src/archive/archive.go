// Package archive packs the static source tree into a timestamped tarball.
package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"static-deploy/src/failure"
	"static-deploy/src/localexec"
	"static-deploy/src/logging"
)

// Archive is a packed snapshot on the local filesystem.
type Archive struct {
	Path      string
	Name      string
	Timestamp time.Time
	Size      int64
}

// Packer creates archives with the local tar binary.
type Packer struct {
	Runner localexec.Runner
	Log    logging.Logger
	Now    func() time.Time
	Pad    bool
}

// NewPacker returns a Packer using os/exec and the wall clock.
func NewPacker(log logging.Logger, pad bool) *Packer {
	return &Packer{Runner: localexec.Exec{}, Log: log, Now: time.Now, Pad: pad}
}

// Pack archives sourceDir into outputDir. The archive's root entry is the
// base name of sourceDir, matching `tar -cvzf out web_static` run from its
// parent. A partially written archive is left in place on failure.
func (p *Packer) Pack(ctx context.Context, sourceDir, outputDir string) (Archive, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return Archive{}, failure.New(failure.Pack, "", "mkdir", err)
	}
	now := p.now()
	name := Name(now, p.Pad)
	out := filepath.Join(outputDir, name)

	src := filepath.Clean(sourceDir)
	p.log().Info("Packing %s to %s", src, out)
	if _, err := p.Runner.Run(ctx, "tar", "-cvzf", out, "-C", filepath.Dir(src), filepath.Base(src)); err != nil {
		return Archive{}, failure.New(failure.Pack, "", "tar", err)
	}
	st, err := os.Stat(out)
	if err != nil {
		return Archive{}, failure.New(failure.Pack, "", "stat", fmt.Errorf("archive not created: %w", err))
	}
	p.log().Info("%s packed: %s -> %d Bytes", filepath.Base(src), out, st.Size())
	return Archive{Path: out, Name: name, Timestamp: now, Size: st.Size()}, nil
}

func (p *Packer) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

func (p *Packer) log() logging.Logger {
	if p.Log == nil {
		return logging.Nop{}
	}
	return p.Log
}
