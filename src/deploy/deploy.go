// Package deploy composes packing, installation and pruning into a single
// deployment run.
package deploy

import (
	"context"
	"errors"

	"static-deploy/src/archive"
	"static-deploy/src/logging"
	"static-deploy/src/release"
	"static-deploy/src/remote"
	"static-deploy/src/retention"
)

// DefaultKeep is the retention count used by DeployAndClean callers that
// don't choose one.
const DefaultKeep = 2

type Packer interface {
	Pack(ctx context.Context, sourceDir, outputDir string) (archive.Archive, error)
}

type Installer interface {
	Install(ctx context.Context, archivePath string, ex remote.Executor) (release.Release, error)
}

type Pruner interface {
	Prune(ctx context.Context, hosts []remote.Executor, n int) retention.Result
}

// HostResult is the outcome of installing on one host.
type HostResult struct {
	Host    string
	Release release.Release
	Err     error
}

// Report collects everything a run did.
type Report struct {
	Archive archive.Archive
	PackErr error
	Hosts   []HostResult
	// Prune is nil when pruning was not requested.
	Prune *retention.Result
}

// OK reports whether packing succeeded and every host installed. Pruning
// is best effort and never affects the result.
func (r Report) OK() bool {
	if r.PackErr != nil {
		return false
	}
	for _, h := range r.Hosts {
		if h.Err != nil {
			return false
		}
	}
	return true
}

// Err joins the pack and install failures, or returns nil.
func (r Report) Err() error {
	var errs []error
	if r.PackErr != nil {
		errs = append(errs, r.PackErr)
	}
	for _, h := range r.Hosts {
		if h.Err != nil {
			errs = append(errs, h.Err)
		}
	}
	return errors.Join(errs...)
}

// Deployer runs deployments against an explicit host list.
type Deployer struct {
	Packer      Packer
	Installer   Installer
	Pruner      Pruner
	SourceDir   string
	VersionsDir string
	Log         logging.Logger
}

// Deploy packs once and installs the archive on every host in order. A
// pack failure stops the run before any host is contacted.
func (d *Deployer) Deploy(ctx context.Context, hosts []remote.Executor) Report {
	var rep Report
	a, err := d.Packer.Pack(ctx, d.SourceDir, d.VersionsDir)
	if err != nil {
		d.log().Error("pack failed: %v", err)
		rep.PackErr = err
		return rep
	}
	rep.Archive = a
	rep.Hosts = d.InstallAll(ctx, a.Path, hosts)
	return rep
}

// InstallAll installs archivePath on each host. Hosts are independent:
// a failure is recorded and the next host is still attempted.
func (d *Deployer) InstallAll(ctx context.Context, archivePath string, hosts []remote.Executor) []HostResult {
	results := make([]HostResult, 0, len(hosts))
	for _, ex := range hosts {
		rel, err := d.Installer.Install(ctx, archivePath, ex)
		if err != nil {
			d.log().Error("[%s] deploy failed: %v", ex.Host(), err)
		}
		results = append(results, HostResult{Host: ex.Host(), Release: rel, Err: err})
	}
	return results
}

// DeployAndClean deploys and then prunes with keep. Pruning runs whatever
// the deployment outcome.
func (d *Deployer) DeployAndClean(ctx context.Context, hosts []remote.Executor, keep int) Report {
	rep := d.Deploy(ctx, hosts)
	res := d.Pruner.Prune(ctx, hosts, keep)
	rep.Prune = &res
	return rep
}

func (d *Deployer) log() logging.Logger {
	if d.Log == nil {
		return logging.Nop{}
	}
	return d.Log
}
