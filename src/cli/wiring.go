package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"static-deploy/src/archive"
	"static-deploy/src/deploy"
	"static-deploy/src/failure"
	"static-deploy/src/localexec"
	"static-deploy/src/release"
	"static-deploy/src/remote"
	"static-deploy/src/retention"
	"static-deploy/src/target"
)

type hostOpenerFunc func(context.Context, []target.Target, remote.Options) ([]remote.Executor, error)

var (
	openHostsFn   hostOpenerFunc = remote.OpenAll
	localRunnerFn                = func() localexec.Runner { return localexec.Exec{} }
)

// SetHostOpenerForTest replaces how hosts are connected. The returned
// function restores the previous opener.
func SetHostOpenerForTest(fn hostOpenerFunc) func() {
	prev := openHostsFn
	openHostsFn = fn
	return func() { openHostsFn = prev }
}

// SetLocalRunnerForTest replaces the runner used to invoke tar locally.
func SetLocalRunnerForTest(r localexec.Runner) func() {
	prev := localRunnerFn
	localRunnerFn = func() localexec.Runner { return r }
	return func() { localRunnerFn = prev }
}

func (s settings) openHosts(ctx context.Context, progress io.Writer) ([]remote.Executor, error) {
	if err := s.requireHosts(); err != nil {
		return nil, err
	}
	opts := remote.Options{
		DefaultPort: s.cfg.SSH.Port,
		SSH: remote.SSHOptions{
			User:                  s.cfg.SSH.User,
			IdentityFile:          s.cfg.SSH.IdentityFile,
			KnownHostsFile:        s.cfg.SSH.KnownHostsFile,
			InsecureIgnoreHostKey: s.cfg.SSH.InsecureIgnoreHostKey,
			UseAgent:              s.cfg.SSH.UseAgent,
			Timeout:               s.cfg.SSH.Timeout,
			Progress:              progress,
		},
	}
	return openHostsFn(ctx, s.targets, opts)
}

func (s settings) layout() release.Layout {
	return release.Layout{
		ReleasesDir: s.cfg.Remote.ReleasesDir,
		CurrentLink: s.cfg.Remote.CurrentLink,
		TmpDir:      s.cfg.Remote.TmpDir,
	}
}

func (s settings) packer() *archive.Packer {
	p := archive.NewPacker(s.log, s.cfg.PadTimestamps)
	p.Runner = localRunnerFn()
	return p
}

func (s settings) pruner() *retention.Pruner {
	return retention.New(s.cfg.VersionsDir, s.cfg.Remote.ReleasesDir, s.log)
}

func (s settings) deployer() *deploy.Deployer {
	return &deploy.Deployer{
		Packer:      s.packer(),
		Installer:   release.NewInstaller(s.layout(), s.cfg.Source, s.log),
		Pruner:      s.pruner(),
		SourceDir:   s.cfg.Source,
		VersionsDir: s.cfg.VersionsDir,
		Log:         s.log,
	}
}

func renderHostResults(w io.Writer, results []deploy.HostResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "HOST\tRELEASE\tSTATUS")
	for _, r := range results {
		status := "deployed"
		if r.Err != nil {
			status = failure.KindOf(r.Err).String() + " failed"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Host, r.Release.Name, status)
	}
	return tw.Flush()
}

func printDryRunInstall(w io.Writer, s settings, archiveName string) {
	l := s.layout()
	for _, t := range s.targets {
		fmt.Fprintf(w, "would install %s on %s into %s and link %s\n", archiveName, t, l.ReleasePath(archiveName), l.CurrentLink)
	}
}
