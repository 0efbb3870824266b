package deploy_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"static-deploy/src/archive"
	"static-deploy/src/deploy"
	"static-deploy/src/failure"
	"static-deploy/src/localexec"
	"static-deploy/src/release"
	"static-deploy/src/remote"
	"static-deploy/src/remote/remotetest"
	"static-deploy/src/retention"
)

type countingPacker struct {
	calls int
	inner deploy.Packer
}

func (c *countingPacker) Pack(ctx context.Context, src, out string) (archive.Archive, error) {
	c.calls++
	return c.inner.Pack(ctx, src, out)
}

type recordingPruner struct {
	keep  []int
	hosts [][]string
}

func (r *recordingPruner) Prune(_ context.Context, hosts []remote.Executor, n int) retention.Result {
	r.keep = append(r.keep, n)
	var names []string
	for _, h := range hosts {
		names = append(names, h.Host())
	}
	r.hosts = append(r.hosts, names)
	return retention.Result{}
}

func fakeTar() localexec.Runner {
	return localexec.Func(func(_ context.Context, _ string, args ...string) (string, error) {
		return "", os.WriteFile(args[1], []byte("tgz"), 0o644)
	})
}

func newDeployer(t *testing.T, runner localexec.Runner, pruner deploy.Pruner) (*deploy.Deployer, *countingPacker) {
	t.Helper()
	root := t.TempDir()
	packer := &countingPacker{inner: &archive.Packer{
		Runner: runner,
		Now:    func() time.Time { return time.Date(2024, 11, 15, 21, 45, 59, 0, time.Local) },
	}}
	return &deploy.Deployer{
		Packer:      packer,
		Installer:   release.NewInstaller(release.DefaultLayout(), "web_static", nil),
		Pruner:      pruner,
		SourceDir:   filepath.Join(root, "web_static"),
		VersionsDir: filepath.Join(root, "versions"),
	}, packer
}

func TestDeployAndClean_PacksOnceForAllHosts(t *testing.T) {
	pruner := &recordingPruner{}
	d, packer := newDeployer(t, fakeTar(), pruner)
	a, b := remotetest.New("34.138.32.248"), remotetest.New("3.226.74.205")

	rep := d.DeployAndClean(context.Background(), []remote.Executor{a, b}, deploy.DefaultKeep)
	if !rep.OK() || rep.Err() != nil {
		t.Fatalf("expected success, got %v", rep.Err())
	}
	if packer.calls != 1 {
		t.Fatalf("expected a single pack, got %d", packer.calls)
	}
	for _, h := range []*remotetest.Recorder{a, b} {
		cmds := h.Commands()
		if len(cmds) == 0 || !strings.HasPrefix(cmds[len(cmds)-1], "ln -s /data/web_static/releases/web_static_20241115214559/") {
			t.Fatalf("host %s did not finish with link creation: %v", h.Host(), cmds)
		}
	}
	if len(pruner.keep) != 1 || pruner.keep[0] != 2 {
		t.Fatalf("expected prune with keep=2, got %v", pruner.keep)
	}
	if strings.Join(pruner.hosts[0], ",") != "34.138.32.248,3.226.74.205" {
		t.Fatalf("expected prune against all hosts, got %v", pruner.hosts)
	}
	if rep.Prune == nil {
		t.Fatalf("expected prune result in report")
	}
}

func TestDeploy_PackFailureContactsNoHost(t *testing.T) {
	failing := localexec.Func(func(context.Context, string, ...string) (string, error) {
		return "", errors.New("tar: web_static: Cannot stat: No such file or directory")
	})
	pruner := &recordingPruner{}
	d, _ := newDeployer(t, failing, pruner)
	host := remotetest.New("web-01")

	rep := d.DeployAndClean(context.Background(), []remote.Executor{host}, 2)
	if rep.OK() {
		t.Fatalf("expected failure")
	}
	if !failure.Is(rep.Err(), failure.Pack) {
		t.Fatalf("expected pack failure, got %v", rep.Err())
	}
	if calls := host.Calls(); len(calls) != 0 {
		t.Fatalf("expected no install calls after pack failure, got %v", calls)
	}
	if len(pruner.keep) != 1 {
		t.Fatalf("pruning should still run after a failed deploy")
	}
}

func TestDeploy_OneHostFailsOthersContinue(t *testing.T) {
	d, _ := newDeployer(t, fakeTar(), &recordingPruner{})
	bad := remotetest.New("web-bad")
	bad.PutErr = errors.New("connection refused")
	good := remotetest.New("web-good")

	rep := d.Deploy(context.Background(), []remote.Executor{bad, good})
	if rep.OK() {
		t.Fatalf("expected overall failure")
	}
	if !failure.Is(rep.Hosts[0].Err, failure.Transfer) {
		t.Fatalf("expected transfer failure on first host, got %v", rep.Hosts[0].Err)
	}
	if rep.Hosts[1].Err != nil || rep.Hosts[1].Release.Name != "web_static_20241115214559" {
		t.Fatalf("expected second host to install, got %+v", rep.Hosts[1])
	}
}

func TestReport_OKWithoutPruneFailures(t *testing.T) {
	rep := deploy.Report{
		Hosts: []deploy.HostResult{{Host: "web-01"}},
		Prune: &retention.Result{Errors: []error{errors.New("rm: permission denied")}},
	}
	if !rep.OK() {
		t.Fatalf("prune failures must not fail the report")
	}
}
