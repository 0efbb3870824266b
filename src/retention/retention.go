// Package retention deletes archives and releases outside the retention
// window.
package retention

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"

	"static-deploy/src/failure"
	"static-deploy/src/logging"
	"static-deploy/src/remote"
)

var releasePattern = regexp.MustCompile(`web_static_\d{14}`)

// Effective converts a requested keep count into the number of items that
// survive. Negative counts disable pruning. Zero keeps the newest item and
// any positive N keeps N+1, which is what existing deployments were tuned
// against.
func Effective(n int) (count int, ok bool) {
	switch {
	case n < 0:
		return 0, false
	case n == 0:
		return 1, true
	default:
		return n + 1, true
	}
}

// Plan splits names, newest first, into the ones kept and deleted.
type Plan struct {
	Host   string
	Keep   []string
	Delete []string
}

func split(names []string, count int) Plan {
	if len(names) <= count {
		return Plan{Keep: names}
	}
	return Plan{Keep: names[:count], Delete: names[count:]}
}

// Pruner prunes the local versions directory and remote release roots.
type Pruner struct {
	VersionsDir string
	ReleasesDir string
	Log         logging.Logger
}

// New returns a Pruner for the given local and remote directories.
func New(versionsDir, releasesDir string, log logging.Logger) *Pruner {
	return &Pruner{VersionsDir: versionsDir, ReleasesDir: releasesDir, Log: log}
}

// PlanLocal lists the versions directory in descending name order and marks
// everything past the effective count for deletion.
func (p *Pruner) PlanLocal(n int) (Plan, error) {
	count, ok := Effective(n)
	if !ok {
		return Plan{}, nil
	}
	entries, err := os.ReadDir(p.VersionsDir)
	if err != nil {
		return Plan{}, failure.New(failure.Prune, "", "list", fmt.Errorf("reading versions dir: %w", err))
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return split(names, count), nil
}

// PruneLocal deletes the archives PlanLocal selects. Individual unlink
// failures are logged and skipped.
func (p *Pruner) PruneLocal(n int) (Plan, error) {
	plan, err := p.PlanLocal(n)
	if err != nil {
		return plan, err
	}
	for _, name := range plan.Delete {
		full := filepath.Join(p.VersionsDir, name)
		if err := os.Remove(full); err != nil {
			p.log().Warn("retention: remove %s: %v", full, err)
			continue
		}
		p.log().Info("retention: removed archive %s", full)
	}
	return plan, nil
}

// PlanRemote lists the release root on ex, newest first by mtime, and marks
// releases past the effective count for deletion. Only names of the form
// web_static_<14 digits> are considered.
func (p *Pruner) PlanRemote(ctx context.Context, ex remote.Executor, n int) (Plan, error) {
	count, ok := Effective(n)
	if !ok {
		return Plan{Host: ex.Host()}, nil
	}
	out, err := ex.Run(ctx, fmt.Sprintf("ls -1t %s | grep web_static", remote.Quote(p.ReleasesDir)))
	if err != nil && out == "" {
		// grep exits 1 when nothing matches
		p.log().Debug("[%s] retention: no releases listed: %v", ex.Host(), err)
		return Plan{Host: ex.Host()}, nil
	}
	plan := split(releasePattern.FindAllString(out, -1), count)
	plan.Host = ex.Host()
	return plan, nil
}

// PruneRemote deletes the releases PlanRemote selects on ex.
func (p *Pruner) PruneRemote(ctx context.Context, ex remote.Executor, n int) (Plan, error) {
	plan, err := p.PlanRemote(ctx, ex, n)
	if err != nil {
		return plan, err
	}
	var firstErr error
	for _, name := range plan.Delete {
		dir := path.Join(p.ReleasesDir, name)
		if _, err := ex.Run(ctx, "rm -rf "+remote.Quote(dir)); err != nil {
			p.log().Warn("[%s] retention: remove %s: %v", ex.Host(), dir, err)
			if firstErr == nil {
				firstErr = failure.New(failure.Prune, ex.Host(), "rm", err)
			}
			continue
		}
		p.log().Info("[%s] retention: removed release %s", ex.Host(), dir)
	}
	return plan, firstErr
}

// Result summarises one Prune call.
type Result struct {
	Local  Plan
	Remote []Plan
	Errors []error
}

// Prune applies the retention window locally once and then on every host.
// It never stops early; failures are collected in Result.Errors.
func (p *Pruner) Prune(ctx context.Context, hosts []remote.Executor, n int) Result {
	var res Result
	if _, ok := Effective(n); !ok {
		p.log().Debug("retention: negative keep count %d, nothing to do", n)
		return res
	}
	local, err := p.PruneLocal(n)
	if err != nil {
		p.log().Warn("retention: local: %v", err)
		res.Errors = append(res.Errors, err)
	}
	res.Local = local
	for _, ex := range hosts {
		plan, err := p.PruneRemote(ctx, ex, n)
		if err != nil {
			res.Errors = append(res.Errors, err)
		}
		res.Remote = append(res.Remote, plan)
	}
	return res
}

func (p *Pruner) log() logging.Logger {
	if p.Log == nil {
		return logging.Nop{}
	}
	return p.Log
}
