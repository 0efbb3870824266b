package cli

import (
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"static-deploy/src/remote"
	"static-deploy/src/retention"
	"static-deploy/src/safety"
)

func newCleanCmd(stdout, stderr io.Writer) *cobra.Command {
	var keep int
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete local archives and remote releases outside the retention window",
		Long: "Delete local archives and remote releases outside the retention window.\n" +
			"--keep 0 keeps the newest one; --keep N keeps N+1; a negative value does nothing.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			if _, ok := retention.Effective(keep); !ok {
				fmt.Fprintf(stdout, "keep %d is negative, nothing to prune\n", keep)
				return nil
			}

			ctx := commandContext(cmd)
			var hosts []remote.Executor
			if len(s.targets) > 0 {
				hosts, err = s.openHosts(ctx, stderr)
				if err != nil {
					return err
				}
				defer remote.CloseAll(hosts)
			} else {
				s.log.Warn("no hosts configured, pruning local archives only")
			}

			p := s.pruner()
			var plans []retention.Plan
			local, err := p.PlanLocal(keep)
			if err != nil {
				s.log.Warn("%v", err)
			}
			plans = append(plans, local)
			for _, ex := range hosts {
				plan, err := p.PlanRemote(ctx, ex, keep)
				if err != nil {
					return err
				}
				plans = append(plans, plan)
			}

			total := renderPrunePreview(stdout, plans, s.cfg.VersionsDir, s.cfg.Remote.ReleasesDir)
			opts := getSafetyOptions(cmd)
			if opts.DryRun || total == 0 {
				return nil
			}
			ok, err := safety.Confirm(opts, cmd.InOrStdin(), stdout, fmt.Sprintf("Delete %d archives and releases?", total))
			if err != nil || !ok {
				return err
			}
			res := p.Prune(ctx, hosts, keep)
			fmt.Fprintf(stdout, "Deleted %d items\n", countDeleted(res))
			return errors.Join(res.Errors...)
		},
	}
	cmd.Flags().IntVar(&keep, "keep", 0, "Retention count")
	return cmd
}

// renderPrunePreview prints one row per doomed archive or release and
// returns how many there are. The local plan has an empty Host.
func renderPrunePreview(w io.Writer, plans []retention.Plan, versionsDir, releasesDir string) int {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "HOST\tPATH\tACTION")
	n := 0
	for _, plan := range plans {
		for _, name := range plan.Delete {
			host, p := plan.Host, path.Join(releasesDir, name)
			if host == "" {
				host, p = "local", filepath.Join(versionsDir, name)
			}
			fmt.Fprintf(tw, "%s\t%s\tdelete\n", host, p)
			n++
		}
	}
	_ = tw.Flush()
	return n
}

// countDeleted is an upper bound: failed local unlinks are only logged.
func countDeleted(res retention.Result) int {
	n := len(res.Local.Delete)
	for _, p := range res.Remote {
		n += len(p.Delete)
	}
	return n
}
