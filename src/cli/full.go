package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"static-deploy/src/archive"
	"static-deploy/src/deploy"
	"static-deploy/src/remote"
)

func newFullCmd(stdout, stderr io.Writer) *cobra.Command {
	var keep int
	cmd := &cobra.Command{
		Use:   "full",
		Short: "Deploy to every host, then prune old archives and releases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			if err := s.requireHosts(); err != nil {
				return err
			}
			if !cmd.Flags().Changed("keep") {
				keep = s.cfg.Keep
			}
			if getSafetyOptions(cmd).DryRun {
				name := archive.Name(time.Now(), s.cfg.PadTimestamps)
				fmt.Fprintf(stdout, "would pack %s into %s/%s\n", s.cfg.Source, s.cfg.VersionsDir, name)
				printDryRunInstall(stdout, s, name)
				fmt.Fprintf(stdout, "would prune keeping %d\n", keep)
				return nil
			}
			rep, err := runFull(commandContext(cmd), s, keep, stderr)
			if err != nil {
				return err
			}
			if rep.PackErr == nil {
				if err := renderHostResults(stdout, rep.Hosts); err != nil {
					return err
				}
			}
			if !rep.OK() {
				return rep.Err()
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&keep, "keep", deploy.DefaultKeep, "Retention count applied after deploying")
	return cmd
}

// runFull connects, deploys and prunes, closing the connections afterwards.
func runFull(ctx context.Context, s settings, keep int, progress io.Writer) (deploy.Report, error) {
	hosts, err := s.openHosts(ctx, progress)
	if err != nil {
		return deploy.Report{}, err
	}
	defer remote.CloseAll(hosts)
	return s.deployer().DeployAndClean(ctx, hosts, keep), nil
}
