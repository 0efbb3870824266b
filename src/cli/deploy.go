package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"static-deploy/src/archive"
	"static-deploy/src/remote"
)

func newDeployCmd(stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "deploy",
		Short: "Pack once and release the archive on every host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			if err := s.requireHosts(); err != nil {
				return err
			}
			if getSafetyOptions(cmd).DryRun {
				name := archive.Name(time.Now(), s.cfg.PadTimestamps)
				fmt.Fprintf(stdout, "would pack %s into %s/%s\n", s.cfg.Source, s.cfg.VersionsDir, name)
				printDryRunInstall(stdout, s, name)
				return nil
			}

			ctx := commandContext(cmd)
			hosts, err := s.openHosts(ctx, stderr)
			if err != nil {
				return err
			}
			defer remote.CloseAll(hosts)

			rep := s.deployer().Deploy(ctx, hosts)
			if rep.PackErr != nil {
				return rep.PackErr
			}
			if err := renderHostResults(stdout, rep.Hosts); err != nil {
				return err
			}
			return rep.Err()
		},
	}
}
