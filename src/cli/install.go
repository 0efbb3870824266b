package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"static-deploy/src/deploy"
	"static-deploy/src/failure"
	"static-deploy/src/remote"
)

func newInstallCmd(stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "install ARCHIVE",
		Short: "Release an existing archive on every host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			if err := s.requireHosts(); err != nil {
				return err
			}
			archivePath := args[0]
			if err := statArchive(archivePath); err != nil {
				return err
			}
			if getSafetyOptions(cmd).DryRun {
				printDryRunInstall(stdout, s, filepath.Base(archivePath))
				return nil
			}

			ctx := commandContext(cmd)
			hosts, err := s.openHosts(ctx, stderr)
			if err != nil {
				return err
			}
			defer remote.CloseAll(hosts)

			results := s.deployer().InstallAll(ctx, archivePath, hosts)
			if err := renderHostResults(stdout, results); err != nil {
				return err
			}
			return deploy.Report{Hosts: results}.Err()
		},
	}
}

// statArchive fails fast, before any host is contacted, when the archive
// is missing.
func statArchive(p string) error {
	if _, err := os.Stat(p); err != nil {
		return failure.New(failure.MissingArchive, "", "stat", err)
	}
	return nil
}
