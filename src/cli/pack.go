package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"static-deploy/src/archive"
)

func newPackCmd(stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "pack",
		Short: "Archive the source directory into the versions directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			if getSafetyOptions(cmd).DryRun {
				fmt.Fprintf(stdout, "would pack %s into %s/%s\n", s.cfg.Source, s.cfg.VersionsDir, archive.Name(time.Now(), s.cfg.PadTimestamps))
				return nil
			}
			a, err := s.packer().Pack(commandContext(cmd), s.cfg.Source, s.cfg.VersionsDir)
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, a.Path)
			return nil
		},
	}
}
