package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// NewRootCmd returns the root cobra command for the static-deploy CLI.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "static-deploy",
		Short:         "Pack a static site, release it on remote hosts, and prune old releases",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	addGlobalFlags(cmd)

	cmd.AddCommand(newVersionCmd(stdout))
	cmd.AddCommand(newPackCmd(stdout, stderr))
	cmd.AddCommand(newInstallCmd(stdout, stderr))
	cmd.AddCommand(newDeployCmd(stdout, stderr))
	cmd.AddCommand(newCleanCmd(stdout, stderr))
	cmd.AddCommand(newFullCmd(stdout, stderr))
	cmd.AddCommand(newReleasesCmd(stdout, stderr))
	cmd.AddCommand(newScheduleCmd(stdout, stderr))

	return cmd
}

// Execute runs the CLI with the process stdio. SIGINT and SIGTERM cancel
// the running command.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd(os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
