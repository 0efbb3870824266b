package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"static-deploy/src/config"
	"static-deploy/src/logging"
	"static-deploy/src/safety"
	"static-deploy/src/target"
)

// addGlobalFlags adds persistent flags shared by every subcommand.
func addGlobalFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.String("config", "", "Config file (default ./"+config.DefaultFile+" when present)")
	pf.StringArray("host", nil, "Target host, repeatable (e.g., 10.0.0.5, ssh:ubuntu@web-01:22, incus:prod/web, local)")
	pf.String("source", "", "Directory to pack (overrides config)")
	pf.String("versions-dir", "", "Local archive directory (overrides config)")
	pf.Bool("dry-run", false, "Show planned actions without making changes")
	pf.BoolP("yes", "y", false, "Assume 'yes' to prompts and run non-interactively")
	pf.Bool("force", false, "Skip confirmation prompts")
	pf.BoolP("verbose", "v", false, "Log every remote command")
}

// getSafetyOptions reads global flags into a safety.Options struct.
func getSafetyOptions(cmd *cobra.Command) safety.Options {
	dry, _ := cmd.Root().PersistentFlags().GetBool("dry-run")
	yes, _ := cmd.Root().PersistentFlags().GetBool("yes")
	force, _ := cmd.Root().PersistentFlags().GetBool("force")
	return safety.Options{DryRun: dry, Yes: yes, Force: force}
}

// settings is the merged view of the config file and flags.
type settings struct {
	cfg     config.Config
	log     logging.Logger
	targets []target.Target
}

func loadSettings(cmd *cobra.Command) (settings, error) {
	flags := cmd.Root().PersistentFlags()
	path, _ := flags.GetString("config")
	optional := path == ""
	if optional {
		path = config.DefaultFile
	}
	cfg, err := config.Load(path, optional)
	if err != nil {
		return settings{}, err
	}
	if src, _ := flags.GetString("source"); src != "" {
		cfg.Source = src
	}
	if dir, _ := flags.GetString("versions-dir"); dir != "" {
		cfg.VersionsDir = dir
	}
	if hosts, _ := flags.GetStringArray("host"); len(hosts) > 0 {
		cfg.Hosts = hosts
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return settings{}, fmt.Errorf("config: logging.level: %w", err)
	}
	if verbose, _ := flags.GetBool("verbose"); verbose {
		level = logging.LevelDebug
	}
	s := settings{cfg: cfg, log: logging.NewConsole(cmd.ErrOrStderr(), level, cfg.Logging.Color)}

	for _, h := range cfg.Hosts {
		t, err := target.Parse(h)
		if err != nil {
			return settings{}, err
		}
		s.targets = append(s.targets, t)
	}
	return s, nil
}

func (s settings) requireHosts() error {
	if len(s.targets) == 0 {
		return errors.New("no hosts configured; pass --host or set hosts in " + config.DefaultFile)
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
