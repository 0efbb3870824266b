package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"static-deploy/src/deploy"
	"static-deploy/src/logging"
)

func newScheduleCmd(stdout, stderr io.Writer) *cobra.Command {
	var (
		spec string
		keep int
	)
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run full deployments on a cron schedule until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			if spec == "" {
				spec = s.cfg.Schedule.Cron
			}
			if spec == "" {
				return errors.New("--cron is required (e.g., \"0 3 * * *\")")
			}
			if _, err := cron.ParseStandard(spec); err != nil {
				return fmt.Errorf("invalid --cron %q: %w", spec, err)
			}
			if err := s.requireHosts(); err != nil {
				return err
			}
			if !cmd.Flags().Changed("keep") {
				keep = s.cfg.Keep
			}

			ctx := commandContext(cmd)
			cl := cronLogger{log: s.log}
			c := cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))
			if _, err := c.AddFunc(spec, func() { runScheduled(ctx, s, keep, stderr) }); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "scheduled full deployment %q for %d hosts\n", spec, len(s.targets))
			c.Start()
			<-ctx.Done()
			<-c.Stop().Done()
			return nil
		},
	}
	cmd.Flags().StringVar(&spec, "cron", "", "Standard 5-field cron expression (default from config schedule.cron)")
	cmd.Flags().IntVar(&keep, "keep", deploy.DefaultKeep, "Retention count applied after each deployment")
	return cmd
}

func runScheduled(ctx context.Context, s settings, keep int, progress io.Writer) {
	if ctx.Err() != nil {
		return
	}
	rep, err := runFull(ctx, s, keep, progress)
	if err != nil {
		s.log.Error("scheduled deployment: %v", err)
		return
	}
	if !rep.OK() {
		s.log.Error("scheduled deployment failed: %v", rep.Err())
		return
	}
	s.log.Info("scheduled deployment of %s done", rep.Archive.Name)
}

// cronLogger adapts logging.Logger to cron's key/value logger.
type cronLogger struct {
	log logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug("cron: %s%s", msg, formatKV(keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error("cron: %s: %v%s", msg, err, formatKV(keysAndValues))
}

func formatKV(kv []any) string {
	var b strings.Builder
	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Fprintf(&b, " %v=%v", kv[i], kv[i+1])
	}
	return b.String()
}
