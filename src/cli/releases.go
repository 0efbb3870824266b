package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"static-deploy/src/remote"
)

// releaseEntry is one release directory on one host.
type releaseEntry struct {
	Host    string `json:"host"`
	Name    string `json:"name"`
	Current bool   `json:"current"`
}

func newReleasesCmd(stdout, stderr io.Writer) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "releases",
		Short: "List releases on every host, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "" && output != "table" && output != "json" {
				return fmt.Errorf("unsupported --output: %s", output)
			}
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			ctx := commandContext(cmd)
			hosts, err := s.openHosts(ctx, stderr)
			if err != nil {
				return err
			}
			defer remote.CloseAll(hosts)

			l := s.layout()
			var entries []releaseEntry
			for _, ex := range hosts {
				out, err := ex.Run(ctx, "ls -1t "+remote.Quote(l.ReleasesDir))
				if err != nil {
					s.log.Warn("[%s] listing %s: %v", ex.Host(), l.ReleasesDir, err)
					continue
				}
				// a missing link is not an error here
				cur, _ := ex.Run(ctx, "readlink "+remote.Quote(l.CurrentLink))
				current := path.Base(strings.TrimSpace(cur))
				for _, name := range strings.Fields(out) {
					entries = append(entries, releaseEntry{
						Host:    ex.Host(),
						Name:    name,
						Current: strings.TrimSpace(cur) != "" && name == current,
					})
				}
			}

			if output == "json" {
				enc := json.NewEncoder(stdout)
				enc.SetIndent("", "  ")
				if entries == nil {
					entries = []releaseEntry{}
				}
				return enc.Encode(entries)
			}
			tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "HOST\tRELEASE\tCURRENT")
			for _, e := range entries {
				mark := ""
				if e.Current {
					mark = "*"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Host, e.Name, mark)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table|json")
	return cmd
}
