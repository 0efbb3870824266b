package safety

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirm asks before a destructive action such as deleting releases.
// Dry runs always decline without prompting; Yes or Force accept without
// prompting. Anything but "y" or "yes" declines.
func Confirm(opts Options, in io.Reader, out io.Writer, question string) (bool, error) {
	if opts.DryRun {
		return false, nil
	}
	if opts.Yes || opts.Force {
		return true, nil
	}
	if out != nil {
		fmt.Fprintf(out, "%s [y/N]: ", strings.TrimSpace(question))
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
