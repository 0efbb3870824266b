// Package logging provides the leveled logger used across static-deploy.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Logger is a printf-style leveled logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Level orders log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a config string to a Level. Empty means info.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Console writes one line per message to an io.Writer.
type Console struct {
	mu    sync.Mutex
	out   io.Writer
	level Level
	now   func() time.Time
	tags  map[Level]string
}

// NewConsole returns a Console logging at level and above. Level tags are
// colored only when out is a terminal and useColor is true.
func NewConsole(out io.Writer, level Level, useColor bool) *Console {
	if useColor && !isTerminal(out) {
		useColor = false
	}
	c := &Console{out: out, level: level, now: time.Now, tags: map[Level]string{}}
	c.tags[LevelDebug] = tag("DEBUG", color.FgHiBlack, useColor)
	c.tags[LevelInfo] = tag("INFO", color.FgCyan, useColor)
	c.tags[LevelWarn] = tag("WARN", color.FgYellow, useColor)
	c.tags[LevelError] = tag("ERROR", color.FgRed, useColor)
	return c
}

func tag(name string, attr color.Attribute, useColor bool) string {
	c := color.New(attr, color.Bold)
	if useColor {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(name)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (c *Console) Debug(msg string, args ...any) { c.log(LevelDebug, msg, args) }
func (c *Console) Info(msg string, args ...any)  { c.log(LevelInfo, msg, args) }
func (c *Console) Warn(msg string, args ...any)  { c.log(LevelWarn, msg, args) }
func (c *Console) Error(msg string, args ...any) { c.log(LevelError, msg, args) }

func (c *Console) log(level Level, msg string, args []any) {
	if c == nil || level < c.level {
		return
	}
	line := strings.TrimRight(fmt.Sprintf(msg, args...), "\n")
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "%s %s: %s\n", c.now().Format("15:04:05"), c.tags[level], line)
}

// Nop discards everything.
type Nop struct{}

func (Nop) Debug(string, ...any) {}
func (Nop) Info(string, ...any)  {}
func (Nop) Warn(string, ...any)  {}
func (Nop) Error(string, ...any) {}
