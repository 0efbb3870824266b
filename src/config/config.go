package config

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
)

// DefaultFile is read when --config is not given and the file exists.
const DefaultFile = "static-deploy.yaml"

type Config struct {
	Source        string         `yaml:"source"`
	VersionsDir   string         `yaml:"versionsDir"`
	Keep          int            `yaml:"keep"`
	PadTimestamps bool           `yaml:"padTimestamps"`
	Hosts         []string       `yaml:"hosts"`
	Remote        RemoteConfig   `yaml:"remote"`
	SSH           SSHConfig      `yaml:"ssh"`
	Schedule      ScheduleConfig `yaml:"schedule"`
	Logging       LoggingConfig  `yaml:"logging"`
}

type RemoteConfig struct {
	ReleasesDir string `yaml:"releasesDir"`
	CurrentLink string `yaml:"currentLink"`
	TmpDir      string `yaml:"tmpDir"`
}

type SSHConfig struct {
	User                  string        `yaml:"user"`
	Port                  int           `yaml:"port"`
	IdentityFile          string        `yaml:"identityFile"`
	KnownHostsFile        string        `yaml:"knownHostsFile"`
	InsecureIgnoreHostKey bool          `yaml:"insecureIgnoreHostKey"`
	UseAgent              bool          `yaml:"useAgent"`
	Timeout               time.Duration `yaml:"timeout"`
}

type ScheduleConfig struct {
	Cron string `yaml:"cron"` // standard 5-field expression or @every/@daily descriptors
}

type LoggingConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn", "error"
	Color bool   `yaml:"color"`
}

// Default returns the layout the web_static deployment has always used.
func Default() Config {
	return Config{
		Source:      "web_static",
		VersionsDir: "versions",
		Keep:        2,
		Remote: RemoteConfig{
			ReleasesDir: "/data/web_static/releases",
			CurrentLink: "/data/web_static/current",
			TmpDir:      "/tmp",
		},
		SSH: SSHConfig{
			User:           "ubuntu",
			Port:           22,
			IdentityFile:   "~/.ssh/id_rsa",
			KnownHostsFile: "~/.ssh/known_hosts",
			UseAgent:       true,
			Timeout:        15 * time.Second,
		},
		Logging: LoggingConfig{Level: "info", Color: true},
	}
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Source) == "" {
		return errors.New("config: source must not be empty")
	}
	if strings.TrimSpace(c.VersionsDir) == "" {
		return errors.New("config: versionsDir must not be empty")
	}
	for name, p := range map[string]string{
		"remote.releasesDir": c.Remote.ReleasesDir,
		"remote.currentLink": c.Remote.CurrentLink,
		"remote.tmpDir":      c.Remote.TmpDir,
	} {
		if !path.IsAbs(p) {
			return fmt.Errorf("config: %s must be an absolute path, got %q", name, p)
		}
	}
	if c.SSH.Port < 0 || c.SSH.Port > 65535 {
		return fmt.Errorf("config: ssh.port out of range: %d", c.SSH.Port)
	}
	return nil
}
