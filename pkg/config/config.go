// Package config loads the troubleshooter's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable holding an explicit config path.
const EnvPath = "TSG_CONFIG"

// DefaultPath is read when present and TSG_CONFIG is unset.
const DefaultPath = "/etc/opt/microsoft/omsagent/tsg/tsg.yaml"

type AgentCfg struct {
	Binary         string   `yaml:"binary"`          // omsagent executable
	AdminConf      string   `yaml:"admin_conf"`      // omsadmin.conf with WORKSPACE_ID etc.
	ConfRoot       string   `yaml:"conf_root"`       // <conf_root>/<workspace>/conf/omsagent.d
	ProcessName    string   `yaml:"process_name"`    // process comm name
	ProcRoot       string   `yaml:"proc_root"`       // procfs mount point
	RestartCommand []string `yaml:"restart_command"` // run when the user asks to restart the agent
}

type InstallCfg struct {
	MinVersion      string     `yaml:"min_version"`      // oldest supported agent version
	VersionCommands [][]string `yaml:"version_commands"` // tried in order until one succeeds
}

type ConnectionCfg struct {
	Port           int `yaml:"port"`
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

type ResourcesCfg struct {
	MaxCPUPercent    float64 `yaml:"max_cpu_percent"`
	MaxMemoryPercent float64 `yaml:"max_memory_percent"`
	ClockTicks       int     `yaml:"clock_ticks"` // USER_HZ used by /proc/<pid>/stat
}

type SyslogCfg struct {
	Port    int      `yaml:"port"`    // UDP port the agent listens on for syslog
	Configs []string `yaml:"configs"` // rsyslog / syslog-ng files searched for forwarding rules
}

type LogCollectorCfg struct {
	Script  string `yaml:"script"`
	Elevate *bool  `yaml:"elevate"` // prefix sudo (default true)
}

type Config struct {
	Agent        AgentCfg        `yaml:"agent"`
	Install      InstallCfg      `yaml:"install"`
	Connection   ConnectionCfg   `yaml:"connection"`
	Resources    ResourcesCfg    `yaml:"resources"`
	Syslog       SyslogCfg       `yaml:"syslog"`
	LogCollector LogCollectorCfg `yaml:"log_collector"`
}

var (
	errInvalidPath    = errors.New("path must be absolute")
	errEmptyCommand   = errors.New("command must not be empty")
	errInvalidPort    = errors.New("port must be between 1 and 65535")
	errInvalidPercent = errors.New("percent threshold must be between 0 and 100")
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	if err := cfg.validateAndDefault(); err != nil {
		// defaults are constants; this only fires on a programming error
		panic(err)
	}
	return cfg
}

// Load reads and validates the config file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path) //nolint:gosec // intentional: operator-supplied config path
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = f.Close() }()

	cfg, err := decode(f)
	if err != nil {
		return nil, err
	}
	if err := cfg.validateAndDefault(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnv loads the file named by TSG_CONFIG, or DefaultPath when it
// exists, or falls back to Default. It also returns the path it read.
func LoadFromEnv() (*Config, string, error) {
	if path := os.Getenv(EnvPath); path != "" {
		cfg, err := Load(path)
		return cfg, path, err
	}
	if _, err := os.Stat(DefaultPath); err == nil {
		cfg, err := Load(DefaultPath)
		return cfg, DefaultPath, err
	}
	return Default(), "", nil
}

func decode(r io.Reader) (*Config, error) {
	cfg := &Config{}
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return cfg, nil
}

func (c *Config) validateAndDefault() error {
	if c.Agent.Binary == "" {
		c.Agent.Binary = "/opt/microsoft/omsagent/bin/omsagent"
	}
	if c.Agent.AdminConf == "" {
		c.Agent.AdminConf = "/etc/opt/microsoft/omsagent/conf/omsadmin.conf"
	}
	if c.Agent.ConfRoot == "" {
		c.Agent.ConfRoot = "/etc/opt/microsoft/omsagent"
	}
	if c.Agent.ProcessName == "" {
		c.Agent.ProcessName = "omsagent"
	}
	if c.Agent.ProcRoot == "" {
		c.Agent.ProcRoot = "/proc"
	}
	if len(c.Agent.RestartCommand) == 0 {
		c.Agent.RestartCommand = []string{"/opt/microsoft/omsagent/bin/service_control", "restart"}
	}

	if c.Install.MinVersion == "" {
		c.Install.MinVersion = "1.13.0"
	}
	if len(c.Install.VersionCommands) == 0 {
		c.Install.VersionCommands = [][]string{
			{"dpkg-query", "-W", "-f=${Version}", "omsagent"},
			{"rpm", "-q", "--qf", "%{VERSION}-%{RELEASE}", "omsagent"},
		}
	}

	if c.Connection.Port == 0 {
		c.Connection.Port = 443
	}
	if c.Connection.TimeoutSeconds <= 0 {
		c.Connection.TimeoutSeconds = 5
	}

	if c.Resources.MaxCPUPercent == 0 {
		c.Resources.MaxCPUPercent = 50
	}
	if c.Resources.MaxMemoryPercent == 0 {
		c.Resources.MaxMemoryPercent = 30
	}
	if c.Resources.ClockTicks <= 0 {
		c.Resources.ClockTicks = 100
	}

	if c.Syslog.Port == 0 {
		c.Syslog.Port = 25224
	}
	if len(c.Syslog.Configs) == 0 {
		c.Syslog.Configs = []string{
			"/etc/rsyslog.d/95-omsagent.conf",
			"/etc/rsyslog.conf",
			"/etc/syslog-ng/syslog-ng.conf",
		}
	}

	if c.LogCollector.Script == "" {
		c.LogCollector.Script = "/opt/microsoft/omsagent/plugin/troubleshooter/tsg_code/log_collector/omslinux_agentlog.sh"
	}
	if c.LogCollector.Elevate == nil {
		elevate := true
		c.LogCollector.Elevate = &elevate
	}

	return c.validate()
}

func (c *Config) validate() error {
	paths := []struct {
		name  string
		value *string
	}{
		{"agent.binary", &c.Agent.Binary},
		{"agent.admin_conf", &c.Agent.AdminConf},
		{"agent.conf_root", &c.Agent.ConfRoot},
		{"agent.proc_root", &c.Agent.ProcRoot},
		{"log_collector.script", &c.LogCollector.Script},
	}
	for _, p := range paths {
		cp, err := cleanAbsolute(*p.value)
		if err != nil {
			return fmt.Errorf("%s: %w", p.name, err)
		}
		*p.value = cp
	}
	for i, cfgPath := range c.Syslog.Configs {
		cp, err := cleanAbsolute(cfgPath)
		if err != nil {
			return fmt.Errorf("syslog.configs[%d]: %w", i, err)
		}
		c.Syslog.Configs[i] = cp
	}

	for i, cmd := range c.Install.VersionCommands {
		if len(cmd) == 0 || cmd[0] == "" {
			return fmt.Errorf("install.version_commands[%d]: %w", i, errEmptyCommand)
		}
	}
	if c.Agent.RestartCommand[0] == "" {
		return fmt.Errorf("agent.restart_command: %w", errEmptyCommand)
	}

	for name, port := range map[string]int{"connection.port": c.Connection.Port, "syslog.port": c.Syslog.Port} {
		if port < 1 || port > 65535 {
			return fmt.Errorf("%s %d: %w", name, port, errInvalidPort)
		}
	}

	for name, pct := range map[string]float64{
		"resources.max_cpu_percent":    c.Resources.MaxCPUPercent,
		"resources.max_memory_percent": c.Resources.MaxMemoryPercent,
	} {
		if pct <= 0 || pct > 100 {
			return fmt.Errorf("%s %g: %w", name, pct, errInvalidPercent)
		}
	}

	return nil
}

func cleanAbsolute(p string) (string, error) {
	if p == "" {
		return "", errInvalidPath
	}
	cp := filepath.Clean(p)
	if !filepath.IsAbs(cp) {
		return "", fmt.Errorf("%w: %s", errInvalidPath, p)
	}
	return cp, nil
}

// ConnectTimeout returns the per-endpoint dial timeout.
func (c *Config) ConnectTimeout() time.Duration {
	return time.Duration(c.Connection.TimeoutSeconds) * time.Second
}

// Elevate reports whether the log collector runs under sudo.
func (c *Config) Elevate() bool {
	return c.LogCollector.Elevate == nil || *c.LogCollector.Elevate
}
