package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vertti/omsagent-tsg/pkg/agent"
	"github.com/vertti/omsagent-tsg/pkg/config"
	"github.com/vertti/omsagent-tsg/pkg/connectcheck"
	"github.com/vertti/omsagent-tsg/pkg/customlogcheck"
	"github.com/vertti/omsagent-tsg/pkg/dispatch"
	"github.com/vertti/omsagent-tsg/pkg/exec"
	"github.com/vertti/omsagent-tsg/pkg/heartbeatcheck"
	"github.com/vertti/omsagent-tsg/pkg/installcheck"
	"github.com/vertti/omsagent-tsg/pkg/logcollect"
	"github.com/vertti/omsagent-tsg/pkg/logging"
	"github.com/vertti/omsagent-tsg/pkg/privilege"
	"github.com/vertti/omsagent-tsg/pkg/prompt"
	"github.com/vertti/omsagent-tsg/pkg/resourcecheck"
	"github.com/vertti/omsagent-tsg/pkg/syslogcheck"
)

// runTSG runs one troubleshooting session. Problems are reported on the
// console; the process exits 0 regardless.
func runTSG(cmd *cobra.Command, args []string) error {
	stderr := cmd.ErrOrStderr()

	logger, err := logging.FromEnv()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "tsg: %v\n", err)
		logger = zap.NewNop()
	}
	defer func() { _ = logger.Sync() }()

	cfg, path, err := config.LoadFromEnv()
	if err != nil {
		logger.Error("failed to load config", zap.String("path", path), zap.Error(err))
		_, _ = fmt.Fprintf(stderr, "tsg: %v\n", err)
		return nil
	}
	logger.Debug("config loaded", zap.String("path", path))

	d, err := newDispatcher(cfg, logger, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		_, _ = fmt.Fprintf(stderr, "tsg: %v\n", err)
		return nil
	}

	if err := d.Run(); err != nil {
		logger.Error("troubleshooter stopped", zap.Error(err))
		_, _ = fmt.Fprintf(stderr, "tsg: %v\n", err)
	}
	return nil
}

// newDispatcher wires the real check routines from cfg.
func newDispatcher(cfg *config.Config, logger *zap.Logger, in io.Reader, out io.Writer) (*dispatch.Dispatcher, error) {
	minVersion, err := semver.NewVersion(cfg.Install.MinVersion)
	if err != nil {
		return nil, fmt.Errorf("install.min_version %q: %w", cfg.Install.MinVersion, err)
	}

	asker := prompt.New(in, out)
	runner := &exec.RealRunner{Stdout: out, Stderr: os.Stderr}
	procs := &agent.ProcFS{Root: cfg.Agent.ProcRoot}

	checks := dispatch.Checks{
		Installation: &installcheck.Check{
			Binary:          cfg.Agent.Binary,
			AdminConf:       cfg.Agent.AdminConf,
			MinVersion:      minVersion,
			VersionCommands: cfg.Install.VersionCommands,
			Runner:          runner,
		},
		Connection: &connectcheck.Check{
			AdminConf: cfg.Agent.AdminConf,
			Port:      cfg.Connection.Port,
			Timeout:   cfg.ConnectTimeout(),
			Dialer:    &connectcheck.RealTCPDialer{},
		},
		Heartbeat: &heartbeatcheck.Check{
			ProcessName:    cfg.Agent.ProcessName,
			Procs:          procs,
			RestartCommand: cfg.Agent.RestartCommand,
			Runner:         runner,
		},
		HighCPUMemory: &resourcecheck.Check{
			ProcessName:      cfg.Agent.ProcessName,
			MaxCPUPercent:    cfg.Resources.MaxCPUPercent,
			MaxMemoryPercent: cfg.Resources.MaxMemoryPercent,
			Procs:            procs,
			Usage:            &resourcecheck.ProcUsage{Root: cfg.Agent.ProcRoot, ClockTicks: cfg.Resources.ClockTicks},
		},
		Syslog: &syslogcheck.Check{
			Configs: cfg.Syslog.Configs,
			Port:    cfg.Syslog.Port,
			UDPTable: []string{
				filepath.Join(cfg.Agent.ProcRoot, "net", "udp"),
				filepath.Join(cfg.Agent.ProcRoot, "net", "udp6"),
			},
		},
		CustomLogs: &customlogcheck.Check{
			AdminConf: cfg.Agent.AdminConf,
			ConfRoot:  cfg.Agent.ConfRoot,
		},
	}

	return &dispatch.Dispatcher{
		Out:       out,
		Asker:     asker,
		Privilege: &privilege.Check{Out: out},
		Checks:    checks,
		Collector: &logcollect.Collector{
			Asker:   asker,
			Out:     out,
			Runner:  runner,
			Script:  cfg.LogCollector.Script,
			Elevate: cfg.Elevate(),
			Logger:  logger,
		},
		Logger: logger,
	}, nil
}
