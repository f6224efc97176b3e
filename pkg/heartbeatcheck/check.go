package heartbeatcheck

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vertti/omsagent-tsg/pkg/agent"
	"github.com/vertti/omsagent-tsg/pkg/check"
	"github.com/vertti/omsagent-tsg/pkg/exec"
	"github.com/vertti/omsagent-tsg/pkg/prompt"
)

// DefaultTimeout bounds the restart command.
const DefaultTimeout = 60 * time.Second

var errNotRunning = errors.New("agent process is not running")

const (
	restartLabel = "The agent is not running. Would you like to restart it? (y/n/q)"
	restartHelp  = "Please enter 'y'/'yes' to restart the agent, 'n'/'no' to skip, or 'q'/'quit' to quit."
)

// Check verifies the agent process is alive and able to send heartbeats.
type Check struct {
	ProcessName    string             // agent process name (default: omsagent)
	Procs          agent.ProcessTable // injected for testing
	RestartCommand []string           // offered in interactive mode
	Runner         exec.Runner        // runs RestartCommand
	Timeout        time.Duration      // restart timeout (default: 60s)
}

// Run executes the heartbeat check.
func (c *Check) Run(env *check.Env) check.Result {
	result := check.Result{Name: "heartbeat"}

	name := c.ProcessName
	if name == "" {
		name = "omsagent"
	}

	pids, err := c.Procs.Find(name)
	if err != nil {
		env.Summary.Errorf("could not read the process table: %v", err)
		return result.Failf("process lookup failed: %v", err)
	}
	if len(pids) > 0 {
		addPids(&result, pids)
		return result.Pass()
	}

	result.AddDetailf("process %s not found", name)
	if !env.Interactive || env.Asker == nil || len(c.RestartCommand) == 0 {
		env.Summary.Errorf("OMS Agent (%s) is not running, so no heartbeats are being sent.", name)
		return result.Fail("agent is not running", errNotRunning)
	}

	answer, err := env.Asker.Ask(restartLabel, prompt.OneOf("y", "yes", "n", "no", "q", "quit"), restartHelp)
	if err != nil {
		return result.Exit()
	}
	switch strings.ToLower(answer) {
	case "q", "quit":
		return result.Exit()
	case "n", "no":
		env.Summary.Errorf("OMS Agent (%s) is not running, so no heartbeats are being sent.", name)
		return result.Fail("agent is not running", errNotRunning)
	}

	if err := c.restart(); err != nil {
		env.Summary.Errorf("restarting the OMS Agent failed: %v", err)
		return result.Failf("restart failed: %v", err)
	}

	pids, err = c.Procs.Find(name)
	if err != nil || len(pids) == 0 {
		env.Summary.Errorf("OMS Agent (%s) is still not running after a restart. Please check the agent log at /var/opt/microsoft/omsagent/log/omsagent.log.", name)
		return result.Fail("agent did not start after restart", errNotRunning)
	}
	result.AddDetail("restarted: yes")
	addPids(&result, pids)
	return result.Pass()
}

func (c *Check) restart() error {
	timeout := c.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	_, stderr, err := c.Runner.Output(ctx, c.RestartCommand[0], c.RestartCommand[1:]...)
	if err != nil {
		if msg := strings.TrimSpace(stderr); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

func addPids(result *check.Result, pids []int) {
	for _, pid := range pids {
		result.AddDetailf("pid: %d", pid)
	}
}
