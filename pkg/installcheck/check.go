package installcheck

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/vertti/omsagent-tsg/pkg/agent"
	"github.com/vertti/omsagent-tsg/pkg/check"
	"github.com/vertti/omsagent-tsg/pkg/exec"
)

// DefaultTimeout bounds each package manager query.
const DefaultTimeout = 30 * time.Second

// Check verifies the agent is installed, onboarded and recent enough.
type Check struct {
	Binary          string          // agent executable
	AdminConf       string          // omsadmin.conf path
	MinVersion      *semver.Version // oldest supported version (nil = don't check)
	VersionCommands [][]string      // package manager queries, tried in order
	Timeout         time.Duration   // per query (default: 30s)
	Runner          exec.Runner     // injected for testing
}

// Run executes the installation check.
func (c *Check) Run(env *check.Env) check.Result {
	result := check.Result{Name: "installation"}

	if _, err := os.Stat(c.Binary); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			env.Summary.Errorf("OMS Agent is not installed: %s not found. Please (re)install the agent.", c.Binary)
			return result.Fail(fmt.Sprintf("agent binary not found: %s", c.Binary), err)
		}
		env.Summary.Errorf("could not check agent binary %s: %v", c.Binary, err)
		return result.Failf("stat failed: %v", err)
	}
	result.AddDetailf("binary: %s", c.Binary)

	conf, err := agent.ReadAdminConf(c.AdminConf)
	if err != nil {
		env.Summary.Errorf("OMS Agent is not onboarded to a workspace (%s): %v", c.AdminConf, err)
		return result.Fail("agent is not onboarded", err)
	}
	result.AddDetailf("workspace: %s", conf.WorkspaceID)

	v, err := c.agentVersion()
	if err != nil {
		env.Summary.Warnf("could not determine the OMS Agent version: %v", err)
		result.AddDetail("version: unknown")
		return result.Pass()
	}
	result.AddDetailf("version: %s", v.Original())

	if c.MinVersion != nil && coreVersion(v).LessThan(c.MinVersion) {
		env.Summary.Warnf("OMS Agent version %s is older than the minimum supported %s. Please upgrade the agent.",
			v.Original(), c.MinVersion)
		result.AddDetailf("minimum: %s", c.MinVersion)
	}

	return result.Pass()
}

// agentVersion asks each package manager in turn for the installed version.
func (c *Check) agentVersion() (*semver.Version, error) {
	timeout := c.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	var errs []error
	for _, cmd := range c.VersionCommands {
		if len(cmd) == 0 {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		stdout, _, err := c.Runner.Output(ctx, cmd[0], cmd[1:]...)
		cancel()
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", cmd[0], err))
			continue
		}
		out := strings.TrimSpace(stdout)
		if out == "" {
			errs = append(errs, fmt.Errorf("%s: empty output", cmd[0]))
			continue
		}
		v, err := semver.NewVersion(out)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", cmd[0], err))
			continue
		}
		return v, nil
	}
	if len(errs) == 0 {
		return nil, errors.New("no version command configured")
	}
	return nil, errors.Join(errs...)
}

// coreVersion drops the package release suffix so 1.13.0-0 counts as 1.13.0.
func coreVersion(v *semver.Version) *semver.Version {
	return semver.New(v.Major(), v.Minor(), v.Patch(), "", "")
}
