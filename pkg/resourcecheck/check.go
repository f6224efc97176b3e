package resourcecheck

import (
	"fmt"

	"github.com/vertti/omsagent-tsg/pkg/agent"
	"github.com/vertti/omsagent-tsg/pkg/check"
)

// Check verifies the agent is not consuming too much CPU or memory.
type Check struct {
	ProcessName      string             // agent process name (default: omsagent)
	MaxCPUPercent    float64            // CPU threshold per process
	MaxMemoryPercent float64            // resident memory threshold per process
	Procs            agent.ProcessTable // injected for testing
	Usage            UsageReader        // injected for testing
}

// Run executes the resource check.
func (c *Check) Run(env *check.Env) check.Result {
	result := check.Result{Name: "high cpu/memory"}

	name := c.ProcessName
	if name == "" {
		name = "omsagent"
	}

	pids, err := c.Procs.Find(name)
	if err != nil {
		env.Summary.Errorf("could not read the process table: %v", err)
		return result.Failf("process lookup failed: %v", err)
	}
	if len(pids) == 0 {
		env.Summary.Errorf("OMS Agent (%s) is not running, so its CPU and memory usage cannot be checked.", name)
		return result.Failf("process %s not found", name)
	}

	for _, pid := range pids {
		u, err := c.Usage.Usage(pid)
		if err != nil {
			env.Summary.Errorf("could not read resource usage of pid %d: %v", pid, err)
			return result.Failf("usage of pid %d: %v", pid, err)
		}

		result.AddDetailf("pid %d: cpu %.1f%%, memory %s (%.1f%%)", pid, u.CPUPercent, FormatSize(u.RSS), u.MemoryPercent)

		if c.MaxCPUPercent > 0 && u.CPUPercent > c.MaxCPUPercent {
			env.Summary.Errorf("OMS Agent (pid %d) is using %.1f%% CPU, above the %.0f%% threshold.", pid, u.CPUPercent, c.MaxCPUPercent)
			result.Status = check.StatusFail
			result.Err = fmt.Errorf("cpu %.1f%% > %.0f%%", u.CPUPercent, c.MaxCPUPercent)
		}
		if c.MaxMemoryPercent > 0 && u.MemoryPercent > c.MaxMemoryPercent {
			env.Summary.Errorf("OMS Agent (pid %d) is using %.1f%% of memory, above the %.0f%% threshold.", pid, u.MemoryPercent, c.MaxMemoryPercent)
			result.Status = check.StatusFail
			result.Err = fmt.Errorf("memory %.1f%% > %.0f%%", u.MemoryPercent, c.MaxMemoryPercent)
		}
	}

	if result.Status == check.StatusFail {
		return result
	}
	return result.Pass()
}
