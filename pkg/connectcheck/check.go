package connectcheck

import (
	"net"
	"time"

	"github.com/vertti/omsagent-tsg/pkg/agent"
	"github.com/vertti/omsagent-tsg/pkg/check"
)

// TCPDialer abstracts network dialing for testability.
type TCPDialer interface {
	DialTimeout(network, address string, timeout time.Duration) (net.Conn, error)
}

// RealTCPDialer uses the real net package.
type RealTCPDialer struct{}

// DialTimeout dials the network address with a timeout.
func (d *RealTCPDialer) DialTimeout(network, address string, timeout time.Duration) (net.Conn, error) {
	return net.DialTimeout(network, address, timeout)
}

// Check verifies the agent can reach its workspace endpoints.
type Check struct {
	AdminConf string        // omsadmin.conf path
	Port      int           // endpoint port (default 443)
	Timeout   time.Duration // connection timeout (default 5s)
	Dialer    TCPDialer     // injected for testing
}

// Run executes the connectivity check.
func (c *Check) Run(env *check.Env) check.Result {
	result := check.Result{Name: "connection"}

	conf, err := agent.ReadAdminConf(c.AdminConf)
	if err != nil {
		env.Summary.Errorf("cannot determine the workspace to connect to (%s): %v", c.AdminConf, err)
		return result.Fail("agent is not onboarded", err)
	}
	result.AddDetailf("workspace: %s", conf.WorkspaceID)

	port := c.Port
	if port == 0 {
		port = 443
	}
	timeout := c.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	var lastErr error
	for _, addr := range conf.Endpoints(port) {
		conn, err := c.Dialer.DialTimeout("tcp", addr, timeout)
		if err != nil {
			env.Summary.Errorf("cannot connect to %s: %v. Check firewall and proxy settings.", addr, err)
			result.AddDetailf("unreachable: %s (%v)", addr, err)
			lastErr = err
			continue
		}
		_ = conn.Close()
		result.AddDetailf("connected: %s", addr)
	}

	if lastErr != nil {
		result.Status = check.StatusFail
		result.Err = lastErr
		return result
	}
	return result.Pass()
}
