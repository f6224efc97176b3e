package syslogcheck

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/vertti/omsagent-tsg/pkg/check"
)

// Check verifies syslog is forwarded to the agent and the agent is listening.
type Check struct {
	Configs  []string // rsyslog / syslog-ng files to search
	Port     int      // agent syslog port (default 25224)
	UDPTable []string // /proc/net/udp style socket tables
}

// Run executes the syslog check.
func (c *Check) Run(env *check.Env) check.Result {
	result := check.Result{Name: "syslog"}

	port := c.Port
	if port == 0 {
		port = 25224
	}

	forwarding, err := c.findForwarding(port)
	if err != nil {
		env.Summary.Errorf("could not read syslog configuration: %v", err)
		return result.Failf("reading syslog configuration: %v", err)
	}
	if forwarding == "" {
		env.Summary.Errorf("no rsyslog or syslog-ng configuration forwards messages to the agent on port %d. "+
			"Please enable syslog collection in the workspace's agent configuration.", port)
		return result.Failf("no forwarding rule for port %d", port)
	}
	result.AddDetailf("forwarding: %s", forwarding)

	listening, err := c.listening(port)
	if err != nil {
		env.Summary.Errorf("could not read the UDP socket table: %v", err)
		return result.Failf("reading socket table: %v", err)
	}
	if !listening {
		env.Summary.Errorf("OMS Agent is not listening for syslog messages on UDP port %d. Please restart the agent.", port)
		return result.Failf("nothing listening on udp port %d", port)
	}
	result.AddDetailf("listening: udp/%d", port)

	return result.Pass()
}

// findForwarding returns the first config file with an active rule sending to port.
// rsyslog rules look like "*.* @127.0.0.1:25224"; syslog-ng uses port(25224).
func (c *Check) findForwarding(port int) (string, error) {
	p := strconv.Itoa(port)
	re := regexp.MustCompile(`(:` + p + `\b)|(port\(\s*` + p + `\s*\))`)

	for _, path := range c.Configs {
		data, err := os.ReadFile(path) //nolint:gosec // syslog config paths
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return "", err
		}
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			if re.MatchString(line) {
				return path, nil
			}
		}
	}
	return "", nil
}

// listening reports whether any socket table has a local socket bound to port.
// Missing tables (e.g. udp6 with IPv6 disabled) are skipped.
func (c *Check) listening(port int) (bool, error) {
	found := false
	for _, table := range c.UDPTable {
		data, err := os.ReadFile(table) //nolint:gosec // procfs
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return false, err
		}
		found = true
		ports, err := localPorts(data)
		if err != nil {
			return false, fmt.Errorf("%s: %w", table, err)
		}
		if _, ok := ports[port]; ok {
			return true, nil
		}
	}
	if !found && len(c.UDPTable) > 0 {
		return false, fmt.Errorf("no socket table found in %v", c.UDPTable)
	}
	return false, nil
}

// localPorts parses the local_address column ("0100007F:6288") of a procfs socket table.
func localPorts(data []byte) (map[int]struct{}, error) {
	ports := make(map[int]struct{})
	scanner := bufio.NewScanner(bytes.NewReader(data))
	header := true
	for scanner.Scan() {
		if header {
			header = false
			continue
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		_, hexPort, found := strings.Cut(fields[1], ":")
		if !found {
			continue
		}
		port, err := strconv.ParseUint(hexPort, 16, 16)
		if err != nil {
			return nil, fmt.Errorf("bad local address %q: %w", fields[1], err)
		}
		ports[int(port)] = struct{}{}
	}
	return ports, scanner.Err()
}
