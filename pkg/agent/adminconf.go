// Package agent knows where the OMS agent keeps its files and processes.
package agent

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
)

// DefaultURLTLD is used when omsadmin.conf does not name a cloud.
const DefaultURLTLD = "opinsights.azure.com"

// ErrNoWorkspace means the agent has not been onboarded to a workspace.
var ErrNoWorkspace = errors.New("no WORKSPACE_ID in omsadmin.conf")

// AdminConf is the parsed content of omsadmin.conf.
type AdminConf struct {
	WorkspaceID string
	AgentGUID   string
	URLTLD      string
	Values      map[string]string // every KEY=value pair in the file
}

// ReadAdminConf reads and parses the omsadmin.conf file at path.
func ReadAdminConf(path string) (*AdminConf, error) {
	data, err := os.ReadFile(path) //nolint:gosec // intentional: agent config path
	if err != nil {
		return nil, fmt.Errorf("read omsadmin.conf: %w", err)
	}
	return ParseAdminConf(data)
}

// ParseAdminConf parses KEY=value lines. Blank lines and # comments are skipped.
func ParseAdminConf(data []byte) (*AdminConf, error) {
	conf := &AdminConf{Values: make(map[string]string)}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		conf.Values[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("parse omsadmin.conf: %w", err)
	}

	conf.WorkspaceID = conf.Values["WORKSPACE_ID"]
	conf.AgentGUID = conf.Values["AGENT_GUID"]
	conf.URLTLD = conf.Values["URL_TLD"]
	if conf.URLTLD == "" {
		conf.URLTLD = DefaultURLTLD
	}

	if conf.WorkspaceID == "" {
		return nil, ErrNoWorkspace
	}
	return conf, nil
}

// Endpoints returns the workspace service addresses the agent talks to.
func (c *AdminConf) Endpoints(port int) []string {
	p := strconv.Itoa(port)
	return []string{
		net.JoinHostPort(c.WorkspaceID+".oms."+c.URLTLD, p),
		net.JoinHostPort(c.WorkspaceID+".ods."+c.URLTLD, p),
	}
}
