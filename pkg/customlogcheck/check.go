package customlogcheck

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vertti/omsagent-tsg/pkg/agent"
	"github.com/vertti/omsagent-tsg/pkg/check"
	"github.com/vertti/omsagent-tsg/pkg/prompt"
)

const (
	usageLabel = "Are you using custom logs? (y/n/q)"
	usageHelp  = "Please enter 'y'/'yes' to check custom logs, 'n'/'no' to skip, or 'q'/'quit' to quit."
)

// ConfFile is the fluentd file holding custom log sources.
const ConfFile = "customlog.conf"

// Check verifies every configured custom log source matches files on disk.
type Check struct {
	AdminConf string // omsadmin.conf path, for the workspace id
	ConfRoot  string // <ConfRoot>/<workspace>/conf/omsagent.d/customlog.conf
}

// Run executes the custom logs check.
func (c *Check) Run(env *check.Env) check.Result {
	result := check.Result{Name: "custom logs"}

	if env.Interactive && env.Asker != nil {
		answer, err := env.Asker.Ask(usageLabel, prompt.OneOf("y", "yes", "n", "no", "q", "quit"), usageHelp)
		if err != nil {
			return result.Exit()
		}
		switch strings.ToLower(answer) {
		case "q", "quit":
			return result.Exit()
		case "n", "no":
			result.AddDetail("skipped: custom logs not in use")
			return result.Pass()
		}
	}

	conf, err := agent.ReadAdminConf(c.AdminConf)
	if err != nil {
		env.Summary.Errorf("cannot determine the workspace for custom logs (%s): %v", c.AdminConf, err)
		return result.Fail("agent is not onboarded", err)
	}

	path := filepath.Join(c.ConfRoot, conf.WorkspaceID, "conf", "omsagent.d", ConfFile)
	data, err := os.ReadFile(path) //nolint:gosec // agent config path
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			result.AddDetailf("no custom logs configured (%s not found)", path)
			return result.Pass()
		}
		env.Summary.Errorf("could not read %s: %v", path, err)
		return result.Failf("read %s: %v", ConfFile, err)
	}
	result.AddDetailf("config: %s", path)

	patterns := sourcePaths(data)
	if len(patterns) == 0 {
		result.AddDetail("no custom log sources defined")
		return result.Pass()
	}

	var missing []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil || len(matches) == 0 {
			env.Summary.Warnf("custom log path %s does not match any file. Please check the path in the workspace's custom log definition.", pattern)
			result.AddDetailf("no files: %s", pattern)
			missing = append(missing, pattern)
			continue
		}
		result.AddDetailf("source: %s (%d files)", pattern, len(matches))
	}

	if len(missing) > 0 {
		result.Status = check.StatusFail
		result.Err = fmt.Errorf("custom log paths without files: %s", strings.Join(missing, ", "))
		return result
	}
	return result.Pass()
}

// sourcePaths returns the path patterns of every source in a fluentd config.
// A path directive may list several comma-separated patterns.
func sourcePaths(data []byte) []string {
	var paths []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 || fields[0] != "path" {
			continue
		}
		for _, p := range strings.Split(strings.Join(fields[1:], " "), ",") {
			if p = strings.TrimSpace(p); p != "" {
				paths = append(paths, p)
			}
		}
	}
	return paths
}
