// Package logcollect runs the agent's log collection script.
package logcollect

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/vertti/omsagent-tsg/pkg/check"
	"github.com/vertti/omsagent-tsg/pkg/exec"
	"github.com/vertti/omsagent-tsg/pkg/output"
	"github.com/vertti/omsagent-tsg/pkg/prompt"
)

// Collector gathers the agent's logs into a bundle for a support case.
type Collector struct {
	Asker   check.Asker // prompts for case number and company name
	Out     io.Writer
	Runner  exec.Runner // runs the script with inherited stdio
	Script  string      // log collector shell script
	Elevate bool        // prefix the command with sudo
	Logger  *zap.Logger // nil disables diagnostics
}

// Command builds the collector command line. Empty fields add no flags.
func (c *Collector) Command(caseNumber, company string) []string {
	var cmd []string
	if c.Elevate {
		cmd = append(cmd, "sudo")
	}
	cmd = append(cmd, "sh", c.Script)
	if caseNumber != "" {
		cmd = append(cmd, "-s", caseNumber)
	}
	if company != "" {
		cmd = append(cmd, "-c", company)
	}
	return cmd
}

// Collect asks for the optional case details and runs the script to completion.
// Failures are printed; they never propagate.
func (c *Collector) Collect() {
	p := output.New(c.Out)
	log := c.Logger
	if log == nil {
		log = zap.NewNop()
	}

	p.Println(
		"Please input the SR number to collect OMS logs and (if applicable) the company",
		"name for reference. (Leave field empty to skip)",
	)
	caseNumber, err := c.Asker.Ask("SR Number", prompt.Any, "")
	if err != nil {
		log.Debug("log collection aborted", zap.Error(err))
		return
	}
	company, err := c.Asker.Ask("Company Name", prompt.Any, "")
	if err != nil {
		log.Debug("log collection aborted", zap.Error(err))
		return
	}

	cmd := c.Command(caseNumber, company)
	log.Debug("starting log collector", zap.Strings("command", cmd))

	p.Println("Starting up log collector...")
	p.ThinRule()
	code, err := c.Runner.Run(context.Background(), cmd[0], cmd[1:]...)
	if err != nil {
		log.Warn("log collector could not be started", zap.Error(err))
		p.ThinRule()
		p.Printf("Log collector could not be started: %v\n", err)
		return
	}
	if code != 0 {
		log.Info("log collector failed", zap.Int("exit_code", code))
		p.ThinRule()
		p.Printf("Log collector returned error code %d. Please look through the above output to\n", code)
		p.Println("find the reason for the error.")
	}
}
