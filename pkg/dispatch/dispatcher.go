// Package dispatch drives the troubleshooter's interactive menu.
package dispatch

import (
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/vertti/omsagent-tsg/pkg/check"
	"github.com/vertti/omsagent-tsg/pkg/output"
	"github.com/vertti/omsagent-tsg/pkg/prompt"
)

// Checks holds one check routine per problem category.
type Checks struct {
	Installation  check.Checker
	Connection    check.Checker
	Heartbeat     check.Checker
	HighCPUMemory check.Checker
	Syslog        check.Checker
	CustomLogs    check.Checker
}

// Ordered returns the routines in the order an all-checks run uses.
func (c Checks) Ordered() []check.Checker {
	return []check.Checker{
		c.Installation,
		c.Connection,
		c.Heartbeat,
		c.HighCPUMemory,
		c.Syslog,
		c.CustomLogs,
	}
}

// For returns the routine for a single-category selection, or nil.
func (c Checks) For(sel Selection) check.Checker {
	switch sel {
	case SelectHeartbeat:
		return c.Heartbeat
	case SelectConnection:
		return c.Connection
	case SelectSyslog:
		return c.Syslog
	case SelectHighCPUMemory:
		return c.HighCPUMemory
	case SelectInstallation:
		return c.Installation
	case SelectCustomLogs:
		return c.CustomLogs
	default:
		return nil
	}
}

// PrivilegeChecker reports whether the troubleshooter may run.
type PrivilegeChecker interface {
	Run() bool
}

// LogCollector bundles the agent logs.
type LogCollector interface {
	Collect()
}

// Dispatcher shows the menu and routes the user's choice to a check routine.
type Dispatcher struct {
	Out       io.Writer
	Asker     check.Asker
	Privilege PrivilegeChecker
	Checks    Checks
	Collector LogCollector
	Logger    *zap.Logger // nil disables diagnostics
}

func (d *Dispatcher) log() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// Run is one full troubleshooting session. It returns an error only when
// reading input fails for a reason other than the input ending.
func (d *Dispatcher) Run() error {
	p := output.New(d.Out)

	if !d.Privilege.Run() {
		d.log().Debug("not running as root")
		return nil
	}

	p.Println(menu...)
	answer, err := d.Asker.Ask(selectionLabel, validSelection, selectionHelp)
	if err != nil {
		return d.exit(p, err)
	}
	sel, _ := ParseSelection(answer)
	d.log().Debug("menu selection", zap.Stringer("selection", sel))

	switch sel {
	case SelectQuit:
		p.Println("Exiting the troubleshooter...")
		return nil
	case SelectCollectLogs:
		p.Println("Running the OMS Log Collector...")
		p.Rule()
		d.Collector.Collect()
		return nil
	}

	p.ThinRule()
	p.Println(modeIntro...)
	answer, err = d.Asker.Ask(modeLabel, validMode, modeHelp)
	if err != nil {
		return d.exit(p, err)
	}
	mode, _ := ParseMode(answer)
	switch mode {
	case ModeQuit:
		p.Println("Exiting the troubleshooter...")
		return nil
	case ModeSilent:
		p.Println("Running troubleshooter in silent mode...")
	case ModeInteractive:
		p.Println("Running troubleshooter in interactive mode...")
	}

	env := check.NewEnv(mode == ModeInteractive, d.Asker)
	p.Rule()
	var status check.Status
	if sel == SelectAll {
		status = d.CheckAll(env)
	} else {
		status = d.runCheck(p, d.Checks.For(sel), env).Status
	}

	p.Rule()
	p.Rule()
	p.PrintSummary(env.Summary)

	switch status {
	case check.StatusOK:
		p.Println("No errors were found.")
	case check.StatusUserExit:
		return nil
	default:
		p.Println("Please review the errors found above.")
	}
	p.Println(nextSteps...)
	return nil
}

// CheckAll runs every check routine in order. It stops at the first routine
// reporting an error and returns that status; otherwise it returns the
// status of the last routine.
func (d *Dispatcher) CheckAll(env *check.Env) check.Status {
	p := output.New(d.Out)
	status := check.StatusOK
	for i, c := range d.Checks.Ordered() {
		if i > 0 {
			p.Rule()
		}
		result := d.runCheck(p, c, env)
		if result.IsError() {
			d.log().Debug("stopping after failed check", zap.String("check", result.Name))
			return result.Status
		}
		status = result.Status
	}
	return status
}

func (d *Dispatcher) runCheck(p *output.Printer, c check.Checker, env *check.Env) check.Result {
	result := c.Run(env)
	p.PrintResult(result)
	d.log().Debug("check finished",
		zap.String("check", result.Name),
		zap.String("status", string(result.Status)),
		zap.Bool("interactive", env.Interactive),
		zap.Error(result.Err))
	return result
}

// exit handles a prompt that returned no answer.
func (d *Dispatcher) exit(p *output.Printer, err error) error {
	if errors.Is(err, prompt.ErrNoInput) {
		p.Println("Exiting the troubleshooter...")
		return nil
	}
	return err
}
