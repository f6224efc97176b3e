package dispatch

import "strings"

// Selection is a choice from the main menu.
type Selection int

const (
	SelectQuit Selection = iota
	SelectHeartbeat
	SelectConnection
	SelectSyslog
	SelectHighCPUMemory
	SelectInstallation
	SelectCustomLogs
	SelectAll
	SelectCollectLogs
)

var selectionTokens = map[string]Selection{
	"1":    SelectHeartbeat,
	"2":    SelectConnection,
	"3":    SelectSyslog,
	"4":    SelectHighCPUMemory,
	"5":    SelectInstallation,
	"6":    SelectCustomLogs,
	"a":    SelectAll,
	"l":    SelectCollectLogs,
	"q":    SelectQuit,
	"quit": SelectQuit,
}

// ParseSelection maps a menu answer to a Selection, ignoring case.
func ParseSelection(answer string) (Selection, bool) {
	s, ok := selectionTokens[strings.ToLower(strings.TrimSpace(answer))]
	return s, ok
}

func (s Selection) String() string {
	switch s {
	case SelectQuit:
		return "quit"
	case SelectHeartbeat:
		return "heartbeat"
	case SelectConnection:
		return "connection"
	case SelectSyslog:
		return "syslog"
	case SelectHighCPUMemory:
		return "high cpu/memory"
	case SelectInstallation:
		return "installation"
	case SelectCustomLogs:
		return "custom logs"
	case SelectAll:
		return "all"
	case SelectCollectLogs:
		return "collect logs"
	default:
		return "unknown"
	}
}

// Mode is the run mode chosen after a check selection.
type Mode int

const (
	ModeQuit Mode = iota
	ModeSilent
	ModeInteractive
)

var modeTokens = map[string]Mode{
	"s":           ModeSilent,
	"silent":      ModeSilent,
	"i":           ModeInteractive,
	"interactive": ModeInteractive,
	"q":           ModeQuit,
	"quit":        ModeQuit,
}

// ParseMode maps a mode answer to a Mode, ignoring case.
func ParseMode(answer string) (Mode, bool) {
	m, ok := modeTokens[strings.ToLower(strings.TrimSpace(answer))]
	return m, ok
}

func validSelection(answer string) bool {
	_, ok := ParseSelection(answer)
	return ok
}

func validMode(answer string) bool {
	_, ok := ParseMode(answer)
	return ok
}

var menu = []string{
	"Welcome to the OMS Agent for Linux Troubleshooter! What is your issue?",
	"================================================================================",
	"1: Agent is unhealthy or heartbeat data missing.",
	"2: Agent doesn't start, can't connect to Log Analytic Services.",
	"3: Syslog issue.",
	"4: Agent consuming high CPU/memory.",
	"5: Installation failures.",
	"6: Custom logs issue.",
	"================================================================================",
	"A: Run through all scenarios.",
	"L: Collect the logs for OMS Agent.",
	"Q: Press 'Q' to quit.",
	"================================================================================",
}

const (
	selectionLabel = "Please select an option"
	selectionHelp  = "Please enter an integer corresponding with your issue (1-6) to\n" +
		"continue (or 'A' to run through all scenarios), 'L' to run the log\n" +
		"collector, or 'Q' to quit."
)

var modeIntro = []string{
	"The troubleshooter can be run in two different modes.",
	"  - Silent Mode runs through with no input required",
	"  - Interactive Mode includes extra checks that require input",
}

const (
	modeLabel = "Do you want to run the troubleshooter in silent (s) or interactive (i) mode?"
	modeHelp  = "Please enter 's'/'silent' to run silent mode, 'i'/'interactive' to run\n" +
		"interactive mode, or 'q'/'quit' to quit."
)

var nextSteps = []string{
	"If you still have an issue, please run the troubleshooter again and collect the",
	"logs for OMS.",
	"In addition, please include the following information:",
	"  - Azure Subscription ID where the Log Analytics Workspace is located",
	"  - Workspace ID the agent has been onboarded to",
	"  - Workspace Name",
	"  - Region Workspace is located",
	"  - Pricing Tier assigned to the Workspace",
	"  - Linux Distribution on the VM",
	"  - Log Analytics Agent Version",
}
