package check

// Asker asks the user a question and returns an answer satisfying valid.
// valid receives the lower-cased answer.
type Asker interface {
	Ask(label string, valid func(string) bool, help string) (string, error)
}

// Env is handed to every check routine for one troubleshooting run.
type Env struct {
	Interactive bool     // interactive mode may ask extra questions
	Summary     *Summary // errors and warnings collected during the run
	Asker       Asker    // nil in silent mode is fine
}

// NewEnv returns an Env with a fresh summary.
func NewEnv(interactive bool, asker Asker) *Env {
	return &Env{
		Interactive: interactive,
		Summary:     &Summary{},
		Asker:       asker,
	}
}

// Checker is implemented by all check routines.
// Each routine diagnoses one problem category of the agent, records
// what it finds in env.Summary, and returns a Result.
//
// Implementations:
//   - installcheck.Check: agent files and version
//   - connectcheck.Check: workspace endpoint connectivity
//   - heartbeatcheck.Check: agent process running
//   - resourcecheck.Check: agent CPU and memory usage
//   - syslogcheck.Check: syslog forwarding to the agent
//   - customlogcheck.Check: custom log sources
type Checker interface {
	Run(env *Env) Result
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(env *Env) Result

// Run calls f(env).
func (f CheckerFunc) Run(env *Env) Result {
	return f(env)
}
