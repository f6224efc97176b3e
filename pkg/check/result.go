package check

// Status represents the outcome of a check.
type Status string

const (
	StatusOK       Status = "OK"
	StatusUserExit Status = "EXIT"
	StatusFail     Status = "FAIL"
)

// IsError reports whether the status stops an all-checks run.
// A user exit is not an error.
func (s Status) IsError() bool {
	return s == StatusFail
}

// Result holds the outcome of a single check routine.
type Result struct {
	Name    string   // e.g., "heartbeat", "connection"
	Status  Status   // OK, EXIT or FAIL
	Details []string // human-readable details
	Err     error    // underlying error for failures
}

// OK returns true if the check passed.
func (r Result) OK() bool {
	return r.Status == StatusOK
}

// IsError returns true if the check found an error.
func (r Result) IsError() bool {
	return r.Status.IsError()
}
