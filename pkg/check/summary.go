package check

import "fmt"

// Summary is the ordered list of errors and warnings found during one run.
// Check routines append to it; the dispatcher prints it once at the end.
type Summary struct {
	entries []string
}

// Add appends a message as-is.
func (s *Summary) Add(msg string) {
	s.entries = append(s.entries, msg)
}

// Errorf appends an error line.
func (s *Summary) Errorf(format string, args ...interface{}) {
	s.Add("ERROR: " + fmt.Sprintf(format, args...))
}

// Warnf appends a warning line.
func (s *Summary) Warnf(format string, args ...interface{}) {
	s.Add("WARNING: " + fmt.Sprintf(format, args...))
}

// Entries returns a copy of the collected messages in insertion order.
func (s *Summary) Entries() []string {
	return append([]string(nil), s.entries...)
}

// Len returns the number of collected messages.
func (s *Summary) Len() int {
	return len(s.entries)
}
