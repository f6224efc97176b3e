// Package testutil holds test doubles shared by the check packages.
package testutil

import (
	"context"
	"fmt"
	"strings"

	"github.com/vertti/omsagent-tsg/pkg/prompt"
)

// ScriptedAsker answers prompts from a fixed list of replies.
// Replies rejected by the prompt's predicate are skipped, like a user
// typing again after the help text. Running out of replies yields
// prompt.ErrNoInput.
type ScriptedAsker struct {
	Replies []string
	Labels  []string // labels seen, one per reply consumed
}

// Ask consumes replies until one is valid.
func (s *ScriptedAsker) Ask(label string, valid func(string) bool, help string) (string, error) {
	for len(s.Replies) > 0 {
		reply := s.Replies[0]
		s.Replies = s.Replies[1:]
		s.Labels = append(s.Labels, label)
		if valid(strings.ToLower(reply)) {
			return reply, nil
		}
	}
	return "", prompt.ErrNoInput
}

// Call records one command invocation.
type Call struct {
	Name string
	Args []string
}

// String renders the call like a shell command line.
func (c Call) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// MockRunner is a test double for exec.Runner.
type MockRunner struct {
	RunFunc    func(name string, args ...string) (int, error)
	OutputFunc func(name string, args ...string) (string, string, error)
	Calls      []Call
}

// Run records the call and delegates to RunFunc (exit 0 when nil).
func (m *MockRunner) Run(_ context.Context, name string, args ...string) (int, error) {
	m.Calls = append(m.Calls, Call{Name: name, Args: args})
	if m.RunFunc == nil {
		return 0, nil
	}
	return m.RunFunc(name, args...)
}

// Output records the call and delegates to OutputFunc (error when nil).
func (m *MockRunner) Output(_ context.Context, name string, args ...string) (string, string, error) {
	m.Calls = append(m.Calls, Call{Name: name, Args: args})
	if m.OutputFunc == nil {
		return "", "", fmt.Errorf("%s: not mocked", name)
	}
	return m.OutputFunc(name, args...)
}

// Ptr returns a pointer to the value (useful for optional fields in tests).
func Ptr[T any](v T) *T {
	return &v
}

// ContainsDetail checks if any detail string contains the given substring.
func ContainsDetail(details []string, substr string) bool {
	for _, d := range details {
		if strings.Contains(d, substr) {
			return true
		}
	}
	return false
}
