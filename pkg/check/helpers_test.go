package check

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResult_Fail(t *testing.T) {
	r := &Result{Name: "test"}
	err := errors.New("test error")

	result := r.Fail("something failed", err)

	assert.Equal(t, StatusFail, result.Status)
	assert.Equal(t, []string{"something failed"}, result.Details)
	assert.Equal(t, err, result.Err)
}

func TestResult_Failf(t *testing.T) {
	r := &Result{Name: "test"}

	result := r.Failf("value %d is invalid", 42)

	assert.Equal(t, StatusFail, result.Status)
	assert.Equal(t, []string{"value 42 is invalid"}, result.Details)
	assert.EqualError(t, result.Err, "value 42 is invalid")
}

func TestResult_Exit(t *testing.T) {
	r := &Result{Name: "test"}

	result := r.Exit()

	assert.Equal(t, StatusUserExit, result.Status)
	assert.ErrorIs(t, result.Err, ErrUserExit)
}

func TestResult_Pass(t *testing.T) {
	r := &Result{Name: "test"}
	r.AddDetail("fine")

	result := r.Pass()

	assert.True(t, result.OK())
	assert.Equal(t, []string{"fine"}, result.Details)
}

func TestResult_AddDetail(t *testing.T) {
	r := &Result{Name: "test"}

	result := r.AddDetail("first detail").AddDetail("second detail")

	assert.Equal(t, []string{"first detail", "second detail"}, result.Details)
	assert.Same(t, r, result, "AddDetail should return the same Result pointer")
}

func TestResult_AddDetailf(t *testing.T) {
	r := &Result{Name: "test"}

	result := r.AddDetailf("path: %s", "/opt/microsoft/omsagent/bin/omsagent")

	assert.Equal(t, []string{"path: /opt/microsoft/omsagent/bin/omsagent"}, result.Details)
}

func TestSummary(t *testing.T) {
	var s Summary
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Entries())

	s.Errorf("agent %s is not running", "omsagent")
	s.Warnf("version %s is old", "1.10.0")
	s.Add("plain")

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []string{
		"ERROR: agent omsagent is not running",
		"WARNING: version 1.10.0 is old",
		"plain",
	}, s.Entries())

	entries := s.Entries()
	entries[0] = "mutated"
	assert.Equal(t, "ERROR: agent omsagent is not running", s.Entries()[0], "Entries must return a copy")
}
