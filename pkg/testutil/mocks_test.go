package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertti/omsagent-tsg/pkg/prompt"
)

func TestScriptedAsker(t *testing.T) {
	a := &ScriptedAsker{Replies: []string{"maybe", "Y"}}

	got, err := a.Ask("Restart?", prompt.OneOf("y", "n"), "")

	require.NoError(t, err)
	assert.Equal(t, "Y", got)
	assert.Equal(t, []string{"Restart?", "Restart?"}, a.Labels)

	_, err = a.Ask("Again?", prompt.Any, "")
	assert.ErrorIs(t, err, prompt.ErrNoInput)
}

func TestMockRunner(t *testing.T) {
	m := &MockRunner{}

	code, err := m.Run(context.Background(), "sudo", "sh", "script.sh")
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	_, _, err = m.Output(context.Background(), "rpm", "-q")
	assert.Error(t, err)

	m.RunFunc = func(string, ...string) (int, error) { return -1, errors.New("boom") }
	_, err = m.Run(context.Background(), "x")
	assert.Error(t, err)

	require.Len(t, m.Calls, 3)
	assert.Equal(t, "sudo sh script.sh", m.Calls[0].String())
	assert.Equal(t, "rpm -q", m.Calls[1].String())
}

func TestContainsDetail(t *testing.T) {
	details := []string{"pid: 42", "cpu: 3.0%"}

	assert.True(t, ContainsDetail(details, "pid"))
	assert.False(t, ContainsDetail(details, "memory"))
	assert.Equal(t, 7, *Ptr(7))
}
