package installcheck

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertti/omsagent-tsg/pkg/check"
	"github.com/vertti/omsagent-tsg/pkg/testutil"
)

type layout struct {
	binary    bool
	adminConf string
}

func setup(t *testing.T, l layout) (binary, adminConf string) {
	t.Helper()
	dir := t.TempDir()
	binary = filepath.Join(dir, "omsagent")
	adminConf = filepath.Join(dir, "omsadmin.conf")
	if l.binary {
		require.NoError(t, os.WriteFile(binary, []byte("#!/bin/sh\n"), 0o755))
	}
	if l.adminConf != "" {
		require.NoError(t, os.WriteFile(adminConf, []byte(l.adminConf), 0o600))
	}
	return binary, adminConf
}

func versionOutput(stdout string, err error) func(string, ...string) (string, string, error) {
	return func(string, ...string) (string, string, error) { return stdout, "", err }
}

func TestInstallCheck(t *testing.T) {
	onboarded := "WORKSPACE_ID=ws-1\nAGENT_GUID=guid\n"

	tests := []struct {
		name        string
		layout      layout
		output      func(string, ...string) (string, string, error)
		wantStatus  check.Status
		wantSummary []string
		wantDetail  string
	}{
		{
			name:       "installed and current",
			layout:     layout{binary: true, adminConf: onboarded},
			output:     versionOutput("1.14.19-0\n", nil),
			wantStatus: check.StatusOK,
			wantDetail: "version: 1.14.19-0",
		},
		{
			name:       "release suffix at minimum is current",
			layout:     layout{binary: true, adminConf: onboarded},
			output:     versionOutput("1.13.0-0", nil),
			wantStatus: check.StatusOK,
		},
		{
			name:        "binary missing",
			layout:      layout{adminConf: onboarded},
			wantStatus:  check.StatusFail,
			wantSummary: []string{"ERROR: OMS Agent is not installed"},
			wantDetail:  "agent binary not found",
		},
		{
			name:        "not onboarded",
			layout:      layout{binary: true},
			wantStatus:  check.StatusFail,
			wantSummary: []string{"ERROR: OMS Agent is not onboarded"},
		},
		{
			name:        "admin conf without workspace",
			layout:      layout{binary: true, adminConf: "AGENT_GUID=guid\n"},
			wantStatus:  check.StatusFail,
			wantSummary: []string{"no WORKSPACE_ID"},
		},
		{
			name:        "old version warns",
			layout:      layout{binary: true, adminConf: onboarded},
			output:      versionOutput("1.12.15-0", nil),
			wantStatus:  check.StatusOK,
			wantSummary: []string{"WARNING: OMS Agent version 1.12.15-0 is older than the minimum supported 1.13.0"},
			wantDetail:  "minimum: 1.13.0",
		},
		{
			name:        "version unknown warns",
			layout:      layout{binary: true, adminConf: onboarded},
			output:      versionOutput("", errors.New("exit status 1")),
			wantStatus:  check.StatusOK,
			wantSummary: []string{"WARNING: could not determine the OMS Agent version"},
			wantDetail:  "version: unknown",
		},
		{
			name:        "unparseable version warns",
			layout:      layout{binary: true, adminConf: onboarded},
			output:      versionOutput("not-a-version", nil),
			wantStatus:  check.StatusOK,
			wantSummary: []string{"WARNING: could not determine"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			binary, adminConf := setup(t, tt.layout)
			c := &Check{
				Binary:          binary,
				AdminConf:       adminConf,
				MinVersion:      semver.MustParse("1.13.0"),
				VersionCommands: [][]string{{"dpkg-query", "-W", "omsagent"}},
				Runner:          &testutil.MockRunner{OutputFunc: tt.output},
			}
			env := check.NewEnv(false, nil)

			result := c.Run(env)

			assert.Equal(t, tt.wantStatus, result.Status)
			assert.Equal(t, "installation", result.Name)
			if tt.wantStatus == check.StatusFail {
				assert.Error(t, result.Err)
			}
			require.Len(t, env.Summary.Entries(), len(tt.wantSummary))
			for i, want := range tt.wantSummary {
				assert.Contains(t, env.Summary.Entries()[i], want)
			}
			if tt.wantDetail != "" {
				assert.True(t, testutil.ContainsDetail(result.Details, tt.wantDetail),
					"details %v missing %q", result.Details, tt.wantDetail)
			}
		})
	}
}

func TestInstallCheck_FallsBackToNextVersionCommand(t *testing.T) {
	binary, adminConf := setup(t, layout{binary: true, adminConf: "WORKSPACE_ID=ws\n"})
	runner := &testutil.MockRunner{
		OutputFunc: func(name string, args ...string) (string, string, error) {
			if name == "dpkg-query" {
				return "", "dpkg-query: command not found", errors.New("not found")
			}
			return "1.14.23-0", "", nil
		},
	}
	c := &Check{
		Binary:    binary,
		AdminConf: adminConf,
		VersionCommands: [][]string{
			{"dpkg-query", "-W", "omsagent"},
			{"rpm", "-q", "omsagent"},
		},
		Runner: runner,
	}
	env := check.NewEnv(false, nil)

	result := c.Run(env)

	assert.True(t, result.OK())
	assert.Equal(t, 0, env.Summary.Len())
	require.Len(t, runner.Calls, 2)
	assert.Equal(t, "rpm -q omsagent", runner.Calls[1].String())
}

func TestInstallCheck_NoVersionCommands(t *testing.T) {
	binary, adminConf := setup(t, layout{binary: true, adminConf: "WORKSPACE_ID=ws\n"})
	c := &Check{Binary: binary, AdminConf: adminConf, Runner: &testutil.MockRunner{}}
	env := check.NewEnv(false, nil)

	result := c.Run(env)

	assert.True(t, result.OK())
	require.Equal(t, 1, env.Summary.Len())
	assert.Contains(t, env.Summary.Entries()[0], "no version command configured")
}
