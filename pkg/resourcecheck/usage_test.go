package resourcecheck

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleStat = "4021 (oms agent) S 1 4021 4021 0 -1 4194560 1000 0 0 0 500 250 0 0 20 0 10 0 1000 123456 789\n"

func fakeProc(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return root
}

func TestProcUsage(t *testing.T) {
	root := fakeProc(t, map[string]string{
		"uptime":       "110.00 400.00\n",
		"meminfo":      "MemTotal:        1024000 kB\nMemFree:          512000 kB\n",
		"4021/stat":    sampleStat,
		"4021/status":  "Name:\tomsagent\nVmPeak:\t  200000 kB\nVmRSS:\t  102400 kB\n",
		"4022/stat":    "4022 (omsagent) S 1\n",
		"4023/stat":    sampleStat,
		"4023/status":  "Name:\tomsagent\n",
		"4024/stat":    "no closing paren",
		"4025/stat":    "4025 (omsagent) S 1 4021 4021 0 -1 4194560 1000 0 0 0 x 250 0 0 20 0 10 0 1000 1 2\n",
		"4026/stat":    sampleStat,
		"4026/status":  "VmRSS:\n",
		"emptyup/stat": sampleStat,
	})

	p := &ProcUsage{Root: root, ClockTicks: 100}

	u, err := p.Usage(4021)
	require.NoError(t, err)
	assert.InDelta(t, 7.5, u.CPUPercent, 0.001)
	assert.Equal(t, 100*MiB, u.RSS)
	assert.InDelta(t, 10.0, u.MemoryPercent, 0.001)

	for _, pid := range []int{4022, 4023, 4024, 4025, 4026, 9999} {
		_, err := p.Usage(pid)
		assert.Error(t, err, "pid %d", pid)
	}
}

func TestProcUsage_DefaultClockTicks(t *testing.T) {
	root := fakeProc(t, map[string]string{
		"uptime":   "110.00 400.00\n",
		"meminfo":  "MemTotal: 1024000 kB\n",
		"1/stat":   sampleStat,
		"1/status": "VmRSS: 1024 kB\n",
	})

	u, err := (&ProcUsage{Root: root}).Usage(1)

	require.NoError(t, err)
	assert.InDelta(t, 7.5, u.CPUPercent, 0.001)
	assert.Equal(t, MiB, u.RSS)
}

func TestParseStat(t *testing.T) {
	cpu, start, err := parseStat([]byte(sampleStat))

	require.NoError(t, err)
	assert.Equal(t, 750.0, cpu)
	assert.Equal(t, 1000.0, start)
}
