package resourcecheck

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Usage is the resource footprint of one process.
type Usage struct {
	CPUPercent    float64 // average over the process lifetime
	RSS           uint64  // resident memory in bytes
	MemoryPercent float64 // RSS as a share of total memory
}

// UsageReader abstracts per-process resource sampling for testability.
type UsageReader interface {
	Usage(pid int) (Usage, error)
}

// ProcUsage reads usage from procfs.
type ProcUsage struct {
	Root       string // default: /proc
	ClockTicks int    // USER_HZ (default: 100)
}

// Usage reads /proc/<pid>/stat, /proc/<pid>/status, /proc/uptime and /proc/meminfo.
func (p *ProcUsage) Usage(pid int) (Usage, error) {
	root := p.Root
	if root == "" {
		root = "/proc"
	}
	ticks := float64(p.ClockTicks)
	if ticks <= 0 {
		ticks = 100
	}
	pidDir := filepath.Join(root, strconv.Itoa(pid))

	stat, err := os.ReadFile(filepath.Join(pidDir, "stat")) //nolint:gosec // procfs
	if err != nil {
		return Usage{}, fmt.Errorf("read stat: %w", err)
	}
	cpuTicks, startTicks, err := parseStat(stat)
	if err != nil {
		return Usage{}, err
	}

	uptimeData, err := os.ReadFile(filepath.Join(root, "uptime")) //nolint:gosec // procfs
	if err != nil {
		return Usage{}, fmt.Errorf("read uptime: %w", err)
	}
	fields := strings.Fields(string(uptimeData))
	if len(fields) == 0 {
		return Usage{}, fmt.Errorf("empty uptime")
	}
	uptime, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return Usage{}, fmt.Errorf("parse uptime: %w", err)
	}

	var u Usage
	if elapsed := uptime - startTicks/ticks; elapsed > 0 {
		u.CPUPercent = cpuTicks / ticks / elapsed * 100
	}

	rssKB, err := readKB(filepath.Join(pidDir, "status"), "VmRSS:")
	if err != nil {
		return Usage{}, err
	}
	totalKB, err := readKB(filepath.Join(root, "meminfo"), "MemTotal:")
	if err != nil {
		return Usage{}, err
	}
	u.RSS = rssKB * KiB
	if totalKB > 0 {
		u.MemoryPercent = float64(rssKB) / float64(totalKB) * 100
	}
	return u, nil
}

// parseStat returns utime+stime and starttime, in clock ticks.
// The command name may contain spaces, so fields are counted after the last ')'.
func parseStat(data []byte) (cpu, start float64, err error) {
	end := bytes.LastIndexByte(data, ')')
	if end < 0 {
		return 0, 0, fmt.Errorf("malformed stat")
	}
	// fields[0] is field 3 (state) of proc(5)
	fields := strings.Fields(string(data[end+1:]))
	if len(fields) < 20 {
		return 0, 0, fmt.Errorf("malformed stat: %d fields", len(fields))
	}
	var vals [3]float64
	for i, idx := range []int{11, 12, 19} { // utime, stime, starttime
		vals[i], err = strconv.ParseFloat(fields[idx], 64)
		if err != nil {
			return 0, 0, fmt.Errorf("malformed stat: %w", err)
		}
	}
	return vals[0] + vals[1], vals[2], nil
}

// readKB returns the kB value of the line starting with key.
func readKB(path, key string) (uint64, error) {
	data, err := os.ReadFile(path) //nolint:gosec // procfs
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, key) {
			continue
		}
		fields := strings.Fields(strings.TrimPrefix(line, key))
		if len(fields) == 0 {
			break
		}
		return strconv.ParseUint(fields[0], 10, 64)
	}
	return 0, fmt.Errorf("%s not found in %s", strings.TrimSuffix(key, ":"), filepath.Base(path))
}
