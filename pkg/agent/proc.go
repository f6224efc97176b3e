package agent

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ProcessTable abstracts process lookup for testability.
type ProcessTable interface {
	// Find returns the pids of processes whose command name is name.
	Find(name string) ([]int, error)
}

// ProcFS finds processes by reading <Root>/<pid>/comm.
type ProcFS struct {
	Root string // default: /proc
}

// Find scans the process table for name.
func (p *ProcFS) Find(name string) ([]int, error) {
	root := p.Root
	if root == "" {
		root = "/proc"
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read process table: %w", err)
	}

	var pids []int
	for _, e := range entries {
		pid, err := strconv.Atoi(e.Name())
		if err != nil || !e.IsDir() {
			continue
		}
		// processes can exit between ReadDir and ReadFile
		comm, err := os.ReadFile(filepath.Join(root, e.Name(), "comm")) //nolint:gosec // procfs
		if err != nil {
			continue
		}
		if strings.TrimSpace(string(comm)) == name {
			pids = append(pids, pid)
		}
	}
	sort.Ints(pids)
	return pids, nil
}
