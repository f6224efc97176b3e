// Package privilege checks that the troubleshooter runs as root.
package privilege

import (
	"fmt"
	"io"

	"golang.org/x/sys/unix"
)

// IDSource abstracts user id lookup for testability.
type IDSource interface {
	Geteuid() int
}

// RealIDSource reads the effective user id of the current process.
type RealIDSource struct{}

// Geteuid returns the effective user id.
func (RealIDSource) Geteuid() int {
	return unix.Geteuid()
}

// Check verifies the troubleshooter has root privileges.
type Check struct {
	IDs IDSource  // injected for testing
	Out io.Writer // where the explanation is printed
}

var rationale = []string{
	"The troubleshooter is not currently being run as root. In order to have",
	"accurate results, we ask that you run this troubleshooter as root.",
	"The OMS Agent Troubleshooter needs to be run as root for the following reasons:",
	"  - getting workspace ID and other relevant information to debugging",
	"  - checking files in folders with strict permissions",
	"  - checking certifications exist / are correct",
	"NOTE: it will not add, modify, or delete any files without express permission.",
	"Please try running the troubleshooter again with 'sudo'. Thank you!",
}

// Run returns true when running as root. Otherwise it prints why root is
// needed and returns false.
func (c *Check) Run() bool {
	ids := c.IDs
	if ids == nil {
		ids = RealIDSource{}
	}
	if ids.Geteuid() == 0 {
		return true
	}
	for _, line := range rationale {
		_, _ = fmt.Fprintln(c.Out, line)
	}
	return false
}
