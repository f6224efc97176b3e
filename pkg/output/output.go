// Package output prints troubleshooter text to the console.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/jwalton/go-supportscolor"

	"github.com/vertti/omsagent-tsg/pkg/check"
)

var (
	green  = "\033[32m"
	yellow = "\033[33m"
	red    = "\033[31m"
	dim    = "\033[2m"
	reset  = "\033[0m"
)

func init() {
	if !supportscolor.Stdout().SupportsColor {
		green, yellow, red, dim, reset = "", "", "", "", ""
	}
}

// ruleWidth matches the 80-column layout of the menu.
const ruleWidth = 80

// Printer writes troubleshooter output to W.
type Printer struct {
	W io.Writer
}

// New returns a Printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{W: w}
}

// Println writes the given lines, each followed by a newline.
func (p *Printer) Println(lines ...string) {
	for _, l := range lines {
		_, _ = fmt.Fprintln(p.W, l)
	}
}

// Printf writes formatted text.
func (p *Printer) Printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(p.W, format, args...)
}

// Rule writes a full-width line of '=' characters.
func (p *Printer) Rule() {
	p.Println(strings.Repeat("=", ruleWidth))
}

// ThinRule writes a full-width line of '-' characters.
func (p *Printer) ThinRule() {
	p.Println(strings.Repeat("-", ruleWidth))
}

// PrintResult outputs a check result with colored status.
func (p *Printer) PrintResult(r check.Result) {
	var tag string
	switch r.Status {
	case check.StatusOK:
		tag = "[OK]"
		p.Printf("%s%s%s %s\n", green, tag, reset, r.Name)
	case check.StatusUserExit:
		tag = "[EXIT]"
		p.Printf("%s%s%s %s\n", yellow, tag, reset, r.Name)
	default:
		tag = "[FAIL]"
		p.Printf("%s%s%s %s\n", red, tag, reset, r.Name)
	}

	indent := strings.Repeat(" ", len(tag)+1)
	for _, d := range r.Details {
		p.Printf("%s%s\n", indent, formatLabel(d))
	}
}

// PrintSummary writes the collected errors and warnings.
// Nothing is written for an empty summary.
func (p *Printer) PrintSummary(s *check.Summary) {
	if s == nil || s.Len() == 0 {
		return
	}
	p.Println("ALL ERRORS/WARNINGS ENCOUNTERED:")
	for _, e := range s.Entries() {
		p.Printf("  %s\n", e)
	}
	p.ThinRule()
}

// formatLabel dims the "label:" prefix of a detail line.
func formatLabel(detail string) string {
	label, rest, found := strings.Cut(detail, ":")
	if !found {
		return detail
	}
	return dim + label + ":" + reset + rest
}
