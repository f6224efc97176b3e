// Package prompt reads validated answers from an interactive terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoInput is returned when input ends before a valid answer is read.
var ErrNoInput = errors.New("no more input")

// Prompter asks questions on Out and reads answers from In.
// It implements check.Asker.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// New returns a Prompter reading lines from in and writing prompts to out.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// Ask prints label and reads answers until valid accepts one.
// valid sees the lower-cased answer; the returned answer keeps its case.
// help is printed after every rejected answer.
func (p *Prompter) Ask(label string, valid func(string) bool, help string) (string, error) {
	for {
		_, _ = fmt.Fprintf(p.out, " %s: ", label)
		if !p.in.Scan() {
			_, _ = fmt.Fprintln(p.out)
			if err := p.in.Err(); err != nil {
				return "", fmt.Errorf("read answer: %w", err)
			}
			return "", ErrNoInput
		}

		answer := strings.TrimSpace(p.in.Text())
		if valid(strings.ToLower(answer)) {
			return answer, nil
		}
		if help != "" {
			_, _ = fmt.Fprintln(p.out, help)
		}
	}
}

// OneOf returns a predicate accepting exactly the given tokens.
// Tokens are compared case-insensitively.
func OneOf(tokens ...string) func(string) bool {
	allowed := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		allowed[strings.ToLower(t)] = struct{}{}
	}
	return func(answer string) bool {
		_, ok := allowed[strings.ToLower(answer)]
		return ok
	}
}

// Any accepts every answer, including the empty one.
func Any(string) bool { return true }
