package mcp

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"github.com/gorewood/piperun/internal/proc"
)

// Allowlist decides which commands the run tool may execute. Patterns are
// gobwas/glob expressions matched against the argv joined by single spaces,
// so "git *" allows every git subcommand and "echo ?" one-character echoes.
type Allowlist struct {
	patterns []string
	globs    []glob.Glob
}

// NewAllowlist compiles patterns. An empty list allows nothing.
func NewAllowlist(patterns []string) (*Allowlist, error) {
	a := &Allowlist{patterns: patterns}
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("allow pattern %q: %w", p, err)
		}
		a.globs = append(a.globs, g)
	}
	return a, nil
}

// Allows reports whether command matches any pattern.
func (a *Allowlist) Allows(command proc.Command) bool {
	if a == nil || len(command) == 0 {
		return false
	}
	line := strings.Join(command, " ")
	for _, g := range a.globs {
		if g.Match(line) {
			return true
		}
	}
	return false
}

// Patterns returns the source patterns.
func (a *Allowlist) Patterns() []string {
	if a == nil {
		return nil
	}
	return a.patterns
}
