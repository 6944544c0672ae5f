// Package monorepo implements the Monorepo Orchestrator (C6): per-package
// range filtering over Git history, independent package version lines,
// and the aggregated "global" version.
package monorepo

import (
	"fmt"

	"github.com/gobwas/glob"
)

// Package is a MonoRepoPackage (§3): a named subtree with its own
// version line, include/ignore globs, and bump hook profiles.
type Package struct {
	Name          string
	Path          string
	Include       []string
	Ignore        []string
	ChangelogPath string
	PublicAPI     bool
	PreHooks      []string
	PostHooks     []string
	BumpProfiles  map[string]HookProfile
}

// HookProfile is a named alternative {pre, post} hook set.
type HookProfile struct {
	Pre  []string
	Post []string
}

// effectiveInclude returns the configured include globs, or "<path>/**"
// when none are configured.
func (p Package) effectiveInclude() []string {
	if len(p.Include) > 0 {
		return p.Include
	}
	return []string{p.Path + "/**"}
}

// matcher compiles a package's include/ignore globs using
// gobwas/glob with '/' as the literal path separator (§4.6: "path
// matching uses literal-separator globs").
type matcher struct {
	include []glob.Glob
	ignore  []glob.Glob
}

func (p Package) compileMatcher() (*matcher, error) {
	m := &matcher{}
	for _, pat := range p.effectiveInclude() {
		g, err := glob.Compile(pat, '/')
		if err != nil {
			return nil, fmt.Errorf("monorepo: package %q: bad include glob %q: %w", p.Name, pat, err)
		}
		m.include = append(m.include, g)
	}
	for _, pat := range p.Ignore {
		g, err := glob.Compile(pat, '/')
		if err != nil {
			return nil, fmt.Errorf("monorepo: package %q: bad ignore glob %q: %w", p.Name, pat, err)
		}
		m.ignore = append(m.ignore, g)
	}
	return m, nil
}

func (m *matcher) matches(path string) bool {
	included := false
	for _, g := range m.include {
		if g.Match(path) {
			included = true
			break
		}
	}
	if !included {
		return false
	}
	for _, g := range m.ignore {
		if g.Match(path) {
			return false
		}
	}
	return true
}

// TouchesPackage reports whether any of paths is matched by pkg's
// include set and not its ignore set (§4.6 step 2).
func TouchesPackage(paths []string, pkg Package) (bool, error) {
	m, err := pkg.compileMatcher()
	if err != nil {
		return false, err
	}
	for _, p := range paths {
		if m.matches(p) {
			return true, nil
		}
	}
	return false, nil
}
