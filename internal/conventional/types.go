// Package conventional implements the Conventional Commit parser and
// classifier (C1): turning raw commit message text into a typed Commit,
// or a bounded classification error, against a configurable type
// allow-list (§4.1 of the spec).
package conventional

import "time"

// CommitType is a named enumeration entry drawn from configuration.
type CommitType struct {
	Name               string
	ChangelogTitle     string
	OmitFromChangelog  bool
	BumpMinor          bool
	BumpPatch          bool
}

// DefaultTypes are the built-in commit types (§3): feat/fix bump the
// version, the rest do not bump it, and chore is also omitted from the
// changelog by default.
func DefaultTypes() []CommitType {
	return []CommitType{
		{Name: "feat", ChangelogTitle: "Features", BumpMinor: true},
		{Name: "fix", ChangelogTitle: "Bug Fixes", BumpPatch: true},
		{Name: "revert", ChangelogTitle: "Revert"},
		{Name: "perf", ChangelogTitle: "Performance Improvements"},
		{Name: "docs", ChangelogTitle: "Documentation"},
		{Name: "style", ChangelogTitle: "Style"},
		{Name: "refactor", ChangelogTitle: "Refactoring"},
		{Name: "test", ChangelogTitle: "Tests"},
		{Name: "build", ChangelogTitle: "Build System"},
		{Name: "ci", ChangelogTitle: "Continuous Integration"},
		{Name: "chore", ChangelogTitle: "Miscellaneous Chores", OmitFromChangelog: true},
	}
}

// Registry is the allow-list a Parser classifies against, keyed by type
// name and preserving declaration order for changelog grouping (C7).
type Registry struct {
	order []string
	byName map[string]CommitType
}

// NewRegistry builds a Registry from an ordered list of types, the
// "declaration order" spec §4.7 says drives the changelog's type_order.
func NewRegistry(types []CommitType) *Registry {
	r := &Registry{byName: make(map[string]CommitType, len(types))}
	for _, t := range types {
		if _, exists := r.byName[t.Name]; !exists {
			r.order = append(r.order, t.Name)
		}
		r.byName[t.Name] = t
	}
	return r
}

// Lookup returns the CommitType for name and whether it is allowed.
func (r *Registry) Lookup(name string) (CommitType, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Order returns type names in declaration order, for type_order (C7).
func (r *Registry) Order() []string {
	return append([]string(nil), r.order...)
}

// TypeOrder returns the 0-based declaration index of name, or len(order)
// if unknown (classified commits never carry an unknown type, but the
// changelog renderer treats unknown gracefully rather than panicking).
func (r *Registry) TypeOrder(name string) uint16 {
	for i, n := range r.order {
		if n == name {
			return uint16(i)
		}
	}
	return uint16(len(r.order))
}

// Footer is an ordered (token, value) pair from the commit body.
type Footer struct {
	Token string
	Value string
}

// Commit is the fully parsed and classified Conventional Commit (§3).
type Commit struct {
	Oid         string
	Author      string
	Committer   string
	CommittedAt time.Time
	Type        CommitType
	Scope       string
	Summary     string
	Body        string
	Footers     []Footer
	Breaking    bool
}

// RawCommit is what the Repository Facade (C3) hands to the parser:
// message text plus the Git-level metadata the Commit struct needs.
type RawCommit struct {
	Oid         string
	Author      string
	Committer   string
	CommittedAt time.Time
	Message     string
}
