// Package changelog implements the Changelog Builder (C7): grouping a
// commit set into a Release and rendering it through a text/template
// pipeline, the same templating approach clikd-inc-cli's chglog package
// uses (text/template + Masterminds/sprig) rather than a bespoke engine.
package changelog

import (
	"time"

	"github.com/frgrisk/cog/internal/conventional"
	"github.com/frgrisk/cog/internal/rangeresolve"
)

// ClassifiedCommit is a Commit annotated for rendering (§3).
type ClassifiedCommit struct {
	conventional.Commit
	AuthorUsername    string
	CommitterUsername string
	TypeOrder         uint16
}

// Release is {version, previous_version?, date, commits, package?} (§3).
type Release struct {
	Version         rangeresolve.OidOf
	PreviousVersion *rangeresolve.OidOf
	Date            time.Time
	Commits         []ClassifiedCommit
	Package         string
}

// Author maps a raw commit signature to a configured username, per
// `changelog.authors` (§6).
type Author struct {
	Signature string
	Username  string
}

// AuthorResolver resolves raw signatures to usernames.
type AuthorResolver struct {
	bySignature map[string]string
}

// NewAuthorResolver builds a resolver from the configured author list.
func NewAuthorResolver(authors []Author) *AuthorResolver {
	r := &AuthorResolver{bySignature: make(map[string]string, len(authors))}
	for _, a := range authors {
		r.bySignature[a.Signature] = a.Username
	}
	return r
}

// Resolve returns the configured username for signature, or "" if none.
func (r *AuthorResolver) Resolve(signature string) string {
	if r == nil {
		return ""
	}
	return r.bySignature[signature]
}

// ExternalProvider resolves a per-commit username from a remote service
// (e.g. GitHub), an optional collaborator per §4.7.
type ExternalProvider interface {
	ResolveUsername(oid string) (string, bool)
}
