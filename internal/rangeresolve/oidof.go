// Package rangeresolve implements the Range Resolver (C4): turning
// user-facing range syntax into a concrete commit set, plus the "latest
// tag" query C5/C6 rely on.
package rangeresolve

import "github.com/frgrisk/cog/internal/version"

// Kind distinguishes the four OidOf variants (§3).
type Kind int

const (
	KindTag Kind = iota
	KindHead
	KindFirstCommit
	KindOther
)

// OidOf is the tagged variant endpoints are expressed as, so changelogs
// can refer to them symbolically rather than by bare oid.
type OidOf struct {
	Kind Kind
	Oid  string
	Tag  version.Tag // only meaningful when Kind == KindTag
}

func Tag(t version.Tag, oid string) OidOf { return OidOf{Kind: KindTag, Oid: oid, Tag: t} }
func Head(oid string) OidOf               { return OidOf{Kind: KindHead, Oid: oid} }
func FirstCommit(oid string) OidOf        { return OidOf{Kind: KindFirstCommit, Oid: oid} }
func Other(oid string) OidOf              { return OidOf{Kind: KindOther, Oid: oid} }
