package changelog

import (
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/frgrisk/cog/internal/rangeresolve"
)

// RemoteContext supplies the optional `changelog.remote`/`owner`/
// `repository` settings the remote/github templates reference.
type RemoteContext struct {
	Remote     string
	Owner      string
	Repository string
}

// Renderer renders a Release through a named or custom text/template,
// the capability described in spec §9 ("any engine with a dotted-path
// context and user-defined filters suffices").
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer resolves name to one of the built-in templates, or treats
// it as a filesystem path when it isn't one of them.
func NewRenderer(name string) (*Renderer, error) {
	if body, ok := builtinTemplates[name]; ok {
		return compile(name, body)
	}

	body, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateNotFound, name, err)
	}
	return compile(name, string(body))
}

func compile(name, body string) (*Renderer, error) {
	t, err := template.New(name).Funcs(FuncMap()).Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRenderError, name, err)
	}
	return &Renderer{tmpl: t}, nil
}

// templateContext is the dotted-path context templates render against.
type templateContext struct {
	Version         string
	PreviousVersion string
	Date            string
	Package         string
	Commits         []ClassifiedCommit
	Remote          string
	Owner           string
	Repository      string
}

// Render executes the template against rel, formatting the date as the
// committer date of the release's tip commit (spec invariant: stable
// across renders, independent of wall-clock time).
func (r *Renderer) Render(rel Release, remote RemoteContext) (string, error) {
	ctx := templateContext{
		Version:    rel.Version.Oid,
		Date:       rel.Date.Format("2006-01-02"),
		Package:    rel.Package,
		Commits:    rel.Commits,
		Remote:     remote.Remote,
		Owner:      remote.Owner,
		Repository: remote.Repository,
	}
	if rel.Version.Kind == rangeresolve.KindTag {
		ctx.Version = rel.Version.Tag.Version.String()
	}
	if rel.PreviousVersion != nil {
		if rel.PreviousVersion.Kind == rangeresolve.KindTag {
			ctx.PreviousVersion = rel.PreviousVersion.Tag.Version.String()
		} else {
			ctx.PreviousVersion = rel.PreviousVersion.Oid
		}
	}

	var b strings.Builder
	if err := r.tmpl.Execute(&b, ctx); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRenderError, err)
	}
	return b.String(), nil
}
