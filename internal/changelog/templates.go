package changelog

// Built-in templates (§4.7/§6): default, remote, full_hash, github.
// Each receives a templateContext (see render.go) built from a Release.

const defaultTemplate = `## {{ if .Package }}{{ .Package }} {{ end }}[{{ .Version }}] - {{ .Date }}
{{ range group_by_type .Commits }}
### {{ .Title }}

{{ range .Commits }}- {{ if .Scope }}({{ .Scope }}) {{ end }}{{ upper_first .Summary }}
{{ end }}{{ end }}`

const remoteTemplate = `## {{ if .Package }}{{ .Package }} {{ end }}[{{ .Version }}]({{ .Remote }}/compare/{{ .PreviousVersion }}...{{ .Version }}) - {{ .Date }}
{{ range group_by_type .Commits }}
### {{ .Title }}

{{ range .Commits }}- {{ if .Scope }}({{ .Scope }}) {{ end }}{{ upper_first .Summary }} ([{{ slice .Oid 0 7 }}]({{ $.Remote }}/commit/{{ .Oid }}))
{{ end }}{{ end }}`

const fullHashTemplate = `## {{ if .Package }}{{ .Package }} {{ end }}[{{ .Version }}] - {{ .Date }}
{{ range group_by_type .Commits }}
### {{ .Title }}

{{ range .Commits }}- {{ .Oid }} {{ if .Scope }}({{ .Scope }}) {{ end }}{{ upper_first .Summary }}
{{ end }}{{ end }}`

const githubTemplate = `## {{ if .Package }}{{ .Package }} {{ end }}[{{ .Version }}] - {{ .Date }}
{{ range group_by_type .Commits }}
### {{ .Title }}

{{ range .Commits }}- {{ if .Scope }}({{ .Scope }}) {{ end }}{{ upper_first .Summary }} by @{{ if .AuthorUsername }}{{ .AuthorUsername }}{{ else }}{{ .Author }}{{ end }}
{{ end }}{{ end }}

**Contributors**: {{ range unique_contributors .Commits }}@{{ . }} {{ end }}`

var builtinTemplates = map[string]string{
	"default":   defaultTemplate,
	"remote":    remoteTemplate,
	"full_hash": fullHashTemplate,
	"github":    githubTemplate,
}
