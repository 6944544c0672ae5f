package changelog

import (
	"sort"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Group is a template-facing {title, commits} bucket produced by
// group_by_type, ordered by each type's declaration order (§4.7).
type Group struct {
	Title   string
	Order   uint16
	Commits []ClassifiedCommit
}

var titleCaser = cases.Title(language.Und, cases.NoLower)

// FuncMap returns the text/template function map the renderer registers:
// sprig's full set (the same library clikd-inc-cli wires into its
// chglog template engine) plus the four filters spec §4.7 requires.
func FuncMap() template.FuncMap {
	fm := sprig.TxtFuncMap()
	fm["upper_first"] = upperFirst
	fm["unscoped"] = unscoped
	fm["group_by_type"] = groupByType
	fm["unique_contributors"] = uniqueContributors
	return fm
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return titleCaser.String(s[:1]) + s[1:]
}

// unscoped strips a leading "(scope) " annotation from a rendered title,
// e.g. "(**api**) add widgets" -> "add widgets".
func unscoped(s string) string {
	if strings.HasPrefix(s, "(") {
		if idx := strings.Index(s, ") "); idx >= 0 {
			return s[idx+2:]
		}
	}
	return s
}

// groupByType groups commits by type, ordered by declaration order
// (type_order), preserving each group's reverse-chronological order.
func groupByType(commits []ClassifiedCommit) []Group {
	byTitle := make(map[string]*Group)
	var order []string

	for _, c := range commits {
		title := c.Type.ChangelogTitle
		if title == "" {
			title = c.Type.Name
		}
		g, ok := byTitle[title]
		if !ok {
			g = &Group{Title: title, Order: c.TypeOrder}
			byTitle[title] = g
			order = append(order, title)
		}
		g.Commits = append(g.Commits, c)
	}

	groups := make([]Group, 0, len(order))
	for _, title := range order {
		groups = append(groups, *byTitle[title])
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Order < groups[j].Order })
	return groups
}

// uniqueContributors returns the distinct author usernames (falling back
// to the raw signature) across commits, in first-seen order.
func uniqueContributors(commits []ClassifiedCommit) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range commits {
		name := c.AuthorUsername
		if name == "" {
			name = c.Author
		}
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}
