package conventional

import (
	"regexp"
	"strings"
)

// headerRegex implements `type ("(" scope ")")? "!"? ":" SP summary`.
var headerRegex = regexp.MustCompile(`^([A-Za-z0-9]+)(\(([A-Za-z0-9_-]+)\))?(!)?: (.*)$`)

// footerTokenRegex matches "TOKEN: value" and "TOKEN #value" footer lines.
// BREAKING CHANGE is the one token allowed to contain a literal space.
var footerTokenRegex = regexp.MustCompile(`^(BREAKING CHANGE|BREAKING-CHANGE|[A-Za-z-]+)(: | #)(.*)$`)

// Options tweaks parsing for call sites that tolerate looser input.
type Options struct {
	// IgnoreMergeCommits excludes merge commits from the result entirely
	// (ParseMessage returns (Commit{}, true, nil) for "excluded").
	IgnoreMergeCommits bool
}

// ParseMessage parses and classifies raw against types, per the grammar
// in §4.1. excluded is true when the message is a merge commit and
// opts.IgnoreMergeCommits is set; in that case err and commit are both
// zero-valued and the caller should skip the commit silently.
func ParseMessage(raw RawCommit, types *Registry, opts Options) (commit Commit, excluded bool, err error) {
	if strings.HasPrefix(raw.Message, "Merge ") {
		if opts.IgnoreMergeCommits {
			return Commit{}, true, nil
		}
	}

	lines := strings.Split(normalizeNewlines(raw.Message), "\n")
	header := lines[0]

	match := headerRegex.FindStringSubmatch(header)
	if match == nil {
		return Commit{}, false, &ParseError{Kind: MissingSeparator, Oid: raw.Oid, Author: raw.Author, Detail: header}
	}

	typeName, scope, bang, summary := match[1], match[3], match[4] == "!", match[5]

	if summary == "" {
		return Commit{}, false, &ParseError{Kind: EmptySummary, Oid: raw.Oid, Author: raw.Author}
	}

	ct, ok := types.Lookup(typeName)
	if !ok {
		return Commit{}, false, &ParseError{Kind: UnknownType, Oid: raw.Oid, Author: raw.Author, Type: typeName}
	}

	body, footers, ferr := parseBodyAndFooters(lines[1:])
	if ferr != nil {
		return Commit{}, false, &ParseError{Kind: MalformedFooter, Oid: raw.Oid, Author: raw.Author, Detail: ferr.Error()}
	}

	breaking := bang
	for _, f := range footers {
		if canonicalFooterToken(f.Token) == "BREAKING CHANGE" {
			breaking = true
		}
	}

	return Commit{
		Oid:         raw.Oid,
		Author:      raw.Author,
		Committer:   raw.Committer,
		CommittedAt: raw.CommittedAt,
		Type:        ct,
		Scope:       scope,
		Summary:     summary,
		Body:        body,
		Footers:     footers,
		Breaking:    breaking,
	}, false, nil
}

// canonicalFooterToken normalises the two historically divergent spellings
// of the breaking-change trailer to one token, per spec §9's "mandates one
// canonical parser" note.
func canonicalFooterToken(token string) string {
	switch strings.ToUpper(token) {
	case "BREAKING CHANGE", "BREAKING-CHANGE":
		return "BREAKING CHANGE"
	default:
		return token
	}
}

// parseBodyAndFooters splits the remaining paragraphs (after the header)
// into an optional free-text body and the trailing footer block. The last
// paragraph is taken as the footer block only when every non-blank line in
// it matches footerTokenRegex; a paragraph holding a multi-line footer
// value (a continuation line without a token) is kept as body text.
func parseBodyAndFooters(rest []string) (body string, footers []Footer, err error) {
	paragraphs := splitParagraphs(rest)
	if len(paragraphs) == 0 {
		return "", nil, nil
	}

	last := paragraphs[len(paragraphs)-1]
	if looksLikeFooterBlock(last) {
		footers, err = parseFooterBlock(last)
		if err != nil {
			return "", nil, err
		}
		paragraphs = paragraphs[:len(paragraphs)-1]
	}

	body = strings.TrimSpace(strings.Join(paragraphs, "\n\n"))
	return body, footers, nil
}

func splitParagraphs(lines []string) []string {
	joined := strings.TrimSpace(strings.Join(lines, "\n"))
	if joined == "" {
		return nil
	}
	return strings.Split(joined, "\n\n")
}

func looksLikeFooterBlock(paragraph string) bool {
	for _, line := range strings.Split(paragraph, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !footerTokenRegex.MatchString(line) {
			return false
		}
	}
	return true
}

func parseFooterBlock(paragraph string) ([]Footer, error) {
	var footers []Footer
	var current *Footer

	for _, line := range strings.Split(paragraph, "\n") {
		if m := footerTokenRegex.FindStringSubmatch(line); m != nil {
			token := canonicalFooterToken(m[1])
			footers = append(footers, Footer{Token: token, Value: m[3]})
			current = &footers[len(footers)-1]
			continue
		}
		if current == nil {
			return nil, errMalformedFooterContinuation
		}
		current.Value += "\n" + line
	}
	return footers, nil
}

type malformedFooterError struct{ msg string }

func (e malformedFooterError) Error() string { return e.msg }

var errMalformedFooterContinuation = malformedFooterError{"footer continuation line with no preceding token"}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.TrimRight(s, "\n")
}
