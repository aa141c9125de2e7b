package interval

import (
	"regexp"
	"strings"

	"github.com/leapstack-labs/strata/pkg/core"
	"golang.org/x/text/cases"
)

// GhostMatcher recognizes intervals excluded from anti-gap snapping.
//
// The pattern follows SQL LIKE: % matches any run of characters, _ matches
// exactly one, everything else is literal. Matching covers the whole text and
// ignores case using Unicode case folding. An empty pattern matches nothing.
type GhostMatcher struct {
	re   *regexp.Regexp
	fold cases.Caser
}

// NewGhostMatcher compiles a LIKE pattern.
func NewGhostMatcher(pattern string) *GhostMatcher {
	m := &GhostMatcher{fold: cases.Fold()}
	if pattern == "" {
		return m
	}

	var b strings.Builder
	b.WriteString(`(?s)^`)
	for _, r := range m.fold.String(pattern) {
		switch r {
		case '%':
			b.WriteString(`.*`)
		case '_':
			b.WriteString(`.`)
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString(`$`)
	m.re = regexp.MustCompile(b.String())
	return m
}

// Match reports whether text matches the pattern.
func (m *GhostMatcher) Match(text string) bool {
	if m.re == nil {
		return false
	}
	return m.re.MatchString(m.fold.String(text))
}

// IsGhost reports whether the code or the comment of i matches.
func (m *GhostMatcher) IsGhost(i *core.Interval) bool {
	return m.Match(i.Code) || m.Match(i.Comments)
}
