package exclusion

import (
	"regexp"
	"strings"
)

// globPattern implements simple wildcard semantics: '*' means ".*",
// every other character is literal.
type globPattern struct {
	re *regexp.Regexp
}

func newGlobPattern(pattern string) *globPattern {
	var sb strings.Builder
	sb.WriteString("^")
	for _, part := range strings.Split(pattern, "*") {
		sb.WriteString(regexp.QuoteMeta(part))
		sb.WriteString(".*")
	}
	restr := strings.TrimSuffix(sb.String(), ".*") + "$"
	re, err := regexp.Compile(restr)
	if err != nil {
		// Unreachable in practice since QuoteMeta-escaped literals plus
		// ".*" are always valid regexes; fall back to a never-matching
		// pattern rather than panicking.
		re = regexp.MustCompile(`$.^`)
	}
	return &globPattern{re: re}
}

func (g *globPattern) match(s string) bool {
	return g.re.MatchString(s)
}
