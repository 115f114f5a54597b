// Package engine matches stored pattern rules against document text and
// computes fix text from a rule's replacement payload. Everything here is
// fail open: a rule that cannot be compiled is inert, and a fix that does
// not apply reports "no fix" instead of an error.
package engine

import (
	"fmt"
	"regexp"
	"strings"

	"devreplay/internal/rule"
)

var placeholder = regexp.MustCompile(`\$(\d)`)

type pattern struct {
	re       *regexp.Regexp
	template string
}

// compile builds the matcher for a rule. Plain rules are quoted literally
// with $1..$9 placeholders turned into identifier captures; isRegex rules
// pass their lines through untouched. Lines are joined with newlines so a
// multi-line Before matches a multi-line span. A rule that fails to
// compile (bad regex, repeated placeholder) reports ok=false and is
// skipped by every caller.
func compile(r rule.Rule) (*pattern, bool) {
	if len(r.Before) == 0 {
		return nil, false
	}
	source := strings.Join(r.Before, "\n")
	var expr string
	if r.IsRegex {
		expr = source
	} else {
		expr = quotePattern(source)
	}
	if !r.MatchCase {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, false
	}
	template := strings.Join(r.After, "\n")
	if !r.IsRegex {
		template = placeholder.ReplaceAllString(template, `$${t$1}`)
	}
	return &pattern{re: re, template: template}, true
}

func quotePattern(source string) string {
	var b strings.Builder
	last := 0
	for _, loc := range placeholder.FindAllStringSubmatchIndex(source, -1) {
		b.WriteString(regexp.QuoteMeta(source[last:loc[0]]))
		fmt.Fprintf(&b, `(?P<t%s>[A-Za-z_][A-Za-z0-9_.]*)`, source[loc[2]:loc[3]])
		last = loc[1]
	}
	b.WriteString(regexp.QuoteMeta(source[last:]))
	return b.String()
}
