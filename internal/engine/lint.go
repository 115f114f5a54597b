package engine

import (
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"

	"devreplay/internal/rule"
)

// Position is a 1-based line/character pair, counted in runes.
type Position struct {
	Line      int
	Character int
}

// Result is one match of a rule against a document. Results are transient:
// they live for a single lint invocation and are never persisted.
type Result struct {
	Rule  rule.Rule
	Start Position
	End   Position
}

// Lint matches every applicable rule against content and returns the
// matches in rule order, then match order. Rules with severity off and
// rules scoped to another language never match.
func Lint(path, content string, rules []rule.Rule) []Result {
	var results []Result
	for _, r := range Applicable(path, content, rules) {
		p, ok := compile(r)
		if !ok {
			continue
		}
		for _, loc := range p.re.FindAllStringIndex(content, -1) {
			results = append(results, Result{
				Rule:  r,
				Start: positionAt(content, loc[0]),
				End:   positionAt(content, loc[1]),
			})
		}
	}
	return results
}

// Applicable filters rules down to those that apply to the given file:
// severity off is excluded, and a rule carrying a language only applies
// when go-enry detects that language for the path.
func Applicable(path, content string, rules []rule.Rule) []rule.Rule {
	lang := ""
	out := make([]rule.Rule, 0, len(rules))
	for _, r := range rules {
		if r.EffectiveSeverity() == rule.SeverityOff {
			continue
		}
		if r.Language != "" {
			if lang == "" {
				lang = enry.GetLanguage(filepath.Base(path), []byte(content))
			}
			if !strings.EqualFold(r.Language, lang) {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

func positionAt(content string, offset int) Position {
	line, char := 1, 1
	for i, r := range content {
		if i >= offset {
			break
		}
		if r == '\n' {
			line++
			char = 1
		} else {
			char++
		}
	}
	return Position{Line: line, Character: char}
}
