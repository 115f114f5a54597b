package pretty

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"devreplay/internal/engine"
	"devreplay/internal/rule"
)

// FormatResult formats one lint result as
// "path:line:col  severity  message  (ruleId)" followed by the source line
// with a caret marker under the matched span.
func (s *Styles) FormatResult(path string, res engine.Result, sourceLine string) string {
	var b strings.Builder
	location := fmt.Sprintf("%s:%d:%d", s.FilePath.Render(path), res.Start.Line, res.Start.Character)
	ruleID := res.Rule.RuleID
	if ruleID == "" {
		ruleID = "devreplay"
	}
	fmt.Fprintf(&b, "  %s  %s  %s  %s\n",
		location,
		s.FormatSeverity(res.Rule.EffectiveSeverity()),
		s.Message.Render(res.Rule.Description()),
		s.RuleID.Render("("+ruleID+")"),
	)
	if sourceLine != "" {
		b.WriteString(s.formatSourceContext(sourceLine, res))
	}
	return b.String()
}

// FormatSeverity returns a styled severity label.
func (s *Styles) FormatSeverity(sev rule.Severity) string {
	switch sev {
	case rule.SeverityError:
		return s.Error.Render("error")
	case rule.SeverityWarning:
		return s.Warning.Render("warning")
	case rule.SeverityInfo:
		return s.Info.Render("info")
	case rule.SeverityHint:
		return s.Hint.Render("hint")
	case rule.SeverityOff:
		return s.Off.Render("off")
	default:
		return string(sev)
	}
}

func (s *Styles) formatSourceContext(line string, res engine.Result) string {
	const indent = "      "
	var b strings.Builder
	b.WriteString(indent + s.SourceLine.Render(line) + "\n")

	// Align the caret under the match start, accounting for wide runes.
	runes := []rune(line)
	col := res.Start.Character - 1
	if col > len(runes) {
		col = len(runes)
	}
	pad := runewidth.StringWidth(string(runes[:col]))
	span := 1
	if res.End.Line == res.Start.Line && res.End.Character > res.Start.Character {
		span = res.End.Character - res.Start.Character
	}
	marker := "^" + strings.Repeat("~", span-1)
	b.WriteString(indent + strings.Repeat(" ", pad) + s.Caret.Render(marker) + "\n")
	return b.String()
}
