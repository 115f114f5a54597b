package pretty

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"devreplay/internal/engine"
	"devreplay/internal/rule"
)

func TestFormatResultPlain(t *testing.T) {
	styles := NewStyles(false)
	res := engine.Result{
		Rule: rule.Rule{
			RuleID:   "r1",
			Message:  "use bar instead of foo",
			Severity: rule.SeverityWarning,
		},
		Start: engine.Position{Line: 1, Character: 5},
		End:   engine.Position{Line: 1, Character: 8},
	}
	out := styles.FormatResult("main.go", res, "let foo = 1")

	assert.Contains(t, out, "main.go:1:5")
	assert.Contains(t, out, "warning")
	assert.Contains(t, out, "use bar instead of foo")
	assert.Contains(t, out, "(r1)")
	assert.Contains(t, out, "let foo = 1")

	// Caret sits under column 5 and spans the three matched characters.
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, "          ^~~", lines[2])
}

func TestFormatResultWithoutSourceLine(t *testing.T) {
	styles := NewStyles(false)
	res := engine.Result{
		Rule:  rule.Rule{Message: "m", Severity: rule.SeverityError},
		Start: engine.Position{Line: 3, Character: 1},
		End:   engine.Position{Line: 3, Character: 2},
	}
	out := styles.FormatResult("a.py", res, "")
	assert.Contains(t, out, "a.py:3:1")
	assert.Contains(t, out, "error")
	assert.Contains(t, out, "(devreplay)")
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestFormatSeverityCoversDomain(t *testing.T) {
	styles := NewStyles(false)
	for _, sev := range []rule.Severity{
		rule.SeverityError, rule.SeverityWarning, rule.SeverityInfo,
		rule.SeverityHint, rule.SeverityOff,
	} {
		assert.Equal(t, string(sev), styles.FormatSeverity(sev))
	}
}

func TestColorEnabledModes(t *testing.T) {
	assert.True(t, ColorEnabled("on"))
	assert.True(t, ColorEnabled("always"))
	assert.False(t, ColorEnabled("off"))
	assert.False(t, ColorEnabled("never"))
}
