package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateSeverity(t *testing.T) {
	rules := []Rule{
		{RuleID: "r1", Severity: SeverityWarning},
		{RuleID: "r2", Severity: SeverityError},
		{RuleID: "r1", Severity: SeverityHint},
	}

	updated := UpdateSeverity(rules, "r1", OverrideUpgrade)
	assert.Equal(t, 2, updated)
	assert.Equal(t, SeverityError, rules[0].Severity)
	assert.Equal(t, SeverityError, rules[1].Severity) // untouched
	assert.Equal(t, SeverityInfo, rules[2].Severity)

	assert.Zero(t, UpdateSeverity(rules, "missing", OverrideOff))
	assert.Zero(t, UpdateSeverity(rules, "", OverrideOff))
}

func TestDescription(t *testing.T) {
	assert.Equal(t, "msg", Rule{RuleID: "r", Before: []string{"p"}, Message: "msg"}.Description())
	assert.Equal(t, "p", Rule{RuleID: "r", Before: []string{"p"}}.Description())
	assert.Equal(t, "r", Rule{RuleID: "r"}.Description())
}

func TestEffectiveSeverityDefaultsToWarning(t *testing.T) {
	assert.Equal(t, SeverityWarning, Rule{}.EffectiveSeverity())
	assert.Equal(t, SeverityError, Rule{Severity: "E"}.EffectiveSeverity())
}
