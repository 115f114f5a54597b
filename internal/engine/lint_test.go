package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devreplay/internal/rule"
)

func TestLintSingleMatch(t *testing.T) {
	rules := []rule.Rule{{RuleID: "r1", Before: []string{"foo"}, After: []string{"bar"}, Severity: rule.SeverityWarning}}
	results := Lint("test.txt", "foo", rules)
	require.Len(t, results, 1)
	assert.Equal(t, "r1", results[0].Rule.RuleID)
	assert.Equal(t, Position{Line: 1, Character: 1}, results[0].Start)
	assert.Equal(t, Position{Line: 1, Character: 4}, results[0].End)
}

func TestLintPositionsOnLaterLines(t *testing.T) {
	content := "one\ntwo foo two\nthree"
	rules := []rule.Rule{{RuleID: "r1", Before: []string{"foo"}}}
	results := Lint("test.txt", content, rules)
	require.Len(t, results, 1)
	assert.Equal(t, Position{Line: 2, Character: 5}, results[0].Start)
	assert.Equal(t, Position{Line: 2, Character: 8}, results[0].End)
}

func TestLintMultipleMatches(t *testing.T) {
	rules := []rule.Rule{{RuleID: "r1", Before: []string{"foo"}}}
	results := Lint("test.txt", "foo foo\nfoo", rules)
	assert.Len(t, results, 3)
}

func TestLintSkipsOffRules(t *testing.T) {
	rules := []rule.Rule{{RuleID: "r1", Before: []string{"foo"}, Severity: rule.SeverityOff}}
	assert.Empty(t, Lint("test.txt", "foo", rules))
}

func TestLintSkipsUncompilableRules(t *testing.T) {
	rules := []rule.Rule{
		{RuleID: "bad", Before: []string{"("}, IsRegex: true},
		{RuleID: "good", Before: []string{"foo"}},
	}
	results := Lint("test.txt", "( foo", rules)
	require.Len(t, results, 1)
	assert.Equal(t, "good", results[0].Rule.RuleID)
}

func TestLintLanguageScopedRules(t *testing.T) {
	rules := []rule.Rule{{RuleID: "go-only", Before: []string{"fmt.Print"}, Language: "Go"}}
	content := "package main\n\nfunc main() { fmt.Print(1) }\n"
	assert.Len(t, Lint("main.go", content, rules), 1)
	assert.Empty(t, Lint("script.py", content, rules))
}

func TestLintPlaceholderPattern(t *testing.T) {
	rules := []rule.Rule{{RuleID: "r1", Before: []string{"print($1)"}, After: []string{"log($1)"}}}
	results := Lint("test.txt", "print(value)", rules)
	require.Len(t, results, 1)
	assert.Equal(t, Position{Line: 1, Character: 1}, results[0].Start)
	assert.Equal(t, Position{Line: 1, Character: 13}, results[0].End)
}

func TestLintRegexRule(t *testing.T) {
	rules := []rule.Rule{{RuleID: "r1", Before: []string{`\bTODO\b`}, IsRegex: true, MatchCase: true}}
	results := Lint("test.txt", "// TODOS and TODO", rules)
	require.Len(t, results, 1)
	assert.Equal(t, Position{Line: 1, Character: 14}, results[0].Start)
}

func TestLintCaseInsensitiveByDefault(t *testing.T) {
	rules := []rule.Rule{{RuleID: "r1", Before: []string{"foo"}}}
	assert.Len(t, Lint("test.txt", "FOO", rules), 1)

	strict := []rule.Rule{{RuleID: "r1", Before: []string{"foo"}, MatchCase: true}}
	assert.Empty(t, Lint("test.txt", "FOO", strict))
}

func TestApplicableKeepsUnscopedRules(t *testing.T) {
	rules := []rule.Rule{
		{RuleID: "any", Before: []string{"x"}},
		{RuleID: "off", Before: []string{"x"}, Severity: rule.SeverityOff},
		{RuleID: "py", Before: []string{"x"}, Language: "Python"},
	}
	got := Applicable("main.go", "package main\n", rules)
	require.Len(t, got, 1)
	assert.Equal(t, "any", got[0].RuleID)
}
