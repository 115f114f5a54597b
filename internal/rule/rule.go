// Package rule models the pattern rules stored in a workspace's
// .devreplay.json file: the rule record itself, its severity scale, the
// severity override transitions, and the rule-file store.
package rule

// Rule is one stored pattern/fix record, the unit of user-facing
// configuration. The pattern payload (Before/After) is opaque to the
// editor-facing layers; only the engine interprets it.
type Rule struct {
	RuleID      string   `json:"ruleId,omitempty"`
	Before      []string `json:"before"`
	After       []string `json:"after,omitempty"`
	Severity    Severity `json:"severity,omitempty"`
	Message     string   `json:"message,omitempty"`
	Language    string   `json:"language,omitempty"`
	IsRegex     bool     `json:"isRegex,omitempty"`
	MatchCase   bool     `json:"matchCase,omitempty"`
	Deprecated  bool     `json:"deprecated,omitempty"`
	Unnecessary bool     `json:"unnecessary,omitempty"`
}

// EffectiveSeverity returns the rule's severity normalized through the
// lenient parser, defaulting to warning.
func (r Rule) EffectiveSeverity() Severity {
	return ParseSeverity(string(r.Severity))
}

// Description returns the human-readable message for the rule, falling
// back to its pattern when no message is set.
func (r Rule) Description() string {
	if r.Message != "" {
		return r.Message
	}
	if len(r.Before) > 0 {
		return r.Before[0]
	}
	return r.RuleID
}

// UpdateSeverity applies an override to every rule whose RuleID equals
// ruleID and reports how many rules changed. Duplicate IDs are all
// updated; the scan does not assume uniqueness.
func UpdateSeverity(rules []Rule, ruleID string, override Override) int {
	if ruleID == "" {
		return 0
	}
	updated := 0
	for i := range rules {
		if rules[i].RuleID != ruleID {
			continue
		}
		rules[i].Severity = ApplyOverride(rules[i].EffectiveSeverity(), override)
		updated++
	}
	return updated
}
