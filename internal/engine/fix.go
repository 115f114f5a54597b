package engine

import "devreplay/internal/rule"

// FixWithRule applies a single rule to text, which is normally the content
// of one diagnostic's range. It returns the text with the first match
// replaced by the rule's After payload, or ok=false when the rule has no
// replacement or its pattern no longer matches the text.
func FixWithRule(text string, r rule.Rule) (string, bool) {
	if len(r.After) == 0 {
		return "", false
	}
	p, ok := compile(r)
	if !ok {
		return "", false
	}
	m := p.re.FindStringSubmatchIndex(text)
	if m == nil {
		return "", false
	}
	expanded := p.re.ExpandString(nil, p.template, text, m)
	return text[:m[0]] + string(expanded) + text[m[1]:], true
}

// FixWithRules runs every rule's replacement over the whole text, in rule
// order. Later rules see the output of earlier ones, so overlapping fixes
// resolve by file order rather than conflicting. Returns ok=false when no
// rule changed anything. Callers filter with Applicable first so off and
// foreign-language rules do not rewrite the document.
func FixWithRules(text string, rules []rule.Rule) (string, bool) {
	changed := false
	for _, r := range rules {
		if len(r.After) == 0 {
			continue
		}
		p, ok := compile(r)
		if !ok {
			continue
		}
		replaced := p.re.ReplaceAllString(text, p.template)
		if replaced != text {
			text = replaced
			changed = true
		}
	}
	if !changed {
		return "", false
	}
	return text, true
}
