package rule

import "strings"

// Severity is the user-facing severity of a rule.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeverityHint    Severity = "hint"
	SeverityOff     Severity = "off"
)

// ParseSeverity normalizes a raw severity string. Matching is lenient:
// only the first letter matters and case is ignored, so "E", "err" and
// "Error" all parse to SeverityError. Anything unrecognized parses to
// SeverityWarning so a typo in a rule file weakens a rule instead of
// hiding it.
func ParseSeverity(raw string) Severity {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return SeverityWarning
	}
	switch trimmed[0] {
	case 'E', 'e':
		return SeverityError
	case 'W', 'w':
		return SeverityWarning
	case 'I', 'i':
		return SeverityInfo
	case 'H', 'h':
		return SeverityHint
	case 'O', 'o':
		return SeverityOff
	default:
		return SeverityWarning
	}
}
