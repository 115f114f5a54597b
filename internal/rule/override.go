package rule

// Override is a requested change to a rule's severity: either an explicit
// level or a relative step.
type Override string

const (
	OverrideError     Override = "error"
	OverrideWarning   Override = "warning"
	OverrideInfo      Override = "info"
	OverrideHint      Override = "hint"
	OverrideOff       Override = "off"
	OverrideUpgrade   Override = "upgrade"
	OverrideDowngrade Override = "downgrade"
)

// ApplyOverride computes the new severity for a rule given its current
// severity and a requested override. Explicit levels apply
// unconditionally. Upgrade walks hint -> info -> warning -> error with
// error as a fixed point; downgrade is the mirror with hint as the fixed
// point. An unrecognized override leaves the severity unchanged. The
// function is pure and total.
func ApplyOverride(current Severity, override Override) Severity {
	switch override {
	case OverrideError, OverrideWarning, OverrideInfo, OverrideHint, OverrideOff:
		return Severity(override)
	case OverrideUpgrade:
		switch current {
		case SeverityHint:
			return SeverityInfo
		case SeverityInfo:
			return SeverityWarning
		case SeverityWarning, SeverityError:
			return SeverityError
		default:
			return current
		}
	case OverrideDowngrade:
		switch current {
		case SeverityError:
			return SeverityWarning
		case SeverityWarning:
			return SeverityInfo
		case SeverityInfo, SeverityHint:
			return SeverityHint
		default:
			return current
		}
	default:
		return current
	}
}
