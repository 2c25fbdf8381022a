package collect

import (
	"fmt"
	"strings"
)

// Policy decides whether a failed unit of work (a page, a division, a year)
// is logged and skipped or returned to the caller.
type Policy int

const (
	// PolicyLegacy keeps the long-standing per-operation behaviour of the
	// collectors: page, division and per-year metadata failures are
	// skipped, Scores never fails, and CompetitorsRange stops at the first
	// failing year.
	PolicyLegacy Policy = iota
	// PolicyContinue skips every failing unit, including whole years.
	PolicyContinue
	// PolicyPropagate returns the first failure from every operation.
	PolicyPropagate
)

func (p Policy) String() string {
	switch p {
	case PolicyLegacy:
		return "legacy"
	case PolicyContinue:
		return "continue"
	case PolicyPropagate:
		return "propagate"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy reads a policy name as produced by Policy.String.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "legacy":
		return PolicyLegacy, nil
	case "continue":
		return PolicyContinue, nil
	case "propagate":
		return PolicyPropagate, nil
	default:
		return PolicyLegacy, fmt.Errorf("unknown error policy %q (want legacy, continue or propagate)", s)
	}
}
