package grading

import "strings"

// rule pairs a predicate over (user, expected) with the reason it reports.
type rule struct {
	match  func(user, expected string) bool
	reason Reason
}

// rules are evaluated in order and the first match wins. The markers are plain
// substrings, so "format" counts as a loop and "bend" as a terminator.
var rules = []rule{
	{func(u, e string) bool { return bothHave(u, e, "for") && bothHave(u, e, "to") }, ReasonLoopBounds},
	{func(u, e string) bool { return bothHave(u, e, "for") }, ReasonLoopLogic},
	{func(u, e string) bool { return bothHave(u, e, "if") }, ReasonCondition},
	{func(u, e string) bool { return isAssignment(e) && isAssignment(u) }, ReasonAssignment},
	{func(_, e string) bool { return hasAny(e, "end", "stop") }, ReasonTermination},
	{func(_, e string) bool { return hasAny(e, "start", "begin") }, ReasonOrder},
}

// Classify infers why user differs from expected. Both lines are expected to
// be normalized already. It always returns a reason.
func Classify(user, expected string) Reason {
	for _, r := range rules {
		if r.match(user, expected) {
			return r.reason
		}
	}
	return ReasonSyntax
}

func bothHave(a, b, marker string) bool {
	return strings.Contains(a, marker) && strings.Contains(b, marker)
}

func isAssignment(s string) bool { return hasAny(s, "set", "=") }

func hasAny(s string, markers ...string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
