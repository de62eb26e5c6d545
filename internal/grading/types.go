package grading

// Status is the overall outcome of grading one submission.
type Status string

const (
	StatusCorrect   Status = "correct"
	StatusPartial   Status = "partial"
	StatusIncorrect Status = "incorrect"
)

// Reason is the human-readable category attached to a Discrepancy.
type Reason string

const (
	ReasonExtraLine   Reason = "extra line"
	ReasonMissingLine Reason = "missing line"

	ReasonLoopBounds  Reason = "incorrect loop bounds"
	ReasonLoopLogic   Reason = "wrong loop logic"
	ReasonCondition   Reason = "missing or incorrect condition"
	ReasonAssignment  Reason = "incorrect variable assignment"
	ReasonTermination Reason = "incorrect termination statement"
	ReasonOrder       Reason = "incorrect order — should be at the beginning"
	ReasonSyntax      Reason = "incorrect statement or syntax"

	ReasonNoCode    Reason = "no code submitted"
	ReasonNoAnswers Reason = "no valid answers available for this question"
	ReasonEmpty     Reason = "empty submission"
)

// Discrepancy describes a single line-level mismatch. LineNumber is 1-based;
// guard records produced before any comparison use 0. Expected holds zero or
// one normalized line.
type Discrepancy struct {
	LineNumber int      `json:"lineNumber"`
	Expected   []string `json:"expected"`
	Received   string   `json:"received"`
	Reason     Reason   `json:"reason"`
}

// ComparisonResult is the outcome of comparing a submission with one
// reference answer.
type ComparisonResult struct {
	Matches       bool
	Discrepancies []Discrepancy
}

// Verdict is the grading result returned to callers.
type Verdict struct {
	Status        Status        `json:"status"`
	Discrepancies []Discrepancy `json:"errors"`
}
