package grading

import (
	"context"
	"time"
)

// partialThreshold separates partial from incorrect: a best match whose
// discrepancy count is below half the submission's line count is partial.
const partialThreshold = 0.5

// Match grades userCode against every accepted answer of a question. Each
// answer is a list of raw lines. The first answer that matches exactly wins;
// otherwise the answer with the fewest discrepancies (earliest on ties)
// supplies the feedback.
func Match(userCode string, answers [][]string) Verdict {
	if userCode == "" {
		return rejected(ReasonNoCode)
	}
	if len(answers) == 0 {
		return rejected(ReasonNoAnswers)
	}
	user := ParseSubmission(userCode)
	if len(user) == 0 {
		return rejected(ReasonEmpty)
	}

	var best ComparisonResult
	minCount := -1
	for _, a := range answers {
		res := Compare(user, NormalizeLines(a))
		if res.Matches {
			return Verdict{Status: StatusCorrect, Discrepancies: []Discrepancy{}}
		}
		if minCount < 0 || len(res.Discrepancies) < minCount {
			minCount = len(res.Discrepancies)
			best = res
		}
	}

	status := StatusIncorrect
	if float64(minCount)/float64(max(len(user), 1)) < partialThreshold {
		status = StatusPartial
	}
	return Verdict{Status: status, Discrepancies: best.Discrepancies}
}

func rejected(reason Reason) Verdict {
	return Verdict{
		Status: StatusIncorrect,
		Discrepancies: []Discrepancy{{
			LineNumber: 0,
			Expected:   []string{},
			Received:   "",
			Reason:     reason,
		}},
	}
}

// Observer is notified after every grading.
type Observer interface {
	ObserveVerdict(ctx context.Context, v Verdict, took time.Duration)
}

// Grader wraps Match so callers can attach observers.
type Grader interface {
	Grade(ctx context.Context, userCode string, answers [][]string) Verdict
}

type Option func(*config)

type config struct {
	observers []Observer
	now       func() time.Time
}

func WithObserver(o Observer) Option {
	return func(c *config) {
		if o != nil {
			c.observers = append(c.observers, o)
		}
	}
}

// WithClock overrides the clock used to time gradings.
func WithClock(now func() time.Time) Option { return func(c *config) { c.now = now } }

// NewGrader returns a Grader backed by Match.
func NewGrader(opts ...Option) Grader {
	cfg := &config{now: time.Now}
	for _, o := range opts {
		o(cfg)
	}
	return &defaultGrader{cfg: cfg}
}

type defaultGrader struct {
	cfg *config
}

func (g *defaultGrader) Grade(ctx context.Context, userCode string, answers [][]string) Verdict {
	start := g.cfg.now()
	v := Match(userCode, answers)
	took := g.cfg.now().Sub(start)
	for _, o := range g.cfg.observers {
		o.ObserveVerdict(ctx, v, took)
	}
	return v
}
