package question

import (
	"strings"
	"time"
)

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case Easy, Medium, Hard:
		return true
	}
	return false
}

// ParseDifficulties reads a comma separated filter such as "Easy, medium".
// Blank entries are skipped.
func ParseDifficulties(s string) []Difficulty {
	var out []Difficulty
	for _, p := range strings.Split(s, ",") {
		if d := strings.ToLower(strings.TrimSpace(p)); d != "" {
			out = append(out, Difficulty(d))
		}
	}
	return out
}

// Answer is one accepted solution, stored as raw lines.
type Answer struct {
	ID   int64    `json:"id"`
	Code []string `json:"code"`
}

type Question struct {
	ID          int64      `json:"id"`
	Difficulty  Difficulty `json:"difficulty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"createdAt"`
	Answers     []Answer   `json:"answers,omitempty"`
}

// Summary is the list view of a question; it never carries answers.
type Summary struct {
	ID          int64      `json:"id"`
	Difficulty  Difficulty `json:"difficulty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func (q Question) Summary() Summary {
	return Summary{
		ID:          q.ID,
		Difficulty:  q.Difficulty,
		Title:       q.Title,
		Description: q.Description,
		CreatedAt:   q.CreatedAt,
	}
}

// AnswerLines returns the raw lines of every answer, in order.
func (q Question) AnswerLines() [][]string {
	out := make([][]string, 0, len(q.Answers))
	for _, a := range q.Answers {
		out = append(out, a.Code)
	}
	return out
}

// WithoutAnswers returns a copy of q that is safe to show to learners.
func (q Question) WithoutAnswers() Question {
	q.Answers = nil
	return q
}
