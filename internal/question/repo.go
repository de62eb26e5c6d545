package question

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("question not found")

type ListOpts struct {
	Difficulties []Difficulty // empty means all
	Q            string       // case-insensitive title filter
	Limit        int          // 0 means no limit
	Offset       int
}

type Store interface {
	ListQuestions(ctx context.Context, opts ListOpts) ([]Summary, error)
	GetQuestion(ctx context.Context, id int64) (Question, error) // includes answers
	Answers(ctx context.Context, id int64) ([][]string, error)

	// PutQuestion inserts or replaces q together with its answers. A zero ID
	// allocates a new one; the stored question is returned.
	PutQuestion(ctx context.Context, q Question) (Question, error)
	DeleteQuestion(ctx context.Context, id int64) error
}
