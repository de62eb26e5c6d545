package question

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mind-engage/pseudocheck/internal/grading"
)

// Recorder persists the outcome of a grading. Failures never change the
// verdict returned to the learner.
type Recorder interface {
	RecordVerdict(ctx context.Context, questionID int64, userCode string, v grading.Verdict) error
}

// Service resolves questions to their accepted answers and grades
// submissions against them.
type Service struct {
	store    Store
	grader   grading.Grader
	recorder Recorder
	log      *slog.Logger
	onRecErr func(ctx context.Context)
}

type ServiceOption func(*Service)

func WithRecorder(r Recorder) ServiceOption { return func(s *Service) { s.recorder = r } }

func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithRecordErrorHook is called whenever the recorder fails.
func WithRecordErrorHook(fn func(ctx context.Context)) ServiceOption {
	return func(s *Service) { s.onRecErr = fn }
}

func NewService(store Store, grader grading.Grader, opts ...ServiceOption) *Service {
	if grader == nil {
		grader = grading.NewGrader()
	}
	s := &Service{store: store, grader: grader, log: slog.Default()}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) Store() Store { return s.store }

// Grade looks up the question's answers and grades userCode against them.
// An unknown id yields ErrNotFound; storage failures are returned wrapped.
func (s *Service) Grade(ctx context.Context, questionID int64, userCode string) (grading.Verdict, error) {
	answers, err := s.store.Answers(ctx, questionID)
	if err != nil {
		return grading.Verdict{}, fmt.Errorf("grade question %d: %w", questionID, err)
	}
	v := s.grader.Grade(ctx, userCode, answers)
	s.log.DebugContext(ctx, "graded submission",
		"question_id", questionID,
		"status", v.Status,
		"errors", len(v.Discrepancies),
	)
	if s.recorder != nil {
		if err := s.recorder.RecordVerdict(ctx, questionID, userCode, v); err != nil {
			s.log.WarnContext(ctx, "record submission failed", "question_id", questionID, "err", err)
			if s.onRecErr != nil {
				s.onRecErr(ctx)
			}
		}
	}
	return v, nil
}
