// Package submission keeps an append-only log of graded submissions.
package submission

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/pseudocheck/internal/grading"
	"github.com/mind-engage/pseudocheck/internal/question"
)

type Record struct {
	ID         string         `json:"id"`
	QuestionID int64          `json:"questionId"`
	Status     grading.Status `json:"status"`
	ErrorCount int            `json:"errorCount"`
	LineCount  int            `json:"lineCount"`
	UserCode   string         `json:"userCode"`
	CreatedAt  time.Time      `json:"createdAt"`
}

// Stats counts submissions per status for one question.
type Stats struct {
	QuestionID int64 `json:"questionId"`
	Total      int   `json:"total"`
	Correct    int   `json:"correct"`
	Partial    int   `json:"partial"`
	Incorrect  int   `json:"incorrect"`
}

type Repo struct {
	db  *sql.DB
	now func() time.Time
}

func NewRepo(db *sql.DB) *Repo { return &Repo{db: db, now: time.Now} }

func (r *Repo) Append(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = r.now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO submissions (id, question_id, status, error_count, line_count, user_code, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		rec.ID, rec.QuestionID, string(rec.Status), rec.ErrorCount, rec.LineCount, rec.UserCode, rec.CreatedAt.UnixNano())
	if err != nil {
		return Record{}, fmt.Errorf("append submission: %w", err)
	}
	return rec, nil
}

// RecordVerdict satisfies question.Recorder.
func (r *Repo) RecordVerdict(ctx context.Context, questionID int64, userCode string, v grading.Verdict) error {
	_, err := r.Append(ctx, FromVerdict(questionID, userCode, v))
	return err
}

// FromVerdict builds the log record for one grading.
func FromVerdict(questionID int64, userCode string, v grading.Verdict) Record {
	return Record{
		QuestionID: questionID,
		Status:     v.Status,
		ErrorCount: len(v.Discrepancies),
		LineCount:  len(grading.ParseSubmission(userCode)),
		UserCode:   userCode,
	}
}

// Recent returns the newest submissions for a question, newest first.
func (r *Repo) Recent(ctx context.Context, questionID int64, limit int) ([]Record, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, question_id, status, error_count, line_count, user_code, created_at
		   FROM submissions
		  WHERE question_id=$1
		  ORDER BY created_at DESC, id
		  LIMIT $2`, questionID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent submissions: %w", err)
	}
	defer rows.Close()

	out := make([]Record, 0)
	for rows.Next() {
		var (
			rec     Record
			status  string
			created int64
		)
		if err := rows.Scan(&rec.ID, &rec.QuestionID, &status, &rec.ErrorCount, &rec.LineCount, &rec.UserCode, &created); err != nil {
			return nil, fmt.Errorf("recent submissions: %w", err)
		}
		rec.Status = grading.Status(status)
		rec.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *Repo) Stats(ctx context.Context, questionID int64) (Stats, error) {
	st := Stats{QuestionID: questionID}
	rows, err := r.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM submissions WHERE question_id=$1 GROUP BY status`, questionID)
	if err != nil {
		return st, fmt.Errorf("submission stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return st, fmt.Errorf("submission stats: %w", err)
		}
		switch grading.Status(status) {
		case grading.StatusCorrect:
			st.Correct = n
		case grading.StatusPartial:
			st.Partial = n
		case grading.StatusIncorrect:
			st.Incorrect = n
		}
		st.Total += n
	}
	return st, rows.Err()
}

var _ question.Recorder = (*Repo)(nil)
