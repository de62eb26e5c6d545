package question

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/mind-engage/pseudocheck/internal/db"
)

type SQLStore struct {
	db     *sql.DB
	driver db.Driver
	now    func() time.Time
}

func NewSQLStore(dbh *sql.DB, driver db.Driver) *SQLStore {
	return &SQLStore{db: dbh, driver: driver, now: time.Now}
}

func (s *SQLStore) ListQuestions(ctx context.Context, opts ListOpts) ([]Summary, error) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`SELECT id, difficulty, title, description, created_at FROM questions WHERE 1=1`)
	if len(opts.Difficulties) > 0 {
		marks := make([]string, len(opts.Difficulties))
		for i, d := range opts.Difficulties {
			args = append(args, string(d))
			marks[i] = "$" + strconv.Itoa(len(args))
		}
		sb.WriteString(` AND difficulty IN (` + strings.Join(marks, ",") + `)`)
	}
	if q := strings.ToLower(strings.TrimSpace(opts.Q)); q != "" {
		args = append(args, q)
		sb.WriteString(` AND LOWER(title) LIKE '%' || $` + strconv.Itoa(len(args)) + ` || '%'`)
	}
	sb.WriteString(` ORDER BY id`)
	limit := opts.Limit
	if limit <= 0 && opts.Offset > 0 {
		limit = math.MaxInt32
	}
	if limit > 0 {
		args = append(args, limit)
		sb.WriteString(` LIMIT $` + strconv.Itoa(len(args)))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		sb.WriteString(` OFFSET $` + strconv.Itoa(len(args)))
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	out := make([]Summary, 0)
	for rows.Next() {
		var (
			sm      Summary
			created int64
		)
		if err := rows.Scan(&sm.ID, &sm.Difficulty, &sm.Title, &sm.Description, &created); err != nil {
			return nil, fmt.Errorf("list questions: %w", err)
		}
		sm.CreatedAt = time.Unix(created, 0).UTC()
		out = append(out, sm)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetQuestion(ctx context.Context, id int64) (Question, error) {
	var (
		q       Question
		created int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, difficulty, title, description, created_at FROM questions WHERE id=$1`, id).
		Scan(&q.ID, &q.Difficulty, &q.Title, &q.Description, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Question{}, ErrNotFound
		}
		return Question{}, fmt.Errorf("get question %d: %w", id, err)
	}
	q.CreatedAt = time.Unix(created, 0).UTC()
	if q.Answers, err = s.loadAnswers(ctx, id); err != nil {
		return Question{}, err
	}
	return q, nil
}

func (s *SQLStore) Answers(ctx context.Context, id int64) ([][]string, error) {
	q, err := s.GetQuestion(ctx, id)
	if err != nil {
		return nil, err
	}
	return q.AnswerLines(), nil
}

func (s *SQLStore) loadAnswers(ctx context.Context, questionID int64) ([]Answer, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, code_json FROM answers WHERE question_id=$1 ORDER BY position, id`, questionID)
	if err != nil {
		return nil, fmt.Errorf("load answers %d: %w", questionID, err)
	}
	defer rows.Close()

	out := make([]Answer, 0)
	for rows.Next() {
		var (
			a    Answer
			code string
		)
		if err := rows.Scan(&a.ID, &code); err != nil {
			return nil, fmt.Errorf("load answers %d: %w", questionID, err)
		}
		a.Code = decodeLines(code)
		out = append(out, a)
	}
	return out, rows.Err()
}

// decodeLines reads a code_json column. Rows written by other tools may hold
// a JSON array with non-string entries or one multi-line string; both are
// accepted and non-string entries become blank lines.
func decodeLines(raw string) []string {
	var anyLines []any
	if err := json.Unmarshal([]byte(raw), &anyLines); err == nil {
		out := make([]string, 0, len(anyLines))
		for _, v := range anyLines {
			s, _ := v.(string)
			out = append(out, s)
		}
		return out
	}
	var text string
	if err := json.Unmarshal([]byte(raw), &text); err == nil {
		return strings.Split(text, "\n")
	}
	return strings.Split(raw, "\n")
}

func (s *SQLStore) PutQuestion(ctx context.Context, q Question) (Question, error) {
	q.Answers = slices.Clone(q.Answers)
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if q.ID == 0 {
			if q.CreatedAt.IsZero() {
				q.CreatedAt = s.now().UTC()
			}
			err := tx.QueryRowContext(ctx,
				`INSERT INTO questions (difficulty, title, description, created_at)
				 VALUES ($1,$2,$3,$4) RETURNING id`,
				string(q.Difficulty), q.Title, q.Description, q.CreatedAt.Unix()).Scan(&q.ID)
			if err != nil {
				return fmt.Errorf("insert question: %w", err)
			}
		} else {
			var created int64
			err := tx.QueryRowContext(ctx, `SELECT created_at FROM questions WHERE id=$1`, q.ID).Scan(&created)
			switch {
			case err == nil:
				q.CreatedAt = time.Unix(created, 0).UTC()
			case errors.Is(err, sql.ErrNoRows):
				if q.CreatedAt.IsZero() {
					q.CreatedAt = s.now().UTC()
				}
			default:
				return fmt.Errorf("lookup question %d: %w", q.ID, err)
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO questions (id, difficulty, title, description, created_at)
				 VALUES ($1,$2,$3,$4,$5)
				 ON CONFLICT (id) DO UPDATE SET difficulty=EXCLUDED.difficulty, title=EXCLUDED.title, description=EXCLUDED.description`,
				q.ID, string(q.Difficulty), q.Title, q.Description, q.CreatedAt.Unix())
			if err != nil {
				return fmt.Errorf("upsert question %d: %w", q.ID, err)
			}
			if s.driver == db.DriverPostgres {
				// explicit ids do not advance the BIGSERIAL sequence
				if _, err := tx.ExecContext(ctx,
					`SELECT setval(pg_get_serial_sequence('questions','id'), (SELECT MAX(id) FROM questions))`); err != nil {
					return fmt.Errorf("advance question sequence: %w", err)
				}
			}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM answers WHERE question_id=$1`, q.ID); err != nil {
			return fmt.Errorf("clear answers %d: %w", q.ID, err)
		}
		for i := range q.Answers {
			code, err := json.Marshal(q.Answers[i].Code)
			if err != nil {
				return err
			}
			err = tx.QueryRowContext(ctx,
				`INSERT INTO answers (question_id, position, code_json) VALUES ($1,$2,$3) RETURNING id`,
				q.ID, i, string(code)).Scan(&q.Answers[i].ID)
			if err != nil {
				return fmt.Errorf("insert answer %d/%d: %w", q.ID, i, err)
			}
		}
		return nil
	})
	if err != nil {
		return Question{}, err
	}
	return q, nil
}

// DeleteQuestion removes the question with its answers and its submission
// log, so a later question reusing the id starts with empty stats.
func (s *SQLStore) DeleteQuestion(ctx context.Context, id int64) error {
	return db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM submissions WHERE question_id=$1`, id); err != nil {
			return fmt.Errorf("delete submissions %d: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM answers WHERE question_id=$1`, id); err != nil {
			return fmt.Errorf("delete answers %d: %w", id, err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE id=$1`, id)
		if err != nil {
			return fmt.Errorf("delete question %d: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		return nil
	})
}
