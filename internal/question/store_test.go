package question_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/pseudocheck/internal/db"
	"github.com/mind-engage/pseudocheck/internal/grading"
	"github.com/mind-engage/pseudocheck/internal/question"
	"github.com/mind-engage/pseudocheck/internal/submission"
)

func openSQLite(t *testing.T) *question.SQLStore {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	dbh, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbh.Close() })
	return question.NewSQLStore(dbh, db.DriverSQLite)
}

// stores runs fn against every Store implementation.
func stores(t *testing.T, fn func(t *testing.T, s question.Store)) {
	t.Run("memory", func(t *testing.T) { fn(t, question.NewInMemoryStore()) })
	t.Run("sqlite", func(t *testing.T) { fn(t, openSQLite(t)) })
}

func seed(t *testing.T, s question.Store) []question.Question {
	t.Helper()
	ctx := context.Background()
	in := []question.Question{
		{Difficulty: question.Easy, Title: "Sum two numbers", Description: "Read a and b, print a+b",
			Answers: []question.Answer{{Code: []string{"begin", "read a, b", "print a + b", "end"}}}},
		{Difficulty: question.Medium, Title: "Count to N",
			Answers: []question.Answer{
				{Code: []string{"begin", "for i = 1 to n", "print i", "end"}},
				{Code: []string{"start", "set i = 1", "while i <= n", "print i", "set i = i + 1", "stop"}},
			}},
		{Difficulty: question.Hard, Title: "Binary search",
			Answers: []question.Answer{{Code: []string{"begin", "end"}}}},
	}
	out := make([]question.Question, 0, len(in))
	for _, q := range in {
		got, err := s.PutQuestion(ctx, q)
		require.NoError(t, err)
		out = append(out, got)
	}
	return out
}

func TestStore_PutAndGet(t *testing.T) {
	stores(t, func(t *testing.T, s question.Store) {
		ctx := context.Background()
		qs := seed(t, s)
		require.NotZero(t, qs[1].ID)

		got, err := s.GetQuestion(ctx, qs[1].ID)
		require.NoError(t, err)
		assert.Equal(t, "Count to N", got.Title)
		assert.Equal(t, question.Medium, got.Difficulty)
		assert.False(t, got.CreatedAt.IsZero())
		require.Len(t, got.Answers, 2)
		assert.Equal(t, []string{"begin", "for i = 1 to n", "print i", "end"}, got.Answers[0].Code)
		assert.NotZero(t, got.Answers[0].ID)

		answers, err := s.Answers(ctx, qs[1].ID)
		require.NoError(t, err)
		assert.Equal(t, got.AnswerLines(), answers)
	})
}

func TestStore_NotFound(t *testing.T) {
	stores(t, func(t *testing.T, s question.Store) {
		ctx := context.Background()
		_, err := s.GetQuestion(ctx, 999)
		assert.True(t, errors.Is(err, question.ErrNotFound))
		_, err = s.Answers(ctx, 999)
		assert.True(t, errors.Is(err, question.ErrNotFound))
		assert.True(t, errors.Is(s.DeleteQuestion(ctx, 999), question.ErrNotFound))
	})
}

func TestStore_ListFilters(t *testing.T) {
	stores(t, func(t *testing.T, s question.Store) {
		ctx := context.Background()
		seed(t, s)

		all, err := s.ListQuestions(ctx, question.ListOpts{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "Sum two numbers", all[0].Title)

		some, err := s.ListQuestions(ctx, question.ListOpts{Difficulties: question.ParseDifficulties(" EASY, hard ,")})
		require.NoError(t, err)
		require.Len(t, some, 2)
		assert.Equal(t, question.Easy, some[0].Difficulty)
		assert.Equal(t, question.Hard, some[1].Difficulty)

		byTitle, err := s.ListQuestions(ctx, question.ListOpts{Q: "COUNT"})
		require.NoError(t, err)
		require.Len(t, byTitle, 1)
		assert.Equal(t, "Count to N", byTitle[0].Title)

		paged, err := s.ListQuestions(ctx, question.ListOpts{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, paged, 1)
		assert.Equal(t, "Count to N", paged[0].Title)

		tail, err := s.ListQuestions(ctx, question.ListOpts{Offset: 2})
		require.NoError(t, err)
		require.Len(t, tail, 1)
		assert.Equal(t, "Binary search", tail[0].Title)
	})
}

func TestStore_UpsertReplacesAnswers(t *testing.T) {
	stores(t, func(t *testing.T, s question.Store) {
		ctx := context.Background()
		qs := seed(t, s)
		orig, err := s.GetQuestion(ctx, qs[0].ID)
		require.NoError(t, err)

		upd := qs[0]
		upd.Title = "Add two numbers"
		upd.CreatedAt = time.Time{}
		upd.Answers = []question.Answer{{Code: []string{"begin", "end"}}}
		_, err = s.PutQuestion(ctx, upd)
		require.NoError(t, err)

		got, err := s.GetQuestion(ctx, qs[0].ID)
		require.NoError(t, err)
		assert.Equal(t, "Add two numbers", got.Title)
		assert.Equal(t, orig.CreatedAt, got.CreatedAt)
		require.Len(t, got.Answers, 1)
		assert.Equal(t, []string{"begin", "end"}, got.Answers[0].Code)
	})
}

func TestStore_ExplicitIDThenAutoID(t *testing.T) {
	stores(t, func(t *testing.T, s question.Store) {
		ctx := context.Background()
		_, err := s.PutQuestion(ctx, question.Question{ID: 10, Difficulty: question.Easy, Title: "ten"})
		require.NoError(t, err)
		next, err := s.PutQuestion(ctx, question.Question{Difficulty: question.Easy, Title: "eleven"})
		require.NoError(t, err)
		assert.Greater(t, next.ID, int64(10))
	})
}

func TestStore_Delete(t *testing.T) {
	stores(t, func(t *testing.T, s question.Store) {
		ctx := context.Background()
		qs := seed(t, s)
		require.NoError(t, s.DeleteQuestion(ctx, qs[2].ID))
		_, err := s.GetQuestion(ctx, qs[2].ID)
		assert.ErrorIs(t, err, question.ErrNotFound)
		left, err := s.ListQuestions(ctx, question.ListOpts{})
		require.NoError(t, err)
		assert.Len(t, left, 2)
	})
}

func TestSQLStore_DeleteClearsSubmissions(t *testing.T) {
	ctx := context.Background()
	dbh, err := db.Open(ctx, db.DriverSQLite, "file:delete_clears_submissions?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbh.Close() })
	s := question.NewSQLStore(dbh, db.DriverSQLite)
	subs := submission.NewRepo(dbh)

	q := question.Question{ID: 42, Difficulty: question.Easy, Title: "Old",
		Answers: []question.Answer{{Code: []string{"begin", "end"}}}}
	_, err = s.PutQuestion(ctx, q)
	require.NoError(t, err)
	require.NoError(t, subs.RecordVerdict(ctx, 42, "begin\nend", grading.Verdict{Status: grading.StatusCorrect}))
	require.NoError(t, subs.RecordVerdict(ctx, 7, "x", grading.Verdict{Status: grading.StatusIncorrect}))

	require.NoError(t, s.DeleteQuestion(ctx, 42))

	q.Title = "New"
	_, err = s.PutQuestion(ctx, q)
	require.NoError(t, err)
	st, err := subs.Stats(ctx, 42)
	require.NoError(t, err)
	assert.Zero(t, st.Total)
	recent, err := subs.Recent(ctx, 42, 0)
	require.NoError(t, err)
	assert.Empty(t, recent)

	other, err := subs.Stats(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, other.Total)
}

func TestQuestion_WithoutAnswers(t *testing.T) {
	q := question.Question{ID: 1, Answers: []question.Answer{{Code: []string{"x"}}}}
	assert.Nil(t, q.WithoutAnswers().Answers)
	assert.Len(t, q.Answers, 1)
	assert.Equal(t, int64(1), q.Summary().ID)
}

func TestParseDifficulties(t *testing.T) {
	assert.Equal(t, []question.Difficulty{question.Easy, question.Medium}, question.ParseDifficulties("Easy, medium"))
	assert.Empty(t, question.ParseDifficulties(" , "))
	assert.True(t, question.Hard.Valid())
	assert.False(t, question.Difficulty("extreme").Valid())
}
