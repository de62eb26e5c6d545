package catalog

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/pseudocheck/internal/question"
)

const sample = `
questions:
  - id: 1
    difficulty: Easy
    title: Sum two numbers
    description: Read two numbers and print their sum.
    answers:
      - [begin, "read a, b", print a + b, end]
  - difficulty: medium
    title: Count to N
    answers:
      - [begin, for i = 1 to n, print i, end]
      - [start, set i = 1, while i <= n, print i, set i = i + 1, stop]
`

func TestLoadFromReader(t *testing.T) {
	c, err := LoadFromReader(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, c.Questions, 2)
	assert.Equal(t, []string{"begin", "read a, b", "print a + b", "end"}, c.Questions[0].Answers[0])

	q := c.Questions[0].Question()
	assert.Equal(t, question.Easy, q.Difficulty)
	assert.Equal(t, int64(1), q.ID)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := LoadFromReader(strings.NewReader("questions:\n  - title: x\n    level: easy\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "level")
}

func TestValidateCollectsAllErrors(t *testing.T) {
	c := &Catalog{Questions: []Entry{
		{ID: 1, Difficulty: "extreme", Title: " ", Answers: [][]string{{"  ", ""}}},
		{ID: 1, Difficulty: "easy", Title: "ok"},
	}}
	err := Validate(c)
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{
		`questions[0].difficulty "extreme" is invalid`,
		"questions[0].title is required",
		"questions[0].answers[0] has no non-blank lines",
		"questions[1].id 1 duplicates questions[0]",
		"questions[1].answers needs at least one answer",
	} {
		assert.Contains(t, msg, want)
	}
}

func TestLoadAndSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	c, err := Load(path)
	require.NoError(t, err)

	st := question.NewInMemoryStore()
	ctx := context.Background()
	n, err := Seed(ctx, st, c)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// seeding twice keeps explicit ids stable
	_, err = Seed(ctx, st, &Catalog{Questions: c.Questions[:1]})
	require.NoError(t, err)
	got, err := st.GetQuestion(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Sum two numbers", got.Title)

	list, err := st.ListQuestions(ctx, question.ListOpts{})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
