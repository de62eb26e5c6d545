// Package catalog loads question catalogs from YAML files and seeds them into
// a question store.
//
// A catalog looks like:
//
//	questions:
//	  - id: 1
//	    difficulty: easy
//	    title: Sum two numbers
//	    description: Read two numbers and print their sum.
//	    answers:
//	      - [begin, "read a, b", print a + b, end]
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mind-engage/pseudocheck/internal/grading"
	"github.com/mind-engage/pseudocheck/internal/question"
)

type Catalog struct {
	Questions []Entry `yaml:"questions"`
}

type Entry struct {
	ID          int64      `yaml:"id" json:"id,omitempty"`
	Difficulty  string     `yaml:"difficulty" json:"difficulty"`
	Title       string     `yaml:"title" json:"title"`
	Description string     `yaml:"description" json:"description"`
	Answers     [][]string `yaml:"answers" json:"answers"`
}

// Load reads and validates the catalog file at path.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %q: %w", path, err)
	}
	defer f.Close()

	c, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("catalog: parse %q: %w", path, err)
	}
	return c, nil
}

func LoadFromReader(r io.Reader) (*Catalog, error) {
	c := &Catalog{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return nil, fmt.Errorf("catalog: decode yaml: %w", err)
	}
	if err := Validate(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate reports every problem in c at once.
func Validate(c *Catalog) error {
	var errs []error
	seen := map[int64]int{}
	for i, e := range c.Questions {
		at := fmt.Sprintf("questions[%d]", i)
		if e.ID < 0 {
			errs = append(errs, fmt.Errorf("%s.id must not be negative", at))
		}
		if e.ID > 0 {
			if j, dup := seen[e.ID]; dup {
				errs = append(errs, fmt.Errorf("%s.id %d duplicates questions[%d]", at, e.ID, j))
			}
			seen[e.ID] = i
		}
		if !question.Difficulty(strings.ToLower(e.Difficulty)).Valid() {
			errs = append(errs, fmt.Errorf("%s.difficulty %q is invalid; valid values: easy, medium, hard", at, e.Difficulty))
		}
		if strings.TrimSpace(e.Title) == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", at))
		}
		if len(e.Answers) == 0 {
			errs = append(errs, fmt.Errorf("%s.answers needs at least one answer", at))
		}
		for j, a := range e.Answers {
			if len(grading.NormalizeLines(a)) == 0 {
				errs = append(errs, fmt.Errorf("%s.answers[%d] has no non-blank lines", at, j))
			}
		}
	}
	return errors.Join(errs...)
}

// Question converts an entry to the store model.
func (e Entry) Question() question.Question {
	q := question.Question{
		ID:          e.ID,
		Difficulty:  question.Difficulty(strings.ToLower(e.Difficulty)),
		Title:       strings.TrimSpace(e.Title),
		Description: strings.TrimSpace(e.Description),
	}
	for _, a := range e.Answers {
		q.Answers = append(q.Answers, question.Answer{Code: a})
	}
	return q
}

// Seed upserts every catalog question into st and returns how many were
// written.
func Seed(ctx context.Context, st question.Store, c *Catalog) (int, error) {
	n := 0
	for _, e := range c.Questions {
		if _, err := st.PutQuestion(ctx, e.Question()); err != nil {
			return n, fmt.Errorf("catalog: seed %q: %w", e.Title, err)
		}
		n++
	}
	return n, nil
}
