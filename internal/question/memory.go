package question

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"
)

type memoryStore struct {
	mu        sync.RWMutex
	questions map[int64]Question
	nextID    int64
	nextAns   int64
	now       func() time.Time
}

// NewInMemoryStore returns a Store that keeps everything in process memory.
func NewInMemoryStore() Store {
	return &memoryStore{
		questions: map[int64]Question{},
		now:       time.Now,
	}
}

func (m *memoryStore) ListQuestions(_ context.Context, opts ListOpts) ([]Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Summary, 0, len(m.questions))
	q := strings.ToLower(strings.TrimSpace(opts.Q))
	for _, qu := range m.questions {
		if len(opts.Difficulties) > 0 && !slices.Contains(opts.Difficulties, qu.Difficulty) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(qu.Title), q) {
			continue
		}
		out = append(out, qu.Summary())
	}
	slices.SortFunc(out, func(a, b Summary) int { return cmp.Compare(a.ID, b.ID) })
	return page(out, opts.Offset, opts.Limit), nil
}

func (m *memoryStore) GetQuestion(_ context.Context, id int64) (Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.questions[id]
	if !ok {
		return Question{}, ErrNotFound
	}
	return cloneQuestion(q), nil
}

func (m *memoryStore) Answers(ctx context.Context, id int64) ([][]string, error) {
	q, err := m.GetQuestion(ctx, id)
	if err != nil {
		return nil, err
	}
	return q.AnswerLines(), nil
}

func (m *memoryStore) PutQuestion(_ context.Context, q Question) (Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if q.ID == 0 {
		m.nextID++
		q.ID = m.nextID
	} else if q.ID > m.nextID {
		m.nextID = q.ID
	}
	if prev, ok := m.questions[q.ID]; ok {
		q.CreatedAt = prev.CreatedAt
	} else if q.CreatedAt.IsZero() {
		q.CreatedAt = m.now().UTC()
	}
	q = cloneQuestion(q)
	for i := range q.Answers {
		m.nextAns++
		q.Answers[i].ID = m.nextAns
	}
	m.questions[q.ID] = q
	return cloneQuestion(q), nil
}

func (m *memoryStore) DeleteQuestion(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.questions[id]; !ok {
		return ErrNotFound
	}
	delete(m.questions, id)
	return nil
}

func cloneQuestion(q Question) Question {
	if q.Answers == nil {
		return q
	}
	ans := make([]Answer, len(q.Answers))
	for i, a := range q.Answers {
		ans[i] = Answer{ID: a.ID, Code: slices.Clone(a.Code)}
	}
	q.Answers = ans
	return q
}

func page[T any](xs []T, offset, limit int) []T {
	if offset > 0 {
		if offset >= len(xs) {
			return xs[:0]
		}
		xs = xs[offset:]
	}
	if limit > 0 && limit < len(xs) {
		xs = xs[:limit]
	}
	return xs
}
