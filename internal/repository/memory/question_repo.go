package memory

import (
	"context"
	"dcasassess/internal/model"
	"dcasassess/internal/repository"
	"sync"
	"time"
)

// QuestionRepo keeps the question bank in a map
type QuestionRepo struct {
	mu        sync.RWMutex
	questions map[string]*model.Question
}

func NewQuestionRepo() *QuestionRepo {
	return &QuestionRepo{questions: make(map[string]*model.Question)}
}

var _ repository.QuestionRepo = (*QuestionRepo)(nil)

func (r *QuestionRepo) Create(_ context.Context, question *model.Question) error {
	if question.ID == "" {
		question.ID = repository.NewID()
	}
	if question.Version == 0 {
		question.Version = 1
	}
	now := time.Now()
	question.CreatedAt = now
	question.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()
	r.questions[question.ID] = cloneQuestion(question)
	return nil
}

// Put replaces a stored question, used to simulate bank edits
func (r *QuestionRepo) Put(question *model.Question) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.questions[question.ID] = cloneQuestion(question)
}

func (r *QuestionRepo) GetByID(_ context.Context, id string) (*model.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	q, ok := r.questions[id]
	if !ok {
		return nil, nil
	}
	return cloneQuestion(q), nil
}

func (r *QuestionRepo) GetByIDs(_ context.Context, ids []string) ([]*model.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := r.questions[id]; ok {
			out = append(out, cloneQuestion(q))
		}
	}
	return out, nil
}

func (r *QuestionRepo) CountActive(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, q := range r.questions {
		if q.Active {
			n++
		}
	}
	return n, nil
}

func cloneQuestion(q *model.Question) *model.Question {
	c := *q
	c.Options = append([]model.QuestionOption(nil), q.Options...)
	c.Tags = append([]string(nil), q.Tags...)
	return &c
}
