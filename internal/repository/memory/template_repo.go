package memory

import (
	"context"
	"dcasassess/internal/model"
	"dcasassess/internal/repository"
	"sync"
	"time"
)

// TemplateRepo keeps templates in insertion order
type TemplateRepo struct {
	mu        sync.RWMutex
	templates []*model.AssessmentTemplate
}

func NewTemplateRepo() *TemplateRepo {
	return &TemplateRepo{}
}

var _ repository.TemplateRepo = (*TemplateRepo)(nil)

func (r *TemplateRepo) Create(_ context.Context, template *model.AssessmentTemplate) error {
	if template.ID == "" {
		template.ID = repository.NewID()
	}
	template.CreatedAt = time.Now()
	template.UpdatedAt = template.CreatedAt

	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates = append(r.templates, cloneTemplate(template))
	return nil
}

func (r *TemplateRepo) GetByID(_ context.Context, id string) (*model.AssessmentTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.templates {
		if t.ID == id {
			return cloneTemplate(t), nil
		}
	}
	return nil, nil
}

func (r *TemplateRepo) GetLive(_ context.Context) (*model.AssessmentTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.templates {
		if t.IsLive {
			return cloneTemplate(t), nil
		}
	}
	if n := len(r.templates); n > 0 {
		return cloneTemplate(r.templates[n-1]), nil
	}
	return nil, nil
}

func (r *TemplateRepo) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.templates)), nil
}

func cloneTemplate(t *model.AssessmentTemplate) *model.AssessmentTemplate {
	c := *t
	c.Questions = append([]string(nil), t.Questions...)
	return &c
}
