package memory

import (
	"context"
	"dcasassess/internal/model"
	"dcasassess/internal/repository"
	"sync"
	"time"
)

type AdminRepo struct {
	mu     sync.RWMutex
	admins map[string]*model.Admin // by username
}

func NewAdminRepo() *AdminRepo {
	return &AdminRepo{admins: make(map[string]*model.Admin)}
}

var _ repository.AdminRepo = (*AdminRepo)(nil)

func (r *AdminRepo) Create(_ context.Context, admin *model.Admin) error {
	if admin.ID == "" {
		admin.ID = repository.NewID()
	}
	admin.CreatedAt = time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *admin
	r.admins[admin.Username] = &c
	return nil
}

func (r *AdminRepo) GetByUsername(_ context.Context, username string) (*model.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.admins[username]
	if !ok {
		return nil, nil
	}
	c := *a
	return &c, nil
}
