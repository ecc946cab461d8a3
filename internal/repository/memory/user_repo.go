package memory

import (
	"context"
	"dcasassess/internal/model"
	"dcasassess/internal/repository"
	"sort"
	"strings"
	"sync"
	"time"
)

// UserRepo keeps users in a map
type UserRepo struct {
	mu    sync.RWMutex
	users map[string]*model.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[string]*model.User)}
}

var _ repository.UserRepo = (*UserRepo)(nil)

func (r *UserRepo) Create(_ context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = repository.NewID()
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Role == "" {
		user.Role = model.RoleStudent
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *UserRepo) UpdateProfile(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[user.ID]
	if !ok {
		return nil
	}
	stored.Name = user.Name
	stored.Phone = user.Phone
	stored.Meta = user.Meta
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *UserRepo) ListByRole(_ context.Context, role model.UserRole) ([]*model.User, error) {
	r.mu.RLock()
	out := make([]*model.User, 0)
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, cloneUser(u))
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *UserRepo) CountByRole(ctx context.Context, role model.UserRole) (int64, error) {
	users, _ := r.ListByRole(ctx, role)
	return int64(len(users)), nil
}

func (r *UserRepo) SetResult(_ context.Context, userID string, result model.UserResult) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return false, nil
	}
	if cur := u.Result; cur != nil && cur.SessionID != result.SessionID && cur.CompletedAt.After(result.CompletedAt) {
		return false, nil
	}
	res := result
	u.Result = &res
	return true, nil
}

func (r *UserRepo) UnsetResult(_ context.Context, userID, sessionID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok || u.Result == nil || u.Result.SessionID != sessionID {
		return false, nil
	}
	u.Result = nil
	return true, nil
}

// ClearResult drops the cached result, simulating a cache that never got written
func (r *UserRepo) ClearResult(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		u.Result = nil
	}
}

func cloneUser(u *model.User) *model.User {
	c := *u
	if u.Result != nil {
		res := *u.Result
		c.Result = &res
	}
	return &c
}
