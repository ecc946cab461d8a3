// Package memory provides in-process implementations of the repository
// interfaces for local runs and tests.
package memory

import (
	"context"
	"dcasassess/internal/model"
	"dcasassess/internal/repository"
	"sort"
	"sync"
	"time"
)

// SessionRepo keeps sessions in a map
type SessionRepo struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session
}

func NewSessionRepo() *SessionRepo {
	return &SessionRepo{sessions: make(map[string]*model.Session)}
}

var _ repository.SessionRepo = (*SessionRepo)(nil)

func (r *SessionRepo) Create(_ context.Context, session *model.Session) error {
	if session.ID == "" {
		session.ID = repository.NewID()
	}
	if session.Responses == nil {
		session.Responses = []model.Response{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = cloneSession(session)
	return nil
}

func (r *SessionRepo) GetByID(_ context.Context, id string) (*model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	return cloneSession(s), nil
}

func (r *SessionRepo) Update(_ context.Context, session *model.Session, expected model.SessionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.sessions[session.ID]
	if !ok || stored.Status != expected {
		return repository.ErrStale
	}
	r.sessions[session.ID] = cloneSession(session)
	return nil
}

func (r *SessionRepo) DeleteMany(_ context.Context, ids []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range ids {
		if _, ok := r.sessions[id]; ok {
			delete(r.sessions, id)
			n++
		}
	}
	return n, nil
}

func (r *SessionRepo) LatestCompletedByUser(_ context.Context, userID string) (*model.Session, error) {
	completed := r.completed(func(s *model.Session) bool { return s.UserID == userID })
	if len(completed) == 0 {
		return nil, nil
	}
	return completed[0], nil
}

func (r *SessionRepo) ListCompleted(_ context.Context, limit int64) ([]*model.Session, error) {
	completed := r.completed(nil)
	if limit > 0 && int64(len(completed)) > limit {
		completed = completed[:limit]
	}
	return completed, nil
}

func (r *SessionRepo) CountByStatus(_ context.Context, status model.SessionStatus) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, s := range r.sessions {
		if s.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *SessionRepo) CountCompletedSince(_ context.Context, since time.Time) (int64, error) {
	completed := r.completed(func(s *model.Session) bool {
		return s.CompletedAt != nil && !s.CompletedAt.Before(since)
	})
	return int64(len(completed)), nil
}

func (r *SessionRepo) PrimaryDistribution(_ context.Context) (model.DCASCounts, error) {
	var counts model.DCASCounts
	for _, s := range r.completed(nil) {
		if s.Score != nil {
			counts.Add(s.Score.Primary, 1)
		}
	}
	return counts, nil
}

// completed returns matching completed sessions, newest completion first
func (r *SessionRepo) completed(match func(*model.Session) bool) []*model.Session {
	r.mu.RLock()
	out := make([]*model.Session, 0)
	for _, s := range r.sessions {
		if s.Status != model.SessionCompleted {
			continue
		}
		if match != nil && !match(s) {
			continue
		}
		out = append(out, cloneSession(s))
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return completedAt(out[i]).After(completedAt(out[j]))
	})
	return out
}

func completedAt(s *model.Session) time.Time {
	if s.CompletedAt == nil {
		return time.Time{}
	}
	return *s.CompletedAt
}

func cloneSession(s *model.Session) *model.Session {
	c := *s
	c.Responses = append([]model.Response(nil), s.Responses...)
	c.AssignedQuestions = append([]string(nil), s.AssignedQuestions...)
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		c.CompletedAt = &t
	}
	if s.Score != nil {
		score := *s.Score
		c.Score = &score
	}
	return &c
}
