package service

import (
	"context"
	"dcasassess/internal/model"
	"dcasassess/internal/repository"
	"log"
)

// ResultPropagator copies a completed session's score onto its owner's
// user.result. It is the only writer of that field.
type ResultPropagator struct {
	userRepo repository.UserRepo
}

func NewResultPropagator(userRepo repository.UserRepo) *ResultPropagator {
	return &ResultPropagator{userRepo: userRepo}
}

// Propagate writes the session's result onto its owner. Calling it again for
// the same session leaves the same state. Ownerless or unfinished sessions are skipped.
func (p *ResultPropagator) Propagate(ctx context.Context, session *model.Session) error {
	if session == nil || session.UserID == "" {
		return nil
	}
	if session.Status != model.SessionCompleted || session.Score == nil || session.CompletedAt == nil {
		return nil
	}

	written, err := p.userRepo.SetResult(ctx, session.UserID, model.UserResult{
		SessionID:   session.ID,
		Score:       *session.Score,
		CompletedAt: *session.CompletedAt,
	})
	if err != nil {
		return err
	}
	if !written {
		log.Printf("[Propagation] result for user %s not written for session %s (user missing or newer result)", session.UserID, session.ID)
	}
	return nil
}

// PropagateBestEffort logs instead of returning so the caller's operation stands
func (p *ResultPropagator) PropagateBestEffort(ctx context.Context, session *model.Session) {
	if err := p.Propagate(ctx, session); err != nil {
		log.Printf("[Propagation] failed for session %s user %s: %v", session.ID, session.UserID, err)
	}
}

// Retract drops the user's result if it still points at a deleted session
func (p *ResultPropagator) Retract(ctx context.Context, userID, sessionID string) error {
	removed, err := p.userRepo.UnsetResult(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	if removed {
		log.Printf("[Propagation] retracted result of deleted session %s from user %s", sessionID, userID)
	}
	return nil
}
