package service

import (
	"context"
	"dcasassess/internal/cache"
	"dcasassess/internal/model"
	"dcasassess/internal/repository"
	"dcasassess/internal/scoring"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"
)

const DefaultTotalQuestions = 30

// SessionService owns the session lifecycle: in_progress -> completed | abandoned
type SessionService struct {
	sessionRepo    repository.SessionRepo
	users          *UserService
	bank           *QuestionBank
	authSvc        *AuthService
	lock           cache.SessionLock
	statsCache     cache.StatsCache
	propagator     *ResultPropagator
	broadcaster    Broadcaster
	totalQuestions int

	rngMu sync.Mutex
	rng   *rand.Rand
	now   func() time.Time
}

// NewSessionService creates a new session service
func NewSessionService(
	sessionRepo repository.SessionRepo,
	users *UserService,
	bank *QuestionBank,
	authSvc *AuthService,
	lock cache.SessionLock,
	statsCache cache.StatsCache,
	propagator *ResultPropagator,
	totalQuestions int,
) *SessionService {
	if totalQuestions <= 0 {
		totalQuestions = DefaultTotalQuestions
	}
	return &SessionService{
		sessionRepo:    sessionRepo,
		users:          users,
		bank:           bank,
		authSvc:        authSvc,
		lock:           lock,
		statsCache:     statsCache,
		propagator:     propagator,
		broadcaster:    nopBroadcaster{},
		totalQuestions: totalQuestions,
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
		now:            time.Now,
	}
}

// SetBroadcaster sets the admin feed (called after hub is created)
func (s *SessionService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Create opens a new in_progress session
func (s *SessionService) Create(ctx context.Context, userID, templateID string, assigned []string) (*model.Session, error) {
	return s.create(ctx, userID, templateID, assigned, model.SessionMetadata{})
}

func (s *SessionService) create(ctx context.Context, userID, templateID string, assigned []string, meta model.SessionMetadata) (*model.Session, error) {
	session, err := s.newSession(ctx, userID, templateID, assigned)
	if err != nil {
		return nil, err
	}
	session.Metadata = meta
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// newSession validates the inputs and builds an unsaved in_progress session
func (s *SessionService) newSession(ctx context.Context, userID, templateID string, assigned []string) (*model.Session, error) {
	if len(assigned) == 0 {
		return nil, fmt.Errorf("%w: no questions assigned", ErrValidation)
	}
	if templateID == "" {
		return nil, fmt.Errorf("%w: template is required", ErrValidation)
	}
	if _, err := s.bank.Template(ctx, templateID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: template %s does not exist", ErrValidation, templateID)
		}
		return nil, err
	}

	return &model.Session{
		UserID:            userID,
		TemplateID:        templateID,
		Status:            model.SessionInProgress,
		StartedAt:         s.now(),
		Responses:         []model.Response{},
		AssignedQuestions: append([]string(nil), assigned...),
	}, nil
}

// Start finds or creates the user, picks questions from the template and
// issues the session-ownership token.
func (s *SessionService) Start(ctx context.Context, req model.StartSessionRequest, meta model.SessionMetadata) (*model.StartSessionResponse, error) {
	user, err := s.users.FindOrCreate(ctx, req.StudentName, req.Email, req.Phone, req.Institution)
	if err != nil {
		return nil, err
	}

	tpl, err := s.bank.Template(ctx, req.TemplateID)
	if err != nil {
		return nil, err
	}

	s.rngMu.Lock()
	assigned := SelectQuestions(tpl, s.totalQuestions, s.rng)
	s.rngMu.Unlock()

	session, err := s.create(ctx, user.ID, tpl.ID, assigned, meta)
	if err != nil {
		return nil, err
	}

	token, err := s.authSvc.GenerateSessionToken(session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	questions, err := s.questionsForDisplay(ctx, session, tpl)
	if err != nil {
		return nil, err
	}

	log.Printf("[Session] started %s for user %s (%d questions)", session.ID, user.ID, len(assigned))
	return &model.StartSessionResponse{
		SessionID: session.ID,
		Token:     token,
		Questions: questions,
		Template:  tpl,
	}, nil
}

// SaveAnswer upserts the response for questionID, resolving its type now
func (s *SessionService) SaveAnswer(ctx context.Context, caller Caller, sessionID, questionID, label string) error {
	if err := Authorize(sessionID, caller); err != nil {
		return err
	}
	if questionID == "" || label == "" {
		return fmt.Errorf("%w: questionId and answer are required", ErrValidation)
	}

	return s.mutate(ctx, sessionID, func(session *model.Session) error {
		if session.Status != model.SessionInProgress {
			return fmt.Errorf("%w: session is %s", ErrInvalidState, session.Status)
		}
		if !session.IsAssigned(questionID) {
			return fmt.Errorf("%w: question %s is not part of this session", ErrNotFound, questionID)
		}
		dcasType, err := s.bank.ResolveOption(ctx, questionID, label)
		if err != nil {
			return err
		}
		session.UpsertResponse(model.Response{
			QuestionID:          questionID,
			SelectedOptionLabel: label,
			DCASType:            dcasType,
			RespondedAt:         s.now(),
		})
		return nil
	})
}

// Complete scores the stored responses and closes the session. A second
// call fails with ErrInvalidState and leaves the first score in place.
func (s *SessionService) Complete(ctx context.Context, caller Caller, sessionID string) (*model.Score, error) {
	if err := Authorize(sessionID, caller); err != nil {
		return nil, err
	}

	var completed *model.Session
	err := s.mutate(ctx, sessionID, func(session *model.Session) error {
		if session.Status != model.SessionInProgress {
			return fmt.Errorf("%w: session is %s", ErrInvalidState, session.Status)
		}
		s.finish(session)
		completed = session
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterCompletion(ctx, completed)
	score := *completed.Score
	return &score, nil
}

// Abandon closes an in_progress session without a score. Admin only.
func (s *SessionService) Abandon(ctx context.Context, caller Caller, sessionID string) error {
	if !caller.IsAdmin {
		return fmt.Errorf("%w: admin only", ErrUnauthorized)
	}
	return s.mutate(ctx, sessionID, func(session *model.Session) error {
		if session.Status != model.SessionInProgress {
			return fmt.Errorf("%w: session is %s", ErrInvalidState, session.Status)
		}
		session.Status = model.SessionAbandoned
		return nil
	})
}

// Get returns the session with its questions and, once completed, the derived result bundle
func (s *SessionService) Get(ctx context.Context, caller Caller, sessionID string) (*model.SessionView, error) {
	if err := Authorize(sessionID, caller); err != nil {
		return nil, err
	}
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	tpl, err := s.bank.Template(ctx, session.TemplateID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	questions, err := s.questionsForDisplay(ctx, session, tpl)
	if err != nil {
		return nil, err
	}

	view := &model.SessionView{
		Session:   session,
		Questions: questions,
		CreatedAt: &session.StartedAt,
	}
	if session.UserID != "" {
		if user, err := s.users.Get(ctx, session.UserID); err == nil {
			view.StudentName = user.Name
		}
	}

	if session.Status == model.SessionCompleted && session.Score != nil {
		raw := session.Score.Raw
		ranges := scoring.Ranges(raw, len(session.AssignedQuestions))
		view.Scores = &raw
		view.ScoreRanges = &ranges
		view.PrimaryType = session.Score.Primary
		view.SecondaryType = session.Score.Secondary
		view.CareerRecommendations = scoring.Recommendations(session.Score.Primary, session.Score.Secondary)
	}
	return view, nil
}

// SubmitDirect persists a finished assessment in one call. The score is always
// recomputed from the responses; a client-supplied score is only compared and logged.
func (s *SessionService) SubmitDirect(ctx context.Context, req model.DirectSubmitRequest) (*model.DirectSubmitResponse, error) {
	if len(req.Responses) == 0 {
		return nil, fmt.Errorf("%w: responses are required", ErrValidation)
	}

	tpl, err := s.bank.Template(ctx, req.TemplateID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: no template to submit against", ErrValidation)
		}
		return nil, err
	}

	now := s.now()
	responses := make([]model.Response, 0, len(req.Responses))
	assigned := make([]string, 0, len(req.Responses))
	for _, r := range req.Responses {
		dcasType, err := s.bank.ResolveOption(ctx, r.QuestionID, r.SelectedOptionLabel)
		if err != nil {
			return nil, err
		}
		resp := model.Response{
			QuestionID:          r.QuestionID,
			SelectedOptionLabel: r.SelectedOptionLabel,
			DCASType:            dcasType,
			RespondedAt:         now,
		}
		replaced := false
		for i := range responses {
			if responses[i].QuestionID == r.QuestionID {
				responses[i] = resp
				replaced = true
			}
		}
		if !replaced {
			responses = append(responses, resp)
			assigned = append(assigned, r.QuestionID)
		}
	}

	userID, err := s.resolveOwner(ctx, req)
	if err != nil {
		return nil, err
	}

	// built completed in memory and inserted once
	session, err := s.newSession(ctx, userID, tpl.ID, assigned)
	if err != nil {
		return nil, err
	}
	session.Responses = responses
	s.finish(session)
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	if req.Score != nil && (req.Score.Primary != session.Score.Primary || req.Score.Raw != session.Score.Raw) {
		log.Printf("[Session] direct submit %s: client score %s/%s ignored, server computed %s/%s",
			session.ID, req.Score.Primary, req.Score.Secondary, session.Score.Primary, session.Score.Secondary)
	}

	s.afterCompletion(ctx, session)

	token, err := s.authSvc.GenerateSessionToken(session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}
	return &model.DirectSubmitResponse{
		SessionID: session.ID,
		Token:     token,
		Score:     *session.Score,
	}, nil
}

// resolveOwner maps the direct-submit user reference to a user id ("" for anonymous)
func (s *SessionService) resolveOwner(ctx context.Context, req model.DirectSubmitRequest) (string, error) {
	if req.UserID != "" {
		user, err := s.users.Get(ctx, req.UserID)
		if err != nil {
			return "", err
		}
		return user.ID, nil
	}
	if req.Email != "" {
		user, err := s.users.FindOrCreate(ctx, req.StudentName, req.Email, "", "")
		if err != nil {
			return "", err
		}
		return user.ID, nil
	}
	return "", nil
}

// finish scores the session and moves it to completed
func (s *SessionService) finish(session *model.Session) {
	score := scoring.Score(session.AnsweredTypes())
	now := s.now()
	session.Score = &score
	session.Status = model.SessionCompleted
	session.CompletedAt = &now
}

// afterCompletion runs the side effects of a completion. None of them can undo it.
func (s *SessionService) afterCompletion(ctx context.Context, session *model.Session) {
	s.propagator.PropagateBestEffort(ctx, session)

	if s.statsCache != nil {
		if err := s.statsCache.Invalidate(ctx); err != nil {
			log.Printf("[Session] failed to invalidate stats cache: %v", err)
		}
	}

	s.broadcaster.BroadcastToAdmins(MsgSessionCompleted, model.SessionCompletedEvent{
		SessionID:   session.ID,
		UserID:      session.UserID,
		Primary:     session.Score.Primary,
		Secondary:   session.Score.Secondary,
		CompletedAt: *session.CompletedAt,
	})
	log.Printf("[Session] completed %s primary=%s secondary=%s", session.ID, session.Score.Primary, session.Score.Secondary)
}

// mutate loads the session under its lock, applies fn and writes it back
// conditioned on the status it was read with.
func (s *SessionService) mutate(ctx context.Context, sessionID string, fn func(*model.Session) error) error {
	release, err := s.lock.Acquire(ctx, sessionID)
	if err != nil {
		if errors.Is(err, cache.ErrLocked) {
			log.Printf("[Session] lock contention on %s", sessionID)
			return fmt.Errorf("%w: session is busy", ErrInvalidState)
		}
		return fmt.Errorf("failed to lock session: %w", err)
	}
	defer release()

	session, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	expected := session.Status
	if err := fn(session); err != nil {
		return err
	}
	if err := s.sessionRepo.Update(ctx, session, expected); err != nil {
		if errors.Is(err, repository.ErrStale) {
			return fmt.Errorf("%w: session changed concurrently", ErrInvalidState)
		}
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *SessionService) load(ctx context.Context, sessionID string) (*model.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("%w: session %s", ErrNotFound, sessionID)
	}
	return session, nil
}

func (s *SessionService) questionsForDisplay(ctx context.Context, session *model.Session, tpl *model.AssessmentTemplate) ([]model.Question, error) {
	questions, err := s.bank.AssignedQuestions(ctx, session)
	if err != nil {
		return nil, err
	}
	if tpl != nil && tpl.Settings.ShuffleOptions {
		s.rngMu.Lock()
		ShuffleOptions(questions, s.rng)
		s.rngMu.Unlock()
	}
	return questions, nil
}
