package service

import (
	"context"
	"dcasassess/internal/cache"
	"dcasassess/internal/model"
	"dcasassess/internal/repository"
	"dcasassess/internal/repository/memory"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// labels map to types in enum order: A->D, B->C, C->A, D->S
var optionTypes = map[string]model.DCASType{
	"A": model.TypeDriver,
	"B": model.TypeConnector,
	"C": model.TypeAnchor,
	"D": model.TypeStrategist,
}

type testEnv struct {
	sessions    *memory.SessionRepo
	users       *memory.UserRepo
	questions   *memory.QuestionRepo
	templates   *memory.TemplateRepo
	admins      *memory.AdminRepo
	auth        *AuthService
	lock        cache.SessionLock
	statsCache  cache.StatsCache
	svc         *SessionService
	stats       *StatsService
	userSvc     *UserService
	broadcaster *recordingBroadcaster
	template    *model.AssessmentTemplate
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []interface{}
}

func (b *recordingBroadcaster) BroadcastToAdmins(msgType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, payload)
}

func newTestEnv(t *testing.T, questionCount int) *testEnv {
	t.Helper()
	return newTestEnvWithUsers(t, questionCount, nil)
}

func newTestEnvWithUsers(t *testing.T, questionCount int, wrap func(repository.UserRepo) repository.UserRepo) *testEnv {
	t.Helper()
	ctx := context.Background()
	env := &testEnv{
		sessions:    memory.NewSessionRepo(),
		users:       memory.NewUserRepo(),
		questions:   memory.NewQuestionRepo(),
		templates:   memory.NewTemplateRepo(),
		admins:      memory.NewAdminRepo(),
		lock:        cache.NewLocalSessionLock(0),
		statsCache:  cache.NewMemoryStatsCache(time.Minute),
		broadcaster: &recordingBroadcaster{},
	}

	ids := make([]string, 0, questionCount)
	for i := 0; i < questionCount; i++ {
		q := &model.Question{
			ID:     fmt.Sprintf("q%02d", i+1),
			Text:   fmt.Sprintf("Question %d", i+1),
			Active: true,
		}
		for _, label := range []string{"A", "B", "C", "D"} {
			q.Options = append(q.Options, model.QuestionOption{Label: label, Text: "option " + label, DCASType: optionTypes[label]})
		}
		if err := env.questions.Create(ctx, q); err != nil {
			t.Fatalf("create question: %v", err)
		}
		ids = append(ids, q.ID)
	}
	env.template = &model.AssessmentTemplate{ID: "tpl1", Name: "DCAS", Questions: ids, IsLive: true, Active: true}
	if err := env.templates.Create(ctx, env.template); err != nil {
		t.Fatalf("create template: %v", err)
	}

	var users repository.UserRepo = env.users
	if wrap != nil {
		users = wrap(env.users)
	}

	env.auth = NewAuthService(env.admins, "test-secret", 0, 0)
	env.userSvc = NewUserService(users)
	propagator := NewResultPropagator(users)
	bank := NewQuestionBank(env.questions, env.templates)
	env.svc = NewSessionService(env.sessions, env.userSvc, bank, env.auth, env.lock, env.statsCache, propagator, 0)
	env.svc.SetBroadcaster(env.broadcaster)
	env.stats = NewStatsService(env.sessions, users, env.questions, env.templates, env.statsCache, propagator)

	clock := newTestClock(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	env.svc.now = clock.Now
	env.stats.now = clock.Now
	return env
}

// testClock advances one second per reading so completions are strictly ordered
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock(start time.Time) *testClock {
	return &testClock{t: start}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

// start opens a session for email and returns it with an owner caller
func (env *testEnv) start(t *testing.T, email string) (*model.StartSessionResponse, Caller) {
	t.Helper()
	resp, err := env.svc.Start(context.Background(), model.StartSessionRequest{StudentName: "Student " + email, Email: email}, model.SessionMetadata{})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	claims, err := env.auth.ValidateSessionToken(resp.Token)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return resp, Caller{SessionID: claims.SessionID}
}

func (env *testEnv) answerAll(t *testing.T, caller Caller, resp *model.StartSessionResponse, labels ...string) {
	t.Helper()
	for i, label := range labels {
		qid := resp.Questions[i].ID
		if err := env.svc.SaveAnswer(context.Background(), caller, resp.SessionID, qid, label); err != nil {
			t.Fatalf("save answer %s: %v", qid, err)
		}
	}
}

func TestStartAssignsTemplateQuestions(t *testing.T) {
	env := newTestEnv(t, 35)
	resp, _ := env.start(t, "ada@example.com")

	if len(resp.Questions) != DefaultTotalQuestions {
		t.Fatalf("expected %d questions, got %d", DefaultTotalQuestions, len(resp.Questions))
	}
	session, _ := env.sessions.GetByID(context.Background(), resp.SessionID)
	if session.Status != model.SessionInProgress || session.TemplateID != "tpl1" {
		t.Fatalf("unexpected session: %+v", session)
	}
	if session.UserID == "" {
		t.Fatalf("expected session to be owned by the registered user")
	}
	if len(session.Responses) != 0 {
		t.Fatalf("expected empty responses")
	}
}

func TestCreateValidation(t *testing.T) {
	env := newTestEnv(t, 4)
	ctx := context.Background()

	if _, err := env.svc.Create(ctx, "", "tpl1", nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("empty assigned questions: expected ErrValidation, got %v", err)
	}
	if _, err := env.svc.Create(ctx, "", "missing", []string{"q01"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("unknown template: expected ErrValidation, got %v", err)
	}
	s, err := env.svc.Create(ctx, "", "tpl1", []string{"q01"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if s.Status != model.SessionInProgress || s.StartedAt.IsZero() {
		t.Fatalf("unexpected session: %+v", s)
	}
}

func TestCompleteScoresAndRejectsSecondCall(t *testing.T) {
	env := newTestEnv(t, 4)
	ctx := context.Background()
	resp, caller := env.start(t, "ada@example.com")
	env.answerAll(t, caller, resp, "A", "A", "A", "B")

	score, err := env.svc.Complete(ctx, caller, resp.SessionID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if score.Primary != model.TypeDriver || score.Secondary != model.TypeConnector {
		t.Fatalf("unexpected ranking %s/%s", score.Primary, score.Secondary)
	}
	if score.Percent.D != 75 || score.Percent.C != 25 {
		t.Fatalf("unexpected percentages %+v", score.Percent)
	}

	first, _ := env.sessions.GetByID(ctx, resp.SessionID)

	if _, err := env.svc.Complete(ctx, caller, resp.SessionID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("second complete: expected ErrInvalidState, got %v", err)
	}
	after, _ := env.sessions.GetByID(ctx, resp.SessionID)
	if *after.Score != *first.Score || !after.CompletedAt.Equal(*first.CompletedAt) {
		t.Fatalf("second complete changed the stored score")
	}
}

func TestSaveAnswerOnCompletedSessionRejected(t *testing.T) {
	env := newTestEnv(t, 4)
	ctx := context.Background()
	resp, caller := env.start(t, "ada@example.com")
	env.answerAll(t, caller, resp, "A")

	if _, err := env.svc.Complete(ctx, caller, resp.SessionID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	err := env.svc.SaveAnswer(ctx, caller, resp.SessionID, resp.Questions[1].ID, "B")
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	session, _ := env.sessions.GetByID(ctx, resp.SessionID)
	if len(session.Responses) != 1 {
		t.Fatalf("completed session was mutated: %d responses", len(session.Responses))
	}
}

func TestSaveAnswerOverwrites(t *testing.T) {
	env := newTestEnv(t, 4)
	ctx := context.Background()
	resp, caller := env.start(t, "ada@example.com")
	qid := resp.Questions[0].ID

	if err := env.svc.SaveAnswer(ctx, caller, resp.SessionID, qid, "A"); err != nil {
		t.Fatalf("first answer: %v", err)
	}
	if err := env.svc.SaveAnswer(ctx, caller, resp.SessionID, qid, "B"); err != nil {
		t.Fatalf("second answer: %v", err)
	}

	session, _ := env.sessions.GetByID(ctx, resp.SessionID)
	if len(session.Responses) != 1 {
		t.Fatalf("expected exactly one response, got %d", len(session.Responses))
	}
	r := session.Responses[0]
	if r.SelectedOptionLabel != "B" || r.DCASType != model.TypeConnector {
		t.Fatalf("unexpected response %+v", r)
	}
}

func TestSaveAnswerNotFound(t *testing.T) {
	env := newTestEnv(t, 4)
	ctx := context.Background()
	resp, caller := env.start(t, "ada@example.com")

	tests := []struct {
		name  string
		qid   string
		label string
	}{
		{"unknown option", resp.Questions[0].ID, "Z"},
		{"question outside session", "q99", "A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := env.svc.SaveAnswer(ctx, caller, resp.SessionID, tt.qid, tt.label)
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}

	admin := Caller{IsAdmin: true}
	if err := env.svc.SaveAnswer(ctx, admin, "missing", "q01", "A"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing session: expected ErrNotFound, got %v", err)
	}
}

func TestResponseKeepsTypeAfterQuestionEdit(t *testing.T) {
	env := newTestEnv(t, 4)
	ctx := context.Background()
	resp, caller := env.start(t, "ada@example.com")
	qid := resp.Questions[0].ID
	env.answerAll(t, caller, resp, "A")

	q, _ := env.questions.GetByID(ctx, qid)
	q.Options[0].DCASType = model.TypeStrategist
	env.questions.Put(q)

	score, err := env.svc.Complete(ctx, caller, resp.SessionID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if score.Raw.D != 1 || score.Raw.S != 0 {
		t.Fatalf("score used the edited question bank: %+v", score.Raw)
	}
}

func TestAccessControl(t *testing.T) {
	env := newTestEnv(t, 4)
	ctx := context.Background()
	resp, _ := env.start(t, "ada@example.com")
	other, otherCaller := env.start(t, "bob@example.com")
	qid := resp.Questions[0].ID

	callers := map[string]Caller{
		"anonymous":        {},
		"other session":    otherCaller,
		"invalid tokens":   env.auth.CallerFromTokens("garbage", "garbage"),
		"admin as session": env.auth.CallerFromTokens("", mustAdminToken(t, env)),
		"session as admin": env.auth.CallerFromTokens(mustSessionToken(t, env, other.SessionID), ""),
	}
	for name, caller := range callers {
		t.Run(name, func(t *testing.T) {
			if _, err := env.svc.Get(ctx, caller, resp.SessionID); !errors.Is(err, ErrUnauthorized) {
				t.Fatalf("get: expected ErrUnauthorized, got %v", err)
			}
			if err := env.svc.SaveAnswer(ctx, caller, resp.SessionID, qid, "A"); !errors.Is(err, ErrUnauthorized) {
				t.Fatalf("save: expected ErrUnauthorized, got %v", err)
			}
			if _, err := env.svc.Complete(ctx, caller, resp.SessionID); !errors.Is(err, ErrUnauthorized) {
				t.Fatalf("complete: expected ErrUnauthorized, got %v", err)
			}
		})
	}

	admin := env.auth.CallerFromTokens(mustAdminToken(t, env), "")
	if !admin.IsAdmin {
		t.Fatalf("expected admin caller")
	}
	if _, err := env.svc.Get(ctx, admin, resp.SessionID); err != nil {
		t.Fatalf("admin get: %v", err)
	}
}

func mustAdminToken(t *testing.T, env *testEnv) string {
	t.Helper()
	token, err := env.auth.GenerateAdminToken(&model.Admin{ID: "a1", Username: "admin"})
	if err != nil {
		t.Fatalf("admin token: %v", err)
	}
	return token
}

func mustSessionToken(t *testing.T, env *testEnv, sessionID string) string {
	t.Helper()
	token, err := env.auth.GenerateSessionToken(sessionID)
	if err != nil {
		t.Fatalf("session token: %v", err)
	}
	return token
}

func TestPropagationConvergence(t *testing.T) {
	env := newTestEnv(t, 4)
	ctx := context.Background()
	resp, caller := env.start(t, "ada@example.com")
	env.answerAll(t, caller, resp, "C", "C", "D", "A")

	if _, err := env.svc.Complete(ctx, caller, resp.SessionID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	session, _ := env.sessions.GetByID(ctx, resp.SessionID)
	user, _ := env.users.GetByID(ctx, session.UserID)
	if user.Result == nil {
		t.Fatalf("expected user.result to be written")
	}
	if user.Result.SessionID != session.ID || user.Result.Score != *session.Score {
		t.Fatalf("user.result %+v does not match session %+v", user.Result, session.Score)
	}
	if !user.Result.CompletedAt.Equal(*session.CompletedAt) {
		t.Fatalf("completed_at mismatch")
	}

	// re-running leaves the same state
	propagator := NewResultPropagator(env.users)
	for i := 0; i < 3; i++ {
		if err := propagator.Propagate(ctx, session); err != nil {
			t.Fatalf("propagate: %v", err)
		}
	}
	again, _ := env.users.GetByID(ctx, session.UserID)
	if *again.Result != *user.Result {
		t.Fatalf("repeated propagation changed the result")
	}
}

func TestPropagationSkipsAnonymous(t *testing.T) {
	env := newTestEnv(t, 2)
	ctx := context.Background()

	resp, err := env.svc.SubmitDirect(ctx, model.DirectSubmitRequest{
		Responses: []model.SubmittedResponse{{QuestionID: "q01", SelectedOptionLabel: "A"}},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	session, _ := env.sessions.GetByID(ctx, resp.SessionID)
	if session.UserID != "" {
		t.Fatalf("expected anonymous session")
	}
	users, _ := env.users.ListByRole(ctx, model.RoleStudent)
	if len(users) != 0 {
		t.Fatalf("anonymous submit created users")
	}
}

type failingUserRepo struct {
	repository.UserRepo
}

func (failingUserRepo) SetResult(context.Context, string, model.UserResult) (bool, error) {
	return false, errors.New("write failed")
}

func TestPropagationFailureKeepsCompletion(t *testing.T) {
	env := newTestEnvWithUsers(t, 2, func(r repository.UserRepo) repository.UserRepo {
		return failingUserRepo{UserRepo: r}
	})
	ctx := context.Background()
	resp, caller := env.start(t, "ada@example.com")
	env.answerAll(t, caller, resp, "B", "B")

	if _, err := env.svc.Complete(ctx, caller, resp.SessionID); err != nil {
		t.Fatalf("complete must succeed when propagation fails: %v", err)
	}
	session, _ := env.sessions.GetByID(ctx, resp.SessionID)
	if session.Status != model.SessionCompleted {
		t.Fatalf("session was not completed")
	}
	user, _ := env.users.GetByID(ctx, session.UserID)
	if user.Result != nil {
		t.Fatalf("expected stale cache after failed propagation")
	}

	// readers still see the result through the fallback
	result, err := env.stats.LatestResult(ctx, user)
	if err != nil || result == nil || result.SessionID != session.ID {
		t.Fatalf("fallback did not recover result: %+v %v", result, err)
	}
}

func TestFallbackConsistency(t *testing.T) {
	env := newTestEnv(t, 4)
	ctx := context.Background()
	resp, caller := env.start(t, "ada@example.com")
	env.answerAll(t, caller, resp, "D", "D", "C", "A")
	if _, err := env.svc.Complete(ctx, caller, resp.SessionID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	session, _ := env.sessions.GetByID(ctx, resp.SessionID)
	user, _ := env.users.GetByID(ctx, session.UserID)
	original := *user.Result

	env.users.ClearResult(user.ID)

	summaries, err := env.stats.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected one user, got %d", len(summaries))
	}
	got := summaries[0]
	if got.Status != model.UserCompleted || got.Score == nil {
		t.Fatalf("fallback missed completed session: %+v", got)
	}
	if got.Score.Primary != original.Score.Primary || got.Score.Secondary != original.Score.Secondary {
		t.Fatalf("fallback %s/%s, cache had %s/%s", got.Score.Primary, got.Score.Secondary, original.Score.Primary, original.Score.Secondary)
	}
	if got.LatestReportID != session.ID {
		t.Fatalf("unexpected report id %s", got.LatestReportID)
	}

	healed, _ := env.users.GetByID(ctx, user.ID)
	if healed.Result == nil || healed.Result.SessionID != session.ID {
		t.Fatalf("fallback hit did not backfill user.result")
	}
}

func TestListUsersNotAttempted(t *testing.T) {
	env := newTestEnv(t, 2)
	ctx := context.Background()
	if _, err := env.userSvc.Register(ctx, model.RegisterUserRequest{Name: "Bob", Email: "bob@example.com"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	summaries, err := env.stats.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(summaries) != 1 || summaries[0].Status != model.UserNotAttempted || summaries[0].Score != nil {
		t.Fatalf("unexpected summaries %+v", summaries)
	}
}

func TestSubmitDirectRecomputesScore(t *testing.T) {
	env := newTestEnv(t, 4)
	ctx := context.Background()

	forged := &model.Score{Primary: model.TypeStrategist, Secondary: model.TypeAnchor, Raw: model.DCASCounts{S: 4}}
	resp, err := env.svc.SubmitDirect(ctx, model.DirectSubmitRequest{
		Email:       "ada@example.com",
		StudentName: "Ada",
		Score:       forged,
		Responses: []model.SubmittedResponse{
			{QuestionID: "q01", SelectedOptionLabel: "A"},
			{QuestionID: "q02", SelectedOptionLabel: "B"},
			{QuestionID: "q03", SelectedOptionLabel: "A"},
			{QuestionID: "q01", SelectedOptionLabel: "A"},
		},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if resp.Score.Primary != model.TypeDriver || resp.Score.Secondary != model.TypeConnector {
		t.Fatalf("server did not recompute score: %+v", resp.Score)
	}
	if resp.Score.Raw.Total() != 3 {
		t.Fatalf("duplicate question counted twice: %+v", resp.Score.Raw)
	}

	session, _ := env.sessions.GetByID(ctx, resp.SessionID)
	if session.Status != model.SessionCompleted || len(session.Responses) != 3 || len(session.AssignedQuestions) != 3 {
		t.Fatalf("unexpected stored session %+v", session)
	}
	user, _ := env.users.GetByEmail(ctx, "ada@example.com")
	if user == nil || user.Result == nil || user.Result.SessionID != session.ID {
		t.Fatalf("direct submit did not propagate")
	}
	if len(env.broadcaster.events) != 1 {
		t.Fatalf("expected one completion event, got %d", len(env.broadcaster.events))
	}
}

func TestSubmitDirectValidation(t *testing.T) {
	env := newTestEnv(t, 2)
	ctx := context.Background()

	if _, err := env.svc.SubmitDirect(ctx, model.DirectSubmitRequest{}); !errors.Is(err, ErrValidation) {
		t.Fatalf("empty: expected ErrValidation, got %v", err)
	}
	_, err := env.svc.SubmitDirect(ctx, model.DirectSubmitRequest{
		Responses: []model.SubmittedResponse{{QuestionID: "q01", SelectedOptionLabel: "Z"}},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("bad option: expected ErrNotFound, got %v", err)
	}
	_, err = env.svc.SubmitDirect(ctx, model.DirectSubmitRequest{
		UserID:    "nobody",
		Responses: []model.SubmittedResponse{{QuestionID: "q01", SelectedOptionLabel: "A"}},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown user: expected ErrNotFound, got %v", err)
	}
}

// brokenSessionRepo fails every Update, and Create when failCreate is set
type brokenSessionRepo struct {
	repository.SessionRepo
	failCreate bool
}

func (r brokenSessionRepo) Create(ctx context.Context, session *model.Session) error {
	if r.failCreate {
		return errors.New("store down")
	}
	return r.SessionRepo.Create(ctx, session)
}

func (brokenSessionRepo) Update(context.Context, *model.Session, model.SessionStatus) error {
	return errors.New("store down")
}

func TestSubmitDirectWritesOnce(t *testing.T) {
	ctx := context.Background()
	req := model.DirectSubmitRequest{
		Email:     "ada@example.com",
		Responses: []model.SubmittedResponse{{QuestionID: "q01", SelectedOptionLabel: "A"}},
	}

	tests := []struct {
		name       string
		failCreate bool
		wantErr    bool
		completed  int64
	}{
		{"update never needed", false, false, 1},
		{"failed insert leaves nothing", true, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, 2)
			repo := brokenSessionRepo{SessionRepo: env.sessions, failCreate: tt.failCreate}
			svc := NewSessionService(repo, env.userSvc, NewQuestionBank(env.questions, env.templates),
				env.auth, env.lock, env.statsCache, NewResultPropagator(env.users), 0)

			_, err := svc.SubmitDirect(ctx, req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("submit: wantErr=%v, got %v", tt.wantErr, err)
			}

			active, _ := env.sessions.CountByStatus(ctx, model.SessionInProgress)
			if active != 0 {
				t.Fatalf("expected no in_progress sessions, got %d", active)
			}
			completed, _ := env.sessions.CountByStatus(ctx, model.SessionCompleted)
			if completed != tt.completed {
				t.Fatalf("expected %d completed sessions, got %d", tt.completed, completed)
			}
		})
	}
}

func TestGetDerivedView(t *testing.T) {
	env := newTestEnv(t, 30)
	ctx := context.Background()
	resp, caller := env.start(t, "ada@example.com")

	labels := make([]string, 0, 30)
	for i := 0; i < 30; i++ {
		switch {
		case i < 16:
			labels = append(labels, "A")
		case i < 26:
			labels = append(labels, "B")
		default:
			labels = append(labels, "C")
		}
	}
	env.answerAll(t, caller, resp, labels...)

	view, err := env.svc.Get(ctx, caller, resp.SessionID)
	if err != nil {
		t.Fatalf("get in progress: %v", err)
	}
	if view.Scores != nil || view.ScoreRanges != nil {
		t.Fatalf("in-progress view must not carry results")
	}

	if _, err := env.svc.Complete(ctx, caller, resp.SessionID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	view, err = env.svc.Get(ctx, caller, resp.SessionID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if view.PrimaryType != model.TypeDriver || view.SecondaryType != model.TypeConnector {
		t.Fatalf("unexpected types %s/%s", view.PrimaryType, view.SecondaryType)
	}
	want := model.DCASRanges{D: model.RangeHigh, C: model.RangeModerate, A: model.RangeLow, S: model.RangeLow}
	if *view.ScoreRanges != want {
		t.Fatalf("ranges = %+v, want %+v", *view.ScoreRanges, want)
	}
	if len(view.CareerRecommendations) != 3 {
		t.Fatalf("expected 3 careers, got %d", len(view.CareerRecommendations))
	}
	if view.StudentName != "Student ada@example.com" {
		t.Fatalf("unexpected student name %q", view.StudentName)
	}
	if len(view.Questions) != 30 {
		t.Fatalf("expected 30 questions, got %d", len(view.Questions))
	}
}

func TestAbandon(t *testing.T) {
	env := newTestEnv(t, 2)
	ctx := context.Background()
	resp, caller := env.start(t, "ada@example.com")

	if err := env.svc.Abandon(ctx, caller, resp.SessionID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("owner abandon: expected ErrUnauthorized, got %v", err)
	}
	admin := Caller{IsAdmin: true}
	if err := env.svc.Abandon(ctx, admin, resp.SessionID); err != nil {
		t.Fatalf("abandon: %v", err)
	}
	if err := env.svc.Abandon(ctx, admin, resp.SessionID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("second abandon: expected ErrInvalidState, got %v", err)
	}
	if _, err := env.svc.Complete(ctx, caller, resp.SessionID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("complete abandoned: expected ErrInvalidState, got %v", err)
	}
}

func TestBusySessionRejected(t *testing.T) {
	env := newTestEnv(t, 2)
	ctx := context.Background()
	resp, caller := env.start(t, "ada@example.com")

	release, err := env.lock.Acquire(ctx, resp.SessionID)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer release()

	if _, err := env.svc.Complete(ctx, caller, resp.SessionID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState while locked, got %v", err)
	}
	session, _ := env.sessions.GetByID(ctx, resp.SessionID)
	if session.Status != model.SessionInProgress {
		t.Fatalf("locked session was completed")
	}
}

func TestLatestCompletionWinsUserResult(t *testing.T) {
	env := newTestEnv(t, 2)
	ctx := context.Background()

	first, c1 := env.start(t, "ada@example.com")
	second, c2 := env.start(t, "ada@example.com")
	env.answerAll(t, c1, first, "A", "A")
	env.answerAll(t, c2, second, "D", "D")

	if _, err := env.svc.Complete(ctx, c1, first.SessionID); err != nil {
		t.Fatalf("complete first: %v", err)
	}
	if _, err := env.svc.Complete(ctx, c2, second.SessionID); err != nil {
		t.Fatalf("complete second: %v", err)
	}

	// replaying the older session must not clobber the newer result
	if _, err := env.stats.Backfill(ctx); err != nil {
		t.Fatalf("backfill: %v", err)
	}
	user, _ := env.users.GetByEmail(ctx, "ada@example.com")
	if user.Result.SessionID != second.SessionID || user.Result.Score.Primary != model.TypeStrategist {
		t.Fatalf("expected latest session %s, got %+v", second.SessionID, user.Result)
	}
}
