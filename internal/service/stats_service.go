package service

import (
	"context"
	"dcasassess/internal/cache"
	"dcasassess/internal/model"
	"dcasassess/internal/repository"
	"dcasassess/internal/scoring"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"sort"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
)

const recentSessionsLimit = 10

// StatsService implements the read side: dashboard, reports, users list, export.
// Distributions come from sessions; user.result is only read behind the fallback.
type StatsService struct {
	sessionRepo  repository.SessionRepo
	userRepo     repository.UserRepo
	questionRepo repository.QuestionRepo
	templateRepo repository.TemplateRepo
	statsCache   cache.StatsCache
	propagator   *ResultPropagator
	now          func() time.Time
}

// NewStatsService creates a new stats service
func NewStatsService(
	sessionRepo repository.SessionRepo,
	userRepo repository.UserRepo,
	questionRepo repository.QuestionRepo,
	templateRepo repository.TemplateRepo,
	statsCache cache.StatsCache,
	propagator *ResultPropagator,
) *StatsService {
	return &StatsService{
		sessionRepo:  sessionRepo,
		userRepo:     userRepo,
		questionRepo: questionRepo,
		templateRepo: templateRepo,
		statsCache:   statsCache,
		propagator:   propagator,
		now:          time.Now,
	}
}

// Dashboard returns the cached dashboard or computes it
func (s *StatsService) Dashboard(ctx context.Context) (*model.DashboardStats, error) {
	if s.statsCache != nil {
		cached, err := s.statsCache.Get(ctx)
		if err != nil {
			log.Printf("[Stats] cache read failed: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	var generation int64
	if s.statsCache != nil {
		gen, err := s.statsCache.Generation(ctx)
		if err != nil {
			log.Printf("[Stats] cache generation read failed: %v", err)
			return s.computeDashboard(ctx)
		}
		generation = gen
	}

	stats, err := s.computeDashboard(ctx)
	if err != nil {
		return nil, err
	}

	if s.statsCache != nil {
		stored, err := s.statsCache.Set(ctx, generation, stats)
		if err != nil {
			log.Printf("[Stats] cache write failed: %v", err)
		} else if !stored {
			log.Printf("[Stats] dashboard invalidated while computing, not cached")
		}
	}
	return stats, nil
}

func (s *StatsService) computeDashboard(ctx context.Context) (*model.DashboardStats, error) {
	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := now.AddDate(0, 0, -7)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	stats := &model.DashboardStats{LastUpdated: now}
	var recent []*model.Session

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalUsers, err = s.userRepo.CountByRole(gctx, model.RoleStudent)
		return err
	})
	g.Go(func() (err error) {
		stats.ActiveSessions, err = s.sessionRepo.CountByStatus(gctx, model.SessionInProgress)
		return err
	})
	g.Go(func() (err error) {
		stats.CompletedToday, err = s.sessionRepo.CountCompletedSince(gctx, dayStart)
		return err
	})
	g.Go(func() (err error) {
		stats.CompletedThisWeek, err = s.sessionRepo.CountCompletedSince(gctx, weekStart)
		return err
	})
	g.Go(func() (err error) {
		stats.CompletedThisMonth, err = s.sessionRepo.CountCompletedSince(gctx, monthStart)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalQuestions, err = s.questionRepo.CountActive(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalTemplates, err = s.templateRepo.Count(gctx)
		return err
	})
	g.Go(func() error {
		live, err := s.templateRepo.GetLive(gctx)
		if err != nil {
			return err
		}
		if live != nil {
			stats.LiveAssessment = &model.LiveAssessment{Name: live.Name, QuestionCount: len(live.Questions)}
		}
		return nil
	})
	g.Go(func() (err error) {
		stats.DCASDistribution, err = s.sessionRepo.PrimaryDistribution(gctx)
		return err
	})
	g.Go(func() (err error) {
		recent, err = s.sessionRepo.ListCompleted(gctx, recentSessionsLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to compute dashboard: %w", err)
	}

	stats.DCASPercentages = scoring.Percentages(stats.DCASDistribution)

	users := newUserLookup(s.userRepo)
	stats.RecentSessions = make([]model.RecentSession, 0, len(recent))
	for _, sess := range recent {
		row := model.RecentSession{ID: sess.ID, StudentName: "Guest", CompletedAt: sess.CompletedAt}
		if u := users.get(ctx, sess.UserID); u != nil {
			row.StudentName = u.Name
			row.Email = u.Email
		}
		if sess.Score != nil {
			row.PrimaryType = sess.Score.Primary.Name()
		}
		stats.RecentSessions = append(stats.RecentSessions, row)
	}
	return stats, nil
}

// Reports lists completed sessions, newest first
func (s *StatsService) Reports(ctx context.Context) ([]model.ReportRow, error) {
	sessions, err := s.sessionRepo.ListCompleted(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	users := newUserLookup(s.userRepo)
	rows := make([]model.ReportRow, 0, len(sessions))
	for _, sess := range sessions {
		row := model.ReportRow{ID: sess.ID, CompletedAt: sess.CompletedAt}
		if u := users.get(ctx, sess.UserID); u != nil {
			row.User = &model.ReportUser{Name: u.Name, Email: u.Email}
		} else {
			row.GuestName = "Guest"
		}
		if sess.Score != nil {
			raw := sess.Score.Raw
			row.Raw = &raw
			row.Score = &model.ReportScore{
				Primary:   sess.Score.Primary,
				Secondary: sess.Score.Secondary,
				D:         sess.Score.Percent.D,
				C:         sess.Score.Percent.C,
				A:         sess.Score.Percent.A,
				S:         sess.Score.Percent.S,
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// DeleteReports removes completed sessions by id
func (s *StatsService) DeleteReports(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: ids are required", ErrValidation)
	}
	owners := make(map[string][]string)
	for _, id := range ids {
		sess, err := s.sessionRepo.GetByID(ctx, id)
		if err != nil {
			return 0, fmt.Errorf("failed to get session: %w", err)
		}
		if sess != nil && sess.UserID != "" {
			owners[sess.UserID] = append(owners[sess.UserID], sess.ID)
		}
	}

	n, err := s.sessionRepo.DeleteMany(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to delete sessions: %w", err)
	}
	for userID, deleted := range owners {
		s.repropagate(ctx, userID, deleted)
	}
	if s.statsCache != nil {
		if err := s.statsCache.Invalidate(ctx); err != nil {
			log.Printf("[Stats] failed to invalidate cache: %v", err)
		}
	}
	return n, nil
}

// repropagate points user.result back at the owner's latest remaining completion
func (s *StatsService) repropagate(ctx context.Context, userID string, deleted []string) {
	for _, id := range deleted {
		if err := s.propagator.Retract(ctx, userID, id); err != nil {
			log.Printf("[Stats] failed to retract result of %s for user %s: %v", id, userID, err)
			return
		}
	}
	latest, err := s.sessionRepo.LatestCompletedByUser(ctx, userID)
	if err != nil {
		log.Printf("[Stats] failed to find latest session for user %s: %v", userID, err)
		return
	}
	if latest != nil {
		s.propagator.PropagateBestEffort(ctx, latest)
	}
}

var exportHeader = []string{
	"Session ID", "Name", "Email", "Completed At", "Primary", "Secondary",
	"D %", "C %", "A %", "S %", "D Level", "C Level", "A Level", "S Level",
}

// ExportCSV writes the reports as CSV
func (s *StatsService) ExportCSV(ctx context.Context, w io.Writer) error {
	rows, err := s.Reports(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, row := range rows {
		name, email := row.GuestName, ""
		if row.User != nil {
			name, email = row.User.Name, row.User.Email
		}
		completed := ""
		if row.CompletedAt != nil {
			completed = row.CompletedAt.UTC().Format(time.RFC3339)
		}
		record := []string{row.ID, name, email, completed}
		if row.Score == nil || row.Raw == nil {
			record = append(record, make([]string, len(exportHeader)-len(record))...)
		} else {
			record = append(record, string(row.Score.Primary), string(row.Score.Secondary),
				strconv.Itoa(row.Score.D), strconv.Itoa(row.Score.C), strconv.Itoa(row.Score.A), strconv.Itoa(row.Score.S))
			total := row.Raw.Total()
			for _, t := range model.DCASTypes {
				record = append(record, string(scoring.Level(row.Raw.Get(t), total)))
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// LatestResult returns the user's latest result: user.result when present,
// otherwise the most recent completed session. Nil when the user never completed.
func (s *StatsService) LatestResult(ctx context.Context, user *model.User) (*model.UserResult, error) {
	if user.Result != nil {
		return user.Result, nil
	}
	session, err := s.sessionRepo.LatestCompletedByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed sessions: %w", err)
	}
	if session == nil || session.Score == nil || session.CompletedAt == nil {
		return nil, nil
	}
	// heal the cache through the sole writer of user.result
	s.propagator.PropagateBestEffort(ctx, session)
	return &model.UserResult{
		SessionID:   session.ID,
		Score:       *session.Score,
		CompletedAt: *session.CompletedAt,
	}, nil
}

// ListUsers returns students with their completion status
func (s *StatsService) ListUsers(ctx context.Context) ([]model.UserSummary, error) {
	users, err := s.userRepo.ListByRole(ctx, model.RoleStudent)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	out := make([]model.UserSummary, 0, len(users))
	for _, u := range users {
		summary := model.UserSummary{User: u, Status: model.UserNotAttempted}
		result, err := s.LatestResult(ctx, u)
		if err != nil {
			return nil, err
		}
		if result != nil {
			completedAt := result.CompletedAt
			summary.LatestReportID = result.SessionID
			summary.Score = &model.PrimarySecondary{Primary: result.Score.Primary, Secondary: result.Score.Secondary}
			summary.CompletedAt = &completedAt
			summary.Status = model.UserCompleted
		}
		out = append(out, summary)
	}
	return out, nil
}

// Backfill re-propagates every completed session, oldest first, so each
// user ends on their latest result. Returns how many sessions were processed.
func (s *StatsService) Backfill(ctx context.Context) (int, error) {
	sessions, err := s.sessionRepo.ListCompleted(ctx, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to list sessions: %w", err)
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		return completedBefore(sessions[i], sessions[j])
	})

	failed := 0
	for _, sess := range sessions {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if err := s.propagator.Propagate(ctx, sess); err != nil {
			failed++
			log.Printf("[Backfill] session %s: %v", sess.ID, err)
		}
	}
	log.Printf("[Backfill] processed %d sessions, %d failed", len(sessions), failed)
	if failed > 0 {
		return len(sessions), fmt.Errorf("%d sessions failed to propagate", failed)
	}
	return len(sessions), nil
}

func completedBefore(a, b *model.Session) bool {
	if a.CompletedAt == nil {
		return b.CompletedAt != nil
	}
	if b.CompletedAt == nil {
		return false
	}
	return a.CompletedAt.Before(*b.CompletedAt)
}

// userLookup memoizes user reads within one request
type userLookup struct {
	repo  repository.UserRepo
	users map[string]*model.User
}

func newUserLookup(repo repository.UserRepo) *userLookup {
	return &userLookup{repo: repo, users: make(map[string]*model.User)}
}

func (l *userLookup) get(ctx context.Context, id string) *model.User {
	if id == "" {
		return nil
	}
	if u, ok := l.users[id]; ok {
		return u
	}
	u, err := l.repo.GetByID(ctx, id)
	if err != nil {
		log.Printf("[Stats] failed to get user %s: %v", id, err)
		return nil
	}
	l.users[id] = u
	return u
}
