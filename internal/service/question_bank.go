package service

import (
	"context"
	"dcasassess/internal/model"
	"dcasassess/internal/repository"
	"fmt"
	"math/rand"
	"strings"
)

// QuestionBank is the read-only view of questions and templates the session engine consumes
type QuestionBank struct {
	questionRepo repository.QuestionRepo
	templateRepo repository.TemplateRepo
}

func NewQuestionBank(questionRepo repository.QuestionRepo, templateRepo repository.TemplateRepo) *QuestionBank {
	return &QuestionBank{
		questionRepo: questionRepo,
		templateRepo: templateRepo,
	}
}

// Template returns the template by id, or the live one when id is empty
func (b *QuestionBank) Template(ctx context.Context, id string) (*model.AssessmentTemplate, error) {
	var (
		tpl *model.AssessmentTemplate
		err error
	)
	if id != "" {
		tpl, err = b.templateRepo.GetByID(ctx, id)
	} else {
		tpl, err = b.templateRepo.GetLive(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	if tpl == nil {
		return nil, fmt.Errorf("%w: template", ErrNotFound)
	}
	return tpl, nil
}

// SelectQuestions picks the ids a new session must answer: template order,
// shuffled when the template is randomized, capped at limit.
func SelectQuestions(tpl *model.AssessmentTemplate, limit int, rng *rand.Rand) []string {
	ids := append([]string(nil), tpl.Questions...)
	if tpl.Settings.Randomized && rng != nil {
		rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	}
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids
}

// AssignedQuestions returns the session's questions in assigned order
func (b *QuestionBank) AssignedQuestions(ctx context.Context, session *model.Session) ([]model.Question, error) {
	found, err := b.questionRepo.GetByIDs(ctx, session.AssignedQuestions)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}
	out := make([]model.Question, 0, len(found))
	for _, q := range found {
		out = append(out, *q)
	}
	return out, nil
}

// ResolveOption maps an answer label on a question to its type
func (b *QuestionBank) ResolveOption(ctx context.Context, questionID, label string) (model.DCASType, error) {
	q, err := b.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return "", fmt.Errorf("failed to get question: %w", err)
	}
	if q == nil {
		return "", fmt.Errorf("%w: question %s", ErrNotFound, questionID)
	}
	opt, ok := q.Option(strings.TrimSpace(label))
	if !ok || !opt.DCASType.Valid() {
		return "", fmt.Errorf("%w: option %q on question %s", ErrNotFound, label, questionID)
	}
	return opt.DCASType, nil
}

// ShuffleOptions reorders options in place for display. Labels travel with
// their options so answers still resolve to the same type.
func ShuffleOptions(questions []model.Question, rng *rand.Rand) {
	for i := range questions {
		opts := append([]model.QuestionOption(nil), questions[i].Options...)
		rng.Shuffle(len(opts), func(a, b int) { opts[a], opts[b] = opts[b], opts[a] })
		questions[i].Options = opts
	}
}
