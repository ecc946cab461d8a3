package repository

import (
	"context"
	"dcasassess/internal/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// QuestionRepo reads the question bank
type QuestionRepo interface {
	Create(ctx context.Context, question *model.Question) error
	GetByID(ctx context.Context, id string) (*model.Question, error)
	// GetByIDs returns the found questions in the order of ids. Missing ids are skipped.
	GetByIDs(ctx context.Context, ids []string) ([]*model.Question, error)
	CountActive(ctx context.Context) (int64, error)
}

type questionRepo struct {
	collection *mongo.Collection
}

// NewQuestionRepo creates a new question repository
func NewQuestionRepo(db *mongo.Database) QuestionRepo {
	return &questionRepo{
		collection: db.Collection("questions"),
	}
}

func (r *questionRepo) Create(ctx context.Context, question *model.Question) error {
	if question.ID == "" {
		question.ID = NewID()
	}
	if question.Version == 0 {
		question.Version = 1
	}
	now := time.Now()
	question.CreatedAt = now
	question.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, question)
	return err
}

func (r *questionRepo) GetByID(ctx context.Context, id string) (*model.Question, error) {
	var question model.Question
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&question)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepo) GetByIDs(ctx context.Context, ids []string) ([]*model.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var found []*model.Question
	if err := cursor.All(ctx, &found); err != nil {
		return nil, err
	}
	return orderByIDs(found, ids), nil
}

func (r *questionRepo) CountActive(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"active": true})
}

// orderByIDs restores the caller's ordering, which $in does not preserve
func orderByIDs(questions []*model.Question, ids []string) []*model.Question {
	byID := make(map[string]*model.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	ordered := make([]*model.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			ordered = append(ordered, q)
		}
	}
	return ordered
}
