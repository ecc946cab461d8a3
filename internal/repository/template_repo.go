package repository

import (
	"context"
	"dcasassess/internal/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TemplateRepo handles MongoDB operations for assessment templates
type TemplateRepo interface {
	Create(ctx context.Context, template *model.AssessmentTemplate) error
	GetByID(ctx context.Context, id string) (*model.AssessmentTemplate, error)
	// GetLive returns the live template, or the most recently created one when none is live
	GetLive(ctx context.Context) (*model.AssessmentTemplate, error)
	Count(ctx context.Context) (int64, error)
}

type templateRepo struct {
	collection *mongo.Collection
}

// NewTemplateRepo creates a new template repository
func NewTemplateRepo(db *mongo.Database) TemplateRepo {
	return &templateRepo{
		collection: db.Collection("assessment_templates"),
	}
}

func (r *templateRepo) Create(ctx context.Context, template *model.AssessmentTemplate) error {
	if template.ID == "" {
		template.ID = NewID()
	}
	template.CreatedAt = time.Now()
	template.UpdatedAt = template.CreatedAt

	_, err := r.collection.InsertOne(ctx, template)
	return err
}

func (r *templateRepo) GetByID(ctx context.Context, id string) (*model.AssessmentTemplate, error) {
	return r.findOne(ctx, bson.M{"_id": id}, nil)
}

func (r *templateRepo) GetLive(ctx context.Context) (*model.AssessmentTemplate, error) {
	live, err := r.findOne(ctx, bson.M{"isLive": true}, nil)
	if err != nil || live != nil {
		return live, err
	}
	latest := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.findOne(ctx, bson.M{}, latest)
}

func (r *templateRepo) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptions) (*model.AssessmentTemplate, error) {
	if opts == nil {
		opts = options.FindOne()
	}
	var template model.AssessmentTemplate
	err := r.collection.FindOne(ctx, filter, opts).Decode(&template)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *templateRepo) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
