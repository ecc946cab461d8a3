package repository

import (
	"context"
	"dcasassess/internal/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SessionRepo handles MongoDB operations for assessment sessions
type SessionRepo interface {
	Create(ctx context.Context, session *model.Session) error
	GetByID(ctx context.Context, id string) (*model.Session, error)
	// Update replaces the stored session only if its status still equals expected.
	Update(ctx context.Context, session *model.Session, expected model.SessionStatus) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)

	// Source-of-truth reads used by aggregation
	LatestCompletedByUser(ctx context.Context, userID string) (*model.Session, error)
	ListCompleted(ctx context.Context, limit int64) ([]*model.Session, error)
	CountByStatus(ctx context.Context, status model.SessionStatus) (int64, error)
	CountCompletedSince(ctx context.Context, since time.Time) (int64, error)
	PrimaryDistribution(ctx context.Context) (model.DCASCounts, error)
}

type sessionRepo struct {
	collection *mongo.Collection
}

// NewSessionRepo creates a new session repository
func NewSessionRepo(db *mongo.Database) SessionRepo {
	return &sessionRepo{
		collection: db.Collection("sessions"),
	}
}

func (r *sessionRepo) Create(ctx context.Context, session *model.Session) error {
	if session.ID == "" {
		session.ID = NewID()
	}
	if session.Responses == nil {
		session.Responses = []model.Response{}
	}
	_, err := r.collection.InsertOne(ctx, session)
	return err
}

func (r *sessionRepo) GetByID(ctx context.Context, id string) (*model.Session, error) {
	var session model.Session
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) Update(ctx context.Context, session *model.Session, expected model.SessionStatus) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": session.ID, "status": expected}, session)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrStale
	}
	return nil
}

func (r *sessionRepo) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *sessionRepo) LatestCompletedByUser(ctx context.Context, userID string) (*model.Session, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "completed_at", Value: -1}})
	var session model.Session
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID, "status": model.SessionCompleted}, opts).Decode(&session)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) ListCompleted(ctx context.Context, limit int64) ([]*model.Session, error) {
	opts := options.Find().SetSort(bson.D{{Key: "completed_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.collection.Find(ctx, bson.M{"status": model.SessionCompleted}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sessions []*model.Session
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepo) CountByStatus(ctx context.Context, status model.SessionStatus) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"status": status})
}

func (r *sessionRepo) CountCompletedSince(ctx context.Context, since time.Time) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"status":       model.SessionCompleted,
		"completed_at": bson.M{"$gte": since},
	})
}

func (r *sessionRepo) PrimaryDistribution(ctx context.Context) (model.DCASCounts, error) {
	var counts model.DCASCounts
	pipeline := []bson.M{
		{"$match": bson.M{"status": model.SessionCompleted, "score.primary": bson.M{"$exists": true}}},
		{"$group": bson.M{"_id": "$score.primary", "count": bson.M{"$sum": 1}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return counts, err
	}
	defer cursor.Close(ctx)

	var groups []struct {
		Type  model.DCASType `bson:"_id"`
		Count int            `bson:"count"`
	}
	if err := cursor.All(ctx, &groups); err != nil {
		return counts, err
	}
	for _, g := range groups {
		counts.Add(g.Type, g.Count)
	}
	return counts, nil
}
