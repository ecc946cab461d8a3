package repository

import (
	"context"
	"dcasassess/internal/model"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepo handles MongoDB operations for assessment takers
type UserRepo interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateProfile(ctx context.Context, user *model.User) error
	ListByRole(ctx context.Context, role model.UserRole) ([]*model.User, error)
	CountByRole(ctx context.Context, role model.UserRole) (int64, error)

	// SetResult writes the denormalized result unless the stored one belongs to
	// a different session that completed later. Reports whether it wrote.
	SetResult(ctx context.Context, userID string, result model.UserResult) (bool, error)
	// UnsetResult removes the result only while it still points at sessionID
	UnsetResult(ctx context.Context, userID, sessionID string) (bool, error)
}

type userRepo struct {
	collection *mongo.Collection
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *mongo.Database) UserRepo {
	return &userRepo{
		collection: db.Collection("users"),
	}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = NewID()
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Role == "" {
		user.Role = model.RoleStudent
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, user)
	return err
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (r *userRepo) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var user model.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile updates contact fields only; result is never touched here
func (r *userRepo) UpdateProfile(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{
		"name":       user.Name,
		"phone":      user.Phone,
		"meta":       user.Meta,
		"updated_at": user.UpdatedAt,
	}})
	return err
}

func (r *userRepo) ListByRole(ctx context.Context, role model.UserRole) ([]*model.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"role": role}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*model.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepo) CountByRole(ctx context.Context, role model.UserRole) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"role": role})
}

func (r *userRepo) SetResult(ctx context.Context, userID string, result model.UserResult) (bool, error) {
	filter := bson.M{
		"_id": userID,
		"$or": bson.A{
			bson.M{"result": bson.M{"$exists": false}},
			bson.M{"result": nil},
			bson.M{"result.session_id": result.SessionID},
			bson.M{"result.completed_at": bson.M{"$lte": result.CompletedAt}},
		},
	}
	res, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"result": result}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *userRepo) UnsetResult(ctx context.Context, userID, sessionID string) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": userID, "result.session_id": sessionID},
		bson.M{"$unset": bson.M{"result": ""}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}
