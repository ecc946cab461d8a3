package repository

import (
	"context"
	"dcasassess/internal/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AdminRepo handles MongoDB operations for dashboard operators
type AdminRepo interface {
	Create(ctx context.Context, admin *model.Admin) error
	GetByUsername(ctx context.Context, username string) (*model.Admin, error)
}

type adminRepo struct {
	collection *mongo.Collection
}

// NewAdminRepo creates a new admin repository
func NewAdminRepo(db *mongo.Database) AdminRepo {
	return &adminRepo{
		collection: db.Collection("admins"),
	}
}

func (r *adminRepo) Create(ctx context.Context, admin *model.Admin) error {
	if admin.ID == "" {
		admin.ID = NewID()
	}
	admin.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, admin)
	return err
}

func (r *adminRepo) GetByUsername(ctx context.Context, username string) (*model.Admin, error) {
	var admin model.Admin
	err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&admin)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}
