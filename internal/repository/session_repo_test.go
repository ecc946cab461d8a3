package repository

import (
	"context"
	"dcasassess/internal/model"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestSessionRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("get by id decodes score", func(mt *mtest.T) {
		repo := NewSessionRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "dcas.sessions", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "s1"},
			{Key: "user_id", Value: "u1"},
			{Key: "template_id", Value: "t1"},
			{Key: "status", Value: "completed"},
			{Key: "score", Value: bson.D{
				{Key: "raw", Value: bson.D{{Key: "D", Value: 1}, {Key: "C", Value: 0}, {Key: "A", Value: 2}, {Key: "S", Value: 3}}},
				{Key: "primary", Value: "S"},
				{Key: "secondary", Value: "A"},
			}},
		}))

		session, err := repo.GetByID(ctx, "s1")
		if err != nil {
			mt.Fatalf("get: %v", err)
		}
		if session == nil || session.ID != "s1" || session.Status != model.SessionCompleted {
			mt.Fatalf("unexpected session %+v", session)
		}
		if session.Score == nil || session.Score.Primary != model.TypeStrategist || session.Score.Raw.A != 2 {
			mt.Fatalf("unexpected score %+v", session.Score)
		}
	})

	mt.Run("get by id missing", func(mt *mtest.T) {
		repo := NewSessionRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "dcas.sessions", mtest.FirstBatch))

		session, err := repo.GetByID(ctx, "nope")
		if err != nil || session != nil {
			mt.Fatalf("expected nil, nil; got %+v, %v", session, err)
		}
	})

	mt.Run("update reports stale when status moved", func(mt *mtest.T) {
		repo := NewSessionRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := repo.Update(ctx, &model.Session{ID: "s1", Status: model.SessionCompleted}, model.SessionInProgress)
		if err != ErrStale {
			mt.Fatalf("expected ErrStale, got %v", err)
		}
	})

	mt.Run("update succeeds when matched", func(mt *mtest.T) {
		repo := NewSessionRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		now := time.Now()
		err := repo.Update(ctx, &model.Session{ID: "s1", Status: model.SessionCompleted, CompletedAt: &now}, model.SessionInProgress)
		if err != nil {
			mt.Fatalf("update: %v", err)
		}
	})

	mt.Run("primary distribution", func(mt *mtest.T) {
		repo := NewSessionRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "dcas.sessions", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "D"}, {Key: "count", Value: 3}},
			bson.D{{Key: "_id", Value: "S"}, {Key: "count", Value: 1}},
		))

		counts, err := repo.PrimaryDistribution(ctx)
		if err != nil {
			mt.Fatalf("distribution: %v", err)
		}
		if counts != (model.DCASCounts{D: 3, S: 1}) {
			mt.Fatalf("unexpected counts %+v", counts)
		}
	})
}

func TestOrderByIDs(t *testing.T) {
	qs := []*model.Question{{ID: "b"}, {ID: "c"}, {ID: "a"}}
	got := orderByIDs(qs, []string{"a", "missing", "b", "c"})
	if len(got) != 3 || got[0].ID != "a" || got[1].ID != "b" || got[2].ID != "c" {
		t.Fatalf("unexpected order %v", got)
	}
}
