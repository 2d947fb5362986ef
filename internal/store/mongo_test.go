package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/ayush/clubhouse/backend/internal/models"
)

func TestMongoMessageStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	now := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)

	newStore := func(mt *mtest.T) *MongoMessageStore {
		s := NewMongoMessageStore(mt.DB)
		s.now = func() time.Time { return now }
		return s
	}

	mt.Run("insert", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		got, err := newStore(mt).InsertMessage(context.Background(),
			models.Message{AuthorID: "u-1", AuthorName: "alice", Content: "hello"})
		require.NoError(mt, err)
		assert.Len(mt, got.ID, 24)
		assert.Equal(mt, "alice", got.AuthorName)
		assert.Equal(mt, now, got.CreatedAt)
	})

	mt.Run("list", func(mt *mtest.T) {
		ns := mt.DB.Name() + ".messages"
		id1, id2 := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: id2}, {Key: "author_id", Value: "u-2"}, {Key: "author_name", Value: "bob"},
				{Key: "content", Value: "second"}, {Key: "created_at", Value: now}},
			bson.D{{Key: "_id", Value: id1}, {Key: "author_id", Value: "u-1"}, {Key: "author_name", Value: "alice"},
				{Key: "content", Value: "first"}, {Key: "created_at", Value: now.Add(-time.Minute)}},
		))

		got, err := newStore(mt).ListMessages(context.Background(), models.Page{Limit: 10})
		require.NoError(mt, err)
		require.Len(mt, got, 2)
		assert.Equal(mt, id2.Hex(), got[0].ID)
		assert.Equal(mt, "bob", got[0].AuthorName)
		assert.Equal(mt, "first", got[1].Content)
	})

	mt.Run("delete", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		err := newStore(mt).DeleteMessage(context.Background(), primitive.NewObjectID().Hex())
		assert.NoError(mt, err)
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := newStore(mt).DeleteMessage(context.Background(), primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("delete malformed id", func(mt *mtest.T) {
		err := newStore(mt).DeleteMessage(context.Background(), "not-hex")
		assert.ErrorIs(mt, err, ErrNotFound)
	})
}
