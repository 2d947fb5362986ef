package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush/clubhouse/backend/internal/models"
)

type messageDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	AuthorID   string             `bson:"author_id"`
	AuthorName string             `bson:"author_name"`
	Content    string             `bson:"content"`
	CreatedAt  time.Time          `bson:"created_at"`
}

func (d messageDoc) model() models.Message {
	return models.Message{
		ID:         d.ID.Hex(),
		AuthorID:   d.AuthorID,
		AuthorName: d.AuthorName,
		Content:    d.Content,
		CreatedAt:  d.CreatedAt,
	}
}

// MongoMessageStore keeps messages in MongoDB. The author's username is
// stored with each message since usernames never change.
type MongoMessageStore struct {
	col *mongo.Collection
	now func() time.Time
}

func NewMongoMessageStore(db *mongo.Database) *MongoMessageStore {
	return &MongoMessageStore{col: db.Collection("messages"), now: time.Now}
}

// EnsureIndexes creates the created_at index used by listings.
func (s *MongoMessageStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("mongo index: %w", err)
	}
	return nil
}

func (s *MongoMessageStore) InsertMessage(ctx context.Context, m models.Message) (*models.Message, error) {
	doc := messageDoc{
		AuthorID:   m.AuthorID,
		AuthorName: m.AuthorName,
		Content:    m.Content,
		CreatedAt:  s.now().UTC().Truncate(time.Millisecond),
	}
	res, err := s.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("mongo insert: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("mongo insert: unexpected id type %T", res.InsertedID)
	}
	doc.ID = oid
	out := doc.model()
	return &out, nil
}

func (s *MongoMessageStore) ListMessages(ctx context.Context, page models.Page) ([]models.Message, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(page.Offset)).
		SetLimit(int64(page.Limit))
	cur, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo find: %w", err)
	}
	defer cur.Close(ctx)

	var docs []messageDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo decode: %w", err)
	}
	msgs := make([]models.Message, 0, len(docs))
	for _, d := range docs {
		msgs = append(msgs, d.model())
	}
	return msgs, nil
}

func (s *MongoMessageStore) DeleteMessage(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("mongo delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
