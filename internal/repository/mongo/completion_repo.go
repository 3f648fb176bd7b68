package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"alcyxob/annual-plan/internal/domain"
	"alcyxob/annual-plan/internal/repository"
)

const completionCollectionName = "session_completions"

// mongoCompletionRepository stores completion events delivered by the
// session feed. Event ids are unique so redelivery is harmless.
type mongoCompletionRepository struct {
	collection *mongo.Collection
}

func NewMongoCompletionRepository(db *mongo.Database) repository.CompletionRepository {
	return &mongoCompletionRepository{collection: db.Collection(completionCollectionName)}
}

func (r *mongoCompletionRepository) CreateIfAbsent(ctx context.Context, c *domain.SessionCompletion) (bool, error) {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	c.CreatedAt = time.Now().UTC()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"eventId": c.EventID},
		bson.M{"$setOnInsert": c},
		options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return result.UpsertedCount == 1, nil
}

func (r *mongoCompletionRepository) ListByAssignments(ctx context.Context, ids []primitive.ObjectID) ([]domain.SessionCompletion, error) {
	out := []domain.SessionCompletion{}
	if len(ids) == 0 {
		return out, nil
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "completedAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"assignmentId": bson.M{"$in": ids}}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EnsureCompletionIndexes creates necessary indexes for the completions collection.
func EnsureCompletionIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "eventId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "assignmentId", Value: 1}},
			Options: options.Index().SetSparse(true), // feed events need not link an assignment
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
