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

const changeLogCollectionName = "plan_change_log"

// mongoChangeLogRepository is an insert-only collection; entries are never updated.
type mongoChangeLogRepository struct {
	collection *mongo.Collection
}

func NewMongoChangeLogRepository(db *mongo.Database) repository.ChangeLogRepository {
	return &mongoChangeLogRepository{collection: db.Collection(changeLogCollectionName)}
}

func (r *mongoChangeLogRepository) Append(ctx context.Context, e *domain.ChangeLogEntry) error {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := r.collection.InsertOne(ctx, e)
	return translate(err)
}

// ListByPlan returns the plan's history oldest first. ObjectIDs break ties
// between entries written in the same millisecond.
func (r *mongoChangeLogRepository) ListByPlan(ctx context.Context, planID primitive.ObjectID) ([]domain.ChangeLogEntry, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"planId": planID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := []domain.ChangeLogEntry{}
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *mongoChangeLogRepository) DeleteByPlan(ctx context.Context, planID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"planId": planID})
	return err
}

func EnsureChangeLogIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "planId", Value: 1}, {Key: "createdAt", Value: 1}},
	})
	return err
}
