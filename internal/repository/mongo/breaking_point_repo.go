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

const breakingPointCollectionName = "breaking_points"

type mongoBreakingPointRepository struct {
	collection *mongo.Collection
}

func NewMongoBreakingPointRepository(db *mongo.Database) repository.BreakingPointRepository {
	return &mongoBreakingPointRepository{collection: db.Collection(breakingPointCollectionName)}
}

func (r *mongoBreakingPointRepository) Create(ctx context.Context, bp *domain.BreakingPoint) (primitive.ObjectID, error) {
	if bp.ID.IsZero() {
		bp.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	bp.CreatedAt = now
	bp.UpdatedAt = now
	if _, err := r.collection.InsertOne(ctx, bp); err != nil {
		return primitive.NilObjectID, translate(err)
	}
	return bp.ID, nil
}

func (r *mongoBreakingPointRepository) ListByPlayer(ctx context.Context, playerID primitive.ObjectID) ([]domain.BreakingPoint, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"playerId": playerID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []domain.BreakingPoint{}
	if err = cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mongoBreakingPointRepository) CountByPlayer(ctx context.Context, playerID primitive.ObjectID) (int, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"playerId": playerID})
	return int(n), err
}

func (r *mongoBreakingPointRepository) Update(ctx context.Context, bp *domain.BreakingPoint) error {
	bp.UpdatedAt = time.Now().UTC()
	updateDoc := bson.M{
		"$set": bson.M{
			"title":           bp.Title,
			"description":     bp.Description,
			"progressPercent": bp.ProgressPercent,
			"status":          bp.Status,
			"resolvedAt":      bp.ResolvedAt,
			"updatedAt":       bp.UpdatedAt,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": bp.ID}, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func EnsureBreakingPointIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "playerId", Value: 1}, {Key: "status", Value: 1}},
	})
	return err
}
