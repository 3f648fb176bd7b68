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

const periodizationCollectionName = "week_periodizations"

type mongoPeriodizationRepository struct {
	collection *mongo.Collection
}

// NewMongoPeriodizationRepository creates a repository for weekly periodization rows.
func NewMongoPeriodizationRepository(db *mongo.Database) repository.PeriodizationRepository {
	return &mongoPeriodizationRepository{
		collection: db.Collection(periodizationCollectionName),
	}
}

// CreateIfAbsent upserts with $setOnInsert so an existing week is left as is.
// Two concurrent upserts can still race on the unique index; the loser sees a
// duplicate key error, which means the row exists.
func (r *mongoPeriodizationRepository) CreateIfAbsent(ctx context.Context, w *domain.WeekPeriodization) (bool, error) {
	if w.ID.IsZero() {
		w.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	w.CreatedAt = now
	w.UpdatedAt = now

	filter := bson.M{"planId": w.PlanID, "playerId": w.PlayerID, "weekNumber": w.WeekNumber}
	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$setOnInsert": w}, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return result.UpsertedCount == 1, nil
}

func (r *mongoPeriodizationRepository) GetByWeek(ctx context.Context, planID primitive.ObjectID, week int) (*domain.WeekPeriodization, error) {
	var w domain.WeekPeriodization
	if err := r.collection.FindOne(ctx, bson.M{"planId": planID, "weekNumber": week}).Decode(&w); err != nil {
		return nil, translate(err)
	}
	return &w, nil
}

func (r *mongoPeriodizationRepository) ListByPlan(ctx context.Context, planID primitive.ObjectID) ([]domain.WeekPeriodization, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "weekNumber", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"planId": planID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	weeks := []domain.WeekPeriodization{}
	if err = cursor.All(ctx, &weeks); err != nil {
		return nil, err
	}
	return weeks, nil
}

func (r *mongoPeriodizationRepository) Update(ctx context.Context, w *domain.WeekPeriodization) error {
	w.UpdatedAt = time.Now().UTC()
	updateDoc := bson.M{
		"$set": bson.M{
			"startDate":        w.StartDate,
			"period":           w.Period,
			"periodPhase":      w.PeriodPhase,
			"weekInPeriod":     w.WeekInPeriod,
			"plannedHours":     w.PlannedHours,
			"volumeIntensity":  w.VolumeIntensity,
			"priorities":       w.Priorities,
			"learningPhaseMin": w.LearningPhaseMin,
			"learningPhaseMax": w.LearningPhaseMax,
			"clubSpeedMin":     w.ClubSpeedMin,
			"clubSpeedMax":     w.ClubSpeedMax,
			"updatedAt":        w.UpdatedAt,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": w.ID}, updateDoc)
	if err != nil {
		return translate(err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoPeriodizationRepository) DeleteByPlan(ctx context.Context, planID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"planId": planID})
	return err
}

// EnsurePeriodizationIndexes creates the (plan, player, week) uniqueness index.
func EnsurePeriodizationIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "planId", Value: 1},
				{Key: "playerId", Value: 1},
				{Key: "weekNumber", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
