// internal/repository/mongo/training_plan_repo.go
package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"alcyxob/annual-plan/internal/domain"
	"alcyxob/annual-plan/internal/repository"
)

const planCollectionName = "annual_plans"

// mongoPlanRepository implements repository.PlanRepository
type mongoPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanRepository creates a new AnnualPlan repository.
func NewMongoPlanRepository(db *mongo.Database) repository.PlanRepository {
	return &mongoPlanRepository{
		collection: db.Collection(planCollectionName),
	}
}

// Create inserts a new annual plan.
func (r *mongoPlanRepository) Create(ctx context.Context, plan *domain.AnnualPlan) (primitive.ObjectID, error) {
	if plan.PlayerID == primitive.NilObjectID || plan.Name == "" {
		return primitive.NilObjectID, errors.New("plan requires playerId and name")
	}
	if plan.ID.IsZero() {
		plan.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	if plan.LastModifiedAt.IsZero() {
		plan.LastModifiedAt = now
	}

	if _, err := r.collection.InsertOne(ctx, plan); err != nil {
		return primitive.NilObjectID, translate(err)
	}
	return plan.ID, nil
}

// GetByID retrieves a single annual plan by its ID.
func (r *mongoPlanRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.AnnualPlan, error) {
	var plan domain.AnnualPlan
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&plan); err != nil {
		return nil, translate(err)
	}
	return &plan, nil
}

// GetActiveByPlayer returns the player's active plan, if any.
func (r *mongoPlanRepository) GetActiveByPlayer(ctx context.Context, playerID primitive.ObjectID) (*domain.AnnualPlan, error) {
	var plan domain.AnnualPlan
	filter := bson.M{"playerId": playerID, "status": domain.PlanActive}
	if err := r.collection.FindOne(ctx, filter).Decode(&plan); err != nil {
		return nil, translate(err)
	}
	return &plan, nil
}

// ListByPlayer returns every plan of a player, latest season first.
func (r *mongoPlanRepository) ListByPlayer(ctx context.Context, playerID primitive.ObjectID) ([]domain.AnnualPlan, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "startDate", Value: -1}, {Key: "createdAt", Value: -1}})
	return r.find(ctx, bson.M{"playerId": playerID}, findOptions)
}

// ListByStatus is used by the weekly digest to walk active plans.
func (r *mongoPlanRepository) ListByStatus(ctx context.Context, status domain.PlanStatus) ([]domain.AnnualPlan, error) {
	return r.find(ctx, bson.M{"status": status}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
}

func (r *mongoPlanRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.AnnualPlan, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	plans := []domain.AnnualPlan{}
	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// Update replaces the mutable fields of a plan. Activating a second plan for
// the same player trips the partial unique index and returns ErrDuplicate.
func (r *mongoPlanRepository) Update(ctx context.Context, plan *domain.AnnualPlan) error {
	if plan.ID == primitive.NilObjectID {
		return errors.New("annual plan ID is required for update")
	}
	plan.UpdatedAt = time.Now().UTC()

	// CreatedAt is never rewritten.
	updateDoc := bson.M{
		"$set": bson.M{
			"coachId":           plan.CoachID,
			"name":              plan.Name,
			"startDate":         plan.StartDate,
			"endDate":           plan.EndDate,
			"status":            plan.Status,
			"weeklyHoursTarget": plan.WeeklyHoursTarget,
			"mode":              plan.Mode,
			"periods":           plan.Periods,
			"phaseWeeks":        plan.PhaseWeeks,
			"restWeekday":       plan.RestWeekday,
			"reviewNote":        plan.ReviewNote,
			"generatedAt":       plan.GeneratedAt,
			"lastModifiedAt":    plan.LastModifiedAt,
			"updatedAt":         plan.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": plan.ID}, updateDoc)
	if err != nil {
		return translate(err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the plan document only; dependent collections are cleared
// by their own DeleteByPlan.
func (r *mongoPlanRepository) Delete(ctx context.Context, planID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": planID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsurePlanIndexes creates necessary indexes. Call during startup.
func EnsurePlanIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// At most one active plan per player.
			Keys: bson.D{{Key: "playerId", Value: 1}},
			Options: options.Index().
				SetName("one_active_plan_per_player").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": domain.PlanActive}),
		},
		{
			Keys:    bson.D{{Key: "playerId", Value: 1}, {Key: "startDate", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
