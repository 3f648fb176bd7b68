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

const assignmentCollectionName = "daily_assignments"

// mongoAssignmentRepository implements repository.AssignmentRepository
type mongoAssignmentRepository struct {
	collection *mongo.Collection
}

// NewMongoAssignmentRepository creates a new daily assignment repository backed by MongoDB.
func NewMongoAssignmentRepository(db *mongo.Database) repository.AssignmentRepository {
	return &mongoAssignmentRepository{
		collection: db.Collection(assignmentCollectionName),
	}
}

var byDateThenType = options.Find().SetSort(bson.D{{Key: "assignedDate", Value: 1}, {Key: "sessionType", Value: 1}})

func stampAssignment(a *domain.DailyAssignment) {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
}

// CreateIfAbsent inserts a generated assignment unless (plan, date, type) exists.
func (r *mongoAssignmentRepository) CreateIfAbsent(ctx context.Context, a *domain.DailyAssignment) (bool, error) {
	stampAssignment(a)
	filter := bson.M{"planId": a.PlanID, "assignedDate": a.AssignedDate, "sessionType": a.SessionType}
	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$setOnInsert": a}, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return result.UpsertedCount == 1, nil
}

// Create inserts a new assignment; a clash on (plan, date, type) is ErrDuplicate.
func (r *mongoAssignmentRepository) Create(ctx context.Context, a *domain.DailyAssignment) (primitive.ObjectID, error) {
	if a.PlanID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("assignment requires planId")
	}
	stampAssignment(a)
	if _, err := r.collection.InsertOne(ctx, a); err != nil {
		return primitive.NilObjectID, translate(err)
	}
	return a.ID, nil
}

// GetByID retrieves an assignment by its ID.
func (r *mongoAssignmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.DailyAssignment, error) {
	var a domain.DailyAssignment
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *mongoAssignmentRepository) ListByDate(ctx context.Context, planID primitive.ObjectID, date time.Time) ([]domain.DailyAssignment, error) {
	return r.find(ctx, bson.M{"planId": planID, "assignedDate": domain.DateOnly(date)})
}

func (r *mongoAssignmentRepository) ListByRange(ctx context.Context, planID primitive.ObjectID, from, to time.Time) ([]domain.DailyAssignment, error) {
	return r.find(ctx, bson.M{
		"planId":       planID,
		"assignedDate": bson.M{"$gte": domain.DateOnly(from), "$lte": domain.DateOnly(to)},
	})
}

func (r *mongoAssignmentRepository) ListByWeek(ctx context.Context, planID primitive.ObjectID, week int) ([]domain.DailyAssignment, error) {
	return r.find(ctx, bson.M{"planId": planID, "weekNumber": week})
}

func (r *mongoAssignmentRepository) find(ctx context.Context, filter bson.M) ([]domain.DailyAssignment, error) {
	cursor, err := r.collection.Find(ctx, filter, byDateThenType)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	assignments := []domain.DailyAssignment{}
	if err = cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

// Update rewrites the mutable fields of an assignment.
func (r *mongoAssignmentRepository) Update(ctx context.Context, a *domain.DailyAssignment) error {
	if a.ID == primitive.NilObjectID {
		return errors.New("assignment ID is required for update")
	}
	a.UpdatedAt = time.Now().UTC()

	updateFields := bson.M{
		"assignedDate":      a.AssignedDate,
		"weekNumber":        a.WeekNumber,
		"dayOfWeek":         a.DayOfWeek,
		"sessionType":       a.SessionType,
		"estimatedDuration": a.EstimatedDuration,
		"period":            a.Period,
		"learningPhase":     a.LearningPhase,
		"intensity":         a.Intensity,
		"isRestDay":         a.IsRestDay,
		"canBeSubstituted":  a.CanBeSubstituted,
		"status":            a.Status,
		"notes":             a.Notes,
		"updatedAt":         a.UpdatedAt,
	}
	update := bson.M{"$set": updateFields}
	if a.TemplateID != nil {
		updateFields["templateId"] = a.TemplateID
	} else {
		update["$unset"] = bson.M{"templateId": ""}
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": a.ID}, update)
	if err != nil {
		return translate(err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoAssignmentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoAssignmentRepository) DeleteByPlan(ctx context.Context, planID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"planId": planID})
	return err
}

// EnsureAssignmentIndexes creates necessary indexes for the assignments collection.
func EnsureAssignmentIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "planId", Value: 1},
				{Key: "assignedDate", Value: 1},
				{Key: "sessionType", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "planId", Value: 1}, {Key: "weekNumber", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
