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

const tournamentCollectionName = "scheduled_tournaments"

type mongoTournamentRepository struct {
	collection *mongo.Collection
}

func NewMongoTournamentRepository(db *mongo.Database) repository.TournamentRepository {
	return &mongoTournamentRepository{collection: db.Collection(tournamentCollectionName)}
}

func (r *mongoTournamentRepository) Create(ctx context.Context, t *domain.ScheduledTournament) (primitive.ObjectID, error) {
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	if _, err := r.collection.InsertOne(ctx, t); err != nil {
		return primitive.NilObjectID, translate(err)
	}
	return t.ID, nil
}

func (r *mongoTournamentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ScheduledTournament, error) {
	var t domain.ScheduledTournament
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *mongoTournamentRepository) ListByPlan(ctx context.Context, planID primitive.ObjectID) ([]domain.ScheduledTournament, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"planId": planID}, options.Find().SetSort(bson.D{{Key: "startDate", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []domain.ScheduledTournament{}
	if err = cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mongoTournamentRepository) Update(ctx context.Context, t *domain.ScheduledTournament) error {
	t.UpdatedAt = time.Now().UTC()
	updateDoc := bson.M{
		"$set": bson.M{
			"name":                 t.Name,
			"startDate":            t.StartDate,
			"endDate":              t.EndDate,
			"weekNumber":           t.WeekNumber,
			"importance":           t.Importance,
			"toppingStartWeek":     t.ToppingStartWeek,
			"toppingDurationWeeks": t.ToppingDurationWeeks,
			"taperingStartDate":    t.TaperingStartDate,
			"taperingDurationDays": t.TaperingDurationDays,
			"updatedAt":            t.UpdatedAt,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": t.ID}, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoTournamentRepository) DeleteByPlan(ctx context.Context, planID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"planId": planID})
	return err
}

func EnsureTournamentIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "planId", Value: 1}, {Key: "startDate", Value: 1}},
	})
	return err
}
