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

const templateCollectionName = "session_templates"

// mongoTemplateRepository implements the template catalog.
type mongoTemplateRepository struct {
	collection *mongo.Collection
}

// NewMongoTemplateRepository creates a new instance.
func NewMongoTemplateRepository(db *mongo.Database) repository.TemplateRepository {
	return &mongoTemplateRepository{
		collection: db.Collection(templateCollectionName),
	}
}

// Create inserts a new session template.
func (r *mongoTemplateRepository) Create(ctx context.Context, t *domain.SessionTemplate) (primitive.ObjectID, error) {
	if t.CoachID == primitive.NilObjectID || t.Name == "" {
		return primitive.NilObjectID, errors.New("template requires coachId and name")
	}
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

// GetByID retrieves a template by its ID.
func (r *mongoTemplateRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SessionTemplate, error) {
	var t domain.SessionTemplate
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

// List returns the whole catalog grouped by session type.
func (r *mongoTemplateRepository) List(ctx context.Context) ([]domain.SessionTemplate, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "sessionType", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	templates := []domain.SessionTemplate{}
	if err = cursor.All(ctx, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}
