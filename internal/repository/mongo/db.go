package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"alcyxob/annual-plan/internal/repository"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB using the provided URI.
// It returns the mongo.Client which can be used to access databases and collections.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// Ping the primary node to verify the connection.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}
	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes every collection relies on, including the
// unique ones that make generation idempotent. Call during startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ensure := []struct {
		name string
		fn   func(context.Context, *mongo.Collection) error
	}{
		{planCollectionName, EnsurePlanIndexes},
		{periodizationCollectionName, EnsurePeriodizationIndexes},
		{assignmentCollectionName, EnsureAssignmentIndexes},
		{tournamentCollectionName, EnsureTournamentIndexes},
		{changeLogCollectionName, EnsureChangeLogIndexes},
		{breakingPointCollectionName, EnsureBreakingPointIndexes},
		{completionCollectionName, EnsureCompletionIndexes},
	}
	for _, e := range ensure {
		if err := e.fn(ctx, db.Collection(e.name)); err != nil {
			return fmt.Errorf("creating indexes for %s: %w", e.name, err)
		}
	}
	return nil
}

// translate maps driver errors onto repository errors.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return repository.ErrDuplicate
	default:
		return err
	}
}
