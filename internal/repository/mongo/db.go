package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kafkaan/fit-coach-link/internal/repository"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// Collection names, shared by the repositories and the aggregation lookups.
const (
	profileCollectionName      = "profiles"
	relationshipCollectionName = "coach_athlete_relationships"
	programCollectionName      = "workout_programs"
	sessionCollectionName      = "workout_sessions"
	assessmentCollectionName   = "fitness_assessments"
	libraryCollectionName      = "exercise_library"
	mediaCollectionName        = "media_assets"
)

// unauthorizedCode is the server code for an operation the user may not run.
const unauthorizedCode = 13

// ConnectDB establishes a connection to MongoDB and pings the primary.
func ConnectDB(ctx context.Context, uri string) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
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

// EnsureIndexes creates the indexes of every collection. Call this once
// during application startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		profileCollectionName:      profileIndexes(),
		relationshipCollectionName: relationshipIndexes(),
		programCollectionName:      programIndexes(),
		sessionCollectionName:      sessionIndexes(),
		assessmentCollectionName:   assessmentIndexes(),
		libraryCollectionName:      libraryIndexes(),
		mediaCollectionName:        mediaIndexes(),
	}

	var errs []error
	for name, models := range specs {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			log.Warnf("failed to create indexes for collection %s: %v", name, err)
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// translateError maps driver errors onto the repository sentinels.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrConflict
	}
	var serverErr mongo.ServerError
	if errors.As(err, &serverErr) && serverErr.HasErrorCode(unauthorizedCode) {
		return repository.ErrPermissionDenied
	}
	return err
}
