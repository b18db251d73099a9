package mongo

import (
	"context"
	"time"

	"github.com/kafkaan/fit-coach-link/internal/domain"
	"github.com/kafkaan/fit-coach-link/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoSessionRepository implements repository.SessionRepository.
type mongoSessionRepository struct {
	collection *mongo.Collection
}

func NewMongoSessionRepository(db *mongo.Database) repository.SessionRepository {
	return &mongoSessionRepository{
		collection: db.Collection(sessionCollectionName),
	}
}

// MarkComplete upserts the session keyed by (program, athlete). The unique
// index on that pair means two concurrent calls end with a single session:
// the loser of the insert race gets a duplicate key error and retries as an
// update.
func (r *mongoSessionRepository) MarkComplete(ctx context.Context, programID, athleteID primitive.ObjectID, at time.Time, notes string) (*domain.WorkoutSession, bool, error) {
	at = at.UTC().Truncate(time.Millisecond)
	filter := bson.M{"workoutProgramId": programID, "athleteId": athleteID}
	set := bson.M{
		"completed":   true,
		"completedAt": at,
		"updatedAt":   at,
	}
	if notes != "" {
		set["notes"] = notes
	}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"createdAt": at},
	}
	opts := options.Update().SetUpsert(true)

	result, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if mongo.IsDuplicateKeyError(err) {
		result, err = r.collection.UpdateOne(ctx, filter, update, opts)
	}
	if err != nil {
		return nil, false, translateError(err)
	}

	session, err := r.GetByProgramAndAthlete(ctx, programID, athleteID)
	if err != nil {
		return nil, false, err
	}
	return session, result.UpsertedCount == 1, nil
}

func (r *mongoSessionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error) {
	var session domain.WorkoutSession
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session); err != nil {
		return nil, translateError(err)
	}
	return &session, nil
}

func (r *mongoSessionRepository) GetByProgramAndAthlete(ctx context.Context, programID, athleteID primitive.ObjectID) (*domain.WorkoutSession, error) {
	var session domain.WorkoutSession
	filter := bson.M{"workoutProgramId": programID, "athleteId": athleteID}
	if err := r.collection.FindOne(ctx, filter).Decode(&session); err != nil {
		return nil, translateError(err)
	}
	return &session, nil
}

// ListCompletedByAthlete returns the latest completed sessions with their
// program title, newest first.
func (r *mongoSessionRepository) ListCompletedByAthlete(ctx context.Context, athleteID primitive.ObjectID, limit int) ([]domain.CompletedSession, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"athleteId": athleteID, "completed": true}}},
		{{Key: "$sort", Value: bson.D{{Key: "completedAt", Value: -1}}}},
		{{Key: "$limit", Value: int64(limit)}},
		{{Key: "$lookup", Value: bson.M{
			"from":         programCollectionName,
			"localField":   "workoutProgramId",
			"foreignField": "_id",
			"as":           "program",
		}}},
		{{Key: "$project", Value: bson.M{
			"workoutProgramId": 1,
			"completedAt":      1,
			"programTitle":     bson.M{"$ifNull": bson.A{bson.M{"$arrayElemAt": bson.A{"$program.title", 0}}, ""}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, translateError(err)
	}
	defer cursor.Close(ctx)

	sessions := []domain.CompletedSession{}
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *mongoSessionRepository) DeleteByProgram(ctx context.Context, programID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"workoutProgramId": programID})
	return translateError(err)
}

func sessionIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "workoutProgramId", Value: 1}, {Key: "athleteId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "athleteId", Value: 1}, {Key: "completedAt", Value: -1}},
		},
	}
}
