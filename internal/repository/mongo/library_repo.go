package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/kafkaan/fit-coach-link/internal/domain"
	"github.com/kafkaan/fit-coach-link/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoLibraryRepository implements repository.LibraryRepository.
type mongoLibraryRepository struct {
	collection *mongo.Collection
}

func NewMongoLibraryRepository(db *mongo.Database) repository.LibraryRepository {
	return &mongoLibraryRepository{
		collection: db.Collection(libraryCollectionName),
	}
}

func (r *mongoLibraryRepository) Create(ctx context.Context, exercise *domain.LibraryExercise) (primitive.ObjectID, error) {
	if exercise.CoachID == primitive.NilObjectID || exercise.Name == "" {
		return primitive.NilObjectID, errors.New("library exercise requires coachId and name")
	}
	exercise.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, exercise); err != nil {
		return primitive.NilObjectID, translateError(err)
	}
	return exercise.ID, nil
}

func (r *mongoLibraryRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.LibraryExercise, error) {
	var exercise domain.LibraryExercise
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&exercise); err != nil {
		return nil, translateError(err)
	}
	return &exercise, nil
}

// ListByCoach returns the coach's library sorted by name.
func (r *mongoLibraryRepository) ListByCoach(ctx context.Context, coachID primitive.ObjectID) ([]domain.LibraryExercise, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"coachId": coachID}, findOptions)
	if err != nil {
		return nil, translateError(err)
	}
	defer cursor.Close(ctx)

	exercises := []domain.LibraryExercise{}
	if err := cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

// Update overwrites the editable fields. Ownership is part of the filter.
func (r *mongoLibraryRepository) Update(ctx context.Context, exercise *domain.LibraryExercise) error {
	exercise.UpdatedAt = time.Now().UTC()
	filter := bson.M{"_id": exercise.ID, "coachId": exercise.CoachID}
	update := bson.M{"$set": bson.M{
		"name":         exercise.Name,
		"description":  exercise.Description,
		"category":     exercise.Category,
		"muscleGroups": exercise.MuscleGroups,
		"equipment":    exercise.Equipment,
		"difficulty":   exercise.Difficulty,
		"instructions": exercise.Instructions,
		"safetyTips":   exercise.SafetyTips,
		"videoUrl":     exercise.VideoURL,
		"updatedAt":    exercise.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return translateError(err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoLibraryRepository) Delete(ctx context.Context, id, coachID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "coachId": coachID})
	if err != nil {
		return translateError(err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func libraryIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "coachId", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
}
