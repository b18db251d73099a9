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

// mongoRelationshipRepository implements repository.RelationshipRepository.
type mongoRelationshipRepository struct {
	collection *mongo.Collection
}

func NewMongoRelationshipRepository(db *mongo.Database) repository.RelationshipRepository {
	return &mongoRelationshipRepository{
		collection: db.Collection(relationshipCollectionName),
	}
}

// Link creates the coach/athlete pair. An existing pair is repository.ErrConflict.
func (r *mongoRelationshipRepository) Link(ctx context.Context, coachID, athleteID primitive.ObjectID) error {
	rel := domain.CoachAthleteRelationship{
		ID:        primitive.NewObjectID(),
		CoachID:   coachID,
		AthleteID: athleteID,
		CreatedAt: time.Now().UTC(),
	}
	_, err := r.collection.InsertOne(ctx, rel)
	return translateError(err)
}

func (r *mongoRelationshipRepository) Unlink(ctx context.Context, coachID, athleteID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"coachId": coachID, "athleteId": athleteID})
	if err != nil {
		return translateError(err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListAthletes joins every linked athlete's profile, sorted by name.
func (r *mongoRelationshipRepository) ListAthletes(ctx context.Context, coachID primitive.ObjectID) ([]domain.RosterEntry, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"coachId": coachID}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         profileCollectionName,
			"localField":   "athleteId",
			"foreignField": "_id",
			"as":           "athlete",
		}}},
		{{Key: "$unwind", Value: "$athlete"}},
		{{Key: "$project", Value: bson.M{
			"_id":       "$athlete._id",
			"firstName": "$athlete.firstName",
			"lastName":  "$athlete.lastName",
			"email":     "$athlete.email",
			"avatarUrl": "$athlete.avatarUrl",
			"linkedAt":  "$createdAt",
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "lastName", Value: 1}, {Key: "firstName", Value: 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, translateError(err)
	}
	defer cursor.Close(ctx)

	roster := []domain.RosterEntry{}
	if err := cursor.All(ctx, &roster); err != nil {
		return nil, err
	}
	return roster, nil
}

func (r *mongoRelationshipRepository) IsLinked(ctx context.Context, coachID, athleteID primitive.ObjectID) (bool, error) {
	n, err := r.collection.CountDocuments(ctx,
		bson.M{"coachId": coachID, "athleteId": athleteID},
		options.Count().SetLimit(1))
	if err != nil {
		return false, translateError(err)
	}
	return n > 0, nil
}

func (r *mongoRelationshipRepository) CountAthletes(ctx context.Context, coachID primitive.ObjectID) (int, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"coachId": coachID})
	if err != nil {
		return 0, translateError(err)
	}
	return int(n), nil
}

func relationshipIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "coachId", Value: 1}, {Key: "athleteId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "athleteId", Value: 1}},
		},
	}
}
