package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kafkaan/fit-coach-link/internal/domain"
	"github.com/kafkaan/fit-coach-link/internal/programcodec"
	"github.com/kafkaan/fit-coach-link/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoProgramRepository implements repository.ProgramRepository. Programs
// are stored through programcodec: first-class fields plus an extras column.
type mongoProgramRepository struct {
	collection *mongo.Collection
}

func NewMongoProgramRepository(db *mongo.Database) repository.ProgramRepository {
	return &mongoProgramRepository{
		collection: db.Collection(programCollectionName),
	}
}

// Create assigns the program its identity and timestamps, then inserts it.
func (r *mongoProgramRepository) Create(ctx context.Context, program *domain.Program) (primitive.ObjectID, error) {
	if program.CoachID == primitive.NilObjectID || program.Title == "" {
		return primitive.NilObjectID, errors.New("program requires coachId and title")
	}

	program.ID = primitive.NewObjectID()
	now := time.Now().UTC().Truncate(time.Millisecond)
	program.CreatedAt = now
	program.UpdatedAt = now

	rec, err := programcodec.Encode(*program)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if _, err := r.collection.InsertOne(ctx, rec); err != nil {
		return primitive.NilObjectID, translateError(err)
	}
	return program.ID, nil
}

// Update replaces the stored program. Only the owning coach's program matches.
func (r *mongoProgramRepository) Update(ctx context.Context, program *domain.Program) error {
	program.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	rec, err := programcodec.Encode(*program)
	if err != nil {
		return err
	}

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": program.ID, "coachId": program.CoachID}, rec)
	if err != nil {
		return translateError(err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoProgramRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error) {
	var rec programcodec.Record
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&rec); err != nil {
		return nil, translateError(err)
	}
	p, err := programcodec.Decode(rec)
	if err != nil {
		return nil, fmt.Errorf("program %s: %w", id.Hex(), err)
	}
	return &p, nil
}

// listingDoc is one row of the list aggregations.
type listingDoc struct {
	programcodec.Record `bson:",inline"`
	Other               []domain.Profile        `bson:"other"`
	Sessions            []domain.WorkoutSession `bson:"sessions"`
}

// ListByCoach returns the coach's programs with the assigned athlete's name.
func (r *mongoProgramRepository) ListByCoach(ctx context.Context, coachID primitive.ObjectID) ([]domain.ProgramListing, error) {
	return r.list(ctx, bson.M{"coachId": coachID}, "athleteId")
}

// ListByAthlete returns the athlete's programs with the coach's name and the
// athlete's completion state.
func (r *mongoProgramRepository) ListByAthlete(ctx context.Context, athleteID primitive.ObjectID) ([]domain.ProgramListing, error) {
	return r.list(ctx, bson.M{"athleteId": athleteID}, "coachId")
}

func (r *mongoProgramRepository) list(ctx context.Context, match bson.M, otherField string) ([]domain.ProgramListing, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "scheduledDate", Value: -1}, {Key: "createdAt", Value: -1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         profileCollectionName,
			"localField":   otherField,
			"foreignField": "_id",
			"as":           "other",
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         sessionCollectionName,
			"localField":   "_id",
			"foreignField": "workoutProgramId",
			"as":           "sessions",
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, translateError(err)
	}
	defer cursor.Close(ctx)

	listings := []domain.ProgramListing{}
	for cursor.Next(ctx) {
		var doc listingDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		p, err := programcodec.Decode(doc.Record)
		if err != nil {
			return nil, fmt.Errorf("program %s: %w", doc.ID.Hex(), err)
		}

		listing := domain.ProgramListing{Program: p}
		if len(doc.Other) > 0 {
			if otherField == "coachId" {
				listing.CoachName = doc.Other[0].FullName()
			} else {
				listing.AthleteName = doc.Other[0].FullName()
			}
		}
		for _, s := range doc.Sessions {
			if p.AthleteID != nil && s.AthleteID == *p.AthleteID && s.Completed {
				listing.Completed = true
				listing.CompletedAt = s.CompletedAt
			}
		}
		listings = append(listings, listing)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return listings, nil
}

// Delete removes a program owned by coachID.
func (r *mongoProgramRepository) Delete(ctx context.Context, id, coachID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "coachId": coachID})
	if err != nil {
		return translateError(err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func programIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "coachId", Value: 1}, {Key: "scheduledDate", Value: -1}},
		},
		{
			Keys:    bson.D{{Key: "athleteId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}
}
