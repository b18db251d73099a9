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
)

// mongoAssessmentRepository implements repository.AssessmentRepository.
type mongoAssessmentRepository struct {
	collection *mongo.Collection
}

func NewMongoAssessmentRepository(db *mongo.Database) repository.AssessmentRepository {
	return &mongoAssessmentRepository{
		collection: db.Collection(assessmentCollectionName),
	}
}

func (r *mongoAssessmentRepository) Create(ctx context.Context, assessment *domain.FitnessAssessment) (primitive.ObjectID, error) {
	if assessment.SessionID == primitive.NilObjectID || assessment.AthleteID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("assessment requires workoutSessionId and athleteId")
	}

	assessment.ID = primitive.NewObjectID()
	if assessment.CreatedAt.IsZero() {
		assessment.CreatedAt = time.Now().UTC()
	}
	assessment.CreatedAt = assessment.CreatedAt.Truncate(time.Millisecond)
	// the title is joined on read, never stored
	title := assessment.ProgramTitle
	assessment.ProgramTitle = ""
	defer func() { assessment.ProgramTitle = title }()

	if _, err := r.collection.InsertOne(ctx, assessment); err != nil {
		return primitive.NilObjectID, translateError(err)
	}
	return assessment.ID, nil
}

// ListByAthlete returns the athlete's history, most recent first, with the
// title of the program each session belongs to.
func (r *mongoAssessmentRepository) ListByAthlete(ctx context.Context, athleteID primitive.ObjectID, limit int) ([]domain.FitnessAssessment, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"athleteId": athleteID}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$limit", Value: int64(limit)}},
		{{Key: "$lookup", Value: bson.M{
			"from":         sessionCollectionName,
			"localField":   "workoutSessionId",
			"foreignField": "_id",
			"as":           "session",
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         programCollectionName,
			"localField":   "session.workoutProgramId",
			"foreignField": "_id",
			"as":           "program",
		}}},
		{{Key: "$addFields", Value: bson.M{
			"programTitle": bson.M{"$ifNull": bson.A{bson.M{"$arrayElemAt": bson.A{"$program.title", 0}}, ""}},
		}}},
		{{Key: "$project", Value: bson.M{"session": 0, "program": 0}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, translateError(err)
	}
	defer cursor.Close(ctx)

	assessments := []domain.FitnessAssessment{}
	if err := cursor.All(ctx, &assessments); err != nil {
		return nil, err
	}
	return assessments, nil
}

func assessmentIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "athleteId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "workoutSessionId", Value: 1}},
		},
	}
}
