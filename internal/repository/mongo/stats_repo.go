package mongo

import (
	"context"
	"time"

	"github.com/kafkaan/fit-coach-link/internal/domain"
	"github.com/kafkaan/fit-coach-link/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// mongoStatsRepository implements repository.StatsRepository with
// aggregation pipelines over the program, session and assessment collections.
type mongoStatsRepository struct {
	programs    *mongo.Collection
	sessions    *mongo.Collection
	assessments *mongo.Collection
}

func NewMongoStatsRepository(db *mongo.Database) repository.StatsRepository {
	return &mongoStatsRepository{
		programs:    db.Collection(programCollectionName),
		sessions:    db.Collection(sessionCollectionName),
		assessments: db.Collection(assessmentCollectionName),
	}
}

// completedLookup joins the program's sessions and flags whether any of them
// is completed.
var completedLookup = []bson.D{
	{{Key: "$lookup", Value: bson.M{
		"from":         sessionCollectionName,
		"localField":   "_id",
		"foreignField": "workoutProgramId",
		"as":           "sessions",
	}}},
	{{Key: "$addFields", Value: bson.M{
		"isCompleted": bson.M{"$in": bson.A{true, "$sessions.completed"}},
	}}},
}

// CoachWeeklyActivity counts, per day since `since`, the programs a coach
// scheduled and how many of them were completed. Unscheduled programs count
// on their creation day.
func (r *mongoStatsRepository) CoachWeeklyActivity(ctx context.Context, coachID primitive.ObjectID, since time.Time) ([]domain.WeeklyActivity, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"coachId": coachID}}},
		{{Key: "$addFields", Value: bson.M{"day": bson.M{"$ifNull": bson.A{"$scheduledDate", "$createdAt"}}}}},
		{{Key: "$match", Value: bson.M{"day": bson.M{"$gte": since}}}},
	}
	pipeline = append(pipeline, completedLookup...)
	pipeline = append(pipeline,
		bson.D{{Key: "$group", Value: bson.M{
			"_id":       bson.M{"$dateTrunc": bson.M{"date": "$day", "unit": "day"}},
			"assigned":  bson.M{"$sum": 1},
			"completed": bson.M{"$sum": bson.M{"$cond": bson.A{"$isCompleted", 1, 0}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"_id": 1}}},
	)

	cursor, err := r.programs.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, translateError(err)
	}
	defer cursor.Close(ctx)

	activity := []domain.WeeklyActivity{}
	if err := cursor.All(ctx, &activity); err != nil {
		return nil, err
	}
	return activity, nil
}

// CoachActiveThisWeek counts the distinct athletes of a coach who completed
// a session since weekStart.
func (r *mongoStatsRepository) CoachActiveThisWeek(ctx context.Context, coachID primitive.ObjectID, weekStart time.Time) (int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"completed": true, "completedAt": bson.M{"$gte": weekStart}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         programCollectionName,
			"localField":   "workoutProgramId",
			"foreignField": "_id",
			"as":           "program",
		}}},
		{{Key: "$match", Value: bson.M{"program.coachId": coachID}}},
		{{Key: "$group", Value: bson.M{"_id": "$athleteId"}}},
		{{Key: "$count", Value: "active"}},
	}

	var out struct {
		Active int `bson:"active"`
	}
	if err := r.aggregateOne(ctx, r.sessions, pipeline, &out); err != nil {
		return 0, err
	}
	return out.Active, nil
}

// CoachFitnessTrends averages the assessments of a coach's athletes per month.
func (r *mongoStatsRepository) CoachFitnessTrends(ctx context.Context, coachID primitive.ObjectID, since time.Time) ([]domain.FitnessTrend, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"createdAt": bson.M{"$gte": since}}}},
		{{Key: "$lookup", Value: bson.M{
			"from": relationshipCollectionName,
			"let":  bson.M{"athlete": "$athleteId"},
			"pipeline": bson.A{
				bson.M{"$match": bson.M{"$expr": bson.M{"$and": bson.A{
					bson.M{"$eq": bson.A{"$athleteId", "$$athlete"}},
					bson.M{"$eq": bson.A{"$coachId", coachID}},
				}}}},
			},
			"as": "link",
		}}},
		{{Key: "$match", Value: bson.M{"link.0": bson.M{"$exists": true}}}},
		{{Key: "$group", Value: bson.M{
			"_id":        bson.M{"$dateToString": bson.M{"format": "%Y-%m", "date": "$createdAt"}},
			"fatigue":    bson.M{"$avg": "$fatigueLevel"},
			"pain":       bson.M{"$avg": "$painLevel"},
			"motivation": bson.M{"$avg": "$motivationLevel"},
			"energy":     bson.M{"$avg": "$energyLevel"},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cursor, err := r.assessments.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, translateError(err)
	}
	defer cursor.Close(ctx)

	trends := []domain.FitnessTrend{}
	if err := cursor.All(ctx, &trends); err != nil {
		return nil, err
	}
	return trends, nil
}

func (r *mongoStatsRepository) CoachProgramCounts(ctx context.Context, coachID primitive.ObjectID) (int, int, error) {
	return r.programCounts(ctx, bson.M{"coachId": coachID})
}

func (r *mongoStatsRepository) AthleteProgramCounts(ctx context.Context, athleteID primitive.ObjectID) (int, int, error) {
	return r.programCounts(ctx, bson.M{"athleteId": athleteID})
}

func (r *mongoStatsRepository) programCounts(ctx context.Context, match bson.M) (int, int, error) {
	pipeline := mongo.Pipeline{{{Key: "$match", Value: match}}}
	pipeline = append(pipeline, completedLookup...)
	pipeline = append(pipeline, bson.D{{Key: "$group", Value: bson.M{
		"_id":       nil,
		"total":     bson.M{"$sum": 1},
		"completed": bson.M{"$sum": bson.M{"$cond": bson.A{"$isCompleted", 1, 0}}},
	}}})

	var out struct {
		Total     int `bson:"total"`
		Completed int `bson:"completed"`
	}
	if err := r.aggregateOne(ctx, r.programs, pipeline, &out); err != nil {
		return 0, 0, err
	}
	return out.Total, out.Completed, nil
}

// AthleteAssessmentAverages averages every assessment of the athlete. An
// athlete without assessments gets zeroed averages.
func (r *mongoStatsRepository) AthleteAssessmentAverages(ctx context.Context, athleteID primitive.ObjectID) (domain.ScaleAverages, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"athleteId": athleteID}}},
		{{Key: "$group", Value: bson.M{
			"_id":        nil,
			"fatigue":    bson.M{"$avg": "$fatigueLevel"},
			"pain":       bson.M{"$avg": "$painLevel"},
			"motivation": bson.M{"$avg": "$motivationLevel"},
			"energy":     bson.M{"$avg": "$energyLevel"},
			"count":      bson.M{"$sum": 1},
		}}},
	}

	var out domain.ScaleAverages
	if err := r.aggregateOne(ctx, r.assessments, pipeline, &out); err != nil {
		return domain.ScaleAverages{}, err
	}
	return out.Rounded(), nil
}

// aggregateOne decodes the first result of the pipeline into out. An empty
// result leaves out untouched.
func (r *mongoStatsRepository) aggregateOne(ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline, out any) error {
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return translateError(err)
	}
	defer cursor.Close(ctx)

	if cursor.Next(ctx) {
		if err := cursor.Decode(out); err != nil {
			return err
		}
	}
	return cursor.Err()
}
