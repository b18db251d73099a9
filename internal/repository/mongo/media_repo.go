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

// mongoMediaRepository implements repository.MediaRepository.
type mongoMediaRepository struct {
	collection *mongo.Collection
}

func NewMongoMediaRepository(db *mongo.Database) repository.MediaRepository {
	return &mongoMediaRepository{
		collection: db.Collection(mediaCollectionName),
	}
}

func (r *mongoMediaRepository) Create(ctx context.Context, asset *domain.MediaAsset) (primitive.ObjectID, error) {
	if asset.CoachID == primitive.NilObjectID || asset.ObjectKey == "" {
		return primitive.NilObjectID, errors.New("media asset requires coachId and objectKey")
	}
	asset.ID = primitive.NewObjectID()
	asset.UploadedAt = time.Now().UTC()

	if _, err := r.collection.InsertOne(ctx, asset); err != nil {
		return primitive.NilObjectID, translateError(err)
	}
	return asset.ID, nil
}

func (r *mongoMediaRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.MediaAsset, error) {
	var asset domain.MediaAsset
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&asset); err != nil {
		return nil, translateError(err)
	}
	return &asset, nil
}

// ListByCoach returns the coach's uploads, newest first.
func (r *mongoMediaRepository) ListByCoach(ctx context.Context, coachID primitive.ObjectID) ([]domain.MediaAsset, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "uploadedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"coachId": coachID}, findOptions)
	if err != nil {
		return nil, translateError(err)
	}
	defer cursor.Close(ctx)

	assets := []domain.MediaAsset{}
	if err := cursor.All(ctx, &assets); err != nil {
		return nil, err
	}
	return assets, nil
}

func mediaIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "objectKey", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "coachId", Value: 1}, {Key: "uploadedAt", Value: -1}},
		},
	}
}
