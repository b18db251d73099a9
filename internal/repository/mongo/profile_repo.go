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

// mongoProfileRepository implements repository.ProfileRepository.
type mongoProfileRepository struct {
	collection *mongo.Collection
}

func NewMongoProfileRepository(db *mongo.Database) repository.ProfileRepository {
	return &mongoProfileRepository{
		collection: db.Collection(profileCollectionName),
	}
}

// Create inserts a new profile. A duplicate email is reported as repository.ErrConflict.
func (r *mongoProfileRepository) Create(ctx context.Context, profile *domain.Profile) (primitive.ObjectID, error) {
	if profile.Email == "" || profile.PasswordHash == "" || !profile.Role.Valid() {
		return primitive.NilObjectID, errors.New("profile email, password hash, and role are required")
	}

	profile.ID = primitive.NewObjectID()
	profile.Email = domain.NormalizeEmail(profile.Email)
	now := time.Now().UTC()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, profile)
	if err != nil {
		return primitive.NilObjectID, translateError(err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

func (r *mongoProfileRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Profile, error) {
	var profile domain.Profile
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&profile); err != nil {
		return nil, translateError(err)
	}
	return &profile, nil
}

// GetByEmail looks the address up the way it is stored: trimmed and lowercased.
func (r *mongoProfileRepository) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	var profile domain.Profile
	filter := bson.M{"email": domain.NormalizeEmail(email)}
	if err := r.collection.FindOne(ctx, filter).Decode(&profile); err != nil {
		return nil, translateError(err)
	}
	return &profile, nil
}

func (r *mongoProfileRepository) UpdateTheme(ctx context.Context, id primitive.ObjectID, theme *domain.Theme) error {
	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{"updatedAt": now}}
	if theme == nil {
		update["$unset"] = bson.M{"theme": ""}
	} else {
		update["$set"] = bson.M{"updatedAt": now, "theme": *theme}
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return translateError(err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoProfileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	profile.UpdatedAt = time.Now().UTC()
	set := bson.M{
		"firstName": profile.FirstName,
		"lastName":  profile.LastName,
		"avatarUrl": profile.AvatarURL,
		"updatedAt": profile.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if profile.Theme == nil {
		update["$unset"] = bson.M{"theme": ""}
	} else {
		set["theme"] = *profile.Theme
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": profile.ID}, update)
	if err != nil {
		return translateError(err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func profileIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "role", Value: 1}},
		},
	}
}
