package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MediaAsset stores metadata about a file a coach uploaded as exercise media.
// The object itself lives in S3.
type MediaAsset struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CoachID     primitive.ObjectID `bson:"coachId" json:"coachId"`
	ObjectKey   string             `bson:"objectKey" json:"-"`
	FileName    string             `bson:"fileName" json:"fileName"`
	ContentType string             `bson:"contentType" json:"contentType"`
	Size        int64              `bson:"size" json:"size"`
	UploadedAt  time.Time          `bson:"uploadedAt" json:"uploadedAt"`
}
