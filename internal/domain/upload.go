package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Upload stores metadata about a form-check video or photo the athlete
// attached to a training day occurrence. The actual file resides in S3.
type Upload struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	RunID        primitive.ObjectID `bson:"runId" json:"runId"`
	OccurrenceID string             `bson:"occurrenceId" json:"occurrenceId"` // embedded occurrence id within the run
	S3ObjectKey  string             `bson:"s3ObjectKey" json:"-"`             // The unique key (path/filename) in the S3 bucket - internal use
	FileName     string             `bson:"fileName" json:"fileName"`         // Original filename provided by the athlete
	ContentType  string             `bson:"contentType" json:"contentType"`   // MIME type (e.g., "video/mp4")
	Size         int64              `bson:"size" json:"size"`                 // File size in bytes
	UploadedAt   time.Time          `bson:"uploadedAt" json:"uploadedAt"`
}
