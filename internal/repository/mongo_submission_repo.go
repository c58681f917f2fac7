package repository

import (
	"context"
	"time"

	"github.com/smart-form-builder-api/internal/database"
	"github.com/smart-form-builder-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type submissionDocument struct {
	ID          primitive.ObjectID    `bson:"_id,omitempty"`
	FormID      string                `bson:"formId"`
	Data        models.SubmissionData `bson:"data"`
	SubmittedAt time.Time             `bson:"submittedAt"`
}

// mongoSubmissionRepo is the MongoDB implementation of SubmissionRepository
type mongoSubmissionRepo struct {
	coll *mongo.Collection
}

// NewMongoSubmissionRepo creates a new submission repository
func NewMongoSubmissionRepo(db *mongo.Database) SubmissionRepository {
	return &mongoSubmissionRepo{coll: db.Collection(database.CollectionSubmissions)}
}

// Create appends a submission
func (r *mongoSubmissionRepo) Create(ctx context.Context, sub *models.Submission) error {
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = time.Now().UTC()
	}
	res, err := r.coll.InsertOne(ctx, submissionDocument{
		FormID:      sub.FormID,
		Data:        sub.Data,
		SubmittedAt: sub.SubmittedAt,
	})
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		sub.ID = oid.Hex()
	}
	return nil
}

// StreamByForm streams the submissions of a form in insertion order
func (r *mongoSubmissionRepo) StreamByForm(ctx context.Context, formID string, filter models.SubmissionFilter, callback func(*models.Submission) error) error {
	query := bson.M{"formId": formID}
	if filter.Email != "" {
		query["data."+models.EmailKey] = filter.Email
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc submissionDocument
		if err := cursor.Decode(&doc); err != nil {
			return err
		}
		if err := callback(&models.Submission{
			ID:          doc.ID.Hex(),
			FormID:      doc.FormID,
			Data:        doc.Data,
			SubmittedAt: doc.SubmittedAt,
		}); err != nil {
			return err
		}
	}
	return cursor.Err()
}

// Count returns the total number of submissions
func (r *mongoSubmissionRepo) Count(ctx context.Context) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	return int(n), err
}
