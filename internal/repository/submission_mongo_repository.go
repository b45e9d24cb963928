package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/noah-isme/vidrios-leads-api/internal/models"
)

// SubmissionsCollection is the MongoDB collection holding submissions.
const SubmissionsCollection = "submissions"

var newestFirst = bson.D{{Key: "recibidoEn", Value: -1}, {Key: "_id", Value: -1}}

// idFilter matches string ids and, for hex ids, documents created with an ObjectId
// key. ObjectIds decode to their hex form when listing.
func idFilter(id string) bson.D {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: bson.A{id, oid}}}}}
	}
	return bson.D{{Key: "_id", Value: id}}
}

// SubmissionMongoRepository persists submissions in a MongoDB collection.
type SubmissionMongoRepository struct {
	coll *mongo.Collection
}

// NewSubmissionMongoRepository creates a repository over the given collection.
func NewSubmissionMongoRepository(coll *mongo.Collection) *SubmissionMongoRepository {
	return &SubmissionMongoRepository{coll: coll}
}

// EnsureIndexes creates the index backing the newest-first listing.
func (r *SubmissionMongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    newestFirst,
		Options: options.Index().SetName("recibidoEn_desc"),
	})
	if err != nil {
		return fmt.Errorf("create submissions index: %w", err)
	}
	return nil
}

// Create inserts a new submission document.
func (r *SubmissionMongoRepository) Create(ctx context.Context, submission *models.Submission) error {
	if _, err := r.coll.InsertOne(ctx, submission); err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

// FindAll returns every submission, newest first.
func (r *SubmissionMongoRepository) FindAll(ctx context.Context) ([]models.Submission, error) {
	cursor, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}

	items := make([]models.Submission, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode submissions: %w", err)
	}
	for i := range items {
		items[i].Status = items[i].Status.Canonical()
	}
	return items, nil
}

// FindByID returns a submission by identifier.
func (r *SubmissionMongoRepository) FindByID(ctx context.Context, id string) (*models.Submission, error) {
	var submission models.Submission
	if err := r.coll.FindOne(ctx, idFilter(id)).Decode(&submission); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("find submission by id: %w", err)
	}
	submission.Status = submission.Status.Canonical()
	return &submission, nil
}

// UpdateStatusByID sets the status in a single atomic operation and returns the updated document.
func (r *SubmissionMongoRepository) UpdateStatusByID(ctx context.Context, id string, status models.SubmissionStatus) (*models.Submission, error) {
	var submission models.Submission
	err := r.coll.FindOneAndUpdate(ctx,
		idFilter(id),
		bson.D{{Key: "$set", Value: bson.D{{Key: "estado", Value: status}}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&submission)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("update submission status: %w", err)
	}
	return &submission, nil
}

// Ping checks the connection of the underlying client.
func (r *SubmissionMongoRepository) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, nil)
}
