package recordsRepo

import (
	"context"
	"errors"
	"time"

	"courtflow/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a new reservation record and returns its ID.
func (r *mongoRecordRepo) Create(ctx context.Context, record models.ReservationRecord) (string, error) {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	record.CreatedAt = time.Now()
	record.UpdatedAt = time.Now()

	_, err := r.coll.InsertOne(ctx, record)
	if err != nil {
		return "", err
	}
	return record.ID, nil
}

// GetByID returns a reservation record by its ID.
func (r *mongoRecordRepo) GetByID(ctx context.Context, id string) (*models.ReservationRecord, error) {
	var record models.ReservationRecord
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&record)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// List returns reservation records newest first, paged.
func (r *mongoRecordRepo) List(ctx context.Context, page models.Page) ([]models.ReservationRecord, error) {
	page = page.Clamp()
	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(int64((page.Number - 1) * page.Size)).
		SetLimit(int64(page.Size))

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.ReservationRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// MarkLinkExpired flips a pending link record to expired. Records already
// redeemed or expired are left untouched.
func (r *mongoRecordRepo) MarkLinkExpired(ctx context.Context, linkID string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"link.id": linkID, "status": models.RecordStatusLinkPending},
		bson.M{"$set": bson.M{
			"status":    models.RecordStatusLinkExpired,
			"updatedAt": time.Now(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errors.New("pending link record not found")
	}
	return nil
}
