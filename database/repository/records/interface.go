package recordsRepo

import (
	"context"

	"courtflow/database"
	"courtflow/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ReservationRecordRepository persists the trail of successful submissions.
type ReservationRecordRepository interface {
	Create(ctx context.Context, record models.ReservationRecord) (string, error)
	GetByID(ctx context.Context, id string) (*models.ReservationRecord, error)
	List(ctx context.Context, page models.Page) ([]models.ReservationRecord, error)
	MarkLinkExpired(ctx context.Context, linkID string) error
}

type mongoRecordRepo struct {
	coll *mongo.Collection
}

// NewMongoRecordRepo returns a ReservationRecordRepository backed by MongoDB.
func NewMongoRecordRepo() ReservationRecordRepository {
	db := database.MongoClient.Database("courtflow")
	return &mongoRecordRepo{
		coll: db.Collection("reservation_records"),
	}
}
