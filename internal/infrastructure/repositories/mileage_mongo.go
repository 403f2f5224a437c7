package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/marecop/YAweb/domain"
)

type mongoMileageRecord struct {
	ID          string    `bson:"_id"`
	UserID      string    `bson:"userId"`
	Amount      int       `bson:"amount"`
	Type        string    `bson:"type"`
	Description string    `bson:"description"`
	Date        time.Time `bson:"date"`
	Status      string    `bson:"status"`
	FlightID    string    `bson:"flightId,omitempty"`
}

func (m mongoMileageRecord) toDomain() domain.MileageRecord {
	return domain.MileageRecord{
		ID:          m.ID,
		UserID:      m.UserID,
		Amount:      m.Amount,
		Type:        domain.MileageType(m.Type),
		Description: m.Description,
		Date:        m.Date,
		Status:      domain.MileageStatus(m.Status),
		FlightID:    m.FlightID,
	}
}

// MongoMileageRepository implements domain.MileageRepository on MongoDB.
type MongoMileageRepository struct {
	collection *mongo.Collection
}

// NewMongoMileageRepository creates a mileage repository on the miles
// collection.
func NewMongoMileageRepository(db *mongo.Database) *MongoMileageRepository {
	collection := db.Collection("miles")

	userIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "date", Value: -1},
		},
	}
	collection.Indexes().CreateOne(context.Background(), userIndex)

	return &MongoMileageRepository{collection: collection}
}

// Create implements domain.MileageRepository.
func (r *MongoMileageRepository) Create(ctx context.Context, record *domain.MileageRecord) error {
	if record.Date.IsZero() {
		record.Date = time.Now()
	}
	doc := mongoMileageRecord{
		ID:          record.ID,
		UserID:      record.UserID,
		Amount:      record.Amount,
		Type:        string(record.Type),
		Description: record.Description,
		Date:        record.Date,
		Status:      string(record.Status),
		FlightID:    record.FlightID,
	}
	_, err := r.collection.InsertOne(ctx, doc)
	return err
}

// FindByUserID implements domain.MileageRepository.
func (r *MongoMileageRepository) FindByUserID(ctx context.Context, userID string) ([]domain.MileageRecord, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

// List implements domain.MileageRepository.
func (r *MongoMileageRepository) List(ctx context.Context) ([]domain.MileageRecord, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoMileageRepository) find(ctx context.Context, filter bson.M) ([]domain.MileageRecord, error) {
	cursor, err := r.collection.Find(ctx, filter, &options.FindOptions{
		Sort: bson.D{{Key: "date", Value: -1}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []mongoMileageRecord
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	records := make([]domain.MileageRecord, 0, len(docs))
	for _, doc := range docs {
		records = append(records, doc.toDomain())
	}
	return records, nil
}

// UpdateStatus implements domain.MileageRepository.
func (r *MongoMileageRepository) UpdateStatus(ctx context.Context, id string, status domain.MileageStatus) (*domain.MileageRecord, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"status": string(status)}}

	var doc mongoMileageRecord
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrMileageNotFound
		}
		return nil, err
	}
	record := doc.toDomain()
	return &record, nil
}

// CompletedBalance implements domain.MileageRepository.
func (r *MongoMileageRepository) CompletedBalance(ctx context.Context, userID string) (int, error) {
	cursor, err := r.collection.Find(ctx, bson.M{
		"userId": userID,
		"status": string(domain.MileageCompleted),
	})
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	balance := 0
	for cursor.Next(ctx) {
		var doc mongoMileageRecord
		if err := cursor.Decode(&doc); err != nil {
			return 0, err
		}
		switch domain.MileageType(doc.Type) {
		case domain.MileageEarned:
			balance += doc.Amount
		case domain.MileageUsed:
			balance -= doc.Amount
		}
	}
	if err := cursor.Err(); err != nil {
		return 0, err
	}
	return balance, nil
}

var _ domain.MileageRepository = (*MongoMileageRepository)(nil)
