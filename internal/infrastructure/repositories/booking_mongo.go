package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/marecop/YAweb/domain"
)

type mongoBooking struct {
	ID            string                  `bson:"_id"`
	UserID        string                  `bson:"userId"`
	FlightNumber  string                  `bson:"flightNumber"`
	Departure     string                  `bson:"departure"`
	Destination   string                  `bson:"destination"`
	DepartureDate string                  `bson:"departureDate"`
	DepartureTime string                  `bson:"departureTime,omitempty"`
	ReturnDate    string                  `bson:"returnDate,omitempty"`
	ReturnTime    string                  `bson:"returnTime,omitempty"`
	CabinClass    string                  `bson:"cabinClass"`
	Passengers    []domain.PassengerCount `bson:"passengers"`
	TotalPrice    float64                 `bson:"totalPrice"`
	BookingDate   time.Time               `bson:"bookingDate"`
	Status        string                  `bson:"status"`
	CreatedAt     time.Time               `bson:"createdAt"`
	UpdatedAt     time.Time               `bson:"updatedAt"`
}

func bookingToMongo(b *domain.Booking) mongoBooking {
	return mongoBooking{
		ID:            b.ID,
		UserID:        b.UserID,
		FlightNumber:  b.FlightNumber,
		Departure:     b.Departure,
		Destination:   b.Destination,
		DepartureDate: b.DepartureDate,
		DepartureTime: b.DepartureTime,
		ReturnDate:    b.ReturnDate,
		ReturnTime:    b.ReturnTime,
		CabinClass:    b.CabinClass,
		Passengers:    b.Passengers,
		TotalPrice:    b.TotalPrice,
		BookingDate:   b.BookingDate,
		Status:        string(b.Status),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func (m mongoBooking) toDomain() domain.Booking {
	return domain.Booking{
		ID:            m.ID,
		UserID:        m.UserID,
		FlightNumber:  m.FlightNumber,
		Departure:     m.Departure,
		Destination:   m.Destination,
		DepartureDate: m.DepartureDate,
		DepartureTime: m.DepartureTime,
		ReturnDate:    m.ReturnDate,
		ReturnTime:    m.ReturnTime,
		CabinClass:    m.CabinClass,
		Passengers:    m.Passengers,
		TotalPrice:    m.TotalPrice,
		BookingDate:   m.BookingDate,
		Status:        domain.BookingStatus(m.Status),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// MongoBookingRepository implements domain.BookingRepository on MongoDB.
type MongoBookingRepository struct {
	collection *mongo.Collection
}

// NewMongoBookingRepository creates a booking repository on the bookings
// collection, indexed by owner for the per-user listing.
func NewMongoBookingRepository(db *mongo.Database) *MongoBookingRepository {
	collection := db.Collection("bookings")

	userIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "createdAt", Value: 1},
		},
	}
	collection.Indexes().CreateOne(context.Background(), userIndex)

	return &MongoBookingRepository{collection: collection}
}

// Create implements domain.BookingRepository.
func (r *MongoBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	now := time.Now()
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = now
	}
	booking.UpdatedAt = now
	if booking.BookingDate.IsZero() {
		booking.BookingDate = now
	}

	_, err := r.collection.InsertOne(ctx, bookingToMongo(booking))
	return err
}

// FindByID implements domain.BookingRepository.
func (r *MongoBookingRepository) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	var doc mongoBooking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	b := doc.toDomain()
	return &b, nil
}

// FindByUserID implements domain.BookingRepository, oldest booking first so
// every backend lists in creation order.
func (r *MongoBookingRepository) FindByUserID(ctx context.Context, userID string) ([]domain.Booking, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

// List implements domain.BookingRepository.
func (r *MongoBookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoBookingRepository) find(ctx context.Context, filter bson.M) ([]domain.Booking, error) {
	cursor, err := r.collection.Find(ctx, filter, &options.FindOptions{
		Sort: bson.D{{Key: "createdAt", Value: 1}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []mongoBooking
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	bookings := make([]domain.Booking, 0, len(docs))
	for _, doc := range docs {
		bookings = append(bookings, doc.toDomain())
	}
	return bookings, nil
}

// UpdateStatus implements domain.BookingRepository. The filter matches on
// both id and the expected current status, so a concurrent transition loses
// cleanly instead of overwriting.
func (r *MongoBookingRepository) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) (*domain.Booking, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{
		"status":    string(to),
		"updatedAt": time.Now(),
	}}

	var doc mongoBooking
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id, "status": string(from)}, update, opts).Decode(&doc)
	if err == nil {
		b := doc.toDomain()
		return &b, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	// Either the booking does not exist or it is in some other state.
	count, countErr := r.collection.CountDocuments(ctx, bson.M{"_id": id})
	if countErr != nil {
		return nil, countErr
	}
	if count == 0 {
		return nil, domain.ErrBookingNotFound
	}
	return nil, domain.ErrBookingStatusConflict
}

var _ domain.BookingRepository = (*MongoBookingRepository)(nil)
