package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/marecop/YAweb/domain"
)

type mongoSession struct {
	Token     string    `bson:"_id"`
	UserID    string    `bson:"userId"`
	CreatedAt time.Time `bson:"createdAt"`
	ExpiresAt time.Time `bson:"expiresAt"`
}

// MongoSessionRepository implements domain.SessionRepository on MongoDB.
// A TTL index on expiresAt removes stale documents server-side; the
// expiry check in FindByToken still applies because TTL sweeps lag.
type MongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a session repository on the sessions
// collection.
func NewMongoSessionRepository(db *mongo.Database) *MongoSessionRepository {
	collection := db.Collection("sessions")

	ttlIndex := mongo.IndexModel{
		Keys:    bson.M{"expiresAt": 1},
		Options: options.Index().SetExpireAfterSeconds(0),
	}
	collection.Indexes().CreateOne(context.Background(), ttlIndex)

	return &MongoSessionRepository{collection: collection}
}

// Create implements domain.SessionRepository.
func (r *MongoSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	doc := mongoSession{
		Token:     session.Token,
		UserID:    session.UserID,
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
	}
	_, err := r.collection.InsertOne(ctx, doc)
	return err
}

// FindByToken implements domain.SessionRepository.
func (r *MongoSessionRepository) FindByToken(ctx context.Context, token string) (*domain.Session, error) {
	var doc mongoSession
	err := r.collection.FindOne(ctx, bson.M{"_id": token}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	session := domain.Session{
		Token:     doc.Token,
		UserID:    doc.UserID,
		CreatedAt: doc.CreatedAt,
		ExpiresAt: doc.ExpiresAt,
	}
	if session.Expired(time.Now()) {
		r.collection.DeleteOne(ctx, bson.M{"_id": token})
		return nil, domain.ErrSessionExpired
	}
	return &session, nil
}

// Delete implements domain.SessionRepository.
func (r *MongoSessionRepository) Delete(ctx context.Context, token string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": token})
	return err
}

// DeleteExpired implements domain.SessionRepository.
func (r *MongoSessionRepository) DeleteExpired(ctx context.Context) (int, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{
		"expiresAt": bson.M{"$lte": time.Now()},
	})
	if err != nil {
		return 0, err
	}
	return int(result.DeletedCount), nil
}

var _ domain.SessionRepository = (*MongoSessionRepository)(nil)
