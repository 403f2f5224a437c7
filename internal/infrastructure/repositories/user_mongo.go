package repositories

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/marecop/YAweb/domain"
)

// mongoUser is the BSON document stored in the users collection.
type mongoUser struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"passwordHash"`
	FirstName    string    `bson:"firstName"`
	LastName     string    `bson:"lastName"`
	Role         string    `bson:"role"`
	TotalMiles   int       `bson:"totalMiles"`
	MemberLevel  string    `bson:"memberLevel"`
	IsMember     bool      `bson:"isMember"`
	DateOfBirth  string    `bson:"dateOfBirth,omitempty"`
	Phone        string    `bson:"phone,omitempty"`
	Address      string    `bson:"address,omitempty"`
	Country      string    `bson:"country,omitempty"`
	City         string    `bson:"city,omitempty"`
	PostalCode   string    `bson:"postalCode,omitempty"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

func userToMongo(u *domain.User) mongoUser {
	return mongoUser{
		ID:           u.ID,
		Email:        strings.ToLower(u.Email),
		PasswordHash: u.PasswordHash,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Role:         u.Role,
		TotalMiles:   u.TotalMiles,
		MemberLevel:  string(u.MemberLevel),
		IsMember:     u.IsMember,
		DateOfBirth:  u.DateOfBirth,
		Phone:        u.Phone,
		Address:      u.Address,
		Country:      u.Country,
		City:         u.City,
		PostalCode:   u.PostalCode,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (m mongoUser) toDomain() domain.User {
	return domain.User{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Role:         m.Role,
		TotalMiles:   m.TotalMiles,
		MemberLevel:  domain.Tier(m.MemberLevel),
		IsMember:     m.IsMember,
		DateOfBirth:  m.DateOfBirth,
		Phone:        m.Phone,
		Address:      m.Address,
		Country:      m.Country,
		City:         m.City,
		PostalCode:   m.PostalCode,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// MongoUserRepository implements domain.UserRepository on MongoDB.
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a user repository on the users collection.
// A unique index on email enforces the duplicate-account rule at the store.
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	collection := db.Collection("users")

	emailIndex := mongo.IndexModel{
		Keys:    bson.M{"email": 1},
		Options: options.Index().SetUnique(true),
	}
	collection.Indexes().CreateOne(context.Background(), emailIndex)

	return &MongoUserRepository{collection: collection}
}

// Create implements domain.UserRepository.
func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, userToMongo(user))
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrUserAlreadyExists
	}
	return err
}

// FindByEmail implements domain.UserRepository. The lookup is
// case-insensitive because documents store the lowercased email.
func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var doc mongoUser
	err := r.collection.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	u := doc.toDomain()
	return &u, nil
}

// FindByID implements domain.UserRepository.
func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var doc mongoUser
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	u := doc.toDomain()
	return &u, nil
}

// Update implements domain.UserRepository.
func (r *MongoUserRepository) Update(ctx context.Context, user *domain.User) error {
	user.UpdatedAt = time.Now()
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": user.ID}, userToMongo(user))
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// UpdateProfile implements domain.UserRepository.
func (r *MongoUserRepository) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	set := bson.M{"updatedAt": time.Now()}
	if update.FirstName != nil {
		set["firstName"] = *update.FirstName
	}
	if update.LastName != nil {
		set["lastName"] = *update.LastName
	}
	if update.DateOfBirth != nil {
		set["dateOfBirth"] = *update.DateOfBirth
	}
	if update.Phone != nil {
		set["phone"] = *update.Phone
	}
	if update.Address != nil {
		set["address"] = *update.Address
	}
	if update.Country != nil {
		set["country"] = *update.Country
	}
	if update.City != nil {
		set["city"] = *update.City
	}
	if update.PostalCode != nil {
		set["postalCode"] = *update.PostalCode
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc mongoUser
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	u := doc.toDomain()
	return &u, nil
}

// Delete implements domain.UserRepository.
func (r *MongoUserRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// List implements domain.UserRepository.
func (r *MongoUserRepository) List(ctx context.Context) ([]domain.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, &options.FindOptions{
		Sort: bson.D{{Key: "createdAt", Value: 1}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []mongoUser
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, doc.toDomain())
	}
	return users, nil
}

var _ domain.UserRepository = (*MongoUserRepository)(nil)
