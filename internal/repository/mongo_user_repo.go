package repository

import (
	"context"
	"errors"
	"time"

	"github.com/smart-form-builder-api/internal/database"
	"github.com/smart-form-builder-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	Role      models.Role        `bson:"role"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d *userDocument) toModel() *models.User {
	return &models.User{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		PasswordHash: d.Password,
		Role:         d.Role,
		CreatedAt:    d.CreatedAt,
	}
}

// mongoUserRepo is the MongoDB implementation of UserRepository
type mongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo creates a new user repository
func NewMongoUserRepo(db *mongo.Database) UserRepository {
	return &mongoUserRepo{coll: db.Collection(database.CollectionUsers)}
}

// Create inserts a new user and assigns its ID
func (r *mongoUserRepo) Create(ctx context.Context, user *models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	doc := userDocument{
		Email:     user.Email,
		Password:  user.PasswordHash,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateKey
	}
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid.Hex()
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *mongoUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// GetByEmail retrieves a user by email
func (r *mongoUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoUserRepo) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc userDocument
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

// EmailExists checks if a user with the given email exists
func (r *mongoUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, bson.M{"email": email})
}

// RoleExists checks if any user holds the given role
func (r *mongoUserRepo) RoleExists(ctx context.Context, role models.Role) (bool, error) {
	return r.exists(ctx, bson.M{"role": role})
}

func (r *mongoUserRepo) exists(ctx context.Context, filter bson.M) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	return n > 0, err
}

// Count returns the total number of users
func (r *mongoUserRepo) Count(ctx context.Context) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	return int(n), err
}
