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
)

type formDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	Fields      []models.Field     `bson:"fields"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

func (d *formDocument) toModel() *models.Form {
	fields := d.Fields
	if fields == nil {
		fields = []models.Field{}
	}
	return &models.Form{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Fields:      fields,
		CreatedAt:   d.CreatedAt,
	}
}

// mongoFormRepo is the MongoDB implementation of FormRepository
type mongoFormRepo struct {
	coll *mongo.Collection
}

// NewMongoFormRepo creates a new form repository
func NewMongoFormRepo(db *mongo.Database) FormRepository {
	return &mongoFormRepo{coll: db.Collection(database.CollectionForms)}
}

// Create inserts a new form and assigns its ID
func (r *mongoFormRepo) Create(ctx context.Context, form *models.Form) error {
	if form.CreatedAt.IsZero() {
		form.CreatedAt = time.Now().UTC()
	}
	fields := form.Fields
	if fields == nil {
		fields = []models.Field{}
	}
	res, err := r.coll.InsertOne(ctx, formDocument{
		Name:        form.Name,
		Description: form.Description,
		Fields:      fields,
		CreatedAt:   form.CreatedAt,
	})
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		form.ID = oid.Hex()
	}
	form.Fields = fields
	return nil
}

// GetByID retrieves a form by ID; ids that are not ObjectIDs match nothing
func (r *mongoFormRepo) GetByID(ctx context.Context, id string) (*models.Form, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var doc formDocument
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

// List returns all forms in natural order
func (r *mongoFormRepo) List(ctx context.Context) ([]*models.Form, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	forms := make([]*models.Form, 0)
	for cursor.Next(ctx) {
		var doc formDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		forms = append(forms, doc.toModel())
	}
	return forms, cursor.Err()
}

// Count returns the total number of forms
func (r *mongoFormRepo) Count(ctx context.Context) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	return int(n), err
}
