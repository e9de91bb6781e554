package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/duynhne/form-service/internal/core/domain"
)

// formDocument is the stored shape of a form; the store assigns _id.
type formDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Username    string             `bson:"username"`
	Email       string             `bson:"email"`
	Description string             `bson:"description"`
	Phone       string             `bson:"phone"`
	City        string             `bson:"city"`
}

func (d formDocument) toDomain() domain.Form {
	return domain.Form{
		ID:          d.ID.Hex(),
		Username:    d.Username,
		Email:       d.Email,
		Description: d.Description,
		Phone:       d.Phone,
		City:        d.City,
	}
}

func fieldsOf(in domain.FormInput) bson.D {
	return bson.D{
		{Key: "username", Value: in.Username},
		{Key: "email", Value: in.Email},
		{Key: "description", Value: in.Description},
		{Key: "phone", Value: in.Phone},
		{Key: "city", Value: in.City},
	}
}

// FormRepository implements domain.FormRepository on a MongoDB collection
type FormRepository struct {
	collection *mongo.Collection
}

// NewFormRepository creates a repository over the given collection
func NewFormRepository(collection *mongo.Collection) *FormRepository {
	return &FormRepository{collection: collection}
}

// Create inserts a new form and returns it with the generated ObjectID
func (r *FormRepository) Create(ctx context.Context, in domain.FormInput) (*domain.Form, error) {
	doc := formDocument{
		ID:          primitive.NewObjectID(),
		Username:    in.Username,
		Email:       in.Email,
		Description: in.Description,
		Phone:       in.Phone,
		City:        in.City,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert form: %w", err)
	}

	form := doc.toDomain()
	return &form, nil
}

// List returns every form in the collection's natural order
func (r *FormRepository) List(ctx context.Context) ([]domain.Form, error) {
	cursor, err := r.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find forms: %w", err)
	}

	var docs []formDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode forms: %w", err)
	}

	forms := make([]domain.Form, 0, len(docs))
	for _, d := range docs {
		forms = append(forms, d.toDomain())
	}
	return forms, nil
}

// Update overwrites all fields of the form with the given id in a single
// findOneAndUpdate and returns the document after the write
func (r *FormRepository) Update(ctx context.Context, id string, in domain.FormInput) (*domain.Form, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// Not an ObjectID, so it cannot name any stored form
		return nil, fmt.Errorf("update form %q: %w", id, domain.ErrFormNotFound)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc formDocument
	err = r.collection.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: fieldsOf(in)}},
		opts,
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("update form %q: %w", id, domain.ErrFormNotFound)
		}
		return nil, fmt.Errorf("update form %q: %w", id, err)
	}

	form := doc.toDomain()
	return &form, nil
}

// Delete removes the form with the given id
func (r *FormRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("delete form %q: %w", id, domain.ErrFormNotFound)
	}

	res, err := r.collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("delete form %q: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete form %q: %w", id, domain.ErrFormNotFound)
	}
	return nil
}

// Ping checks that the primary is reachable
func (r *FormRepository) Ping(ctx context.Context) error {
	return r.collection.Database().Client().Ping(ctx, readpref.Primary())
}
