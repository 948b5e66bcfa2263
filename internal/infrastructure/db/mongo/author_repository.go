package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/librarium/catalog-api/internal/core/domain"
)

const collectionAuthors = "authors"

type AuthorRepository struct {
	col *mongo.Collection
}

func NewAuthorRepository(db *mongo.Database) *AuthorRepository {
	return &AuthorRepository{col: db.Collection(collectionAuthors)}
}

type mongoAuthor struct {
	ID   primitive.ObjectID `bson:"_id,omitempty"`
	Name string             `bson:"name"`
	Born *int               `bson:"born,omitempty"`
}

func (a mongoAuthor) toDomain() *domain.Author {
	return &domain.Author{ID: a.ID.Hex(), Name: a.Name, Born: a.Born}
}

// Create inserts the author and fetches it back: the store assigns the id at
// persistence time, so the re-fetch is how the caller learns it.
func (r *AuthorRepository) Create(ctx context.Context, author *domain.Author) (*domain.Author, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoAuthor{Name: author.Name, Born: author.Born}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateAuthor
		}
		return nil, fmt.Errorf("insert author: %w", err)
	}

	return r.FindByName(ctx, author.Name)
}

func (r *AuthorRepository) FindByName(ctx context.Context, name string) (*domain.Author, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ma mongoAuthor
	if err := r.col.FindOne(ctx, bson.M{"name": name}).Decode(&ma); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("find author: %w", err)
	}
	return ma.toDomain(), nil
}

func (r *AuthorRepository) FindByID(ctx context.Context, id string) (*domain.Author, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAuthorNotFound
	}

	var ma mongoAuthor
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&ma); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("find author: %w", err)
	}
	return ma.toDomain(), nil
}

func (r *AuthorRepository) FindAll(ctx context.Context) ([]domain.Author, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find authors: %w", err)
	}
	defer cur.Close(ctx)

	authors := []domain.Author{}
	for cur.Next(ctx) {
		var ma mongoAuthor
		if err := cur.Decode(&ma); err != nil {
			return nil, fmt.Errorf("decode author: %w", err)
		}
		authors = append(authors, *ma.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate authors: %w", err)
	}
	return authors, nil
}

// UpdateBorn sets the birth year on the author with the given name and
// returns the updated record. Unknown names map to ErrAuthorNotFound.
func (r *AuthorRepository) UpdateBorn(ctx context.Context, name string, born int) (*domain.Author, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)

	var ma mongoAuthor
	err := r.col.FindOneAndUpdate(ctx, bson.M{"name": name}, bson.M{"$set": bson.M{"born": born}}, opts).Decode(&ma)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("update author: %w", err)
	}
	return ma.toDomain(), nil
}

func (r *AuthorRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count authors: %w", err)
	}
	return n, nil
}

// EnsureIndexes creates the unique author name index.
func (r *AuthorRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
