package ports

import (
	"context"

	"github.com/librarium/catalog-api/internal/core/domain"
)

// AddBookInput is the DTO passed from the transport layer to the catalog
// service. Field constraints mirror the mutation contract: author names
// shorter than 4 characters and titles shorter than 2 are rejected.
type AddBookInput struct {
	Title     string   `validate:"required,min=2"`
	Published int      `validate:"required"`
	Author    string   `validate:"required,min=4"`
	Genres    []string `validate:"dive,required"`
}

// CatalogService exposes the book/author operations behind the GraphQL
// surface. AddBook is the authenticated mutation pipeline; the rest are
// plain reads plus the soft-not-found editAuthor update.
type CatalogService interface {
	AddBook(ctx context.Context, principal *domain.User, in AddBookInput) (*domain.Book, error)
	EditAuthor(ctx context.Context, name string, born int) (*domain.Author, error)
	AllBooks(ctx context.Context, authorName, genre *string) ([]domain.Book, error)
	AllAuthors(ctx context.Context) ([]domain.Author, error)
	BookCount(ctx context.Context) (int, error)
	AuthorCount(ctx context.Context) (int, error)
	BookCountByAuthor(ctx context.Context, authorID string) (int, error)
}
