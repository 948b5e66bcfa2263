package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/librarium/catalog-api/internal/api/metrics"
	"github.com/librarium/catalog-api/internal/core/domain"
	"github.com/librarium/catalog-api/internal/core/ports"
)

// CatalogService implements the book/author operations. AddBook is the
// authenticated write pipeline: validate, persist, publish exactly one
// event per successful write.
type CatalogService struct {
	authors  ports.AuthorRepository
	books    ports.BookRepository
	bus      ports.EventPublisher
	sink     ports.EventSink // optional external mirror, may be nil
	validate *validator.Validate
	log      zerolog.Logger
}

func NewCatalogService(
	authors ports.AuthorRepository,
	books ports.BookRepository,
	bus ports.EventPublisher,
	sink ports.EventSink,
	log zerolog.Logger,
) *CatalogService {
	return &CatalogService{
		authors:  authors,
		books:    books,
		bus:      bus,
		sink:     sink,
		validate: validator.New(),
		log:      log,
	}
}

// AddBook validates and persists a new book, then publishes exactly one
// BookAddedEvent. Anonymous principals are rejected before anything touches
// the store.
//
// When the author does not exist yet it is created first and re-fetched to
// learn its store-assigned id. The two writes (author, then book) are not
// transactional: a reader may observe the author before its first book. That
// window is accepted, matching the behavior of the system this replaces.
func (s *CatalogService) AddBook(ctx context.Context, principal *domain.User, in ports.AddBookInput) (*domain.Book, error) {
	if principal == nil {
		return nil, domain.ErrUnauthenticated
	}

	if err := s.validate.Struct(in); err != nil {
		return nil, domain.NewValidationError(validationMessage(err), invalidArgs(in))
	}

	author, err := s.authors.FindByName(ctx, in.Author)
	switch {
	case errors.Is(err, domain.ErrAuthorNotFound):
		author, err = s.authors.Create(ctx, &domain.Author{Name: in.Author})
		if err != nil {
			// Most likely a uniqueness race on the author name. Surface as a
			// validation failure carrying the original arguments.
			s.log.Warn().Err(err).Str("author", in.Author).Msg("author creation failed")
			return nil, domain.NewValidationError("saving author failed: "+err.Error(), invalidArgs(in))
		}
	case err != nil:
		return nil, fmt.Errorf("add book: find author: %w", err)
	}

	book := &domain.Book{
		Title:     in.Title,
		Published: in.Published,
		Genres:    in.Genres,
		AuthorID:  author.ID,
	}
	created, err := s.books.Create(ctx, book)
	if err != nil {
		s.log.Warn().Err(err).Str("title", in.Title).Msg("book creation failed")
		return nil, domain.NewValidationError("saving book failed: "+err.Error(), invalidArgs(in))
	}
	created.Author = author

	// Exactly one publication per successful write. Fan-out is best effort
	// and never fails the mutation.
	event := domain.BookAddedEvent{Book: *created}
	s.bus.Publish(domain.TopicBookAdded, event)
	metrics.BooksAddedTotal.Inc()

	if s.sink != nil {
		if err := s.sink.Publish(ctx, event); err != nil {
			s.log.Warn().Err(err).Str("title", created.Title).Msg("event mirror publish failed")
		}
	}

	s.log.Info().
		Str("title", created.Title).
		Str("author", author.Name).
		Str("user", principal.Username).
		Msg("book added")

	return created, nil
}

// EditAuthor sets an author's birth year. An unknown name yields (nil, nil):
// soft not-found, per the API contract, not an error.
func (s *CatalogService) EditAuthor(ctx context.Context, name string, born int) (*domain.Author, error) {
	author, err := s.authors.UpdateBorn(ctx, name, born)
	if errors.Is(err, domain.ErrAuthorNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("edit author: %w", err)
	}
	return author, nil
}

// AllBooks lists books, optionally filtered by author name and/or genre.
// An author filter naming an unknown author yields an empty list.
func (s *CatalogService) AllBooks(ctx context.Context, authorName, genre *string) ([]domain.Book, error) {
	var filter ports.BookFilter
	if genre != nil {
		filter.Genre = *genre
	}
	if authorName != nil {
		author, err := s.authors.FindByName(ctx, *authorName)
		if errors.Is(err, domain.ErrAuthorNotFound) {
			return []domain.Book{}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("all books: find author: %w", err)
		}
		filter.AuthorID = author.ID
	}

	books, err := s.books.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("all books: %w", err)
	}
	if err := s.populateAuthors(ctx, books); err != nil {
		return nil, fmt.Errorf("all books: %w", err)
	}
	return books, nil
}

// populateAuthors denormalizes each book's Author, fetching every distinct
// author id once.
func (s *CatalogService) populateAuthors(ctx context.Context, books []domain.Book) error {
	cache := make(map[string]*domain.Author)
	for i := range books {
		author, ok := cache[books[i].AuthorID]
		if !ok {
			var err error
			author, err = s.authors.FindByID(ctx, books[i].AuthorID)
			if err != nil {
				return fmt.Errorf("find author %s: %w", books[i].AuthorID, err)
			}
			cache[books[i].AuthorID] = author
		}
		books[i].Author = author
	}
	return nil
}

func (s *CatalogService) AllAuthors(ctx context.Context) ([]domain.Author, error) {
	authors, err := s.authors.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("all authors: %w", err)
	}
	return authors, nil
}

func (s *CatalogService) BookCount(ctx context.Context) (int, error) {
	n, err := s.books.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("book count: %w", err)
	}
	return int(n), nil
}

func (s *CatalogService) AuthorCount(ctx context.Context) (int, error) {
	n, err := s.authors.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("author count: %w", err)
	}
	return int(n), nil
}

// BookCountByAuthor backs the derived Author.bookCount field.
func (s *CatalogService) BookCountByAuthor(ctx context.Context, authorID string) (int, error) {
	n, err := s.books.CountByAuthor(ctx, authorID)
	if err != nil {
		return 0, fmt.Errorf("book count by author: %w", err)
	}
	return int(n), nil
}

// invalidArgs echoes the mutation arguments back for client-side correction.
func invalidArgs(in ports.AddBookInput) map[string]any {
	return map[string]any{
		"title":     in.Title,
		"published": in.Published,
		"author":    in.Author,
		"genres":    in.Genres,
	}
}
