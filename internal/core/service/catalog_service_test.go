package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/librarium/catalog-api/internal/core/domain"
	"github.com/librarium/catalog-api/internal/core/ports"
)

type stubAuthorRepo struct {
	byName  map[string]*domain.Author
	nextID  int
	creates int
}

func newStubAuthorRepo() *stubAuthorRepo {
	return &stubAuthorRepo{byName: make(map[string]*domain.Author)}
}

func (r *stubAuthorRepo) Create(_ context.Context, author *domain.Author) (*domain.Author, error) {
	if _, exists := r.byName[author.Name]; exists {
		return nil, domain.ErrDuplicateAuthor
	}
	r.creates++
	r.nextID++
	stored := &domain.Author{ID: fmt.Sprintf("author-%d", r.nextID), Name: author.Name, Born: author.Born}
	r.byName[author.Name] = stored
	clone := *stored
	return &clone, nil
}

func (r *stubAuthorRepo) FindByName(_ context.Context, name string) (*domain.Author, error) {
	a, ok := r.byName[name]
	if !ok {
		return nil, domain.ErrAuthorNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubAuthorRepo) FindByID(_ context.Context, id string) (*domain.Author, error) {
	for _, a := range r.byName {
		if a.ID == id {
			clone := *a
			return &clone, nil
		}
	}
	return nil, domain.ErrAuthorNotFound
}

func (r *stubAuthorRepo) FindAll(_ context.Context) ([]domain.Author, error) {
	out := make([]domain.Author, 0, len(r.byName))
	for _, a := range r.byName {
		out = append(out, *a)
	}
	return out, nil
}

func (r *stubAuthorRepo) UpdateBorn(_ context.Context, name string, born int) (*domain.Author, error) {
	a, ok := r.byName[name]
	if !ok {
		return nil, domain.ErrAuthorNotFound
	}
	a.Born = &born
	clone := *a
	return &clone, nil
}

func (r *stubAuthorRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.byName)), nil
}

type stubBookRepo struct {
	books     []domain.Book
	nextID    int
	createErr error
}

func (r *stubBookRepo) Create(_ context.Context, book *domain.Book) (*domain.Book, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	stored := *book
	stored.ID = fmt.Sprintf("book-%d", r.nextID)
	r.books = append(r.books, stored)
	clone := stored
	return &clone, nil
}

func (r *stubBookRepo) FindAll(_ context.Context, filter ports.BookFilter) ([]domain.Book, error) {
	out := []domain.Book{}
	for _, b := range r.books {
		if filter.AuthorID != "" && b.AuthorID != filter.AuthorID {
			continue
		}
		if filter.Genre != "" && !hasGenre(b.Genres, filter.Genre) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func hasGenre(genres []string, genre string) bool {
	for _, g := range genres {
		if g == genre {
			return true
		}
	}
	return false
}

func (r *stubBookRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.books)), nil
}

func (r *stubBookRepo) CountByAuthor(_ context.Context, authorID string) (int64, error) {
	var n int64
	for _, b := range r.books {
		if b.AuthorID == authorID {
			n++
		}
	}
	return n, nil
}

type recordedEvent struct {
	topic string
	event any
}

type recordingBus struct {
	published []recordedEvent
}

func (b *recordingBus) Publish(topic string, event any) {
	b.published = append(b.published, recordedEvent{topic: topic, event: event})
}

type stubSink struct {
	events []domain.BookAddedEvent
	err    error
}

func (s *stubSink) Publish(_ context.Context, event domain.BookAddedEvent) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

func newTestCatalog() (*CatalogService, *stubAuthorRepo, *stubBookRepo, *recordingBus) {
	authors := newStubAuthorRepo()
	books := &stubBookRepo{}
	bus := &recordingBus{}
	svc := NewCatalogService(authors, books, bus, nil, zerolog.Nop())
	return svc, authors, books, bus
}

func alice() *domain.User {
	return &domain.User{ID: "user-1", Username: "alice", FavouriteGenre: "dev"}
}

func TestCatalogService_AddBook_RequiresPrincipal(t *testing.T) {
	svc, authors, books, bus := newTestCatalog()

	_, err := svc.AddBook(context.Background(), nil, ports.AddBookInput{
		Title: "Clean Code", Published: 2008, Author: "Robert Martin", Genres: []string{"dev"},
	})
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if authors.creates != 0 || len(books.books) != 0 {
		t.Fatalf("anonymous mutation must not persist anything")
	}
	if len(bus.published) != 0 {
		t.Fatalf("anonymous mutation must not publish events")
	}
}

func TestCatalogService_AddBook_RejectsShortFields(t *testing.T) {
	svc, authors, books, bus := newTestCatalog()

	cases := []ports.AddBookInput{
		{Title: "Valid Title", Published: 2008, Author: "Bob", Genres: []string{"dev"}},
		{Title: "X", Published: 2008, Author: "Robert Martin", Genres: []string{"dev"}},
	}
	for _, in := range cases {
		_, err := svc.AddBook(context.Background(), alice(), in)
		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("input %+v: expected ValidationError, got %v", in, err)
		}
		if ve.InvalidArgs["author"] != in.Author {
			t.Fatalf("validation error must carry the offending args, got %v", ve.InvalidArgs)
		}
	}

	if authors.creates != 0 || len(books.books) != 0 || len(bus.published) != 0 {
		t.Fatalf("rejected input must cause no persistence and no publication")
	}
}

func TestCatalogService_AddBook_CreatesMissingAuthor(t *testing.T) {
	svc, authors, books, bus := newTestCatalog()

	book, err := svc.AddBook(context.Background(), alice(), ports.AddBookInput{
		Title: "Clean Code", Published: 2008, Author: "Robert Martin", Genres: []string{"dev"},
	})
	if err != nil {
		t.Fatalf("AddBook returned error: %v", err)
	}
	if book.ID == "" {
		t.Fatalf("expected persisted book with id set")
	}
	if authors.creates != 1 {
		t.Fatalf("expected author to be created once, got %d", authors.creates)
	}
	author, err := authors.FindByName(context.Background(), "Robert Martin")
	if err != nil {
		t.Fatalf("author not persisted: %v", err)
	}
	if book.AuthorID != author.ID {
		t.Fatalf("book references author %q, want %q", book.AuthorID, author.ID)
	}
	if book.Author == nil || book.Author.Name != "Robert Martin" {
		t.Fatalf("returned book must carry its resolved author: %+v", book.Author)
	}

	if len(books.books) != 1 {
		t.Fatalf("expected 1 persisted book, got %d", len(books.books))
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected exactly one published event, got %d", len(bus.published))
	}
	if bus.published[0].topic != domain.TopicBookAdded {
		t.Fatalf("unexpected topic %q", bus.published[0].topic)
	}
	event, ok := bus.published[0].event.(domain.BookAddedEvent)
	if !ok {
		t.Fatalf("unexpected event type %T", bus.published[0].event)
	}
	if event.Book.Title != "Clean Code" || event.Book.Author == nil {
		t.Fatalf("event must carry the full book with author: %+v", event.Book)
	}
}

func TestCatalogService_AddBook_ReusesExistingAuthor(t *testing.T) {
	svc, authors, _, _ := newTestCatalog()
	existing, _ := authors.Create(context.Background(), &domain.Author{Name: "Martin Fowler"})
	authors.creates = 0

	book, err := svc.AddBook(context.Background(), alice(), ports.AddBookInput{
		Title: "Refactoring", Published: 1999, Author: "Martin Fowler", Genres: []string{"dev"},
	})
	if err != nil {
		t.Fatalf("AddBook returned error: %v", err)
	}
	if authors.creates != 0 {
		t.Fatalf("existing author must not be recreated")
	}
	if book.AuthorID != existing.ID {
		t.Fatalf("book references author %q, want %q", book.AuthorID, existing.ID)
	}
}

func TestCatalogService_AddBook_StoreFailureIsValidationKind(t *testing.T) {
	svc, _, books, bus := newTestCatalog()
	books.createErr = errors.New("duplicate key")

	_, err := svc.AddBook(context.Background(), alice(), ports.AddBookInput{
		Title: "Clean Code", Published: 2008, Author: "Robert Martin", Genres: []string{"dev"},
	})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.InvalidArgs["title"] != "Clean Code" {
		t.Fatalf("validation error must carry original args, got %v", ve.InvalidArgs)
	}
	if len(bus.published) != 0 {
		t.Fatalf("failed persistence must never be published")
	}
}

func TestCatalogService_AddBook_SinkFailureDoesNotFailMutation(t *testing.T) {
	authors := newStubAuthorRepo()
	books := &stubBookRepo{}
	bus := &recordingBus{}
	sink := &stubSink{err: errors.New("redis down")}
	svc := NewCatalogService(authors, books, bus, sink, zerolog.Nop())

	book, err := svc.AddBook(context.Background(), alice(), ports.AddBookInput{
		Title: "Clean Code", Published: 2008, Author: "Robert Martin", Genres: []string{"dev"},
	})
	if err != nil {
		t.Fatalf("mirror failure must not fail the mutation: %v", err)
	}
	if book == nil || len(bus.published) != 1 {
		t.Fatalf("local publication must still happen")
	}
}

func TestCatalogService_EditAuthor_SetsBorn(t *testing.T) {
	svc, authors, _, _ := newTestCatalog()
	_, _ = authors.Create(context.Background(), &domain.Author{Name: "Sandi Metz"})

	author, err := svc.EditAuthor(context.Background(), "Sandi Metz", 1961)
	if err != nil {
		t.Fatalf("EditAuthor returned error: %v", err)
	}
	if author == nil || author.Born == nil || *author.Born != 1961 {
		t.Fatalf("unexpected author: %+v", author)
	}
}

func TestCatalogService_EditAuthor_UnknownIsSoftNil(t *testing.T) {
	svc, _, _, _ := newTestCatalog()

	author, err := svc.EditAuthor(context.Background(), "Nobody", 1900)
	if err != nil {
		t.Fatalf("unknown author must not be an error, got %v", err)
	}
	if author != nil {
		t.Fatalf("expected nil author, got %+v", author)
	}
}

func TestCatalogService_AllBooks_Filters(t *testing.T) {
	svc, _, _, _ := newTestCatalog()
	principal := alice()
	add := func(title, author string, genres ...string) {
		t.Helper()
		_, err := svc.AddBook(context.Background(), principal, ports.AddBookInput{
			Title: title, Published: 2000, Author: author, Genres: genres,
		})
		if err != nil {
			t.Fatalf("add %s: %v", title, err)
		}
	}
	add("Clean Code", "Robert Martin", "dev")
	add("Refactoring", "Martin Fowler", "dev", "design")
	add("Crime and Punishment", "Fyodor Dostoevsky", "classic")

	all, err := svc.AllBooks(context.Background(), nil, nil)
	if err != nil || len(all) != 3 {
		t.Fatalf("unfiltered: got %d books, err %v", len(all), err)
	}
	for _, b := range all {
		if b.Author == nil {
			t.Fatalf("book %q missing denormalized author", b.Title)
		}
	}

	genre := "dev"
	devBooks, err := svc.AllBooks(context.Background(), nil, &genre)
	if err != nil || len(devBooks) != 2 {
		t.Fatalf("genre filter: got %d books, err %v", len(devBooks), err)
	}

	name := "Martin Fowler"
	fowler, err := svc.AllBooks(context.Background(), &name, &genre)
	if err != nil || len(fowler) != 1 || fowler[0].Title != "Refactoring" {
		t.Fatalf("combined filter: got %+v, err %v", fowler, err)
	}

	unknown := "Nobody"
	none, err := svc.AllBooks(context.Background(), &unknown, nil)
	if err != nil || len(none) != 0 {
		t.Fatalf("unknown author filter: got %d books, err %v", len(none), err)
	}
}

func TestCatalogService_Counts(t *testing.T) {
	svc, _, _, _ := newTestCatalog()
	principal := alice()
	for i, title := range []string{"Clean Code", "Clean Architecture"} {
		_, err := svc.AddBook(context.Background(), principal, ports.AddBookInput{
			Title: title, Published: 2008 + i, Author: "Robert Martin", Genres: []string{"dev"},
		})
		if err != nil {
			t.Fatalf("add %s: %v", title, err)
		}
	}

	if n, _ := svc.BookCount(context.Background()); n != 2 {
		t.Fatalf("book count: got %d, want 2", n)
	}
	if n, _ := svc.AuthorCount(context.Background()); n != 1 {
		t.Fatalf("author count: got %d, want 1", n)
	}

	books, _ := svc.AllBooks(context.Background(), nil, nil)
	if n, _ := svc.BookCountByAuthor(context.Background(), books[0].AuthorID); n != 2 {
		t.Fatalf("book count by author: got %d, want 2", n)
	}
}
