package graph

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/rs/zerolog"

	"github.com/librarium/catalog-api/internal/api/middleware"
	"github.com/librarium/catalog-api/internal/core/domain"
	"github.com/librarium/catalog-api/internal/core/ports"
	"github.com/librarium/catalog-api/internal/core/pubsub"
)

// Resolver is the GraphQL root. It delegates to the catalog and auth
// services and bridges subscriptions onto the event bus.
type Resolver struct {
	catalog ports.CatalogService
	auth    ports.AuthService
	bus     *pubsub.Bus
	log     zerolog.Logger
}

func NewResolver(catalog ports.CatalogService, auth ports.AuthService, bus *pubsub.Bus, log zerolog.Logger) *Resolver {
	return &Resolver{catalog: catalog, auth: auth, bus: bus, log: log}
}

// ── Query ─────────────────────────────────────────────────────────────────

func (r *Resolver) BookCount(ctx context.Context) (int32, error) {
	n, err := r.catalog.BookCount(ctx)
	return int32(n), err
}

func (r *Resolver) AuthorCount(ctx context.Context) (int32, error) {
	n, err := r.catalog.AuthorCount(ctx)
	return int32(n), err
}

func (r *Resolver) AllBooks(ctx context.Context, args struct {
	Author *string
	Genre  *string
}) ([]*bookResolver, error) {
	books, err := r.catalog.AllBooks(ctx, args.Author, args.Genre)
	if err != nil {
		return nil, err
	}
	out := make([]*bookResolver, 0, len(books))
	for _, b := range books {
		out = append(out, &bookResolver{r: r, book: b})
	}
	return out, nil
}

func (r *Resolver) AllAuthors(ctx context.Context) ([]*authorResolver, error) {
	authors, err := r.catalog.AllAuthors(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*authorResolver, 0, len(authors))
	for _, a := range authors {
		out = append(out, &authorResolver{r: r, author: a})
	}
	return out, nil
}

// Me returns the request's principal, or null for anonymous callers.
func (r *Resolver) Me(ctx context.Context) (*userResolver, error) {
	principal := middleware.PrincipalFromContext(ctx)
	if principal == nil {
		return nil, nil
	}
	return &userResolver{user: *principal}, nil
}

// ── Mutation ──────────────────────────────────────────────────────────────

func (r *Resolver) AddBook(ctx context.Context, args struct {
	Title     string
	Published int32
	Author    string
	Genres    []string
}) (*bookResolver, error) {
	principal := middleware.PrincipalFromContext(ctx)
	book, err := r.catalog.AddBook(ctx, principal, ports.AddBookInput{
		Title:     args.Title,
		Published: int(args.Published),
		Author:    args.Author,
		Genres:    args.Genres,
	})
	if err != nil {
		return nil, translate(err)
	}
	return &bookResolver{r: r, book: *book}, nil
}

func (r *Resolver) EditAuthor(ctx context.Context, args struct {
	Name      string
	SetBornTo int32
}) (*authorResolver, error) {
	author, err := r.catalog.EditAuthor(ctx, args.Name, int(args.SetBornTo))
	if err != nil {
		return nil, translate(err)
	}
	if author == nil {
		return nil, nil
	}
	return &authorResolver{r: r, author: *author}, nil
}

func (r *Resolver) CreateUser(ctx context.Context, args struct {
	Username       string
	FavouriteGenre string
	Password       string
}) (*userResolver, error) {
	user, err := r.auth.CreateUser(ctx, args.Username, args.FavouriteGenre, args.Password)
	if err != nil {
		return nil, translate(err)
	}
	return &userResolver{user: *user}, nil
}

func (r *Resolver) Login(ctx context.Context, args struct {
	Username string
	Password string
}) (*tokenResolver, error) {
	token, err := r.auth.Login(ctx, args.Username, args.Password)
	if err != nil {
		return nil, translate(err)
	}
	return &tokenResolver{value: token}, nil
}

// ── Subscription ──────────────────────────────────────────────────────────

// BookAdded bridges one client connection to the event bus for the lifetime
// of that connection. Each bus event becomes one item on the output stream;
// the stream only ends when the client disconnects (ctx cancellation), at
// which point the bus registration is released.
func (r *Resolver) BookAdded(ctx context.Context) <-chan *bookResolver {
	sub := r.bus.Subscribe(domain.TopicBookAdded)
	out := make(chan *bookResolver)

	go func() {
		defer close(out)
		defer sub.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub.Events():
				if !ok {
					return
				}
				event, ok := ev.(domain.BookAddedEvent)
				if !ok {
					r.log.Warn().Str("topic", sub.Topic()).Msg("unexpected event payload")
					continue
				}
				select {
				case out <- &bookResolver{r: r, book: event.Book}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}

// ── Type resolvers ────────────────────────────────────────────────────────

type bookResolver struct {
	r    *Resolver
	book domain.Book
}

func (b *bookResolver) ID() graphql.ID { return graphql.ID(b.book.ID) }
func (b *bookResolver) Title() string { return b.book.Title }
func (b *bookResolver) Published() int32 { return int32(b.book.Published) }
func (b *bookResolver) Genres() []string { return b.book.Genres }

func (b *bookResolver) Author() (*authorResolver, error) {
	if b.book.Author == nil {
		return nil, &resolverError{
			message:    "author not resolved",
			extensions: map[string]any{"code": "INTERNAL_SERVER_ERROR"},
		}
	}
	return &authorResolver{r: b.r, author: *b.book.Author}, nil
}

type authorResolver struct {
	r      *Resolver
	author domain.Author
}

func (a *authorResolver) ID() graphql.ID { return graphql.ID(a.author.ID) }
func (a *authorResolver) Name() string   { return a.author.Name }

func (a *authorResolver) Born() *int32 {
	if a.author.Born == nil {
		return nil
	}
	born := int32(*a.author.Born)
	return &born
}

// BookCount is derived per request, never stored on the author.
func (a *authorResolver) BookCount(ctx context.Context) (int32, error) {
	n, err := a.r.catalog.BookCountByAuthor(ctx, a.author.ID)
	return int32(n), err
}

type userResolver struct {
	user domain.User
}

func (u *userResolver) ID() graphql.ID { return graphql.ID(u.user.ID) }
func (u *userResolver) Username() string { return u.user.Username }
func (u *userResolver) FavouriteGenre() string { return u.user.FavouriteGenre }

type tokenResolver struct {
	value string
}

func (t *tokenResolver) Value() string { return t.value }
