// Package api wires the HTTP surface: the GraphQL endpoint (POST and
// WebSocket on /graphql), health probes, and Prometheus metrics.
package api

import (
	"net/http"
	"time"

	"github.com/graph-gophers/graphql-go/relay"
	"github.com/graph-gophers/graphql-transport-ws/graphqlws"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/librarium/catalog-api/internal/api/graph"
	"github.com/librarium/catalog-api/internal/api/middleware"
	"github.com/librarium/catalog-api/internal/core/ports"
	"github.com/librarium/catalog-api/internal/core/pubsub"
	"github.com/librarium/catalog-api/internal/core/service"
	mongodb "github.com/librarium/catalog-api/internal/infrastructure/db/mongo"
	redisdb "github.com/librarium/catalog-api/internal/infrastructure/db/redis"
	"github.com/librarium/catalog-api/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// rdb may be nil; the Redis event mirror is then disabled.
func NewRouter(db *mongo.Database, rdb *redis.Client, bus *pubsub.Bus, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("catalog"))

	// --- Dependencies ---
	authorRepo := mongodb.NewAuthorRepository(db)
	bookRepo := mongodb.NewBookRepository(db)
	userRepo := mongodb.NewUserRepository(db)

	var sink ports.EventSink
	if rdb != nil {
		sink = redisdb.NewEventMirror(rdb, cfg.Redis.EventChannel)
	}

	catalogService := service.NewCatalogService(authorRepo, bookRepo, bus, sink, log)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, 24*time.Hour)

	// --- GraphQL endpoint ---
	// One handler serves both transports: WebSocket upgrades go to the
	// graphql-ws subscription protocol, plain requests to the relay handler.
	resolver := graph.NewResolver(catalogService, authService, bus, log)
	schema := graph.NewSchema(resolver)
	gqlHandler := graphqlws.NewHandlerFunc(schema, &relay.Handler{Schema: schema})

	principal := middleware.Principal(cfg.JWTSecret, userRepo)
	e.Any("/graphql", echo.WrapHandler(gqlHandler), principal)

	if cfg.Env == "development" {
		e.GET("/", func(c echo.Context) error {
			return c.HTML(http.StatusOK, graphiqlPage)
		})
	}

	// --- Health probes (no auth required) ---
	health := newHealthHandler(db, rdb)
	e.GET("/health", health.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", health.Readiness) // readiness – are dependencies up?

	// --- Metrics ---
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
