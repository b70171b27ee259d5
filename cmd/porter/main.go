package main

import (
	"context"
	"database/sql"
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/layer-3/porter/adapters/events"
	"github.com/layer-3/porter/adapters/siwe"
	"github.com/layer-3/porter/adapters/store"
	"github.com/layer-3/porter/adapters/tokenizer"
	"github.com/layer-3/porter/adapters/users"
	"github.com/layer-3/porter/config"
	"github.com/layer-3/porter/service"
	transport "github.com/layer-3/porter/transport/http"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Identity store
	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())

	userStore := users.NewBunStore(db)
	if err := userStore.Migrate(ctx); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Session store
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(opts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	sessionStore := store.NewRedisStore(redisClient)

	// Event publisher for the on-chain mirror worker
	logger := watermill.NewStdLogger(false, false)
	publisher, err := redisstream.NewPublisher(
		redisstream.PublisherConfig{
			Client: redisClient,
		},
		logger,
	)
	if err != nil {
		log.Fatalf("Failed to create Redis publisher: %v", err)
	}
	eventPub := events.NewWatermillPublisher(publisher)

	jwtTokenizer := tokenizer.NewJWTTokenizer(tokenizer.Config{
		AccessSecret:  []byte(cfg.AccessSecret),
		RefreshSecret: []byte(cfg.RefreshSecret),
		AccessExpiry:  cfg.AccessTTL(),
		RefreshExpiry: cfg.RefreshTTL(),
	})
	verifier := siwe.NewVerifier()

	authService := service.NewAuthService(userStore, sessionStore, jwtTokenizer, verifier, eventPub, nil)
	userService := service.NewUserService(userStore, eventPub, nil)

	router := transport.SetupRouter(authService, userService, transport.CookieConfig{
		Secure:     cfg.Production,
		AccessTTL:  cfg.AccessTTL(),
		RefreshTTL: cfg.RefreshTTL(),
	})

	if err := router.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
