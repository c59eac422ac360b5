package bootstrap

import (
	"context"
	"os"

	"devconnect_server/adapter/out/mongodb"
	"devconnect_server/adapter/out/persistence"
	"devconnect_server/adapter/out/provider"
	"devconnect_server/config"
	"devconnect_server/core/port/in"
	"devconnect_server/core/port/out"
	"devconnect_server/core/service/auth"
	"devconnect_server/core/service/post"
	"devconnect_server/core/service/profile"
	"devconnect_server/infra/database"
	"devconnect_server/pkg/cache"
	"devconnect_server/pkg/logger"

	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
)

type Dependencies struct {
	Config  *config.Config
	DB      *sqlx.DB
	Redis   *redis.Client
	MongoDB *mongo.Client

	// Repositories
	UserRepo    out.UserRepository
	ProfileRepo out.ProfileRepository
	PostRepo    out.PostRepository

	// Providers
	GithubProvider out.GithubProvider

	// Cache
	Cache out.Cache

	// Services
	AuthService    in.AuthService
	ProfileService in.ProfileService
	PostService    in.PostService
}

func NewDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	deps := &Dependencies{Config: cfg}
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	// PostgreSQL (identity store)
	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	deps.DB = db
	cleanups = append(cleanups, func() { db.Close() })
	deps.UserRepo = persistence.NewUserRepository(db)

	// MongoDB (profile and post aggregates)
	mongoClient, err := mongodb.NewClient(cfg.MongoDBURL, cfg.MongoDBName)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	deps.MongoDB = mongoClient
	cleanups = append(cleanups, func() {
		mongoClient.Disconnect(context.Background())
	})

	mongoDB := mongoClient.Database(cfg.MongoDBName)
	profileAdapter := mongodb.NewProfileAdapter(mongoDB)
	postAdapter := mongodb.NewPostAdapter(mongoDB)
	deps.ProfileRepo = profileAdapter
	deps.PostRepo = postAdapter

	ctx, cancelIdx := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelIdx()
	if err := profileAdapter.EnsureIndexes(ctx); err != nil {
		logger.Warn("Failed to ensure profile indexes: %v", err)
	}
	if err := postAdapter.EnsureIndexes(ctx); err != nil {
		logger.Warn("Failed to ensure post indexes: %v", err)
	}

	// Redis (optional list cache)
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedis(cfg.RedisURL)
		if err != nil {
			logger.Warn("Redis connection failed, list caching disabled: %v", err)
		} else {
			deps.Redis = redisClient
			cleanups = append(cleanups, func() { redisClient.Close() })
			deps.Cache = cache.NewRedisCache(redisClient)
		}
	}

	// GitHub provider
	zlog := zerolog.New(os.Stdout).With().Timestamp().Logger()
	deps.GithubProvider = provider.NewGithubAdapter(&provider.GithubConfig{
		BaseURL: cfg.GithubAPIURL,
		Token:   cfg.GithubToken,
		Timeout: time.Duration(cfg.GithubTimeoutSec) * time.Second,
	}, zlog)

	// Services
	deps.AuthService = auth.NewService(deps.UserRepo, cfg.JWTSecret, cfg.JWTTokenTTL, cfg.BcryptCost)
	deps.ProfileService = profile.NewService(
		deps.ProfileRepo,
		deps.UserRepo,
		deps.PostRepo,
		deps.GithubProvider,
		deps.Cache,
		cfg.CacheProfileTTL,
		cfg.GithubRepoLimit,
	)
	deps.PostService = post.NewService(deps.PostRepo, deps.UserRepo)

	return deps, cleanup, nil
}
