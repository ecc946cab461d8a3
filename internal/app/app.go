// Package app wires repositories, caches and services from configuration.
package app

import (
	"context"
	"dcasassess/internal/cache"
	"dcasassess/internal/config"
	"dcasassess/internal/repository"
	"dcasassess/internal/repository/memory"
	"dcasassess/internal/service"
	"dcasassess/internal/transport/ws"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type App struct {
	Config config.Config

	SessionRepo  repository.SessionRepo
	UserRepo     repository.UserRepo
	QuestionRepo repository.QuestionRepo
	TemplateRepo repository.TemplateRepo
	AdminRepo    repository.AdminRepo

	SessionLock cache.SessionLock
	StatsCache  cache.StatsCache

	AuthService    *service.AuthService
	UserService    *service.UserService
	SessionService *service.SessionService
	StatsService   *service.StatsService
	WSHub          *ws.Hub

	mongoClient *mongo.Client
	redisClient *redis.Client
}

// New connects to the configured stores and builds every service
func New(ctx context.Context, cfg config.Config) (*App, error) {
	a := &App{Config: cfg}

	if cfg.Store == config.StoreMemory {
		log.Println("Using in-memory store")
		a.SessionRepo = memory.NewSessionRepo()
		a.UserRepo = memory.NewUserRepo()
		a.QuestionRepo = memory.NewQuestionRepo()
		a.TemplateRepo = memory.NewTemplateRepo()
		a.AdminRepo = memory.NewAdminRepo()
	} else if err := a.connectMongo(ctx); err != nil {
		return nil, err
	}

	lockTTL := config.TTLDuration(cfg.Assessment.LockTTL, 5*time.Second)
	lockWait := config.TTLDuration(cfg.Assessment.LockWait, 500*time.Millisecond)
	statsTTL := config.TTLDuration(cfg.Assessment.StatsTTL, 5*time.Minute)

	if cfg.Redis.Addr != "" {
		a.redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if _, err := a.redisClient.Ping(ctx).Result(); err != nil {
			a.Close(ctx)
			return nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		log.Println("Connected to Redis")
		a.SessionLock = cache.NewRedisSessionLock(a.redisClient, lockTTL, lockWait)
		a.StatsCache = cache.NewRedisStatsCache(a.redisClient, statsTTL)
	} else {
		log.Println("Warning: REDIS_URI not set, using in-process session lock")
		a.SessionLock = cache.NewLocalSessionLock(lockWait)
		a.StatsCache = cache.NewMemoryStatsCache(statsTTL)
	}

	a.AuthService = service.NewAuthService(
		a.AdminRepo,
		cfg.Auth.JWTSecret,
		config.TTLDuration(cfg.Auth.AdminTokenTTL, 24*time.Hour),
		config.TTLDuration(cfg.Auth.SessionTokenTTL, 30*24*time.Hour),
	)
	propagator := service.NewResultPropagator(a.UserRepo)
	bank := service.NewQuestionBank(a.QuestionRepo, a.TemplateRepo)
	a.UserService = service.NewUserService(a.UserRepo)
	a.SessionService = service.NewSessionService(
		a.SessionRepo, a.UserService, bank, a.AuthService,
		a.SessionLock, a.StatsCache, propagator, cfg.Assessment.TotalQuestions,
	)
	a.StatsService = service.NewStatsService(
		a.SessionRepo, a.UserRepo, a.QuestionRepo, a.TemplateRepo, a.StatsCache, propagator,
	)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	a.WSHub = ws.NewHub()
	a.SessionService.SetBroadcaster(a.WSHub)
	return a, nil
}

func (a *App) connectMongo(ctx context.Context) error {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(a.Config.Mongo.URI))
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(ctx)
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	log.Println("Connected to MongoDB")
	a.mongoClient = client

	db := client.Database(a.Config.Mongo.Database)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	a.SessionRepo = repository.NewSessionRepo(db)
	a.UserRepo = repository.NewUserRepo(db)
	a.QuestionRepo = repository.NewQuestionRepo(db)
	a.TemplateRepo = repository.NewTemplateRepo(db)
	a.AdminRepo = repository.NewAdminRepo(db)
	return nil
}

// Close releases store connections
func (a *App) Close(ctx context.Context) {
	if a.redisClient != nil {
		a.redisClient.Close()
	}
	if a.mongoClient != nil {
		a.mongoClient.Disconnect(ctx)
	}
}
