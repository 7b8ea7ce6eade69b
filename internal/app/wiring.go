package app

import (
	"context"
	"fmt"
	"time"

	"card-service/internal/audit"
	"card-service/internal/auth"
	"card-service/internal/cache"
	"card-service/internal/config"
	cardhttp "card-service/internal/http"
	"card-service/internal/repository"
	memrepo "card-service/internal/repository/memory"
	"card-service/internal/repository/postgres"
	"card-service/internal/service"
	"card-service/internal/storage"
	memstore "card-service/internal/storage/memory"
	"card-service/internal/storage/s3"
	"card-service/pkg/metrics"

	"go.uber.org/zap"
)

const (
	bucketCheckTimeout = 30 * time.Second
	redisPingTimeout   = 5 * time.Second
	cacheJanitorPeriod = 5 * time.Minute
)

// InitializeService wires up all dependencies and returns a configured Service
func InitializeService(cfg *config.Config, log *zap.Logger) (*Service, error) {
	s := &Service{config: cfg, logger: log}

	store, sink, health, err := s.initStore()
	if err != nil {
		s.close()
		return nil, err
	}

	objects, err := s.initObjects()
	if err != nil {
		s.close()
		return nil, err
	}

	edit, err := auth.NewTokenService(auth.TokenServiceConfig{
		Secret:    cfg.Token.Secret,
		Algorithm: cfg.Token.Algorithm,
		TTL:       cfg.Token.ExpiryDuration,
		Type:      auth.TokenTypeEditAccess,
	})
	if err != nil {
		s.close()
		return nil, fmt.Errorf("failed to create edit token service: %w", err)
	}

	admin, err := auth.NewTokenService(auth.TokenServiceConfig{
		Secret:    cfg.Admin.Secret,
		Algorithm: cfg.Token.Algorithm,
		TTL:       cfg.Admin.ExpiryDuration,
		Type:      auth.TokenTypeAdminAccess,
	})
	if err != nil {
		s.close()
		return nil, fmt.Errorf("failed to create admin token service: %w", err)
	}

	login, err := auth.NewAdminAuthenticator(cfg.Admin.KeyHash, admin)
	if err != nil {
		s.close()
		return nil, fmt.Errorf("failed to create admin authenticator: %w", err)
	}

	m := metrics.New()
	s.audit = audit.NewLogger(sink, log)

	services := service.New(service.Deps{
		Store:   store,
		Objects: objects,
		Audit:   s.audit,
		Metrics: m,
		Logger:  log,
	}, cfg.App, edit)

	s.server = cardhttp.NewServer(&cardhttp.ServerDependencies{
		Config:       cfg,
		Logger:       log,
		Services:     services,
		Gate:         auth.NewGate(edit, admin),
		Admin:        login,
		Audit:        s.audit,
		Metrics:      m,
		Health:       health,
		EditTokenTTL: edit.TTL(),
	})

	return s, nil
}

func (s *Service) initStore() (repository.Store, audit.Sink, cardhttp.HealthChecker, error) {
	if s.config.Database.Driver == config.StoreDriverMemory {
		s.logger.Warn("using in-memory store, data is lost on restart")
		return memrepo.NewStore(), audit.NewMemorySink(), nil, nil
	}

	db, err := postgres.New(&s.config.Database)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	s.closers = append(s.closers, func() error {
		db.Close()
		return nil
	})
	s.logger.Info("database connection established",
		zap.String("host", s.config.Database.Host),
		zap.String("database", s.config.Database.Database),
	)

	return postgres.NewStore(db), audit.NewPostgresSink(db.Pool), db, nil
}

func (s *Service) initObjects() (storage.ObjectStore, error) {
	expiry := s.config.App.PresignedURLExpiry

	var backend storage.ObjectStore
	if s.config.Database.Driver == config.StoreDriverMemory {
		backend = memstore.NewStore(expiry)
	} else {
		client, err := s3.NewClient(&s.config.S3, expiry)
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 client: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), bucketCheckTimeout)
		defer cancel()
		if err := client.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		s.logger.Info("S3 client initialized", zap.String("bucket", s.config.S3.Bucket))
		backend = client
	}

	return storage.NewCachedStore(backend, s.initURLCache(), expiry), nil
}

// initURLCache prefers Redis when configured and reachable, otherwise it
// falls back to an in-process cache with a janitor.
func (s *Service) initURLCache() cache.URLCache {
	if s.config.Redis.URL != "" {
		redisCache, err := s.connectRedis()
		if err == nil {
			s.closers = append(s.closers, redisCache.Close)
			s.logger.Info("presigned URL cache uses redis")
			return redisCache
		}
		s.logger.Warn("redis unavailable, using in-process URL cache", zap.Error(err))
	}

	memoryCache := cache.NewMemoryURLCache()
	ctx, cancel := context.WithCancel(context.Background())
	memoryCache.StartJanitor(ctx, cacheJanitorPeriod)
	s.closers = append(s.closers, func() error {
		cancel()
		return nil
	})
	return memoryCache
}

func (s *Service) connectRedis() (*cache.RedisURLCache, error) {
	redisCache, err := cache.NewRedisURLCache(s.config.Redis.URL, s.logger)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := redisCache.Ping(ctx); err != nil {
		_ = redisCache.Close()
		return nil, err
	}
	return redisCache, nil
}
