package cmd

import (
	"context"
	"fmt"

	api "syncode-backend/cmd/api"
	authRepo "syncode-backend/internal/auth/repository"
	"syncode-backend/internal/auth/token"
	authUsecase "syncode-backend/internal/auth/usecase"
	chatRepo "syncode-backend/internal/chat/repository"
	chatUsecase "syncode-backend/internal/chat/usecase"
	"syncode-backend/internal/collab"
	execRepo "syncode-backend/internal/execution/repository"
	execUsecase "syncode-backend/internal/execution/usecase"
	snippetRepo "syncode-backend/internal/snippet/repository"
	snippetUsecase "syncode-backend/internal/snippet/usecase"
	"syncode-backend/pkg/ai"
	"syncode-backend/pkg/cache"
	"syncode-backend/pkg/config"
	"syncode-backend/pkg/database"
	"syncode-backend/pkg/logger"
	"syncode-backend/pkg/piston"
	"syncode-backend/pkg/rag"
	"syncode-backend/pkg/retrieval"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app owns every long-lived component of a running server.
type app struct {
	cfg       *config.Config
	log       *zap.Logger
	db        *gorm.DB
	redis     *redis.Client
	hub       *collab.Hub
	indexer   *chatUsecase.SnippetIndexer
	refresher *execUsecase.RuntimeRefresher

	authUsecase authUsecase.AuthUsecase
	handler     *api.Handler
}

func loadConfigAndLogger() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(!cfg.IsProduction())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return cfg, log, nil
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.NewPostgresConnection(cfg.DatabaseURL, !cfg.IsProduction())
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// newApp wires repositories, services and handlers. Without DATABASE_URL the
// repositories live in memory; without REDIS_URL caches and the denylist do.
func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log}

	var (
		users    authRepo.UserRepository
		snippets snippetRepo.SnippetRepository
		runs     execRepo.RunHistoryRepository
		chats    chatRepo.ChatLogRepository
	)
	if cfg.DatabaseURL != "" {
		db, err := openDatabase(cfg)
		if err != nil {
			return nil, err
		}
		a.db = db
		users = authRepo.NewUserRepository(db)
		snippets = snippetRepo.NewGormSnippetRepository(db)
		runs = execRepo.NewGormRunHistoryRepository(db)
		chats = chatRepo.NewGormChatLogRepository(db)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory storage")
		users = authRepo.NewMemoryUserRepository()
		snippets = snippetRepo.NewMemorySnippetRepository()
		runs = execRepo.NewMemoryRunHistoryRepository()
		chats = chatRepo.NewMemoryChatLogRepository()
	}

	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		a.redis = client
	}

	// Tokens
	tokenOpts := []token.Option{}
	if cfg.TokenDenylist {
		if a.redis != nil {
			tokenOpts = append(tokenOpts, token.WithDenylist(token.NewRedisDenylist(a.redis)))
		} else {
			tokenOpts = append(tokenOpts, token.WithDenylist(token.NewMemoryDenylist()))
		}
	}
	tokens := token.NewService(token.Config{
		AccessSecret:  cfg.JWTSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:     cfg.JWTAccessExpiry,
		RefreshTTL:    cfg.JWTRefreshExpiry,
	}, tokenOpts...)

	a.authUsecase = authUsecase.NewAuthUsecase(users, tokens, authUsecase.Options{
		Hasher:          authRepo.Hasher(cfg.PasswordHasher),
		AllowRoleSignup: cfg.AllowRoleSignup,
	}, log)

	// Execution
	pistonClient := piston.NewClient(cfg.PistonURL, nil)
	var runtimeCache execUsecase.RuntimeCache
	switch {
	case cfg.RuntimeCacheTTL <= 0:
	case a.redis != nil:
		runtimeCache = execUsecase.NewRedisRuntimeCache(a.redis, cfg.RuntimeCacheTTL)
	default:
		runtimeCache = execUsecase.NewMemoryRuntimeCache(cfg.RuntimeCacheTTL)
	}
	resolver := execUsecase.NewRuntimeResolver(pistonClient, runtimeCache, execUsecase.ResolverConfig{
		Timeout: cfg.PistonRegistryTimeout,
	}, log)
	dispatcher := execUsecase.NewDispatcher(resolver, pistonClient, cfg.PistonExecuteTimeout, log)
	execUc := execUsecase.NewExecutionUsecase(dispatcher, resolver, runs, log)
	a.refresher = execUsecase.NewRuntimeRefresher(resolver, cfg.RuntimeRefreshInterval, log)

	// Retrieval and assistant
	var store retrieval.Store = retrieval.NewMemoryStore()
	if cfg.ChromaAPIKey != "" {
		chromaStore, err := retrieval.NewChromaStore(ctx, retrieval.ChromaConfig{
			APIKey:       cfg.ChromaAPIKey,
			Tenant:       cfg.ChromaTenant,
			Database:     cfg.ChromaDatabase,
			GeminiAPIKey: cfg.GeminiApiKey,
		})
		if err != nil {
			log.Warn("failed to initialize Chroma, using in-memory retrieval", zap.Error(err))
		} else {
			store = chromaStore
		}
	}

	assistant, err := ai.NewAssistant(ai.Config{
		Provider:      ai.ProviderType(cfg.AIProvider),
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		OpenAIModel:   cfg.OpenAIModel,
		GeminiAPIKey:  cfg.GeminiApiKey,
		OllamaBaseURL: cfg.OllamaBaseURL,
		OllamaModel:   cfg.OllamaModel,
	}, log)
	if err != nil {
		log.Warn("AI assistant disabled", zap.Error(err))
	}

	chatUc := chatUsecase.NewChatUsecase(chats, assistant, store, cfg.ChatTimeout, log)
	if cfg.RAGBaseURL != "" {
		chatUc.SetRemoteIndex(rag.NewClient(cfg.RAGBaseURL, nil))
	}

	a.indexer = chatUsecase.NewSnippetIndexer(store, cfg.IndexWorkers, log)

	snippetUc := snippetUsecase.NewSnippetUsecase(snippets, log)
	snippetUc.SetIndexer(a.indexer)

	a.hub = collab.NewHub(log)
	a.handler = api.NewHandler(a.authUsecase, snippetUc, execUc, chatUc, a.hub, cfg, log)
	return a, nil
}

func (a *app) start() {
	a.indexer.Start()
	a.refresher.Start()
}

func (a *app) close() {
	a.refresher.Stop()
	a.indexer.Stop()
	a.hub.Close()

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn("failed to close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	_ = a.log.Sync()
}
