package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	authDelivery "syncode-backend/internal/auth/delivery"
	authUsecase "syncode-backend/internal/auth/usecase"
	chatDelivery "syncode-backend/internal/chat/delivery"
	chatUsecase "syncode-backend/internal/chat/usecase"
	"syncode-backend/internal/collab"
	collabDelivery "syncode-backend/internal/collab/delivery"
	execDelivery "syncode-backend/internal/execution/delivery"
	execUsecase "syncode-backend/internal/execution/usecase"
	snippetDelivery "syncode-backend/internal/snippet/delivery"
	snippetUsecase "syncode-backend/internal/snippet/usecase"
	"syncode-backend/pkg/config"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

type Handler struct {
	authUsecase      authUsecase.AuthUsecase
	authHandler      *authDelivery.AuthHandler
	snippetHandler   *snippetDelivery.SnippetHandler
	executionHandler *execDelivery.ExecutionHandler
	chatHandler      *chatDelivery.ChatHandler
	collabHandler    *collabDelivery.CollabHandler
	config           *config.Config
	log              *zap.Logger
}

func NewHandler(
	authUc authUsecase.AuthUsecase,
	snippetUc snippetUsecase.SnippetUsecase,
	execUc execUsecase.ExecutionUsecase,
	chatUc chatUsecase.ChatUsecase,
	hub *collab.Hub,
	cfg *config.Config,
	log *zap.Logger,
) *Handler {
	return &Handler{
		authUsecase:      authUc,
		authHandler:      authDelivery.NewAuthHandler(authUc, log),
		snippetHandler:   snippetDelivery.NewSnippetHandler(snippetUc, log),
		executionHandler: execDelivery.NewExecutionHandler(execUc, log),
		chatHandler:      chatDelivery.NewChatHandler(chatUc, log),
		collabHandler: collabDelivery.NewCollabHandler(hub, authUc, collabDelivery.Options{
			AllowedOrigins: cfg.CORSAllowedOrigin,
			RequireAuth:    cfg.CollabRequireAuth,
		}, log),
		config: cfg,
		log:    log,
	}
}

// Router builds the gin engine with middleware and routes.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware(h.config.CORSAllowedOrigin))

	SetupRoutes(r, h)
	return r
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func (h *Handler) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           otelhttp.NewHandler(h.Router(), "syncode"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		h.log.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	h.log.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
