package api

import (
	"net/http"

	"syncode-backend/internal/auth/delivery"
	authdomain "syncode-backend/internal/auth/domain"
	"syncode-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *Handler) {
	requireAuth := delivery.AuthMiddleware(h.authUsecase, h.log)
	optionalAuth := delivery.OptionalAuth(h.authUsecase)

	r.Use(logger.Middleware(h.log))

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
	}

	// Auth routes
	r.POST("/signup", h.authHandler.Signup)
	r.POST("/login", h.authHandler.Login)
	r.POST("/refresh-token", h.authHandler.RefreshToken)
	r.POST("/logout", requireAuth, h.authHandler.Logout)
	r.GET("/me", requireAuth, h.authHandler.Me)
	r.PUT("/me", requireAuth, h.authHandler.UpdateProfile)

	// Snippet routes (protected)
	r.POST("/save", requireAuth, h.snippetHandler.SaveSnippet)
	r.GET("/snippets", requireAuth, delivery.RequireRoles(h.log, authdomain.RoleAdmin), h.snippetHandler.GetAllSnippets)
	r.GET("/snippets/:userId", requireAuth, h.snippetHandler.GetUserSnippets)
	r.PUT("/snippets/:id", requireAuth, h.snippetHandler.UpdateSnippet)
	r.PATCH("/snippets/:id/pin", requireAuth, h.snippetHandler.SetPinned)
	r.DELETE("/snippets/:id", requireAuth, h.snippetHandler.DeleteSnippet)

	// Execution routes
	r.POST("/run", optionalAuth, h.executionHandler.Run)
	r.GET("/runs", requireAuth, h.executionHandler.GetHistory)
	r.GET("/runtimes", h.executionHandler.ListRuntimes)

	// Collaboration socket
	r.GET("/ws", optionalAuth, h.collabHandler.Connect)

	// Chatbot routes (protected)
	chatbot := r.Group("/chatbot")
	chatbot.Use(requireAuth)
	{
		chatbot.POST("/ask", h.chatHandler.Ask)
		chatbot.POST("/uploadDoc", h.chatHandler.UploadDocument)
		chatbot.POST("/addSnippet", h.chatHandler.AddSnippet)
		chatbot.GET("/history", h.chatHandler.GetHistory)
	}

	r.NoRoute(spaFallback(h.config.StaticDir, h.log))
}
