package delivery

import (
	"net/http"

	authdelivery "syncode-backend/internal/auth/delivery"
	"syncode-backend/internal/snippet/domain"
	"syncode-backend/internal/snippet/usecase"
	"syncode-backend/pkg/perrors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SnippetHandler handles snippet-related HTTP requests
type SnippetHandler struct {
	snippetUsecase usecase.SnippetUsecase
	log            *zap.Logger
}

// NewSnippetHandler creates a new SnippetHandler
func NewSnippetHandler(snippetUsecase usecase.SnippetUsecase, log *zap.Logger) *SnippetHandler {
	return &SnippetHandler{
		snippetUsecase: snippetUsecase,
		log:            log,
	}
}

type SaveSnippetRequest struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

type SaveSnippetResponse struct {
	Message string          `json:"message"`
	ID      string          `json:"_id"`
	Snippet *domain.Snippet `json:"snippet"`
}

// SaveSnippet stores a snippet for the caller
// POST /save
func (h *SnippetHandler) SaveSnippet(c *gin.Context) {
	var req SaveSnippetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		perrors.Abort(c, h.log, perrors.NewErrInvalidRequest("code and language are required", err))
		return
	}

	caller, _ := authdelivery.CurrentUser(c)
	snippet, err := h.snippetUsecase.SaveSnippet(caller, req.Language, req.Code)
	if err != nil {
		perrors.Abort(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, SaveSnippetResponse{
		Message: "Saved successfully",
		ID:      snippet.ID,
		Snippet: snippet,
	})
}

// GetAllSnippets lists every snippet
// GET /snippets
func (h *SnippetHandler) GetAllSnippets(c *gin.Context) {
	caller, _ := authdelivery.CurrentUser(c)
	snippets, err := h.snippetUsecase.GetAllSnippets(caller)
	if err != nil {
		perrors.Abort(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, snippets)
}

// GetUserSnippets lists one user's snippets
// GET /snippets/:userId
func (h *SnippetHandler) GetUserSnippets(c *gin.Context) {
	caller, _ := authdelivery.CurrentUser(c)
	snippets, err := h.snippetUsecase.GetUserSnippets(caller, c.Param("userId"))
	if err != nil {
		perrors.Abort(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, snippets)
}

// UpdateSnippet replaces code and/or language
// PUT /snippets/:id
func (h *SnippetHandler) UpdateSnippet(c *gin.Context) {
	var updates usecase.SnippetUpdateRequest
	if err := c.ShouldBindJSON(&updates); err != nil {
		perrors.Abort(c, h.log, perrors.NewErrInvalidRequest("invalid request body", err))
		return
	}

	caller, _ := authdelivery.CurrentUser(c)
	snippet, err := h.snippetUsecase.UpdateSnippet(caller, c.Param("id"), updates)
	if err != nil {
		perrors.Abort(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Snippet updated successfully", "snippet": snippet})
}

// SetPinned pins or unpins a snippet
// PATCH /snippets/:id/pin
func (h *SnippetHandler) SetPinned(c *gin.Context) {
	var req struct {
		Pinned *bool `json:"pinned" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		perrors.Abort(c, h.log, perrors.NewErrInvalidRequest("pinned is required", err))
		return
	}

	caller, _ := authdelivery.CurrentUser(c)
	snippet, err := h.snippetUsecase.SetPinned(caller, c.Param("id"), *req.Pinned)
	if err != nil {
		perrors.Abort(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Snippet updated successfully", "snippet": snippet})
}

// DeleteSnippet deletes a snippet
// DELETE /snippets/:id
func (h *SnippetHandler) DeleteSnippet(c *gin.Context) {
	caller, _ := authdelivery.CurrentUser(c)
	if err := h.snippetUsecase.DeleteSnippet(caller, c.Param("id")); err != nil {
		perrors.Abort(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Snippet deleted successfully!"})
}
