package delivery

import (
	"encoding/json"
	"net/http"

	authdelivery "syncode-backend/internal/auth/delivery"
	"syncode-backend/internal/chat/usecase"
	"syncode-backend/pkg/perrors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChatHandler handles coding assistant HTTP requests
type ChatHandler struct {
	chatUsecase usecase.ChatUsecase
	log         *zap.Logger
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chatUsecase usecase.ChatUsecase, log *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chatUsecase: chatUsecase,
		log:         log,
	}
}

type AskRequest struct {
	Question string `json:"question"`
}

type AddSnippetRequest struct {
	SnippetID string `json:"snippetId"`
	Code      string `json:"code"`
}

type AddSnippetResponse struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Ask answers a coding question using retrieved context
// POST /chatbot/ask
func (h *ChatHandler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		perrors.Abort(c, h.log, perrors.NewErrInvalidRequest("question is required", err))
		return
	}

	caller, _ := authdelivery.CurrentUser(c)
	bearer, _ := authdelivery.BearerToken(c)
	result, err := h.chatUsecase.Ask(c.Request.Context(), caller, bearer, req.Question)
	if err != nil {
		perrors.Abort(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UploadDocument indexes an uploaded file
// POST /chatbot/uploadDoc
func (h *ChatHandler) UploadDocument(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		perrors.Abort(c, h.log, perrors.NewErrInvalidRequest("File missing", err))
		return
	}
	f, err := fh.Open()
	if err != nil {
		perrors.Abort(c, h.log, perrors.NewErrInvalidRequest("could not read file", err))
		return
	}
	defer f.Close()

	caller, _ := authdelivery.CurrentUser(c)
	bearer, _ := authdelivery.BearerToken(c)
	out, err := h.chatUsecase.UploadDocument(c.Request.Context(), caller, bearer, fh.Filename, f)
	if err != nil {
		perrors.Abort(c, h.log, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", out)
}

// AddSnippet indexes a snippet for retrieval
// POST /chatbot/addSnippet
func (h *ChatHandler) AddSnippet(c *gin.Context) {
	var req AddSnippetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		perrors.Abort(c, h.log, perrors.NewErrInvalidRequest("invalid request body", err))
		return
	}

	caller, _ := authdelivery.CurrentUser(c)
	bearer, _ := authdelivery.BearerToken(c)
	out, err := h.chatUsecase.AddSnippet(c.Request.Context(), caller, bearer, req.SnippetID, req.Code)
	if err != nil {
		perrors.Abort(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, AddSnippetResponse{Message: "Snippet added to RAG", Data: out})
}

// GetHistory lists the caller's past questions
// GET /chatbot/history
func (h *ChatHandler) GetHistory(c *gin.Context) {
	caller, _ := authdelivery.CurrentUser(c)
	logs, err := h.chatUsecase.GetHistory(caller)
	if err != nil {
		perrors.Abort(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
