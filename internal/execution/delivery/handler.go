package delivery

import (
	"net/http"

	authdelivery "syncode-backend/internal/auth/delivery"
	"syncode-backend/internal/execution/usecase"
	"syncode-backend/pkg/perrors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ExecutionHandler handles code execution HTTP requests
type ExecutionHandler struct {
	executionUsecase usecase.ExecutionUsecase
	log              *zap.Logger
}

// NewExecutionHandler creates a new ExecutionHandler
func NewExecutionHandler(executionUsecase usecase.ExecutionUsecase, log *zap.Logger) *ExecutionHandler {
	return &ExecutionHandler{
		executionUsecase: executionUsecase,
		log:              log,
	}
}

type RunRequest struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

// Run executes code in the sandbox and returns its result verbatim
// POST /run
func (h *ExecutionHandler) Run(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		perrors.Abort(c, h.log, perrors.NewErrInvalidRequest("invalid request body", err))
		return
	}

	caller, _ := authdelivery.CurrentUser(c)
	result, err := h.executionUsecase.Run(c.Request.Context(), caller, req.Language, req.Code)
	if err != nil {
		perrors.Abort(c, h.log, err)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", result)
}

// GetHistory lists the caller's recent runs
// GET /runs
func (h *ExecutionHandler) GetHistory(c *gin.Context) {
	caller, _ := authdelivery.CurrentUser(c)
	runs, err := h.executionUsecase.GetHistory(caller)
	if err != nil {
		perrors.Abort(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, runs)
}

// ListRuntimes returns the installed sandbox runtimes
// GET /runtimes
func (h *ExecutionHandler) ListRuntimes(c *gin.Context) {
	runtimes, err := h.executionUsecase.ListRuntimes(c.Request.Context())
	if err != nil {
		perrors.Abort(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, runtimes)
}
