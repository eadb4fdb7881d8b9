package perrors

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Abort renders err as the JSON error body and stops the handler chain.
func Abort(c *gin.Context, l *zap.Logger, err error) {
	e := As(err)
	if l != nil {
		e.Print(l)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(e.HttpStatus(), ErrorResponse{
		Error:   e.Code.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
