package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fundlens/fundlens/internal/domain/dto"
	"github.com/fundlens/fundlens/internal/logger"
)

// ErrorHandler converts errors attached to the Gin context into a
// standardized JSON error response after the handler chain runs.
//
// Handlers that already wrote a response are left alone; only unhandled
// errors produce the generic 500 envelope.
var ErrorHandler gin.HandlerFunc = func(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 {
		return
	}

	err := c.Errors.Last().Err
	logger.L().Error().Err(err).Str("path", c.Request.URL.Path).Msg("request error")

	if !c.Writer.Written() {
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse("Internal server error", err))
	}
}

// AbortWithError aborts the request with the given status and a
// standardized error body.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}
