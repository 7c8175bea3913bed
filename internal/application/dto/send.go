package dto

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dashiq/reporting/internal/domain/models"
)

// SendSuccess writes a success envelope. filter may be nil for the
// fixed-window endpoints.
func SendSuccess(c *gin.Context, data interface{}, filter *models.FilterEcho) {
	c.JSON(http.StatusOK, SuccessResponse(data, filter))
}

// SendError writes an error envelope with the status mapped from the
// error code.
func SendError(c *gin.Context, err error) {
	status, body := ErrorResponse(err)
	c.JSON(status, body)
}

// SendAbort writes an error envelope and aborts the middleware chain.
func SendAbort(c *gin.Context, err error) {
	status, body := ErrorResponse(err)
	c.AbortWithStatusJSON(status, body)
}
