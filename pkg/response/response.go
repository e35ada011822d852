package response

import (
	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/sma-portal-client/pkg/errors"
)

// Ack is the portal service's status body: {"success": bool, "message": "..."}.
type Ack struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// JSON sends a raw success payload.
func JSON(c *gin.Context, status int, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, data)
}

// Message responds with a successful acknowledgement.
func Message(c *gin.Context, status int, message string) {
	JSON(c, status, Ack{Success: true, Message: message})
}

// Error converts the error to the service's failure body.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, Ack{Success: false, Message: appErr.Message})
}
