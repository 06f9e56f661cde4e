// Package response formats the wire-level success and error envelopes the HTTP layer
// returns, keeping that formatting out of handlers.
package response

import (
	"github.com/gin-gonic/gin"

	appErrors "github.com/leaguepairings/scheduler/pkg/errors"
)

// errorEnvelope matches the fixed error shape in §6.
type errorEnvelope struct {
	Success bool             `json:"success"`
	Error   *appErrors.Error `json:"error"`
}

// Error sends an error response in the closed `{"success":false,"error":{...}}` shape.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, errorEnvelope{Success: false, Error: appErr})
}

// JSON sends a success response with the given status and body as-is: the
// `/schedule` and `/health` responses each have their own fixed top-level shape
// (§6), so there is no shared envelope to wrap them in.
func JSON(c *gin.Context, status int, body interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, body)
}
