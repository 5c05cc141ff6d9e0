package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hsse-suite/hsse-portal/hsse-portal-backend/pkg/workflow"
)

// WriteTransitionResult maps an engine result onto an HTTP response. Engine
// rejections are expected outcomes, not faults: they come back with the
// reason code so the front-end can render the right prompt (permission
// message, comment re-prompt, or a refresh on an illegal transition).
func WriteTransitionResult(c *gin.Context, result *workflow.Result) {
	if result.Accepted {
		c.JSON(http.StatusOK, result)
		return
	}
	status := http.StatusUnprocessableEntity
	switch result.ReasonCode {
	case workflow.ReasonNotAuthorized:
		status = http.StatusForbidden
	case workflow.ReasonInvalidTransition:
		status = http.StatusConflict
	}
	c.JSON(status, result)
}
