package handler

import (
	"errors"
	"net/http"

	"github.com/Kavyashree-BK/ismart-agreement-sub000/middleware"
	"github.com/Kavyashree-BK/ismart-agreement-sub000/service"
	"github.com/gin-gonic/gin"
)

// sessionFrom builds the workflow actor from the authenticated request.
func sessionFrom(c *gin.Context) service.Session {
	return service.Session{
		Username: middleware.GetUsername(c),
		Role:     middleware.GetRole(c),
	}
}

// writeServiceError maps workflow/store errors to JSON responses. Anything
// that is not a service.Error is a bug and becomes a 500.
func writeServiceError(c *gin.Context, err error) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		body := gin.H{"error": svcErr.Message, "kind": string(svcErr.Kind)}
		if len(svcErr.Fields) > 0 {
			body["fields"] = svcErr.Fields
		}
		c.JSON(svcErr.HTTPStatus(), body)
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
