package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Timestamp formats t the way every envelope reports it.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

func now() string { return Timestamp(time.Now()) }

// ListPage is the envelope for paginated content lists. The item key varies
// per resource (blogs, projects, services, teams).
func ListPage(c *gin.Context, key string, items interface{}, totalPages, currentPage int, total int64) {
	c.JSON(http.StatusOK, gin.H{
		key:           items,
		"totalPages":  totalPages,
		"currentPage": currentPage,
		"total":       total,
	})
}

// OK sends a 200 response.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created sends a 201 response.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Message sends a 200 response carrying only a message.
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// Error aborts with the standard {message, timestamp} envelope.
func Error(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message, "timestamp": now()})
}

// ValidationFailed sends a 400 with the individual field messages.
func ValidationFailed(c *gin.Context, errs []string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"message":   "Validation failed",
		"errors":    errs,
		"timestamp": now(),
	})
}

// Unauthorized sends a 401 error response.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// NotFoundMsg sends a 404 error with a custom message.
func NotFoundMsg(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// Conflict sends a 409 error response.
func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

// InternalError sends a 500 error response. The cause is only exposed when
// detail is set (development).
func InternalError(c *gin.Context, err error, detail bool) {
	body := gin.H{"message": "Internal server error", "timestamp": now()}
	if detail && err != nil {
		body["error"] = err.Error()
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, body)
}

// Unavailable aborts with a 503 carrying body as is.
func Unavailable(c *gin.Context, body gin.H) {
	c.AbortWithStatusJSON(http.StatusServiceUnavailable, body)
}
