package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// The contact routes answer with a {success, ...} envelope.

// Pagination is the metadata of a paginated contact listing.
type Pagination struct {
	Current int   `json:"current"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
}

// Success sends {success:true, data, timestamp} with an optional message.
func Success(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{"success": true, "timestamp": now()}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// SuccessPaged sends a paginated {success:true} listing.
func SuccessPaged(c *gin.Context, data interface{}, p Pagination) {
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       data,
		"pagination": p,
		"timestamp":  now(),
	})
}

// Failure aborts with {success:false, message, timestamp}.
func Failure(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message, "timestamp": now()})
}

// FailureErrors aborts with a 400 listing every validation message.
func FailureErrors(c *gin.Context, message string, errs []string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"success":   false,
		"message":   message,
		"errors":    errs,
		"timestamp": now(),
	})
}
