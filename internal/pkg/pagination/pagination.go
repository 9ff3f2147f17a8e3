package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Query holds parsed pagination parameters.
type Query struct {
	Page  int
	Limit int
}

// FromContext extracts page and limit from the query string. Missing,
// non-numeric or non-positive values fall back to the defaults.
func FromContext(c *gin.Context) Query {
	return Parse(c.Query("page"), c.Query("limit"))
}

// Parse is FromContext on raw values.
func Parse(rawPage, rawLimit string) Query {
	page := parseIntOr(rawPage, DefaultPage)
	limit := parseIntOr(rawLimit, DefaultLimit)

	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Query{Page: page, Limit: limit}
}

// Skip is the number of documents before the requested page.
func (q Query) Skip() int64 {
	return int64(q.Page-1) * int64(q.Limit)
}

// TotalPages is ceil(total / limit).
func (q Query) TotalPages(total int64) int {
	return int((total + int64(q.Limit) - 1) / int64(q.Limit))
}

func parseIntOr(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
