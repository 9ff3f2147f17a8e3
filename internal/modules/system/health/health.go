// Package health reports process and database liveness.
package health

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/portfolio/internal/pkg/response"
	"go.uber.org/zap"
)

const pingTimeout = 3 * time.Second

// Database is the part of the store handle the health check reads.
type Database interface {
	Ping(ctx context.Context) error
	State() string
	Hosts() []string
	Name() string
}

type Handler struct {
	db  Database
	env string
	log *zap.Logger
}

func NewHandler(db Database, env string, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{db: db, env: env, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.check)
}

func (h *Handler) check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	pingErr := h.db.Ping(ctx)
	db := gin.H{
		"status": h.db.State(),
		"test":   "responsive",
		"host":   strings.Join(h.db.Hosts(), ","),
		"name":   h.db.Name(),
	}
	body := gin.H{
		"status":      "OK",
		"message":     "Server is running",
		"database":    db,
		"environment": h.env,
		"timestamp":   response.Timestamp(time.Now()),
	}
	if pingErr != nil {
		h.log.Warn("health ping failed", zap.Error(pingErr))
		db["test"] = "unresponsive"
		body["status"] = "ERROR"
		body["message"] = "Database is not reachable"
		response.Unavailable(c, body)
		return
	}
	response.OK(c, body)
}
