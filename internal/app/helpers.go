package app

import (
	"github.com/gin-gonic/gin"
	"github.com/mx-space/portfolio/internal/config"
)

func applyRuntimeSettings(cfg *config.AppConfig) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		return
	}
	gin.SetMode(gin.DebugMode)
	gin.DebugPrintRouteFunc = func(string, string, string, int) {}
}

// frontendOrigins merges the gate's frontend origins with the extra CORS origins.
func frontendOrigins(cfg *config.AppConfig) []string {
	out := make([]string, 0, len(cfg.Access.FrontendOrigins)+len(cfg.AllowedOrigins))
	out = append(out, cfg.Access.FrontendOrigins...)
	return append(out, cfg.AllowedOrigins...)
}
