package config

import "time"

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort          = 5000
	defaultEnv           = envDevelopment
	defaultMongoDatabase = "portfolio"
	defaultAccessHeader  = "x-api-key"
	defaultRateWindow    = 15 * time.Minute
	defaultRateMaxProd   = 200
	defaultRateMaxDev    = 100
	defaultContactMax    = 5
	defaultLogsDir       = "logs"
	defaultImagesDir     = "public/images"
	defaultBodyLimitMB   = 10

	envDevelopment = "development"
	envProduction  = "production"
)
