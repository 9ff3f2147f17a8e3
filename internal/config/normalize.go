package config

import "strings"

func normalize(cfg *AppConfig) {
	cfg.Env = normalizeEnv(cfg.Env)
	cfg.Access.Header = normalizeHeader(cfg.Access.Header, defaultAccessHeader)
	cfg.RateLimit.APIKeyHeader = normalizeHeader(cfg.RateLimit.APIKeyHeader, cfg.Access.Header)
	cfg.Access.FrontendOrigins = normalizeOrigins(cfg.Access.FrontendOrigins)
	cfg.AllowedOrigins = normalizeOrigins(cfg.AllowedOrigins)
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = append([]string(nil), cfg.Access.FrontendOrigins...)
	}
	if cfg.RateLimit.Max == 0 {
		if cfg.IsProduction() {
			cfg.RateLimit.Max = defaultRateMaxProd
		} else {
			cfg.RateLimit.Max = defaultRateMaxDev
		}
	}
	if cfg.BodyLimitMB <= 0 {
		cfg.BodyLimitMB = defaultBodyLimitMB
	}
	if p := strings.TrimSpace(cfg.Metrics.Path); p == "" || !strings.HasPrefix(p, "/") {
		cfg.Metrics.Path = "/metrics"
	}
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
}

// normalizeOrigins trims entries and drops trailing slashes so
// "https://example.com/" and "https://example.com" compare equal.
func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}

func normalizeEnv(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "prod", envProduction:
		return envProduction
	case "", "dev":
		return envDevelopment
	default:
		return strings.ToLower(strings.TrimSpace(env))
	}
}

func normalizeHeader(header, fallback string) string {
	h := strings.ToLower(strings.TrimSpace(header))
	if h == "" {
		return fallback
	}
	return h
}
