package app

import (
	"time"

	"github.com/codeforma/codeforma-backend/internal/platform/envutil"
)

type Config struct {
	Port            string
	PublicBaseURL   string
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	ContactNotifyEmail string
	ContactFromEmail   string

	MetricsAddr string
	RedisAddr   string

	Environment string
	Version     string
}

func LoadConfig() Config {
	return Config{
		Port:            envutil.String("PORT", "8080"),
		PublicBaseURL:   envutil.String("PUBLIC_BASE_URL", "http://localhost:8080"),
		JWTSecretKey:    envutil.String("JWT_SECRET_KEY", "defaultsecret"),
		AccessTokenTTL:  time.Duration(envutil.Int("ACCESS_TOKEN_TTL", 3600)) * time.Second,
		RefreshTokenTTL: time.Duration(envutil.Int("REFRESH_TOKEN_TTL", 86400)) * time.Second,

		ContactNotifyEmail: envutil.String("CONTACT_NOTIFY_EMAIL", ""),
		ContactFromEmail:   envutil.String("CONTACT_FROM_EMAIL", "noreply@codeforma.dev"),

		MetricsAddr: envutil.String("METRICS_ADDR", ":9091"),
		RedisAddr:   envutil.String("REDIS_ADDR", ""),

		Environment: envutil.String("APP_ENV", "development"),
		Version:     envutil.String("APP_VERSION", "dev"),
	}
}
