package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, "informs", cfg.Database.Name)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.False(t, cfg.Reports.CacheEnabled)
	assert.Equal(t, 5*time.Minute, cfg.Reports.CacheTTL)
	assert.Equal(t, 1, cfg.Reports.WarmupWorkers)
	assert.False(t, cfg.Auth.Enabled)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("API_PREFIX", "/")
	v.Set("REPORT_CACHE_TTL", "not-a-duration")
	v.Set("JWT_EXPIRATION", "2h")
	v.Set("ALLOWED_ORIGINS", "http://localhost:5173, ,https://informs.example")

	cfg := fromViper(v)
	assert.Equal(t, "", cfg.APIPrefix)
	assert.Equal(t, 5*time.Minute, cfg.Reports.CacheTTL)
	assert.Equal(t, 2*time.Hour, cfg.Auth.Expiration)
	assert.Equal(t, []string{"http://localhost:5173", "https://informs.example"}, cfg.CORS.AllowedOrigins)
}
