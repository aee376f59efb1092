// Package config loads gateway configuration from the environment with the
// GATEWAY_ prefix, e.g. GATEWAY_ADDR or GATEWAY_REMOTE_BASE_URL.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the booking gateway.
type Config struct {
	Addr   string
	AppEnv string
	Remote RemoteConfig
	Redis  RedisConfig
	Kafka  KafkaConfig
}

// RemoteConfig points at the courier backend.
type RemoteConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// Timeout returns the remote call timeout as a duration.
func (r RemoteConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSeconds) * time.Second
}

// RedisConfig configures the optional Redis used for sessions and the
// tracking cache. An empty address disables Redis; sessions then live
// in process memory and tracking reads always hit the backend.
type RedisConfig struct {
	Addr               string
	SessionTTLMinutes  int
	TrackingTTLSeconds int
}

// Enabled reports whether Redis is configured.
func (r RedisConfig) Enabled() bool { return r.Addr != "" }

// SessionTTL returns how long stored sessions are kept.
func (r RedisConfig) SessionTTL() time.Duration {
	return time.Duration(r.SessionTTLMinutes) * time.Minute
}

// TrackingTTL returns how long tracking reads may be served from cache.
func (r RedisConfig) TrackingTTL() time.Duration {
	return time.Duration(r.TrackingTTLSeconds) * time.Second
}

// KafkaConfig configures the optional activity event producer. No brokers
// means no events are published.
type KafkaConfig struct {
	Brokers       []string
	ActivityTopic string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("GATEWAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("addr", ":8081")
	v.SetDefault("app_env", "development")
	v.SetDefault("remote.base_url", "http://localhost:8080/api")
	v.SetDefault("remote.timeout_seconds", 10)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.session_ttl_minutes", 12*60)
	v.SetDefault("redis.tracking_ttl_seconds", 30)
	v.SetDefault("kafka.brokers", "")
	v.SetDefault("kafka.activity_topic", "gateway.activity")

	cfg := &Config{
		Addr:   v.GetString("addr"),
		AppEnv: v.GetString("app_env"),
		Remote: RemoteConfig{
			BaseURL:        v.GetString("remote.base_url"),
			TimeoutSeconds: v.GetInt("remote.timeout_seconds"),
		},
		Redis: RedisConfig{
			Addr:               v.GetString("redis.addr"),
			SessionTTLMinutes:  v.GetInt("redis.session_ttl_minutes"),
			TrackingTTLSeconds: v.GetInt("redis.tracking_ttl_seconds"),
		},
		Kafka: KafkaConfig{
			Brokers:       splitList(v.GetString("kafka.brokers")),
			ActivityTopic: v.GetString("kafka.activity_topic"),
		},
	}

	if cfg.Remote.BaseURL == "" {
		return nil, fmt.Errorf("remote base URL is required")
	}
	return cfg, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
