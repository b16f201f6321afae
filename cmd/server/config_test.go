package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		port:        8080,
		databaseURL: "postgres://localhost/undercover",
		jwtSecret:   "secret",
		guestTTL:    time.Hour,
		hostTimeout: 30,
		tiePolicy:   "no_elimination",
		rateLimit:   1,
		rateBurst:   5,
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name  string
		tweak func(*Config)
		ok    bool
	}{
		{name: "defaults", tweak: func(*Config) {}, ok: true},
		{name: "port out of range", tweak: func(c *Config) { c.port = 70000 }},
		{name: "no database", tweak: func(c *Config) { c.databaseURL = "" }},
		{name: "no secret", tweak: func(c *Config) { c.jwtSecret = "" }},
		{name: "zero host timeout", tweak: func(c *Config) { c.hostTimeout = 0 }},
		{name: "zero guest ttl", tweak: func(c *Config) { c.guestTTL = 0 }},
		{name: "unknown tie policy", tweak: func(c *Config) { c.tiePolicy = "coin_flip" }},
		{name: "empty tie policy", tweak: func(c *Config) { c.tiePolicy = "" }, ok: true},
		{name: "no burst", tweak: func(c *Config) { c.rateBurst = 0 }},
		{name: "explicit origin", tweak: func(c *Config) { c.corsOrigins = []string{"https://play.example.com"} }, ok: true},
		{name: "wildcard origin", tweak: func(c *Config) { c.corsOrigins = []string{"*"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.tweak(&cfg)
			err := cfg.validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestConfigEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("HOST_TIMEOUT_SECONDS", "45")
	t.Setenv("UNDERCOVER_TIE_POLICY", "lowest_id")
	t.Setenv("UNDERCOVER_REVEAL_GATE", "true")

	var cfg Config
	cmd := newCmd(&cfg)

	assert.Equal(t, 9090, cfg.port)
	assert.Equal(t, 45, cfg.hostTimeout)
	assert.Equal(t, "lowest_id", cfg.tiePolicy)
	assert.True(t, cfg.revealGate)
	assert.Equal(t, 24*time.Hour, cfg.guestTTL)

	require.NoError(t, cmd.ParseFlags([]string{"--port", "7000"}))
	assert.Equal(t, 7000, cfg.port, "flags win over the environment")
}
