package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/thereayou/undercover/internal/game"
	"github.com/thereayou/undercover/internal/logger"
)

type Config struct {
	port          int
	databaseURL   string
	redisURL      string
	jwtSecret     string
	guestTTL      time.Duration
	hostTimeout   int
	tiePolicy     string
	revealGate    bool
	wordsFile     string
	logLevel      string
	logPretty     bool
	corsOrigins   []string
	secureCookies bool
	rateLimit     float64
	rateBurst     int
}

func (c *Config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.databaseURL == "" {
		return errors.New("--database-url (DATABASE_URL) is required")
	}
	if c.jwtSecret == "" {
		return errors.New("--jwt-secret (JWT_SECRET) is required")
	}
	if c.hostTimeout < 1 {
		return fmt.Errorf("invalid host timeout: %ds", c.hostTimeout)
	}
	if c.guestTTL <= 0 {
		return fmt.Errorf("invalid guest token lifetime: %s", c.guestTTL)
	}
	if _, err := game.ParseTiePolicy(c.tiePolicy); err != nil {
		return err
	}
	for _, origin := range c.corsOrigins {
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("invalid cors origin %q: want an explicit http(s) origin", origin)
		}
	}
	if c.rateLimit <= 0 || c.rateBurst < 1 {
		return fmt.Errorf("invalid rate limit: %v/s burst %d", c.rateLimit, c.rateBurst)
	}
	return nil
}

// legacyEnv lists the unprefixed variable names the server has always read.
var legacyEnv = map[string]string{
	"port":                 "PORT",
	"database-url":         "DATABASE_URL",
	"redis-url":            "REDIS_URL",
	"jwt-secret":           "JWT_SECRET",
	"host-timeout-seconds": "HOST_TIMEOUT_SECONDS",
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("UNDERCOVER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "undercover",
		Short:         "Game server for Undercover, the social deduction party game.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			if err := logger.Setup(cfg.logLevel, cfg.logPretty); err != nil {
				return err
			}
			srv, err := NewServer(cfg)
			if err != nil {
				return err
			}
			return srv.Run(cmd.Context())
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: PORT)")
	fs.StringVar(&cfg.databaseURL, "database-url", "", "postgres connection string (env: DATABASE_URL)")
	fs.StringVar(&cfg.redisURL, "redis-url", "", "redis url for shared state revisions, in-memory when empty (env: REDIS_URL)")
	fs.StringVar(&cfg.jwtSecret, "jwt-secret", "", "secret signing guest tokens (env: JWT_SECRET)")
	fs.DurationVar(&cfg.guestTTL, "guest-ttl", 24*time.Hour, "lifetime of guest tokens and cookies (env: UNDERCOVER_GUEST_TTL)")
	fs.IntVar(&cfg.hostTimeout, "host-timeout-seconds", int(game.DefaultHostTimeout/time.Second), "seconds without a ping before the host is replaced (env: HOST_TIMEOUT_SECONDS)")
	fs.StringVar(&cfg.tiePolicy, "tie-policy", string(game.TieNoElimination), "what a tied vote does: no_elimination or lowest_id (env: UNDERCOVER_TIE_POLICY)")
	fs.BoolVar(&cfg.revealGate, "reveal-gate", false, "wait for every player to mark ready before describing (env: UNDERCOVER_REVEAL_GATE)")
	fs.StringVar(&cfg.wordsFile, "words-file", "", "JSON file of word pairs, built-in list when empty (env: UNDERCOVER_WORDS_FILE)")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "trace, debug, info, warn or error (env: UNDERCOVER_LOG_LEVEL)")
	fs.BoolVar(&cfg.logPretty, "log-pretty", false, "human readable console logs (env: UNDERCOVER_LOG_PRETTY)")
	fs.StringSliceVar(&cfg.corsOrigins, "cors-origins", nil, "browser origins allowed to call the API with cookies, same-origin only when empty (env: UNDERCOVER_CORS_ORIGINS)")
	fs.BoolVar(&cfg.secureCookies, "secure-cookies", false, "mark guest cookies Secure (env: UNDERCOVER_SECURE_COOKIES)")
	fs.Float64Var(&cfg.rateLimit, "rate-limit", 1, "create/join requests per second per IP (env: UNDERCOVER_RATE_LIMIT)")
	fs.IntVar(&cfg.rateBurst, "rate-burst", 5, "create/join burst per IP (env: UNDERCOVER_RATE_BURST)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		if legacy, ok := legacyEnv[f.Name]; ok {
			_ = v.BindEnv(f.Name, "UNDERCOVER_"+strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_")), legacy)
		} else {
			_ = v.BindEnv(f.Name)
		}
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, v.GetString(f.Name))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("undercover v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
