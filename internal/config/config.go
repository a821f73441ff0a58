package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/polkiloo/eshop/internal/domain/model"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress         string
	DatabaseURI        string
	AuthSecret         string
	TokenTTL           time.Duration
	ShutdownTimeout    time.Duration
	LogLevel           slog.Level
	DefaultOrderStatus int64
	StatusTransitions  model.Transitions
	AdminLogins        []string
}

const (
	defaultRunAddress      = ":8080"
	defaultAuthSecret      = "change-me-in-production"
	defaultTokenTTL        = 24 * time.Hour
	defaultShutdownTimeout = 10 * time.Second
	defaultLogLevel        = "info"
	defaultOrderStatus     = model.StatusNew
	defaultEnvFile         = ".env"
	envFileKey             = "ENV_FILE"
)

// Load parses configuration from flags, environment variables and an optional .env file.
// Process environment wins over values read from the file.
func Load() (*Config, error) {
	fileEnv, err := readEnvFile(getString(os.LookupEnv, envFileKey, defaultEnvFile))
	if err != nil {
		return nil, err
	}
	return load(os.Args[1:], chain(os.LookupEnv, mapLookup(fileEnv)))
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:         getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:        getString(lookup, "DATABASE_URI", ""),
		AuthSecret:         getString(lookup, "AUTH_SECRET", defaultAuthSecret),
		TokenTTL:           getDuration(lookup, "TOKEN_TTL", defaultTokenTTL),
		ShutdownTimeout:    getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		DefaultOrderStatus: getInt64(lookup, "DEFAULT_ORDER_STATUS", defaultOrderStatus),
	}

	flags := flag.NewFlagSet("eshop", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var (
		tokenTTLStr        = cfg.TokenTTL.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		logLevelStr        = getString(lookup, "LOG_LEVEL", defaultLogLevel)
		transitionsStr     = getString(lookup, "ORDER_STATUS_TRANSITIONS", "")
		adminLoginsStr     = getString(lookup, "ADMIN_LOGINS", "")
	)

	flags.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	flags.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	flags.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "Secret for signing auth tokens")
	flags.StringVar(&tokenTTLStr, "token-ttl", tokenTTLStr, "Lifetime of issued auth tokens")
	flags.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	flags.StringVar(&logLevelStr, "log-level", logLevelStr, "Log level: debug, info, warn, error")
	flags.Int64Var(&cfg.DefaultOrderStatus, "default-status", cfg.DefaultOrderStatus, "Status assigned to new orders")
	flags.StringVar(&transitionsStr, "status-transitions", transitionsStr, "Allowed status moves, e.g. 1:2,5;2:3")
	flags.StringVar(&adminLoginsStr, "admin-logins", adminLoginsStr, "Comma separated logins registered with the admin role")

	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.TokenTTL, err = time.ParseDuration(tokenTTLStr); err != nil {
		return nil, fmt.Errorf("invalid token ttl: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if err = cfg.LogLevel.UnmarshalText([]byte(logLevelStr)); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	if cfg.StatusTransitions, err = ParseTransitions(transitionsStr); err != nil {
		return nil, fmt.Errorf("invalid status transitions: %w", err)
	}

	cfg.AdminLogins = splitList(adminLoginsStr)

	if secretFile, ok := lookup("AUTH_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read auth secret file: %w", err)
		}
		cfg.AuthSecret = strings.TrimSpace(string(content))
	}

	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DefaultOrderStatus <= 0 {
		cfg.DefaultOrderStatus = defaultOrderStatus
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

// ParseTransitions reads a table like "1:2,5;2:3,5;3:4". An empty string yields a permissive table.
func ParseTransitions(raw string) (model.Transitions, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	table := make(model.Transitions)
	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		from, targets, ok := strings.Cut(entry, ":")
		if !ok {
			return nil, fmt.Errorf("entry %q: missing ':'", entry)
		}
		fromID, err := parseStatusID(from)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", entry, err)
		}
		for _, target := range strings.Split(targets, ",") {
			if strings.TrimSpace(target) == "" {
				continue
			}
			toID, err := parseStatusID(target)
			if err != nil {
				return nil, fmt.Errorf("entry %q: %w", entry, err)
			}
			table[fromID] = append(table[fromID], toID)
		}
		if _, ok := table[fromID]; !ok {
			// a status listed with no targets is terminal
			table[fromID] = []int64{}
		}
	}
	return table, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseStatusID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("bad status id %q", s)
	}
	return id, nil
}

func readEnvFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return values, nil
}

func mapLookup(values map[string]string) envLookup {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func chain(lookups ...envLookup) envLookup {
	return func(key string) (string, bool) {
		for _, l := range lookups {
			if v, ok := l(key); ok && v != "" {
				return v, true
			}
		}
		return "", false
	}
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt64(lookup envLookup, key string, def int64) int64 {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
