// internal/config/config.go
//
// Process configuration.
//
// Values come from the environment (after loading an optional .env file) with
// the defaults below:
//
//   PORT=8000                         HTTP listen port
//   LOG_LEVEL=info                    zerolog level
//   CLIENT_ORIGIN=http://localhost:8000  allowed CORS origin
//   DB_PATH=./data/chomp.db           finished-game log; empty disables it
//   MAX_ROWS=30, MAX_COLS=30          largest board accepted by /start
//   SEARCH_TIMEOUT=3s                 computer move search budget
//   SEARCH_WORKERS=0                  root moves searched in parallel (0 = NumCPU)
//   MEMO_MAX_ENTRIES=2097152          cached positions shared by all sessions
//   SESSION_COOKIE=chomp_session      session cookie name
//   SESSION_TTL=24h                   idle sessions are dropped after this
//   REQUEST_TIMEOUT=15s               per-request handler bound

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port           string
	LogLevel       string
	ClientOrigin   string
	DBPath         string
	MaxRows        int
	MaxCols        int
	SearchTimeout  time.Duration
	SearchWorkers  int
	MemoMaxEntries int
	SessionCookie  string
	SessionTTL     time.Duration
	RequestTimeout time.Duration
}

var defaults = map[string]any{
	"PORT":             "8000",
	"LOG_LEVEL":        "info",
	"CLIENT_ORIGIN":    "http://localhost:8000",
	"DB_PATH":          "./data/chomp.db",
	"MAX_ROWS":         30,
	"MAX_COLS":         30,
	"SEARCH_TIMEOUT":   "3s",
	"SEARCH_WORKERS":   0,
	"MEMO_MAX_ENTRIES": 1 << 21,
	"SESSION_COOKIE":   "chomp_session",
	"SESSION_TTL":      "24h",
	"REQUEST_TIMEOUT":  "15s",
}

// Load reads .env (if present) and the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}

	cfg := Config{
		Port:           v.GetString("PORT"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		ClientOrigin:   v.GetString("CLIENT_ORIGIN"),
		DBPath:         v.GetString("DB_PATH"),
		MaxRows:        v.GetInt("MAX_ROWS"),
		MaxCols:        v.GetInt("MAX_COLS"),
		SearchTimeout:  v.GetDuration("SEARCH_TIMEOUT"),
		SearchWorkers:  v.GetInt("SEARCH_WORKERS"),
		MemoMaxEntries: v.GetInt("MEMO_MAX_ENTRIES"),
		SessionCookie:  v.GetString("SESSION_COOKIE"),
		SessionTTL:     v.GetDuration("SESSION_TTL"),
		RequestTimeout: v.GetDuration("REQUEST_TIMEOUT"),
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("PORT must be set"))
	}
	if c.MaxRows <= 0 || c.MaxCols <= 0 {
		errs = append(errs, fmt.Errorf("MAX_ROWS and MAX_COLS must be positive, got %d and %d", c.MaxRows, c.MaxCols))
	}
	if c.SessionCookie == "" {
		errs = append(errs, errors.New("SESSION_COOKIE must be set"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout))
	}
	if c.SearchTimeout < 0 || (c.SearchTimeout > 0 && c.SearchTimeout >= c.RequestTimeout) {
		errs = append(errs, fmt.Errorf("SEARCH_TIMEOUT %s must be shorter than REQUEST_TIMEOUT %s", c.SearchTimeout, c.RequestTimeout))
	}
	return errors.Join(errs...)
}
