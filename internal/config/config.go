package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress         string
	DatabaseURI        string
	UploadDir          string
	UploadNaming       string
	MaxUploadBytes     int64
	HashAlgorithm      string
	HashCost           int
	CORSAllowedOrigins []string
	LogLevel           string
	ShutdownTimeout    time.Duration
	S3                 S3Config
}

// S3Config configures the object storage attachment backend.
// It is used only when Endpoint is set.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Enabled reports whether attachments go to object storage.
func (c S3Config) Enabled() bool {
	return c.Endpoint != ""
}

const (
	NamingRandom   = "random"
	NamingOriginal = "original"

	defaultRunAddress      = ":6001"
	defaultUploadDir       = "public/assets"
	defaultUploadNaming    = NamingRandom
	defaultMaxUploadBytes  = 30 << 20
	defaultHashAlgorithm   = "argon2id"
	defaultCORSOrigins     = "*"
	defaultLogLevel        = "info"
	defaultShutdownTimeout = 10 * time.Second
	defaultS3Bucket        = "assets"

	maxArgon2Cost = 16
)

// Load parses configuration from .env, environment variables and flags.
func Load() (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	return load(os.Args[1:], os.LookupEnv)
}

func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:      runAddress(lookup),
		DatabaseURI:     firstString(lookup, "", "MONGO_URL", "DATABASE_URI"),
		UploadDir:       getString(lookup, "UPLOAD_DIR", defaultUploadDir),
		UploadNaming:    getString(lookup, "UPLOAD_NAMING", defaultUploadNaming),
		MaxUploadBytes:  int64(getInt(lookup, "MAX_UPLOAD_BYTES", defaultMaxUploadBytes)),
		HashAlgorithm:   getString(lookup, "HASH_ALGORITHM", defaultHashAlgorithm),
		HashCost:        getInt(lookup, "HASH_COST", 0),
		LogLevel:        getString(lookup, "LOG_LEVEL", defaultLogLevel),
		ShutdownTimeout: getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		S3: S3Config{
			Endpoint:  getString(lookup, "S3_ENDPOINT", ""),
			AccessKey: getString(lookup, "S3_ACCESS_KEY", ""),
			SecretKey: getString(lookup, "S3_SECRET_KEY", ""),
			Bucket:    getString(lookup, "S3_BUCKET", defaultS3Bucket),
			UseSSL:    getBool(lookup, "S3_USE_SSL", false),
		},
	}

	fs := flag.NewFlagSet("profilehub", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		corsOrigins        = getString(lookup, "CORS_ALLOWED_ORIGINS", defaultCORSOrigins)
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "User store DSN (postgres:// or mongodb://)")
	fs.StringVar(&cfg.UploadDir, "upload-dir", cfg.UploadDir, "Directory for stored attachments")
	fs.StringVar(&cfg.UploadNaming, "upload-naming", cfg.UploadNaming, "Attachment naming policy: random or original")
	fs.Int64Var(&cfg.MaxUploadBytes, "max-upload", cfg.MaxUploadBytes, "Maximum request body size in bytes")
	fs.StringVar(&cfg.HashAlgorithm, "hash-algorithm", cfg.HashAlgorithm, "Password hash algorithm: argon2id or bcrypt")
	fs.IntVar(&cfg.HashCost, "hash-cost", cfg.HashCost, "Password hash work factor, 0 for default")
	fs.StringVar(&corsOrigins, "cors-origins", corsOrigins, "Comma separated allowed CORS origins")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	cfg.CORSAllowedOrigins = splitList(corsOrigins)
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{defaultCORSOrigins}
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}

	if cfg.HashCost < 0 {
		cfg.HashCost = 0
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.UploadDir == "" {
		cfg.UploadDir = defaultUploadDir
	}

	cfg.UploadNaming = strings.ToLower(cfg.UploadNaming)
	if cfg.UploadNaming != NamingRandom && cfg.UploadNaming != NamingOriginal {
		return nil, fmt.Errorf("invalid upload naming %q", cfg.UploadNaming)
	}

	cfg.HashAlgorithm = strings.ToLower(cfg.HashAlgorithm)
	if cfg.HashAlgorithm != "argon2id" && cfg.HashAlgorithm != "bcrypt" {
		return nil, fmt.Errorf("invalid hash algorithm %q", cfg.HashAlgorithm)
	}
	if err := checkHashCost(cfg.HashAlgorithm, cfg.HashCost); err != nil {
		return nil, err
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

// Zero keeps the algorithm default.
func checkHashCost(algorithm string, cost int) error {
	if cost == 0 {
		return nil
	}
	lo, hi := 1, maxArgon2Cost
	if algorithm == "bcrypt" {
		lo, hi = bcrypt.MinCost, bcrypt.MaxCost
	}
	if cost < lo || cost > hi {
		return fmt.Errorf("invalid hash cost %d for %s: want %d..%d", cost, algorithm, lo, hi)
	}
	return nil
}

// PORT follows the hosting convention of a bare port number.
func runAddress(lookup envLookup) string {
	if v, ok := lookup("RUN_ADDRESS"); ok && v != "" {
		return v
	}
	if v, ok := lookup("PORT"); ok && v != "" {
		if strings.Contains(v, ":") {
			return v
		}
		return ":" + v
	}
	return defaultRunAddress
}

func firstString(lookup envLookup, def string, keys ...string) string {
	for _, key := range keys {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getBool(lookup envLookup, key string, def bool) bool {
	if v, ok := lookup(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
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
