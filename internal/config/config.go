// Package config provides functionality for managing configuration options
// for the application using command-line flags, environment variables,
// and an optional .env file.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string

	// DatabaseDSN holds the database connection string for the application.
	DatabaseDSN string

	// Config is the path to the Config file.
	Config string

	// AccessSecret signs access tokens.
	AccessSecret string

	// RefreshSecret signs refresh tokens. Must differ from AccessSecret
	// so a leaked token of one kind cannot stand in for the other.
	RefreshSecret string

	// AccessTokenTTL is the access token lifetime.
	AccessTokenTTL time.Duration

	// RefreshTokenTTL is the refresh token lifetime.
	RefreshTokenTTL time.Duration

	// UploadDir is the directory where uploaded files are stored.
	UploadDir string

	// MaxFileSize is the maximum accepted upload size in bytes.
	MaxFileSize int64

	// LogLevel sets the logging verbosity.
	LogLevel string
}

// options holds the current configuration values.
var options = &Options{
	AccessTokenTTL:  24 * time.Hour,
	RefreshTokenTTL: 7 * 24 * time.Hour,
	MaxFileSize:     5 * 1024 * 1024,
}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Port, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.UploadDir, "u", "./uploads", "upload directory")
	flag.StringVar(&options.LogLevel, "l", "info", "log level")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags, the optional .env and JSON config
// files, and environment variables to set configuration values. It returns
// a pointer to the Options struct containing the parsed configuration values.
// Environment variables take precedence over flags and file values.
func Parse() *Options {
	flag.Parse()

	// Load .env if present; real environment variables are not overridden.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: error loading .env file: %v", err)
	}

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Port = serverAddress
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		options.DatabaseDSN = dsn
	}
	if secret := os.Getenv("JWT_ACCESS_SECRET"); secret != "" {
		options.AccessSecret = secret
	}
	if secret := os.Getenv("JWT_REFRESH_SECRET"); secret != "" {
		options.RefreshSecret = secret
	}
	if ttl := os.Getenv("JWT_ACCESS_EXPIRES_IN"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			log.Fatalf("invalid JWT_ACCESS_EXPIRES_IN: %v", err)
		}
		options.AccessTokenTTL = d
	}
	if ttl := os.Getenv("JWT_REFRESH_EXPIRES_IN"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			log.Fatalf("invalid JWT_REFRESH_EXPIRES_IN: %v", err)
		}
		options.RefreshTokenTTL = d
	}
	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		options.UploadDir = dir
	}
	if size := os.Getenv("MAX_FILE_SIZE"); size != "" {
		n, err := strconv.ParseInt(size, 10, 64)
		if err != nil {
			log.Fatalf("invalid MAX_FILE_SIZE: %v", err)
		}
		options.MaxFileSize = n
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		options.LogLevel = level
	}

	return options
}
