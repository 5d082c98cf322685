// Package config provides functionality for managing configuration options
// for the application using command-line flags and environment variables.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string

	// DatabaseDSN holds the database connection string for the service.
	DatabaseDSN string

	// UserServiceURL is the base URL of the identity service.
	UserServiceURL string

	// TaskServiceURL is the base URL of the task service.
	TaskServiceURL string

	// JWTSecret is the shared symmetric signing secret.
	JWTSecret string

	// JWTAlgorithm names the signing algorithm (default HS256).
	JWTAlgorithm string

	// TokenTTL is the lifetime of issued access tokens.
	TokenTTL time.Duration

	// Config is the path to the Config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Port, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.UserServiceURL, "u", "http://localhost:8000", "user service base URL")
	flag.StringVar(&options.TaskServiceURL, "t", "http://localhost:8001", "task service base URL")
	flag.StringVar(&options.JWTSecret, "s", "your-secret-key-change-in-production", "JWT signing secret")
	flag.StringVar(&options.JWTAlgorithm, "alg", "HS256", "JWT signing algorithm")
	flag.DurationVar(&options.TokenTTL, "ttl", 30*time.Minute, "access token lifetime")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	// Override flags with environment variables if set
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
	if dsn := os.Getenv("DB_URL"); dsn != "" {
		options.DatabaseDSN = dsn
	}
	if userURL := os.Getenv("USER_SERVICE_URL"); userURL != "" {
		options.UserServiceURL = userURL
	}
	if taskURL := os.Getenv("TASK_SERVICE_URL"); taskURL != "" {
		options.TaskServiceURL = taskURL
	}
	if secret := os.Getenv("JWT_SECRET_KEY"); secret != "" {
		options.JWTSecret = secret
	}
	if alg := os.Getenv("JWT_ALGORITHM"); alg != "" {
		options.JWTAlgorithm = alg
	}
	if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
		parsed, err := time.ParseDuration(ttl)
		if err != nil {
			log.Fatalf("error while parsing TOKEN_TTL: %v", err)
		}
		options.TokenTTL = parsed
	}

	return options
}
