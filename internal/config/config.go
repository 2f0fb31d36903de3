// Package config loads application configuration from environment
// variables. Required variables are enforced at startup; optional
// ingestion tuning falls back to defaults.
package config

import (
	"log"
	"os"
	"time"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable.
type Config struct {
	Env       string // application environment (e.g. "dev", "prod")
	Port      string // HTTP port to listen on
	DBUser    string // database username
	DBPass    string // database password (optional)
	DBHost    string // database host address
	DBPort    string // database port number
	DBName    string // database name
	JWTSecret string // secret verifying service tokens on mutating routes

	// Ingestion tuning (all optional).
	IngestWorkers int           // batch fan-out width; 1 = sequential
	OracleURL     string        // external interpretation endpoint; empty disables it
	OracleTimeout time.Duration // bound on each oracle call
	RulesFile     string        // YAML file overriding section classification bands
}

// Load reads configuration values from environment variables. Missing
// required variables cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:           must("APP_ENV"),
		Port:          must("APP_PORT"),
		DBUser:        must("DB_USER"),
		DBPass:        os.Getenv("DB_PASS"),
		DBHost:        must("DB_HOST"),
		DBPort:        must("DB_PORT"),
		DBName:        must("DB_NAME"),
		JWTSecret:     must("JWT_SECRET"),
		IngestWorkers: envInt("INGEST_WORKERS", 1),
		OracleURL:     os.Getenv("ORACLE_URL"),
		OracleTimeout: envDur("ORACLE_TIMEOUT", 5*time.Second),
		RulesFile:     os.Getenv("SECTION_RULES_FILE"),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
