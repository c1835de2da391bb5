package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// loadDotEnv loads environment variables from .env when present.
// Existing process environment variables are not overridden.
func loadDotEnv() error {
	err := godotenv.Load()
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("load .env: %w", err)
}

// listenAddr returns the HTTP listen address, CALC_ADDR or ":8080".
func listenAddr() string {
	if addr := os.Getenv("CALC_ADDR"); addr != "" {
		return addr
	}
	return ":8080"
}

// sessionTTL returns the idle-session TTL, CALC_SESSION_TTL (a Go duration
// string) or the store default.
func sessionTTL() (time.Duration, error) {
	raw := os.Getenv("CALC_SESSION_TTL")
	if raw == "" {
		return 0, nil
	}

	ttl, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse CALC_SESSION_TTL: %w", err)
	}
	if ttl <= 0 {
		return 0, fmt.Errorf("CALC_SESSION_TTL must be positive, got %s", ttl)
	}
	return ttl, nil
}
