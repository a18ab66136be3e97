package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"angelone-connect/internal/broker/angelone"
	"angelone-connect/internal/broker/brokerobs"
	"angelone-connect/internal/calllog"
	"angelone-connect/internal/interfaces"
	"angelone-connect/internal/logger"
	"angelone-connect/internal/store"
	"angelone-connect/internal/types"

	"github.com/joho/godotenv"
)

// initializeSystem loads .env and initializes logger and tracer
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// loadConfig reads the config file, falling back to defaults when it does not exist
func loadConfig(ctx context.Context, path string) (*store.Config, error) {
	cfg, err := store.LoadConfig(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Warn(ctx, "Config file not found - using defaults", "path", path)
		return store.Default(), nil
	}
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	return cfg, nil
}

// compressOldJournals gzips old call journals if retention is configured
func compressOldJournals(ctx context.Context) {
	v := os.Getenv("ANGEL_LOG_RETENTION_DAYS")
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.Warn(ctx, "Ignoring invalid ANGEL_LOG_RETENTION_DAYS", "value", v)
		return
	}
	if err := calllog.CompressOlder(n); err != nil {
		logger.Warn(ctx, "Failed to compress old journals", "error", err)
	}
}

func sessionConfig(cfg *store.Config) angelone.Config {
	id := cfg.AngelOne.Identity
	return angelone.Config{
		BaseURL: cfg.AngelOne.BaseURL,
		Timeout: time.Duration(cfg.AngelOne.TimeoutSeconds) * time.Second,
		Identity: angelone.Identity{
			UserType:   id.UserType,
			SourceID:   id.SourceID,
			LocalIP:    id.LocalIP,
			PublicIP:   id.PublicIP,
			MACAddress: id.MACAddress,
		},
	}
}

// initializeBroker creates the Angel One session wrapped with observability
func initializeBroker(ctx context.Context, cfg *store.Config, creds types.Credentials) interfaces.Broker {
	logger.Info(ctx, "Using Angel One SmartAPI",
		"base_url", cfg.AngelOne.BaseURL,
		"timeout_seconds", cfg.AngelOne.TimeoutSeconds,
		"client_code", creds.ClientCode,
	)
	return brokerobs.Wrap(angelone.New(creds, sessionConfig(cfg)), creds.ClientCode)
}

// readTOTP takes the code from the flag, then ANGEL_TOTP, then prompts on in.
func readTOTP(flagValue string, in io.Reader, prompt io.Writer) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if v := os.Getenv("ANGEL_TOTP"); v != "" {
		return v, nil
	}

	fmt.Fprint(prompt, "Enter your 6-digit TOTP: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read TOTP: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", errors.New("empty TOTP")
	}
	return line, nil
}
