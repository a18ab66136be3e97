package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"angelone-connect/internal/logger"
	"angelone-connect/internal/store"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so that deferred shutdown always flushes spans.
// Logs and spans go to stderr; stdout carries only the JSON report.
func run() int {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	totpFlag := flag.String("totp", "", "TOTP code (defaults to ANGEL_TOTP or a prompt)")
	csvPath := flag.String("csv", "", "write the fetched candles to this CSV file")
	skipCandles := flag.Bool("skip-candles", false, "do not fetch historical candles")
	flag.Parse()

	if err := initializeSystem(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := logger.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintln(os.Stderr, "trace shutdown:", err)
		}
	}()

	cfg, err := loadConfig(ctx, *configPath)
	if err != nil {
		return 1
	}

	creds, err := store.LoadCredentials()
	if err != nil {
		logger.ErrorWithErr(ctx, "Cannot start without credentials", err)
		return 1
	}

	compressOldJournals(ctx)

	brk := initializeBroker(ctx, cfg, creds)

	totp, err := readTOTP(*totpFlag, os.Stdin, os.Stderr)
	if err != nil {
		logger.ErrorWithErr(ctx, "Cannot read TOTP", err)
		return 1
	}

	rep, err := runDemo(ctx, brk, cfg, runOptions{
		TOTP:        totp,
		CSVPath:     *csvPath,
		SkipCandles: *skipCandles,
		Now:         time.Now(),
	})

	if rep != nil {
		b, _ := json.MarshalIndent(rep, "", "  ")
		fmt.Println(string(b))
	}
	if err != nil {
		logger.ErrorWithErr(ctx, "Run aborted", err)
		return 1
	}
	return 0
}
