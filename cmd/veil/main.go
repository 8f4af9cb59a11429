package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/veil-tools/veil/cmd/veil/internal/config"
	"github.com/veil-tools/veil/cmd/veil/internal/constants"
	"github.com/veil-tools/veil/cmd/veil/internal/database"
	"github.com/veil-tools/veil/cmd/veil/internal/dump"
	"github.com/veil-tools/veil/cmd/veil/internal/logging"
	"github.com/veil-tools/veil/cmd/veil/internal/preflight"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: /etc/veil.conf)")
	table := flag.String("table", "", "table to dump (overrides config)")
	listTables := flag.Bool("list-tables", false, "list tables in the database and exit")
	noFile := flag.Bool("no-file", false, "log to stdout only, skip the dump file")
	flag.Parse()

	// Banner and progress go to stderr so stdout stays a clean dump stream
	fmt.Fprintf(os.Stderr, "veil %s - redacting table dumper\n", config.Version())

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *table != "" {
		cfg.Dump.Table = *table
	}

	if !*noFile {
		if _, err := preflight.EnsureDirs([]string{cfg.Logging.Path}); err != nil {
			fmt.Fprintf(os.Stderr, "Preflight checks failed: %v\n", err)
			os.Exit(1)
		}
	}

	driver, err := database.NewDriver(database.Config{
		ConnectionString: config.ConnectionString(cfg.Database),
		MaxOpenConns:     2,
		MaxIdleConns:     1,
		ConnMaxLifetime:  time.Hour,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create database driver: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, constants.DefaultQueryTimeout)
	err = driver.Connect(connectCtx)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer driver.Close()

	if *listTables {
		tables, err := driver.ListTables(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list tables: %v\n", err)
			os.Exit(1)
		}
		for _, t := range tables {
			fmt.Println(t)
		}
		return
	}

	logger := logging.New(logging.Config{
		Level:           logging.Level(cfg.Logging.Level),
		FilePath:        dumpFilePath(cfg, *noFile),
		DualOutput:      !*noFile,
		SensitiveFields: sensitiveFields(cfg),
	})
	defer logger.Close()

	dumper := dump.New(driver, logger, cfg.Dump.Table)
	count, err := dumper.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Dump failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Dumped %d row(s) from %s\n", count, cfg.Dump.Table)
}

// dumpFilePath names the per-run dump file with a sortable ULID, or returns
// "" when file output is disabled.
func dumpFilePath(cfg *config.AppConfig, noFile bool) string {
	if noFile {
		return ""
	}
	return filepath.Join(cfg.Logging.Path, fmt.Sprintf("dump-%s.log", ulid.Make()))
}

// sensitiveFields combines the built-in PII set with configured extras.
// Redaction disabled yields an empty set, which the logger treats as a
// no-op redactor.
func sensitiveFields(cfg *config.AppConfig) []string {
	if !cfg.Logging.RedactSensitive {
		return []string{}
	}
	fields := append([]string(nil), constants.PIIFields...)
	return append(fields, cfg.Logging.AdditionalSensitiveFields...)
}
