package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	flag "github.com/spf13/pflag"

	"github.com/zrcal/zrcal/pkg/ingest"
	"github.com/zrcal/zrcal/pkg/logger"
	"github.com/zrcal/zrcal/pkg/metrics"
	"github.com/zrcal/zrcal/pkg/retry"
	"github.com/zrcal/zrcal/pkg/schedule"
	"github.com/zrcal/zrcal/pkg/server"
	"github.com/zrcal/zrcal/pkg/store"
)

var (
	// Set by LDFLAGS
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	verboseFlag := flag.Bool("verbose", false, "enable verbose (debug) logging")
	listenAddrFlag := flag.String("listen-addr", ":8080", "address to listen on")
	migrateFlag := flag.Bool("migrate", false, "run database migrations before serving (or set POSTGRES_RUN_MIGRATIONS=true)")
	baseURLFlag := flag.String("portal-base-url", "", "override the open-data portal base URL")
	transcodeFlag := flag.Bool("transcode-latin1", false, "decode fetched CSVs as ISO 8859-1 (earliest-era files)")
	semicolonFlag := flag.Bool("csv-semicolon", false, "parse fetched CSVs with ';' as field separator (earliest-era files)")
	flag.Parse()

	// .env is optional
	_ = godotenv.Load()

	log := logger.New(*verboseFlag)
	metrics.BuildInfo.WithLabelValues(version, commit, date).Set(1)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pgCfg, err := store.PgConfigFromEnv()
	if err != nil {
		return err
	}

	if *migrateFlag || os.Getenv("POSTGRES_RUN_MIGRATIONS") == "true" {
		if err := store.RunMigrations(log, pgCfg.ConnString()); err != nil {
			return err
		}
	}

	pool, err := store.Connect(ctx, log, pgCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	st, err := store.NewStore(store.StoreConfig{
		Logger: log,
		Pool:   pool,
	})
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}

	ingCfg := ingest.Config{
		Logger:        log,
		Clock:         clockwork.NewRealClock(),
		Store:         st,
		BaseURL:       *baseURLFlag,
		Retry:         retry.DefaultConfig(),
		UserAgent:     "zrcal/" + version,
		AnomalousYear: schedule.DefaultAnomalousYear,
		Transcode:     *transcodeFlag,
	}
	if *semicolonFlag {
		ingCfg.Comma = ';'
	}
	ing, err := ingest.New(ingCfg)
	if err != nil {
		return fmt.Errorf("failed to create ingestor: %w", err)
	}

	srv, err := server.New(server.Config{
		Logger:     log,
		ListenAddr: *listenAddrFlag,
		VersionInfo: server.VersionInfo{
			Version: version,
			Commit:  commit,
			Date:    date,
		},
		Store:    st,
		Ingestor: ing,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	log.Info("starting zrcal", "version", version)
	return srv.Run(ctx)
}
