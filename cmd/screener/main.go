package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"BoxScreener/internal/cache"
	"BoxScreener/internal/collector"
	"BoxScreener/internal/config"
	"BoxScreener/internal/model"
	"BoxScreener/internal/notifier"
	"BoxScreener/internal/recorder"
	"BoxScreener/internal/scheduler"
	"BoxScreener/internal/screener"
	"BoxScreener/internal/server"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	// stdout carries the report in once mode
	log.SetOutput(os.Stderr)
	log.Println("[INFO] BoxScreener starting...")

	envPath := ".env"
	if v := os.Getenv("ENV_FILE"); v != "" {
		envPath = v
	}
	if err := config.LoadDotEnv(envPath); err != nil {
		log.Fatalf("[FATAL] %v", err)
	}

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	col := newCollector(cfg)
	log.Printf("[INFO] data source: %s", col)
	scr := screener.New(col, cfg.Screen.Workers)

	rec := newRecorder(cfg)
	defer rec.Close()

	switch cfg.Mode {
	case config.ModeServe:
		err = serve(ctx, cfg, scr, rec)
	default:
		err = once(ctx, cfg, scr, rec)
	}
	if err != nil {
		log.Printf("[ERROR] %v", err)
		rec.Close()
		os.Exit(1)
	}
	log.Println("[INFO] BoxScreener stopped")
}

func newCollector(cfg *config.Config) *collector.Collector {
	retry := collector.RetryPolicy{MaxRetries: *cfg.Retry.MaxRetries, Backoff: cfg.Retry.Backoff}

	var fetchers []collector.Fetcher
	if ex := cfg.Exchanges.Upbit; ex.IsEnabled() {
		fetchers = append(fetchers, collector.NewUpbitFetcher(ex.BaseURL, cfg.Proxy,
			collector.NewLimiter(ex.RatePerSec, ex.Burst), retry))
	}
	if ex := cfg.Exchanges.Bithumb; ex.IsEnabled() {
		fetchers = append(fetchers, collector.NewBithumbFetcher(ex.BaseURL, cfg.Proxy,
			collector.NewLimiter(ex.RatePerSec, ex.Burst), retry))
	}

	col := collector.NewCollector(fetchers...)
	col.CandleCount = cfg.Screen.CandleCount
	col.MaxSymbols = cfg.Screen.MaxSymbols
	col.ExcludeMajors = *cfg.Screen.ExcludeMajors
	if len(cfg.Screen.MajorCoins) > 0 {
		col.MajorCoins = cfg.Screen.MajorCoins
	}
	return col
}

func newRecorder(cfg *config.Config) recorder.Recorder {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			return recorder.NewNoopRecorder()
		}
		return sr
	case config.DriverPostgres:
		pr, err := recorder.NewPostgresRecorder(cfg.Database.PostgresDSN)
		if err != nil {
			log.Printf("[WARN] init postgres recorder failed, using noop: %v", err)
			return recorder.NewNoopRecorder()
		}
		return pr
	default:
		return recorder.NewNoopRecorder()
	}
}

func newStore(ctx context.Context, cfg *config.Config) (cache.Store, error) {
	if cfg.Cache.Backend != config.BackendRedis {
		return cache.NewMemoryStore(), nil
	}
	// kept well past the TTL so stale reports can still be served
	return cache.NewRedisStore(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword,
		cfg.Cache.RedisDB, cfg.Cache.Key, 24*time.Hour)
}

// once screens a single time and writes the JSON report to stdout.
func once(ctx context.Context, cfg *config.Config, scr *screener.Screener, rec recorder.Recorder) error {
	report, runErr := scr.Run(ctx)
	if runErr != nil {
		report = screener.ErrorReport(runErr, time.Now())
	}

	if err := rec.RecordReport(uuid.NewString(), report); err != nil {
		log.Printf("[ERROR] record report: %v", err)
	}
	if *cfg.Screen.ConsoleSummary {
		fmt.Fprint(os.Stderr, notifier.RenderConsole(report, cfg.Telegram.TopN))
	}

	if err := writeReport(report); err != nil {
		return err
	}
	return runErr
}

func writeReport(r *model.Report) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// serve re-screens on schedule and serves the latest report until ctx is done.
func serve(ctx context.Context, cfg *config.Config, scr *screener.Screener, rec recorder.Recorder) error {
	store, err := newStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init report store: %w", err)
	}
	defer store.Close()

	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	} else {
		log.Println("[INFO] telegram not configured, chat summaries disabled")
	}

	sched := scheduler.NewScheduler(ctx, scr, store, rec, tn, cfg.Telegram.TopN)
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	srv := server.New(store, sched, cfg.Cache.TTL)
	sched.Subscribe(srv.Publish)

	sched.Start()
	defer sched.Stop()
	sched.Trigger()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	log.Printf("[INFO] BoxScreener serving, schedule %q. Press Ctrl+C to stop.", cfg.Schedule.Cron)
	return srv.Run(ctx, cfg.Server.Addr)
}
