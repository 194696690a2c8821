package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"relief-service/internal/alerts"
	"relief-service/internal/api"
	"relief-service/internal/config"
	"relief-service/internal/db"
	"relief-service/internal/dispatch"
	"relief-service/internal/feed"
	"relief-service/internal/kafka"
	"relief-service/internal/logging"
	"relief-service/internal/metrics"
	"relief-service/internal/notify"
	"relief-service/internal/providers"
	"relief-service/internal/relief"
	"relief-service/internal/resources"
	"relief-service/internal/sos"
	"relief-service/pkg/sms"
)

// locationMaxAge bounds how old a client-reported fix may be when an SOS dispatches.
const locationMaxAge = 2 * time.Minute

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config load failed: %v", err)
	}

	logger, err := logging.New(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Logger init failed: %v", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	// Toast delivery: log and dashboards inline, responder channels via the worker queue
	hub := notify.NewHub(logger)
	var channels notify.Multi
	if cfg.TelegramEnabled() {
		tg, err := providers.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.RateLimit, logger)
		if err != nil {
			logger.Fatalf("Telegram init failed: %v", err)
		}
		channels = append(channels, tg)
		logger.Infof("Telegram delivery enabled for chat %d", cfg.Telegram.ChatID)
	}
	if cfg.SMSEnabled() {
		client := sms.New(cfg.SMS.AccountSID, cfg.SMS.AuthToken, cfg.SMS.FromNumber)
		channels = append(channels, providers.NewSMS(client, cfg.SMS.ToNumbers, logger))
		logger.Infof("SMS delivery enabled for %d numbers", len(cfg.SMS.ToNumbers))
	}
	queue := notify.NewQueue(channels, cfg.Notification.QueueSize, cfg.Notification.MaxWorkers, m, logger)
	queue.Start()
	notifier := notify.Multi{notify.NewLog(logger), hub, queue}

	// Feed source
	var src feed.Feed = feed.NewStatic()
	var dbConn *db.DB
	if cfg.Feed.Mode == config.FeedPostgres {
		dbConn, err = db.New(ctx, cfg.DB.DSN)
		if err != nil {
			logger.Fatalf("DB connect failed: %v", err)
		}
		defer func() {
			dbConn.Close()
			logger.Info("DB connection closed")
		}()
		if err := dbConn.EnsureSchema(ctx); err != nil {
			logger.Fatalf("DB schema setup failed: %v", err)
		}
		src = dbConn
	}

	store := alerts.NewStore(cfg.Alerts.Capacity)
	alertSvc := alerts.NewService(store, notifier, m, logger)
	if n, err := feed.Seed(ctx, src, alertSvc); err != nil {
		logger.Errorf("Alert feed unavailable, starting empty: %v", err)
	} else {
		logger.Infof("Loaded %d alerts from %s feed", n, cfg.Feed.Mode)
	}

	directory := relief.NewDirectory(nil)
	if err := directory.Load(ctx, src); err != nil {
		logger.Errorf("Relief locations unavailable: %v", err)
	}
	board := resources.NewBoard(feed.NewStatic().Resources(), notifier, logger)

	// SOS outbound: always logged, plus broker and database when configured
	kcfg := kafka.Config{
		Broker:     cfg.Kafka.Broker,
		AlertTopic: cfg.Kafka.AlertTopic,
		SOSTopic:   cfg.Kafka.SOSTopic,
		GroupID:    cfg.Kafka.GroupID,
	}
	dispatchers := dispatch.Multi{dispatch.NewLog(logger)}
	var producer *kafka.Producer
	if cfg.KafkaEnabled() {
		producer = kafka.NewProducer(kcfg)
		dispatchers = append(dispatchers, dispatch.NewRetrying(producer, cfg.SOS.DispatchAttempts, cfg.SOS.RetryDelay, logger))
	}
	if dbConn != nil {
		dispatchers = append(dispatchers, dispatch.NewRetrying(dispatch.Func(dbConn.RecordSOS), cfg.SOS.DispatchAttempts, cfg.SOS.RetryDelay, logger))
	}

	locator := sos.NewReportedLocator(locationMaxAge)
	machine := sos.NewMachine(cfg.SOS.Countdown, locator, dispatchers, notifier, m, logger)
	runner := sos.NewRunner(machine, notifier, cfg.SOS.TickInterval, cfg.SOS.ReminderDelay, logger)

	generator := alerts.NewGenerator(alertSvc, cfg.Alerts.Interval, logger)
	if err := generator.Start(); err != nil {
		logger.Fatalf("Alert generator failed to start: %v", err)
	}

	var wg sync.WaitGroup
	var consumer *kafka.Consumer
	if cfg.KafkaEnabled() {
		consumer = kafka.NewConsumer(kcfg, alertSvc, logger)
		consumer.Start(ctx, &wg)
		logger.Infof("Kafka consumer initialized with topic: %s", cfg.Kafka.AlertTopic)
	}

	// Start API server
	router := api.NewRouter(cfg.API.BasePath, api.Deps{
		Alerts:    alertSvc,
		Locations: directory,
		Resources: board,
		SOS:       runner,
		Locator:   locator,
		Hub:       hub,
		Metrics:   m,
		Logger:    logger,
	})
	srv := &http.Server{Addr: cfg.API.Port, Handler: router, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("API started on %s", cfg.API.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("API run failed: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("API shutdown failed: %v", err)
	}
	hub.Close()
	generator.Stop()
	runner.Close()
	if consumer != nil {
		wg.Wait()
		if err := consumer.Close(); err != nil {
			logger.Errorf("Kafka consumer close failed: %v", err)
		}
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Errorf("Kafka producer close failed: %v", err)
		}
	}
	queue.Stop()
	logger.Info("Service stopped")
}
