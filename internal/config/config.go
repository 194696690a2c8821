package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Feed modes.
const (
	FeedMock     = "mock"
	FeedPostgres = "postgres"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Feed struct {
		Mode string
	}
	Kafka struct {
		Broker     string
		AlertTopic string
		SOSTopic   string
		GroupID    string
	}
	DB struct {
		DSN string
	}
	API struct {
		Port     string
		BasePath string
	}
	Logging struct {
		Dir   string
		Level string
	}
	Alerts struct {
		Capacity int
		Interval time.Duration
	}
	SOS struct {
		Countdown        int
		TickInterval     time.Duration
		ReminderDelay    time.Duration
		DispatchAttempts int
		RetryDelay       time.Duration
	}
	Notification struct {
		QueueSize  int
		MaxWorkers int
	}
	Telegram struct {
		BotToken  string
		ChatID    int64
		RateLimit int
	}
	SMS struct {
		AccountSID string
		AuthToken  string
		FromNumber string
		ToNumbers  []string
	}
}

// KafkaEnabled reports whether a broker was configured.
func (c Config) KafkaEnabled() bool { return c.Kafka.Broker != "" }

// TelegramEnabled reports whether responder chat delivery is configured.
func (c Config) TelegramEnabled() bool { return c.Telegram.BotToken != "" && c.Telegram.ChatID != 0 }

// SMSEnabled reports whether SMS delivery is configured.
func (c Config) SMSEnabled() bool {
	return c.SMS.AccountSID != "" && c.SMS.AuthToken != "" && c.SMS.FromNumber != "" && len(c.SMS.ToNumbers) > 0
}

// Load reads .env (if present) and environment variables, validates, and applies defaults.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config

	cfg.Feed.Mode = strings.ToLower(os.Getenv("FEED_MODE"))

	// Kafka settings
	cfg.Kafka.Broker = os.Getenv("KAFKA_BROKER")
	cfg.Kafka.AlertTopic = os.Getenv("KAFKA_ALERT_TOPIC")
	cfg.Kafka.SOSTopic = os.Getenv("KAFKA_SOS_TOPIC")
	cfg.Kafka.GroupID = os.Getenv("KAFKA_GROUP_ID")

	cfg.DB.DSN = os.Getenv("DB_DSN")

	cfg.API.Port = os.Getenv("API_PORT")
	cfg.API.BasePath = os.Getenv("API_BASE_PATH")

	cfg.Logging.Dir = os.Getenv("LOG_DIR")
	cfg.Logging.Level = os.Getenv("LOG_LEVEL")

	if n, err := strconv.Atoi(os.Getenv("ALERT_CAPACITY")); err == nil {
		cfg.Alerts.Capacity = n
	}
	if d, err := time.ParseDuration(os.Getenv("ALERT_INTERVAL")); err == nil {
		cfg.Alerts.Interval = d
	}

	if n, err := strconv.Atoi(os.Getenv("SOS_COUNTDOWN")); err == nil {
		cfg.SOS.Countdown = n
	}
	if d, err := time.ParseDuration(os.Getenv("SOS_TICK_INTERVAL")); err == nil {
		cfg.SOS.TickInterval = d
	}
	if d, err := time.ParseDuration(os.Getenv("SOS_REMINDER_DELAY")); err == nil {
		cfg.SOS.ReminderDelay = d
	}
	if n, err := strconv.Atoi(os.Getenv("SOS_DISPATCH_ATTEMPTS")); err == nil {
		cfg.SOS.DispatchAttempts = n
	}
	if d, err := time.ParseDuration(os.Getenv("SOS_RETRY_DELAY")); err == nil {
		cfg.SOS.RetryDelay = d
	}

	// Notification worker settings
	if qs, err := strconv.Atoi(os.Getenv("QUEUE_SIZE")); err == nil {
		cfg.Notification.QueueSize = qs
	}
	if mw, err := strconv.Atoi(os.Getenv("MAX_WORKERS")); err == nil {
		cfg.Notification.MaxWorkers = mw
	}

	cfg.Telegram.BotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if id, err := strconv.ParseInt(os.Getenv("TELEGRAM_CHAT_ID"), 10, 64); err == nil {
		cfg.Telegram.ChatID = id
	}
	if rl, err := strconv.Atoi(os.Getenv("TELEGRAM_RATE_LIMIT")); err == nil {
		cfg.Telegram.RateLimit = rl
	}

	cfg.SMS.AccountSID = os.Getenv("TWILIO_ACCOUNT_SID")
	cfg.SMS.AuthToken = os.Getenv("TWILIO_AUTH_TOKEN")
	cfg.SMS.FromNumber = os.Getenv("TWILIO_FROM_NUMBER")
	for _, n := range strings.Split(os.Getenv("SMS_TO_NUMBERS"), ",") {
		if n = strings.TrimSpace(n); n != "" {
			cfg.SMS.ToNumbers = append(cfg.SMS.ToNumbers, n)
		}
	}

	if cfg.Feed.Mode == "" {
		cfg.Feed.Mode = FeedMock
	}

	// Validate required settings
	if cfg.Feed.Mode != FeedMock && cfg.Feed.Mode != FeedPostgres {
		return Config{}, fmt.Errorf("invalid FEED_MODE %q: want %s or %s", cfg.Feed.Mode, FeedMock, FeedPostgres)
	}
	// cron schedules run at one-second resolution
	if cfg.Alerts.Interval > 0 && cfg.Alerts.Interval < time.Second {
		return Config{}, fmt.Errorf("invalid ALERT_INTERVAL %s: must be at least 1s", cfg.Alerts.Interval)
	}
	missing := []string{}
	if cfg.Feed.Mode == FeedPostgres && cfg.DB.DSN == "" {
		missing = append(missing, "DB_DSN")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required configurations: %v", missing)
	}

	// Apply defaults
	if cfg.Kafka.AlertTopic == "" {
		cfg.Kafka.AlertTopic = "relief_alerts"
	}
	if cfg.Kafka.SOSTopic == "" {
		cfg.Kafka.SOSTopic = "sos_emergency"
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = "relief-service"
	}
	if cfg.API.Port == "" {
		cfg.API.Port = ":8080"
	}
	if cfg.API.BasePath == "" {
		cfg.API.BasePath = "/api/v0"
	}
	if cfg.Logging.Dir == "" {
		cfg.Logging.Dir = "logs"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Alerts.Capacity <= 0 {
		cfg.Alerts.Capacity = 10
	}
	if cfg.Alerts.Interval <= 0 {
		cfg.Alerts.Interval = 30 * time.Second
	}
	if cfg.SOS.Countdown <= 0 {
		cfg.SOS.Countdown = 5
	}
	if cfg.SOS.TickInterval <= 0 {
		cfg.SOS.TickInterval = time.Second
	}
	if cfg.SOS.ReminderDelay <= 0 {
		cfg.SOS.ReminderDelay = 3 * time.Second
	}
	if cfg.SOS.DispatchAttempts <= 0 {
		cfg.SOS.DispatchAttempts = 3
	}
	if cfg.SOS.RetryDelay <= 0 {
		cfg.SOS.RetryDelay = time.Second
	}
	if cfg.Notification.QueueSize == 0 {
		cfg.Notification.QueueSize = 500
	}
	if cfg.Notification.MaxWorkers == 0 {
		cfg.Notification.MaxWorkers = 4
	}
	if cfg.Telegram.RateLimit == 0 {
		cfg.Telegram.RateLimit = 1
	}

	return cfg, nil
}
