package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FEED_MODE", "")
	t.Setenv("KAFKA_BROKER", "")
	t.Setenv("ALERT_INTERVAL", "")
	t.Setenv("SOS_COUNTDOWN", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, FeedMock, cfg.Feed.Mode)
	assert.Equal(t, ":8080", cfg.API.Port)
	assert.Equal(t, "/api/v0", cfg.API.BasePath)
	assert.Equal(t, 10, cfg.Alerts.Capacity)
	assert.Equal(t, 30*time.Second, cfg.Alerts.Interval)
	assert.Equal(t, 5, cfg.SOS.Countdown)
	assert.Equal(t, time.Second, cfg.SOS.TickInterval)
	assert.Equal(t, 3*time.Second, cfg.SOS.ReminderDelay)
	assert.Equal(t, "sos_emergency", cfg.Kafka.SOSTopic)
	assert.False(t, cfg.KafkaEnabled())
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("FEED_MODE", "Postgres")
	t.Setenv("DB_DSN", "postgres://relief@localhost/relief")
	t.Setenv("KAFKA_BROKER", "localhost:9092")
	t.Setenv("ALERT_INTERVAL", "45s")
	t.Setenv("SOS_COUNTDOWN", "3")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "-100200")
	t.Setenv("TWILIO_ACCOUNT_SID", "AC1")
	t.Setenv("TWILIO_AUTH_TOKEN", "secret")
	t.Setenv("TWILIO_FROM_NUMBER", "+15550000")
	t.Setenv("SMS_TO_NUMBERS", "+15551111, +15552222,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, FeedPostgres, cfg.Feed.Mode)
	assert.True(t, cfg.KafkaEnabled())
	assert.Equal(t, 45*time.Second, cfg.Alerts.Interval)
	assert.Equal(t, 3, cfg.SOS.Countdown)
	assert.True(t, cfg.TelegramEnabled())
	assert.Equal(t, int64(-100200), cfg.Telegram.ChatID)
	assert.True(t, cfg.SMSEnabled())
	assert.Equal(t, []string{"+15551111", "+15552222"}, cfg.SMS.ToNumbers)
}

func TestLoadRequiresDSNForPostgresFeed(t *testing.T) {
	t.Setenv("FEED_MODE", "postgres")
	t.Setenv("DB_DSN", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DSN")
}

func TestLoadRejectsUnknownFeedMode(t *testing.T) {
	t.Setenv("FEED_MODE", "carrier-pigeon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FEED_MODE")
}

func TestLoadRejectsSubSecondAlertInterval(t *testing.T) {
	t.Setenv("FEED_MODE", "")
	t.Setenv("ALERT_INTERVAL", "500ms")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ALERT_INTERVAL")

	t.Setenv("ALERT_INTERVAL", "1s")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.Alerts.Interval)
}
