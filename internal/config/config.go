package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port          int
	LogFile       string
	LogDir        string
	LogLevel      string
	NatsURL       string
	NatsToken     string
	APIToken      string
	SampleSize    int
	SampleSeed    int
	ScanRecursive bool
	SlackBotToken string
	SlackChannel  string
}

func Load() Config {
	return Config{
		Port:          envInt("HANDLOG_PORT", 8760),
		LogFile:       envStr("HANDLOG_LOG_FILE", "poker_game.log"),
		LogDir:        envStr("HANDLOG_LOG_DIR", "."),
		LogLevel:      envStr("LOG_LEVEL", "info"),
		NatsURL:       envStr("NATS_URL", ""),
		NatsToken:     envStr("NATS_TOKEN", ""),
		APIToken:      envStr("HANDLOG_API_TOKEN", ""),
		SampleSize:    envInt("HANDLOG_SAMPLE_SIZE", 10),
		SampleSeed:    envInt("HANDLOG_SAMPLE_SEED", 42),
		ScanRecursive: envBool("HANDLOG_SCAN_RECURSIVE", true),
		SlackBotToken: envStr("SLACK_BOT_TOKEN", ""),
		SlackChannel:  envStr("SLACK_SCAN_CHANNEL", ""),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
