package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_NAME", "college_internship_tracker")
	t.Setenv("DB_USER", "tracker")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.Database.Port != "5432" {
		t.Errorf("Database.Port = %q, want 5432", cfg.Database.Port)
	}
	if cfg.Session.TTL != 24*time.Hour {
		t.Errorf("Session.TTL = %v, want 24h", cfg.Session.TTL)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
	if cfg.Events.KafkaEnabled() {
		t.Error("Kafka should be disabled without brokers")
	}
	if cfg.SeedDemoData {
		t.Error("SeedDemoData should default to false")
	}
	if cfg.Timezone != time.UTC {
		t.Errorf("Timezone = %v, want UTC", cfg.Timezone)
	}
}

func TestLoadConfig_Timezone(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_TIMEZONE", "Asia/Kolkata")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Timezone.String() != "Asia/Kolkata" {
		t.Errorf("Timezone = %v, want Asia/Kolkata", cfg.Timezone)
	}

	t.Setenv("APP_TIMEZONE", "Mars/Olympus_Mons")
	if _, err := LoadConfig(); err == nil || !strings.Contains(err.Error(), "APP_TIMEZONE") {
		t.Errorf("LoadConfig() error = %v, want APP_TIMEZONE error", err)
	}
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_NAME", "")
	t.Setenv("DB_USER", "")

	_, err := LoadConfig()
	if err == nil {
		t.Fatal("expected error for missing database settings")
	}
	for _, key := range []string{"DB_HOST", "DB_NAME", "DB_USER"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error %q does not mention %s", err, key)
		}
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("SEED_DEMO_DATA", "true")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
	}
	if len(cfg.Events.KafkaBrokers) != 2 || cfg.Events.KafkaBrokers[1] != "kafka-2:9092" {
		t.Errorf("KafkaBrokers = %v", cfg.Events.KafkaBrokers)
	}
	if cfg.Session.TTL != 90*time.Minute {
		t.Errorf("Session.TTL = %v, want 90m", cfg.Session.TTL)
	}
	if !cfg.SeedDemoData {
		t.Error("SeedDemoData should be true")
	}
}

func TestLoadConfig_InvalidLogLevel(t *testing.T) {
	setRequired(t)
	t.Setenv("LOG_LEVEL", "loud")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for invalid LOG_LEVEL")
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host: "db", Port: "5432", User: "u", Password: "p", Name: "n",
		SSLMode: "disable", ConnectTimeout: 5 * time.Second,
	}
	want := "host=db port=5432 user=u password=p dbname=n sslmode=disable connect_timeout=5"
	if got := d.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
