package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/storm-impact-report/internal/domain"
)

// DefaultSourceURL is the published bzip2 extract of the NOAA Storm Data CSV.
const DefaultSourceURL = "https://d396qusza40orc.cloudfront.net/repdata%2Fdata%2FStormData.csv.bz2"

// Config holds all service settings, populated from environment variables.
type Config struct {
	SourcePath   string
	SourceURL    string
	FetchEnabled bool
	FetchTimeout time.Duration

	TopN      int
	DamageKey domain.Measure

	KafkaBrokers     []string
	KafkaReportTopic string
	PublishEnabled   bool

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("FETCH_TIMEOUT", "5m"))
	if err != nil || fetchTimeout <= 0 {
		return nil, errors.New("invalid FETCH_TIMEOUT")
	}

	topN, err := parseTopN()
	if err != nil {
		return nil, err
	}

	damageKey, err := parseDamageKey()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		SourcePath:   sharedcfg.EnvOrDefault("SOURCE_PATH", "data/StormData.csv.bz2"),
		SourceURL:    sharedcfg.EnvOrDefault("SOURCE_URL", DefaultSourceURL),
		FetchEnabled: os.Getenv("FETCH_ENABLED") != "false",
		FetchTimeout: fetchTimeout,

		TopN:      topN,
		DamageKey: damageKey,

		KafkaBrokers:     sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaReportTopic: sharedcfg.EnvOrDefault("KAFKA_REPORT_TOPIC", "storm-impact-reports"),
		PublishEnabled:   os.Getenv("PUBLISH_ENABLED") == "true",

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.SourcePath == "" {
		return nil, errors.New("SOURCE_PATH is required")
	}
	if cfg.FetchEnabled && cfg.SourceURL == "" {
		return nil, errors.New("FETCH_ENABLED is true but SOURCE_URL is empty")
	}
	if cfg.PublishEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when PUBLISH_ENABLED is true")
		}
		if cfg.KafkaReportTopic == "" {
			return nil, errors.New("KAFKA_REPORT_TOPIC is required when PUBLISH_ENABLED is true")
		}
	}

	return cfg, nil
}

func parseTopN() (int, error) {
	s := os.Getenv("TOP_N")
	if s == "" {
		return domain.DefaultTopN, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid TOP_N %q: must be a non-negative integer", s)
	}
	return n, nil
}

func parseDamageKey() (domain.Measure, error) {
	s := sharedcfg.EnvOrDefault("DAMAGE_RANK_MEASURE", string(domain.CombinedDamage))
	m, err := domain.ParseMeasure(s)
	if err != nil {
		return "", fmt.Errorf("invalid DAMAGE_RANK_MEASURE: %w", err)
	}
	switch m {
	case domain.PropertyDamage, domain.CropDamage, domain.CombinedDamage:
		return m, nil
	default:
		return "", fmt.Errorf("invalid DAMAGE_RANK_MEASURE %q: must be a damage measure", s)
	}
}
