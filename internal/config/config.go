package config

import (
	"os"
	"strconv"

	"gostudy/domain/science"
	"gostudy/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Science ScienceConfig
	Server  ServerConfig
	Paths   PathConfig
}

// ScienceConfig holds the study schedule parameters. All durations are mean
// values in millisols, before difficulty scaling and per-study jitter.
type ScienceConfig struct {
	MeanTimes             map[science.TimeKind]float64
	MeanCollaboratorCount float64
	BaseSeed              int64
}

// ServerConfig holds the reporting server settings
type ServerConfig struct {
	Port string
}

// PathConfig holds file system paths
type PathConfig struct {
	ReportDir string
}

// Default mean durations in millisols.
const (
	defaultProposalTime              = 150
	defaultPrimaryResearchTime       = 300
	defaultCollaborativeResearchTime = 150
	defaultPrimaryPaperTime          = 200
	defaultCollaborativePaperTime    = 100
	defaultPeerReviewTime            = 100
	defaultPrimaryDowntime           = 300
	defaultCollaborativeDowntime     = 250
)

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Science: loadScienceConfig(),
		Server:  loadServerConfig(),
		Paths:   loadPathConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadScienceConfig() ScienceConfig {
	return ScienceConfig{
		MeanTimes: map[science.TimeKind]float64{
			science.TimeProposal:              getEnvFloatOrDefault("MEAN_PROPOSAL_TIME", defaultProposalTime),
			science.TimePrimaryResearch:       getEnvFloatOrDefault("MEAN_PRIMARY_RESEARCH_TIME", defaultPrimaryResearchTime),
			science.TimeCollaborativeResearch: getEnvFloatOrDefault("MEAN_COLLAB_RESEARCH_TIME", defaultCollaborativeResearchTime),
			science.TimePrimaryPaper:          getEnvFloatOrDefault("MEAN_PRIMARY_PAPER_TIME", defaultPrimaryPaperTime),
			science.TimeCollaborativePaper:    getEnvFloatOrDefault("MEAN_COLLAB_PAPER_TIME", defaultCollaborativePaperTime),
			science.TimePeerReview:            getEnvFloatOrDefault("MEAN_PEER_REVIEW_TIME", defaultPeerReviewTime),
			science.TimePrimaryDowntime:       getEnvFloatOrDefault("PRIMARY_DOWNTIME_ALLOWED", defaultPrimaryDowntime),
			science.TimeCollaborativeDowntime: getEnvFloatOrDefault("COLLAB_DOWNTIME_ALLOWED", defaultCollaborativeDowntime),
		},
		MeanCollaboratorCount: getEnvFloatOrDefault("MEAN_COLLABORATOR_COUNT", 3),
		BaseSeed:              getEnvInt64OrDefault("SCIENCE_SEED", 0),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port: getEnvOrDefault("PORT", "8080"),
	}
}

func loadPathConfig() PathConfig {
	return PathConfig{
		ReportDir: getEnvOrDefault("REPORT_DIR", "./reports"),
	}
}

func validateConfig(config *Config) error {
	for kind, mean := range config.Science.MeanTimes {
		if mean <= 0 {
			return errors.ConfigInvalid("mean time for " + string(kind) + " must be positive")
		}
	}
	if config.Science.MeanCollaboratorCount < 0 {
		return errors.ConfigInvalid("mean collaborator count must not be negative")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
