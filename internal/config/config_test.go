package config

import (
	"testing"

	"gostudy/domain/science"
	"gostudy/internal/errors"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got := cfg.Science.MeanTimes[science.TimeProposal]; got != defaultProposalTime {
		t.Errorf("Expected default proposal time %d, got %.0f", defaultProposalTime, got)
	}
	if got := cfg.Science.MeanTimes[science.TimePeerReview]; got != defaultPeerReviewTime {
		t.Errorf("Expected default peer review time %d, got %.0f", defaultPeerReviewTime, got)
	}
	if cfg.Science.MeanCollaboratorCount != 3 {
		t.Errorf("Expected default mean collaborator count 3, got %.1f", cfg.Science.MeanCollaboratorCount)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Paths.ReportDir != "./reports" {
		t.Errorf("Expected default report dir ./reports, got %s", cfg.Paths.ReportDir)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("MEAN_PROPOSAL_TIME", "42.5")
	t.Setenv("MEAN_COLLABORATOR_COUNT", "1.5")
	t.Setenv("SCIENCE_SEED", "99")
	t.Setenv("PORT", "9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := cfg.Science.MeanTimes[science.TimeProposal]; got != 42.5 {
		t.Errorf("Expected proposal time 42.5, got %.1f", got)
	}
	if cfg.Science.MeanCollaboratorCount != 1.5 {
		t.Errorf("Expected mean collaborator count 1.5, got %.1f", cfg.Science.MeanCollaboratorCount)
	}
	if cfg.Science.BaseSeed != 99 {
		t.Errorf("Expected seed 99, got %d", cfg.Science.BaseSeed)
	}
	if cfg.Server.Port != "9000" {
		t.Errorf("Expected port 9000, got %s", cfg.Server.Port)
	}
}

func TestLoadRejectsNonPositiveMeans(t *testing.T) {
	t.Setenv("MEAN_PEER_REVIEW_TIME", "0")

	_, err := Load()
	if err == nil {
		t.Fatal("Expected validation error for zero mean time")
	}
	if got := errors.GetCode(err); got != errors.CodeConfigInvalid {
		t.Errorf("Expected config error code, got %s", got)
	}
}

func TestUnparsableEnvFallsBack(t *testing.T) {
	t.Setenv("MEAN_PROPOSAL_TIME", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := cfg.Science.MeanTimes[science.TimeProposal]; got != defaultProposalTime {
		t.Errorf("Expected fallback to default, got %.1f", got)
	}
}
