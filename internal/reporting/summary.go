package reporting

import (
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"gostudy/domain/science"
	"gostudy/internal/errors"
	"gostudy/internal/study"
)

// SettlementSummary is one settlement's line in the science scoreboard.
type SettlementSummary struct {
	Settlement string                 `json:"settlement"`
	Score      float64                `json:"score"`
	Counts     study.CompletionCounts `json:"counts"`
	Percentile float64                `json:"percentile"`
}

// ScoreboardStats summarizes the score distribution across settlements.
type ScoreboardStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Max    float64 `json:"max"`
}

// Reporter computes settlement-level science reports from the registry.
// Read-only; scores are computed against possibly-stale phase values, which
// is acceptable for reporting.
type Reporter struct {
	registry *study.Registry
}

// NewReporter creates a reporter over the given registry.
func NewReporter(registry *study.Registry) *Reporter {
	return &Reporter{registry: registry}
}

// Scoreboard builds per-settlement summaries for the given settlements,
// optionally filtered to one field (empty field means any). Percentiles
// come from a normal fit of the score distribution.
func (r *Reporter) Scoreboard(settlements []string, field science.Field) ([]SettlementSummary, ScoreboardStats, error) {
	if len(settlements) == 0 {
		return nil, ScoreboardStats{}, errors.InvalidInput("no settlements given")
	}

	summaries := make([]SettlementSummary, 0, len(settlements))
	scores := make([]float64, 0, len(settlements))
	for _, settlement := range settlements {
		score := r.registry.ScienceScore(settlement, field)
		summaries = append(summaries, SettlementSummary{
			Settlement: settlement,
			Score:      score,
			Counts:     r.registry.CompletionCountsFor(settlement, field),
		})
		scores = append(scores, score)
	}

	mean, err := stats.Mean(scores)
	if err != nil {
		return nil, ScoreboardStats{}, errors.ReportFailure("score mean", err)
	}
	median, err := stats.Median(scores)
	if err != nil {
		return nil, ScoreboardStats{}, errors.ReportFailure("score median", err)
	}
	stdDev, err := stats.StandardDeviation(scores)
	if err != nil {
		return nil, ScoreboardStats{}, errors.ReportFailure("score standard deviation", err)
	}
	max, err := stats.Max(scores)
	if err != nil {
		return nil, ScoreboardStats{}, errors.ReportFailure("score max", err)
	}

	for i := range summaries {
		summaries[i].Percentile = scorePercentile(summaries[i].Score, mean, stdDev)
	}

	return summaries, ScoreboardStats{Mean: mean, Median: median, StdDev: stdDev, Max: max}, nil
}

// scorePercentile places a score on a normal fit of the observed
// distribution. A degenerate distribution puts everyone at the median.
func scorePercentile(score, mean, stdDev float64) float64 {
	if stdDev == 0 {
		return 50
	}
	dist := distuv.Normal{Mu: mean, Sigma: stdDev}
	return dist.CDF(score) * 100
}
