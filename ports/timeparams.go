package ports

import "gostudy/domain/science"

// TimeParameterProvider supplies the mean phase durations and topic pool a
// study's randomized schedule is derived from. Read-only from the core's
// point of view.
type TimeParameterProvider interface {
	// MeanTime returns the mean duration in millisols for the given
	// phase-time kind, before difficulty scaling and per-study jitter.
	MeanTime(kind science.TimeKind) float64

	// RandomTopic returns a research topic for the given field.
	RandomTopic(field science.Field) string

	// MeanCollaboratorCount returns the mean of the positive-Gaussian
	// distribution the per-study collaborator cap is drawn from.
	MeanCollaboratorCount() float64
}
