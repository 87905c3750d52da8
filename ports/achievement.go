package ports

import (
	"gostudy/domain/core"
	"gostudy/domain/science"
)

// AchievementSink receives science achievement credit when a study succeeds.
// Calls are fire-and-forget; the core consumes no return value.
type AchievementSink interface {
	// RecordResearcher credits a participant with achievement points in a
	// field.
	RecordResearcher(id core.PersonID, field science.Field, amount float64)

	// RecordSettlement credits a settlement with achievement points in a
	// field.
	RecordSettlement(settlement string, field science.Field, amount float64)
}

// RelationshipSink adjusts opinion scores between researchers sharing a
// field after an achievement. Optional; a no-op implementation is valid.
type RelationshipSink interface {
	// AchievementShared notifies that two researchers shared in the same
	// successful study.
	AchievementShared(a, b core.PersonID, field science.Field)
}

// NoopRelationshipSink discards all notifications.
type NoopRelationshipSink struct{}

// AchievementShared implements RelationshipSink.
func (NoopRelationshipSink) AchievementShared(a, b core.PersonID, field science.Field) {}
