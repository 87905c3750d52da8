package ports

import (
	"gostudy/domain/core"
	"gostudy/domain/science"
)

// ParticipantDirectory resolves participant ids to liveness, role and skill
// information, and owns each participant's own study-association sets. The
// core references participants by id only and never holds participant
// objects. Study associations are keyed by study name, which is unique for
// the life of a registry (per-sol numeric ids are not).
//
// Implementations must tolerate being queried while participants are added
// or removed elsewhere; iteration is snapshot-based and stale entries are
// acceptable.
type ParticipantDirectory interface {
	// Exists reports whether the id resolves to a known participant.
	Exists(id core.PersonID) bool

	// IsDead reports whether the participant is dead. Unknown ids are
	// treated as dead so stale references purge themselves.
	IsDead(id core.PersonID) bool

	// FieldOfScience returns the science field of the participant's current
	// role, if the role declares one.
	FieldOfScience(id core.PersonID) (science.Field, bool)

	// AcademicAptitude returns the participant's academic aptitude
	// attribute (nominally 0-100).
	AcademicAptitude(id core.PersonID) int

	// SkillLevel returns the participant's skill level in the given field.
	SkillLevel(id core.PersonID, field science.Field) int

	// SettlementOf returns the name of the settlement the participant is
	// associated with.
	SettlementOf(id core.PersonID) string

	// AllParticipants returns a snapshot of every known participant id.
	AllParticipants() []core.PersonID

	// AssignPrimaryStudy records the study a participant leads.
	AssignPrimaryStudy(id core.PersonID, study string)

	// ClearPrimaryStudy removes the participant's lead-study association.
	ClearPrimaryStudy(id core.PersonID)

	// AddCollaborativeStudy records a study in the participant's own
	// "studies I collaborate on" set.
	AddCollaborativeStudy(id core.PersonID, study string)

	// RemoveCollaborativeStudy removes a study from that set. Unknown
	// associations are a no-op.
	RemoveCollaborativeStudy(id core.PersonID, study string)
}
