package study

import (
	"gostudy/domain/core"
	"gostudy/domain/science"
	"gostudy/ports"
)

// Selector determines which directory participants are eligible to be
// invited onto a study. Side-effect free and safe to call concurrently;
// directory iteration is a snapshot, so stale entries are acceptable — the
// invitation phase re-evaluates every tick.
type Selector struct {
	directory ports.ParticipantDirectory
}

// NewSelector creates a selector over the given directory.
func NewSelector(directory ports.ParticipantDirectory) *Selector {
	return &Selector{directory: directory}
}

// eligible applies the invitation predicate: not the primary researcher,
// not already invited, alive, holding a role with a declared field that the
// study's field accepts as collaborative.
func (sel *Selector) eligible(s *Study, id core.PersonID) bool {
	if id == s.PrimaryResearcher() {
		return false
	}
	if s.IsInvitee(id) {
		return false
	}
	if sel.directory.IsDead(id) {
		return false
	}
	field, ok := sel.directory.FieldOfScience(id)
	if !ok {
		return false
	}
	return science.CanCollaborate(s.Field(), field)
}

// CountAvailable returns how many participants could still be invited,
// without allocating the matching set.
func (sel *Selector) CountAvailable(s *Study) int {
	count := 0
	for _, id := range sel.directory.AllParticipants() {
		if sel.eligible(s, id) {
			count++
		}
	}
	return count
}

// ListAvailable returns every participant eligible to be invited. Used by
// the invitation-phase driver when actually extending invitations.
func (sel *Selector) ListAvailable(s *Study) []core.PersonID {
	var ids []core.PersonID
	for _, id := range sel.directory.AllParticipants() {
		if sel.eligible(s, id) {
			ids = append(ids, id)
		}
	}
	return ids
}
