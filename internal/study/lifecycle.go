package study

import (
	"gostudy/domain/core"
	"gostudy/domain/science"
)

// Advance evaluates the study's transition triggers once for the given
// tick time. The registry guarantees Advance is never running twice
// concurrently for the same study; it interleaves freely with the mutation
// methods.
func (s *Study) Advance(now core.SimTime) {
	if s.IsCompleted() {
		return
	}

	s.purgeDead()

	switch s.Phase() {
	case science.PhaseProposal:
		s.advanceProposal()
	case science.PhaseInvitation:
		s.advanceInvitation(now)
	case science.PhaseResearch:
		s.advanceResearch(now)
	case science.PhasePaper:
		s.advancePaper(now)
	case science.PhasePeerReview:
		s.advancePeerReview(now)
	}
}

// purgeDead removes any collaborator or invitee whose backing participant
// the directory reports dead.
func (s *Study) purgeDead() {
	for _, id := range s.CollaboratorIDs() {
		if s.deps.Directory.IsDead(id) {
			s.deps.Log.Debug("study %s: purging dead collaborator %s", s.name, id)
			s.RemoveCollaborator(id)
		}
	}

	s.invMu.Lock()
	for id := range s.invitees {
		if s.deps.Directory.IsDead(id) {
			delete(s.invitees, id)
		}
	}
	s.invMu.Unlock()
}

// advanceProposal moves to invitation once the proposal work is done, and
// fixes the study's first research topic.
func (s *Study) advanceProposal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != science.PhaseProposal || s.proposalWorkTime < s.baseProposalTime {
		return
	}
	s.topics = append(s.topics, s.deps.Params.RandomTopic(s.field))
	s.phase = science.PhaseInvitation
	s.deps.Log.Info("study %s: proposal accepted, inviting collaborators", s.name)
}

// advanceInvitation moves to research once the collaborator cap is reached,
// or once nobody eligible is left and every extended invitation has been
// answered.
func (s *Study) advanceInvitation(now core.SimTime) {
	if s.CollaboratorCount() >= s.maxCollaborators {
		s.startResearch(now)
		return
	}
	if s.selector.CountAvailable(s) == 0 && !s.HasOpenInvitations() {
		s.startResearch(now)
	}
}

// startResearch enters the research phase and resets contribution stamps so
// nobody is evicted for recruitment-phase downtime.
func (s *Study) startResearch(now core.SimTime) {
	s.mu.Lock()
	if s.phase != science.PhaseInvitation {
		s.mu.Unlock()
		return
	}
	s.phase = science.PhaseResearch
	s.lastPrimaryContribution = &now
	s.mu.Unlock()

	s.collabMu.Lock()
	for _, stats := range s.collaborators {
		t := now
		stats.LastContribution = &t
	}
	s.collabMu.Unlock()

	s.deps.Log.Info("study %s: research phase started with %d collaborators",
		s.name, s.CollaboratorCount())
}

// advanceResearch polices inactivity and moves to the paper phase once all
// research is in.
func (s *Study) advanceResearch(now core.SimTime) {
	if s.primaryInactive(now) {
		_ = s.Complete(science.PhaseCancelled, "primary researcher lack of participation")
		return
	}

	s.evictInactiveCollaborators(now)

	if !s.IsPrimaryResearchCompleted() || !s.allCollaborativeResearchCompleted() {
		return
	}

	s.mu.Lock()
	if s.phase == science.PhaseResearch {
		s.phase = science.PhasePaper
		s.deps.Log.Info("study %s: research complete, writing paper", s.name)
	}
	s.mu.Unlock()
}

// primaryInactive reports whether the primary researcher exceeded the
// allowed downtime with research still outstanding.
func (s *Study) primaryInactive(now core.SimTime) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.primaryResearchWorkTime >= s.basePrimaryResearchTime {
		return false
	}
	if s.lastPrimaryContribution == nil {
		return false
	}
	return s.lastPrimaryContribution.Elapsed(now) > s.primaryDowntimeAllowed
}

// evictInactiveCollaborators drops collaborators who exceeded the allowed
// downtime without reaching their required research time. Works on a
// snapshot; a collaborator finishing a contribution concurrently simply
// races the eviction and either outcome is benign.
func (s *Study) evictInactiveCollaborators(now core.SimTime) {
	type candidate struct {
		id   core.PersonID
		last core.SimTime
	}
	var stale []candidate

	s.collabMu.RLock()
	for id, stats := range s.collaborators {
		if stats.ResearchWorkTime >= s.baseCollabResearchTime {
			continue
		}
		if stats.LastContribution == nil {
			continue
		}
		if stats.LastContribution.Elapsed(now) > s.collabDowntimeAllowed {
			stale = append(stale, candidate{id: id, last: *stats.LastContribution})
		}
	}
	s.collabMu.RUnlock()

	for _, c := range stale {
		s.deps.Log.Info("study %s: dropping collaborator %s, inactive since %s",
			s.name, c.id, c.last)
		s.RemoveCollaborator(c.id)
	}
}

// allCollaborativeResearchCompleted reports whether every current
// collaborator reached the required research time.
func (s *Study) allCollaborativeResearchCompleted() bool {
	s.collabMu.RLock()
	defer s.collabMu.RUnlock()
	for _, stats := range s.collaborators {
		if stats.ResearchWorkTime < s.baseCollabResearchTime {
			return false
		}
	}
	return true
}

// allCollaborativePaperCompleted reports whether every current collaborator
// reached the required paper time.
func (s *Study) allCollaborativePaperCompleted() bool {
	s.collabMu.RLock()
	defer s.collabMu.RUnlock()
	for _, stats := range s.collaborators {
		if stats.PaperWorkTime < s.baseCollabPaperTime {
			return false
		}
	}
	return true
}

// advancePaper moves to peer review once the paper is written, recording
// the review start time.
func (s *Study) advancePaper(now core.SimTime) {
	if !s.IsPrimaryPaperCompleted() || !s.allCollaborativePaperCompleted() {
		return
	}

	s.mu.Lock()
	if s.phase == science.PhasePaper {
		s.phase = science.PhasePeerReview
		s.peerReviewStart = &now
		s.deps.Log.Info("study %s: paper submitted for peer review", s.name)
	}
	s.mu.Unlock()
}

// advancePeerReview decides the study's outcome once the review period has
// elapsed.
func (s *Study) advancePeerReview(now core.SimTime) {
	s.mu.RLock()
	start := s.peerReviewStart
	s.mu.RUnlock()
	if start == nil || start.Elapsed(now) < s.basePeerReviewTime {
		return
	}

	chance := s.peerReviewChance()
	s.rngMu.Lock()
	draw := s.rng.Float64() * 100
	s.rngMu.Unlock()

	if draw < chance {
		s.distributeAchievements()
		_ = s.Complete(science.PhaseSuccess, "peer review passed")
	} else {
		_ = s.Complete(science.PhaseFailed, "peer review failed")
	}
	s.deps.Log.Debug("study %s: peer review chance %.1f, draw %.1f", s.name, chance, draw)
}

// peerReviewChance computes the unclamped pass chance. Values at or above
// 100 always pass; degenerate configurations may go below 0 and always
// fail.
func (s *Study) peerReviewChance() float64 {
	primaryAptitude := float64(s.deps.Directory.AcademicAptitude(s.primaryResearcher))
	chance := 50 + (primaryAptitude-50)/2

	s.collabMu.RLock()
	defer s.collabMu.RUnlock()
	for id, stats := range s.collaborators {
		skill := float64(s.deps.Directory.SkillLevel(id, stats.ContributionField))
		aptitude := float64(s.deps.Directory.AcademicAptitude(id))
		contribution := 10*skill/float64(s.difficulty) + (aptitude-50)/10
		if stats.ContributionField != s.field {
			contribution /= 2
		}
		chance += contribution
	}
	return chance
}

// distributeAchievements credits the primary researcher, every current
// collaborator, and their settlements after a successful peer review.
// Collaborators earn in their own contributed field, not the study's.
func (s *Study) distributeAchievements() {
	primaryAmount := float64(s.difficulty)
	s.deps.Achievements.RecordResearcher(s.primaryResearcher, s.field, primaryAmount)
	s.deps.Achievements.RecordSettlement(s.primarySettlement, s.field, primaryAmount)

	collabAmount := float64(s.difficulty) / 3

	s.collabMu.Lock()
	ids := make([]core.PersonID, 0, len(s.collaborators))
	fields := make([]science.Field, 0, len(s.collaborators))
	for id, stats := range s.collaborators {
		stats.AchievementEarned = collabAmount
		ids = append(ids, id)
		fields = append(fields, stats.ContributionField)
	}
	s.collabMu.Unlock()

	for i, id := range ids {
		s.deps.Achievements.RecordResearcher(id, fields[i], collabAmount)
		s.deps.Achievements.RecordSettlement(s.deps.Directory.SettlementOf(id), fields[i], collabAmount)
		if fields[i] == s.field {
			s.deps.Relationships.AchievementShared(s.primaryResearcher, id, s.field)
		}
	}
}
