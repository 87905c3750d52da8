package study

import (
	"math"
	"math/rand"
	"sync"

	"gostudy/domain/core"
	"gostudy/domain/science"
	"gostudy/internal"
	"gostudy/ports"
)

// CollaboratorStats tracks one collaborator's progress on a study. Owned
// exclusively by the study; access goes through the study's collaborator
// lock.
type CollaboratorStats struct {
	ContributionField science.Field
	ResearchWorkTime  float64
	PaperWorkTime     float64
	LastContribution  *core.SimTime
	AchievementEarned float64
}

// Dependencies bundles the external collaborators a study needs. All are
// injected at construction; the core never reaches for ambient globals.
type Dependencies struct {
	Clock         ports.Clock
	Params        ports.TimeParameterProvider
	Directory     ports.ParticipantDirectory
	Achievements  ports.AchievementSink
	Relationships ports.RelationshipSink
	Log           *internal.Logger
}

// Study is one collaborative research effort with timed phases,
// invitation-based recruitment, inactivity eviction and a probabilistic
// peer-review outcome.
//
// Concurrency: the collaborators map and the invitees map each have their
// own lock; phase, topics and the primary researcher's progress counters
// share the state lock. Operations on different studies never contend.
// Advance is driven by the registry once per tick and is never called twice
// concurrently for the same study, but it interleaves freely with the
// mutation methods.
type Study struct {
	id                int
	name              string
	field             science.Field
	difficulty        int
	primaryResearcher core.PersonID
	primarySettlement string

	// Randomized schedule, drawn once at construction and immutable after.
	baseProposalTime        float64
	basePrimaryResearchTime float64
	baseCollabResearchTime  float64
	basePrimaryPaperTime    float64
	baseCollabPaperTime     float64
	basePeerReviewTime      float64
	primaryDowntimeAllowed  float64
	collabDowntimeAllowed   float64
	maxCollaborators        int

	deps     Dependencies
	selector *Selector

	rngMu sync.Mutex
	rng   *rand.Rand

	mu                      sync.RWMutex
	phase                   science.Phase
	completionReason        string
	topics                  []string
	proposalWorkTime        float64
	primaryResearchWorkTime float64
	primaryPaperWorkTime    float64
	lastPrimaryContribution *core.SimTime
	peerReviewStart         *core.SimTime

	collabMu      sync.RWMutex
	collaborators map[core.PersonID]*CollaboratorStats

	invMu    sync.Mutex
	invitees map[core.PersonID]bool
}

// scheduleJitterSigma spreads each study's base durations around the
// configured means.
const scheduleJitterSigma = 0.1

// newStudy builds a study in the proposal phase with a randomized schedule.
// Construction happens under the registry's create lock.
func newStudy(id int, name string, field science.Field, difficulty int,
	primary core.PersonID, deps Dependencies, rng *rand.Rand) *Study {

	if deps.Relationships == nil {
		deps.Relationships = ports.NoopRelationshipSink{}
	}
	if deps.Log == nil {
		deps.Log = internal.DefaultLogger
	}

	s := &Study{
		id:                id,
		name:              name,
		field:             field,
		difficulty:        difficulty,
		primaryResearcher: primary,
		primarySettlement: deps.Directory.SettlementOf(primary),
		deps:              deps,
		selector:          NewSelector(deps.Directory),
		rng:               rng,
		phase:             science.PhaseProposal,
		collaborators:     make(map[core.PersonID]*CollaboratorStats),
		invitees:          make(map[core.PersonID]bool),
	}

	scale := float64(difficulty)
	s.baseProposalTime = s.drawTime(science.TimeProposal) * scale
	s.basePrimaryResearchTime = s.drawTime(science.TimePrimaryResearch) * scale
	s.baseCollabResearchTime = s.drawTime(science.TimeCollaborativeResearch) * scale
	s.basePrimaryPaperTime = s.drawTime(science.TimePrimaryPaper) * scale
	s.baseCollabPaperTime = s.drawTime(science.TimeCollaborativePaper) * scale
	s.basePeerReviewTime = s.drawTime(science.TimePeerReview) * scale
	s.primaryDowntimeAllowed = s.drawTime(science.TimePrimaryDowntime) * scale
	s.collabDowntimeAllowed = s.drawTime(science.TimeCollaborativeDowntime) * scale
	s.maxCollaborators = s.drawMaxCollaborators()

	return s
}

// drawTime jitters a configured mean duration for this study.
func (s *Study) drawTime(kind science.TimeKind) float64 {
	mean := s.deps.Params.MeanTime(kind)
	s.rngMu.Lock()
	jitter := 1 + s.rng.NormFloat64()*scheduleJitterSigma
	s.rngMu.Unlock()
	if jitter < 0.1 {
		jitter = 0.1
	}
	return mean * jitter
}

// drawMaxCollaborators samples the per-study collaborator cap from a
// positive Gaussian around the configured mean.
func (s *Study) drawMaxCollaborators() int {
	mean := s.deps.Params.MeanCollaboratorCount()
	s.rngMu.Lock()
	n := s.rng.NormFloat64()*mean/3 + mean
	s.rngMu.Unlock()
	return int(math.Round(math.Abs(n)))
}

// ID returns the per-sol study number.
func (s *Study) ID() int { return s.id }

// Name returns the unique display name (field code, settlement code, sol,
// sequence number).
func (s *Study) Name() string { return s.name }

// Field returns the primary science field.
func (s *Study) Field() science.Field { return s.field }

// Difficulty returns the difficulty multiplier.
func (s *Study) Difficulty() int { return s.difficulty }

// PrimaryResearcher returns the lead participant's id.
func (s *Study) PrimaryResearcher() core.PersonID { return s.primaryResearcher }

// PrimarySettlement returns the settlement the study originated from.
func (s *Study) PrimarySettlement() string { return s.primarySettlement }

// MaxCollaborators returns the per-study collaborator cap.
func (s *Study) MaxCollaborators() int { return s.maxCollaborators }

// BaseProposalTime returns the required proposal work time.
func (s *Study) BaseProposalTime() float64 { return s.baseProposalTime }

// BasePrimaryResearchTime returns the required primary research time.
func (s *Study) BasePrimaryResearchTime() float64 { return s.basePrimaryResearchTime }

// BaseCollaborativeResearchTime returns the research time required of each
// collaborator.
func (s *Study) BaseCollaborativeResearchTime() float64 { return s.baseCollabResearchTime }

// BasePrimaryPaperTime returns the required primary paper-writing time.
func (s *Study) BasePrimaryPaperTime() float64 { return s.basePrimaryPaperTime }

// BaseCollaborativePaperTime returns the paper time required of each
// collaborator.
func (s *Study) BaseCollaborativePaperTime() float64 { return s.baseCollabPaperTime }

// BasePeerReviewTime returns the peer-review duration.
func (s *Study) BasePeerReviewTime() float64 { return s.basePeerReviewTime }

// PrimaryDowntimeAllowed returns the tolerated gap since the primary
// researcher's last contribution.
func (s *Study) PrimaryDowntimeAllowed() float64 { return s.primaryDowntimeAllowed }

// CollaborativeDowntimeAllowed returns the tolerated gap since a
// collaborator's last contribution.
func (s *Study) CollaborativeDowntimeAllowed() float64 { return s.collabDowntimeAllowed }

// Phase returns the current phase.
func (s *Study) Phase() science.Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// IsCompleted reports whether the study reached a terminal phase.
func (s *Study) IsCompleted() bool {
	return s.Phase().IsTerminal()
}

// CompletionReason returns the reason recorded at termination, if any.
func (s *Study) CompletionReason() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.completionReason
}

// Topics returns a copy of the study's research topics.
func (s *Study) Topics() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.topics))
	copy(out, s.topics)
	return out
}

// ProposalWorkTime returns the accumulated proposal work time.
func (s *Study) ProposalWorkTime() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.proposalWorkTime
}

// PrimaryResearchWorkTime returns the accumulated primary research time.
func (s *Study) PrimaryResearchWorkTime() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.primaryResearchWorkTime
}

// PrimaryPaperWorkTime returns the accumulated primary paper time.
func (s *Study) PrimaryPaperWorkTime() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.primaryPaperWorkTime
}

// PeerReviewStart returns the time peer review began, if it has.
func (s *Study) PeerReviewStart() (core.SimTime, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.peerReviewStart == nil {
		return 0, false
	}
	return *s.peerReviewStart, true
}

// AddProposalWorkTime adds proposal work, saturating at the required total.
// Primary-researcher scoped; a single writer is assumed.
func (s *Study) AddProposalWorkTime(delta float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase.IsTerminal() {
		return
	}
	s.proposalWorkTime = saturatingAdd(s.proposalWorkTime, delta, s.baseProposalTime)
}

// AddPrimaryResearchWorkTime adds primary research work, saturating at the
// required total, and stamps the primary researcher's last contribution.
func (s *Study) AddPrimaryResearchWorkTime(delta float64) {
	now := s.deps.Clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase.IsTerminal() {
		return
	}
	s.primaryResearchWorkTime = saturatingAdd(s.primaryResearchWorkTime, delta, s.basePrimaryResearchTime)
	s.lastPrimaryContribution = &now
}

// AddPrimaryPaperWorkTime adds primary paper work, saturating at the
// required total, and stamps the primary researcher's last contribution.
func (s *Study) AddPrimaryPaperWorkTime(delta float64) {
	now := s.deps.Clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase.IsTerminal() {
		return
	}
	s.primaryPaperWorkTime = saturatingAdd(s.primaryPaperWorkTime, delta, s.basePrimaryPaperTime)
	s.lastPrimaryContribution = &now
}

// IsPrimaryResearchCompleted reports whether the primary researcher has put
// in the required research time.
func (s *Study) IsPrimaryResearchCompleted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.primaryResearchWorkTime >= s.basePrimaryResearchTime
}

// IsPrimaryPaperCompleted reports whether the primary researcher has put in
// the required paper time.
func (s *Study) IsPrimaryPaperCompleted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.primaryPaperWorkTime >= s.basePrimaryPaperTime
}

// AddCollaborativeResearchWorkTime adds research work for a collaborator,
// saturating at the required total. Returns ErrNotACollaborator if the
// participant is not (or no longer) a collaborator; routine under
// concurrency, never fatal.
func (s *Study) AddCollaborativeResearchWorkTime(researcher core.PersonID, delta float64) error {
	if s.IsCompleted() {
		return core.ErrStudyComplete
	}
	now := s.deps.Clock.Now()
	s.collabMu.Lock()
	defer s.collabMu.Unlock()
	stats, ok := s.collaborators[researcher]
	if !ok {
		return core.ErrNotACollaborator
	}
	stats.ResearchWorkTime = saturatingAdd(stats.ResearchWorkTime, delta, s.baseCollabResearchTime)
	stats.LastContribution = &now
	return nil
}

// AddCollaborativePaperWorkTime adds paper work for a collaborator,
// saturating at the required total. Soft-fails like its research
// counterpart.
func (s *Study) AddCollaborativePaperWorkTime(researcher core.PersonID, delta float64) error {
	if s.IsCompleted() {
		return core.ErrStudyComplete
	}
	now := s.deps.Clock.Now()
	s.collabMu.Lock()
	defer s.collabMu.Unlock()
	stats, ok := s.collaborators[researcher]
	if !ok {
		return core.ErrNotACollaborator
	}
	stats.PaperWorkTime = saturatingAdd(stats.PaperWorkTime, delta, s.baseCollabPaperTime)
	stats.LastContribution = &now
	return nil
}

// IsCollaborativeResearchCompleted reports whether the collaborator has put
// in the required research time. Unknown collaborators report false; the
// collaborator may have just been evicted concurrently.
func (s *Study) IsCollaborativeResearchCompleted(researcher core.PersonID) bool {
	s.collabMu.RLock()
	defer s.collabMu.RUnlock()
	stats, ok := s.collaborators[researcher]
	if !ok {
		return false
	}
	return stats.ResearchWorkTime >= s.baseCollabResearchTime
}

// IsCollaborativePaperCompleted reports whether the collaborator has put in
// the required paper time. Unknown collaborators report false.
func (s *Study) IsCollaborativePaperCompleted(researcher core.PersonID) bool {
	s.collabMu.RLock()
	defer s.collabMu.RUnlock()
	stats, ok := s.collaborators[researcher]
	if !ok {
		return false
	}
	return stats.PaperWorkTime >= s.baseCollabPaperTime
}

// AddCollaborator adds a participant as a collaborator contributing the
// given field and registers the study in the participant's own
// collaboration set. The primary researcher and existing collaborators are
// no-ops.
func (s *Study) AddCollaborator(researcher core.PersonID, field science.Field) {
	if s.IsCompleted() || researcher == s.primaryResearcher {
		return
	}
	now := s.deps.Clock.Now()
	s.collabMu.Lock()
	if _, ok := s.collaborators[researcher]; ok {
		s.collabMu.Unlock()
		return
	}
	s.collaborators[researcher] = &CollaboratorStats{
		ContributionField: field,
		LastContribution:  &now,
	}
	s.collabMu.Unlock()

	s.deps.Directory.AddCollaborativeStudy(researcher, s.name)
	s.deps.Log.Debug("study %s: collaborator %s joined (%s)", s.name, researcher, field)
}

// RemoveCollaborator removes a collaborator and detaches the study from the
// participant's collaboration set. Unknown ids are a no-op; a contribution
// racing this call fails softly as ErrNotACollaborator.
func (s *Study) RemoveCollaborator(researcher core.PersonID) {
	s.collabMu.Lock()
	_, ok := s.collaborators[researcher]
	if ok {
		delete(s.collaborators, researcher)
	}
	s.collabMu.Unlock()
	if !ok {
		return
	}
	s.deps.Directory.RemoveCollaborativeStudy(researcher, s.name)
}

// CollaboratorCount returns the current number of collaborators.
func (s *Study) CollaboratorCount() int {
	s.collabMu.RLock()
	defer s.collabMu.RUnlock()
	return len(s.collaborators)
}

// CollaboratorIDs returns a snapshot of the current collaborator ids.
func (s *Study) CollaboratorIDs() []core.PersonID {
	s.collabMu.RLock()
	defer s.collabMu.RUnlock()
	ids := make([]core.PersonID, 0, len(s.collaborators))
	for id := range s.collaborators {
		ids = append(ids, id)
	}
	return ids
}

// CollaboratorStatsOf returns a copy of the collaborator's stats. The second
// return is false for unknown collaborators.
func (s *Study) CollaboratorStatsOf(researcher core.PersonID) (CollaboratorStats, bool) {
	s.collabMu.RLock()
	defer s.collabMu.RUnlock()
	stats, ok := s.collaborators[researcher]
	if !ok {
		return CollaboratorStats{}, false
	}
	return *stats, true
}

// HasCollaborator reports whether the participant currently collaborates.
func (s *Study) HasCollaborator(researcher core.PersonID) bool {
	s.collabMu.RLock()
	defer s.collabMu.RUnlock()
	_, ok := s.collaborators[researcher]
	return ok
}

// AddInvitee records an extended invitation. Already-invited ids are a
// no-op, so a prior response is never reset.
func (s *Study) AddInvitee(researcher core.PersonID) {
	if s.IsCompleted() {
		return
	}
	s.invMu.Lock()
	defer s.invMu.Unlock()
	if _, ok := s.invitees[researcher]; ok {
		return
	}
	s.invitees[researcher] = false
}

// RespondToInvitation marks an invitation as answered. Idempotent; unknown
// ids are a no-op.
func (s *Study) RespondToInvitation(researcher core.PersonID) {
	if s.IsCompleted() {
		return
	}
	s.invMu.Lock()
	defer s.invMu.Unlock()
	if _, ok := s.invitees[researcher]; !ok {
		return
	}
	s.invitees[researcher] = true
}

// IsInvitee reports whether the participant has been invited, in any
// response state.
func (s *Study) IsInvitee(researcher core.PersonID) bool {
	s.invMu.Lock()
	defer s.invMu.Unlock()
	_, ok := s.invitees[researcher]
	return ok
}

// HasRespondedToInvitation reports whether the invitee has answered.
func (s *Study) HasRespondedToInvitation(researcher core.PersonID) bool {
	s.invMu.Lock()
	defer s.invMu.Unlock()
	return s.invitees[researcher]
}

// HasOpenInvitations reports whether any extended invitation is still
// unanswered.
func (s *Study) HasOpenInvitations() bool {
	s.invMu.Lock()
	defer s.invMu.Unlock()
	for _, responded := range s.invitees {
		if !responded {
			return true
		}
	}
	return false
}

// InviteeIDs returns a snapshot of all invited participant ids.
func (s *Study) InviteeIDs() []core.PersonID {
	s.invMu.Lock()
	defer s.invMu.Unlock()
	ids := make([]core.PersonID, 0, len(s.invitees))
	for id := range s.invitees {
		ids = append(ids, id)
	}
	return ids
}

// Complete forces a terminal phase from any phase and detaches the primary
// researcher and all collaborators. Returns ErrNotTerminalOutcome for a
// non-terminal outcome value.
func (s *Study) Complete(outcome science.Phase, reason string) error {
	if !outcome.IsTerminal() {
		return core.ErrNotTerminalOutcome
	}

	s.mu.Lock()
	if s.phase.IsTerminal() {
		s.mu.Unlock()
		return core.ErrStudyComplete
	}
	s.phase = outcome
	s.completionReason = reason
	s.mu.Unlock()

	s.deps.Directory.ClearPrimaryStudy(s.primaryResearcher)
	for _, id := range s.CollaboratorIDs() {
		s.deps.Directory.RemoveCollaborativeStudy(id, s.name)
	}

	s.deps.Log.Info("study %s: %s (%s)", s.name, outcome, reason)
	return nil
}

// Status returns a snapshot of the study for reporting consumers.
func (s *Study) Status() map[string]interface{} {
	s.mu.RLock()
	phase := s.phase
	reason := s.completionReason
	topics := make([]string, len(s.topics))
	copy(topics, s.topics)
	proposal := s.proposalWorkTime
	research := s.primaryResearchWorkTime
	paper := s.primaryPaperWorkTime
	s.mu.RUnlock()

	return map[string]interface{}{
		"id":                 s.id,
		"name":               s.name,
		"field":              s.field,
		"difficulty":         s.difficulty,
		"phase":              phase,
		"completion_reason":  reason,
		"primary_researcher": s.primaryResearcher,
		"primary_settlement": s.primarySettlement,
		"topics":             topics,
		"proposal_work":      proposal,
		"research_work":      research,
		"paper_work":         paper,
		"collaborators":      s.CollaboratorCount(),
		"max_collaborators":  s.maxCollaborators,
	}
}

// saturatingAdd adds delta to value without exceeding cap.
func saturatingAdd(value, delta, cap float64) float64 {
	value += delta
	if value > cap {
		return cap
	}
	return value
}
