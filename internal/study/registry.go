package study

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"gostudy/domain/core"
	"gostudy/domain/science"
	"gostudy/internal"
	"gostudy/ports"
)

// advanceParallelism caps the tick fan-out across studies.
const advanceParallelism = 8

// Registry creates studies, retains all of them for the life of the
// registry, and answers settlement-level and researcher-level queries by
// scanning the retained set.
//
// The study collection and the id counter are the only registry-wide shared
// mutable state; both are covered by one critical section during Create.
// Read-only queries work on snapshots and tolerate concurrent study
// mutation.
type Registry struct {
	deps Dependencies
	rng  ports.RNG
	seed int64

	mu      sync.Mutex
	studies []*Study
	lastSol int
	nextID  int
}

// NewRegistry creates a registry with the given external collaborators and
// base seed for per-study random streams.
func NewRegistry(deps Dependencies, rng ports.RNG, seed int64) *Registry {
	if deps.Relationships == nil {
		deps.Relationships = ports.NoopRelationshipSink{}
	}
	if deps.Log == nil {
		deps.Log = internal.DefaultLogger
	}
	return &Registry{
		deps:    deps,
		rng:     rng,
		seed:    seed,
		lastSol: -1,
	}
}

// Create starts a new study in the proposal phase. Study numbers restart at
// 1 whenever the mission sol changes between calls; the sol is embedded in
// the generated name, which stays unique for the life of the registry.
func (r *Registry) Create(primary core.PersonID, field science.Field, difficulty int) (*Study, error) {
	if primary.IsZero() {
		return nil, core.ErrNoPrimaryResearcher
	}
	if field.IsEmpty() {
		return nil, core.ErrNoField
	}
	if difficulty < 0 {
		return nil, core.ErrNegativeDifficulty
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	sol := r.deps.Clock.Now().Sol()
	if sol != r.lastSol {
		r.lastSol = sol
		r.nextID = 0
	}
	r.nextID++
	id := r.nextID

	settlement := r.deps.Directory.SettlementOf(primary)
	name := studyName(field, settlement, sol, id)
	stream := r.rng.SeededStream(name, r.seed+int64(sol)*10000+int64(id))

	s := newStudy(id, name, field, difficulty, primary, r.deps, stream)
	r.studies = append(r.studies, s)
	r.deps.Directory.AssignPrimaryStudy(primary, name)

	r.deps.Log.Info("study %s created by %s (difficulty %d)", name, primary, difficulty)
	return s, nil
}

// studyName derives the immutable display name: field code, settlement
// code, sol number and the sol-sequence number.
func studyName(field science.Field, settlement string, sol, seq int) string {
	return fmt.Sprintf("%s-%s-%d-%03d", field.Code(), settlementCode(settlement), sol, seq)
}

// settlementCode compresses a settlement name into a short uppercase code.
func settlementCode(settlement string) string {
	cleaned := strings.ToUpper(strings.ReplaceAll(settlement, " ", ""))
	if cleaned == "" {
		return "XX"
	}
	if len(cleaned) > 3 {
		cleaned = cleaned[:3]
	}
	return cleaned
}

// AdvanceAll delivers one clock tick to every retained study, fanning out
// across goroutines. Each study sees at most one Advance at a time; ongoing
// mutation calls interleave freely.
func (r *Registry) AdvanceAll(now core.SimTime) {
	studies := r.snapshot()

	g := new(errgroup.Group)
	g.SetLimit(advanceParallelism)
	for _, s := range studies {
		s := s
		g.Go(func() error {
			s.Advance(now)
			return nil
		})
	}
	_ = g.Wait()
}

// snapshot copies the retained study slice under the registry lock.
func (r *Registry) snapshot() []*Study {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Study, len(r.studies))
	copy(out, r.studies)
	return out
}

// AllStudies returns the retained studies matching the predicate. A nil
// predicate matches everything.
func (r *Registry) AllStudies(predicate func(*Study) bool) []*Study {
	var out []*Study
	for _, s := range r.snapshot() {
		if predicate == nil || predicate(s) {
			out = append(out, s)
		}
	}
	return out
}

// OngoingStudies returns every study that has not reached a terminal phase.
func (r *Registry) OngoingStudies() []*Study {
	return r.AllStudies(func(s *Study) bool { return !s.IsCompleted() })
}

// CompletedStudies returns every study in a terminal phase.
func (r *Registry) CompletedStudies() []*Study {
	return r.AllStudies(func(s *Study) bool { return s.IsCompleted() })
}

// FindByName returns the study with the given display name.
func (r *Registry) FindByName(name string) (*Study, error) {
	for _, s := range r.snapshot() {
		if s.Name() == name {
			return s, nil
		}
	}
	return nil, core.NewNotFoundError("study", name)
}

// PrimaryStudiesOf returns the studies the participant leads.
func (r *Registry) PrimaryStudiesOf(researcher core.PersonID) []*Study {
	return r.AllStudies(func(s *Study) bool { return s.PrimaryResearcher() == researcher })
}

// CollaborativeStudiesOf returns the ongoing studies the participant
// collaborates on.
func (r *Registry) CollaborativeStudiesOf(researcher core.PersonID) []*Study {
	return r.AllStudies(func(s *Study) bool {
		return !s.IsCompleted() && s.HasCollaborator(researcher)
	})
}

// OpenInvitationsFor returns the studies in the invitation phase where the
// researcher is an unresponded invitee.
func (r *Registry) OpenInvitationsFor(researcher core.PersonID) []*Study {
	return r.AllStudies(func(s *Study) bool {
		if s.Phase() != science.PhaseInvitation {
			return false
		}
		return s.IsInvitee(researcher) && !s.HasRespondedToInvitation(researcher)
	})
}

// CompletionCounts is the categorical study tally for one settlement.
type CompletionCounts struct {
	Succeeded            int `json:"succeeded"`
	Failed               int `json:"failed"`
	Cancelled            int `json:"cancelled"`
	OngoingPrimary       int `json:"ongoing_primary"`
	OngoingCollaborative int `json:"ongoing_collaborative"`
}

// ScienceScore sums a phase-weighted score over the settlement's studies.
// An empty field matches any field. Ongoing studies score by phase weight
// for the primary settlement; a collaborating settlement is credited the
// phase weight once when at least one of its collaborators matches the
// filter. Terminal studies score a fixed outcome weight for the primary
// settlement. Reporting only; scores may be computed against a
// rapidly-stale phase value.
func (r *Registry) ScienceScore(settlement string, field science.Field) float64 {
	score := 0.0
	for _, s := range r.snapshot() {
		phase := s.Phase()
		if phase.IsTerminal() {
			if s.PrimarySettlement() == settlement && fieldMatches(field, s.Field()) {
				score += phase.ScoreWeight()
			}
			continue
		}
		if s.PrimarySettlement() == settlement && fieldMatches(field, s.Field()) {
			score += phase.ScoreWeight()
			continue
		}
		if r.hasCollaboratorFrom(s, settlement, field) {
			score += phase.ScoreWeight()
		}
	}
	return score
}

// CompletionCountsFor tallies the settlement's studies using the same
// classification rules as ScienceScore.
func (r *Registry) CompletionCountsFor(settlement string, field science.Field) CompletionCounts {
	var counts CompletionCounts
	for _, s := range r.snapshot() {
		phase := s.Phase()
		if phase.IsTerminal() {
			if s.PrimarySettlement() != settlement || !fieldMatches(field, s.Field()) {
				continue
			}
			switch phase {
			case science.PhaseSuccess:
				counts.Succeeded++
			case science.PhaseFailed:
				counts.Failed++
			case science.PhaseCancelled:
				counts.Cancelled++
			}
			continue
		}
		if s.PrimarySettlement() == settlement && fieldMatches(field, s.Field()) {
			counts.OngoingPrimary++
			continue
		}
		if r.hasCollaboratorFrom(s, settlement, field) {
			counts.OngoingCollaborative++
		}
	}
	return counts
}

// hasCollaboratorFrom reports whether an ongoing study has a collaborator
// associated with the settlement whose contribution field matches the
// filter.
func (r *Registry) hasCollaboratorFrom(s *Study, settlement string, field science.Field) bool {
	for _, id := range s.CollaboratorIDs() {
		if r.deps.Directory.SettlementOf(id) != settlement {
			continue
		}
		stats, ok := s.CollaboratorStatsOf(id)
		if !ok {
			continue
		}
		if fieldMatches(field, stats.ContributionField) {
			return true
		}
	}
	return false
}

// fieldMatches treats an empty filter as "any field".
func fieldMatches(filter, actual science.Field) bool {
	return filter.IsEmpty() || filter == actual
}
