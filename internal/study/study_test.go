package study

import (
	"errors"
	"math/rand"
	"sync"
	"testing"

	"gostudy/domain/core"
	"gostudy/domain/science"
	"gostudy/internal"
	"gostudy/internal/testkit"
)

type testEnv struct {
	clock        *testkit.StepClock
	directory    *testkit.FakeDirectory
	params       *testkit.FixedParams
	achievements *testkit.AchievementRecorder
	deps         Dependencies
}

func newTestEnv() *testEnv {
	env := &testEnv{
		clock:        testkit.NewStepClock(core.NewSimTime(10, 0)),
		directory:    testkit.NewFakeDirectory(),
		params:       testkit.NewFixedParams(100, 2),
		achievements: testkit.NewAchievementRecorder(),
	}
	env.deps = Dependencies{
		Clock:        env.clock,
		Params:       env.params,
		Directory:    env.directory,
		Achievements: env.achievements,
		Log:          internal.NewLogger(internal.LogLevelError),
	}
	return env
}

func (env *testEnv) addResearcher(id core.PersonID, settlement string, field science.Field, aptitude, skill int) {
	env.directory.Add(testkit.Participant{
		ID:         id,
		Settlement: settlement,
		Field:      field,
		Aptitude:   aptitude,
		Skills:     map[science.Field]int{field: skill},
	})
}

func (env *testEnv) newStudy(t *testing.T, field science.Field, difficulty int, primary core.PersonID) *Study {
	t.Helper()
	return newStudy(1, "TST-AL-10-001", field, difficulty, primary, env.deps,
		rand.New(rand.NewSource(42)))
}

func TestProposalWorkTimeSaturates(t *testing.T) {
	env := newTestEnv()
	env.addResearcher(1, "Alpha Base", science.Biology, 50, 5)
	s := env.newStudy(t, science.Biology, 1, 1)

	required := s.BaseProposalTime()
	s.AddProposalWorkTime(required * 3)
	if got := s.ProposalWorkTime(); got != required {
		t.Errorf("Expected proposal work to saturate at %.2f, got %.2f", required, got)
	}
}

func TestCollaborativeWorkTimeSaturates(t *testing.T) {
	env := newTestEnv()
	env.addResearcher(1, "Alpha Base", science.Biology, 50, 5)
	env.addResearcher(2, "Alpha Base", science.Botany, 50, 5)
	s := env.newStudy(t, science.Biology, 1, 1)
	s.AddCollaborator(2, science.Botany)

	required := s.BaseCollaborativeResearchTime()
	for i := 0; i < 5; i++ {
		if err := s.AddCollaborativeResearchWorkTime(2, required); err != nil {
			t.Fatalf("Unexpected error adding collaborative work: %v", err)
		}
	}
	stats, ok := s.CollaboratorStatsOf(2)
	if !ok {
		t.Fatal("Expected collaborator 2 to be present")
	}
	if stats.ResearchWorkTime != required {
		t.Errorf("Expected research work to saturate at %.2f, got %.2f", required, stats.ResearchWorkTime)
	}
	if !s.IsCollaborativeResearchCompleted(2) {
		t.Error("Expected collaborative research to be completed after saturation")
	}
}

func TestUnknownCollaboratorSoftFailure(t *testing.T) {
	env := newTestEnv()
	env.addResearcher(1, "Alpha Base", science.Biology, 50, 5)
	s := env.newStudy(t, science.Biology, 1, 1)

	if err := s.AddCollaborativeResearchWorkTime(99, 10); !errors.Is(err, core.ErrNotACollaborator) {
		t.Errorf("Expected ErrNotACollaborator, got %v", err)
	}
	if s.IsCollaborativeResearchCompleted(99) {
		t.Error("Expected completion query for unknown collaborator to report false")
	}
	if _, ok := s.CollaboratorStatsOf(99); ok {
		t.Error("Expected no stats for unknown collaborator")
	}

	// Removing an unknown collaborator is a silent no-op.
	s.RemoveCollaborator(99)
}

func TestPrimaryResearcherCannotCollaborate(t *testing.T) {
	env := newTestEnv()
	env.addResearcher(1, "Alpha Base", science.Biology, 50, 5)
	s := env.newStudy(t, science.Biology, 1, 1)

	s.AddCollaborator(1, science.Biology)
	if s.HasCollaborator(1) {
		t.Error("Expected the primary researcher to be rejected as collaborator")
	}
}

func TestRespondToInvitationIdempotent(t *testing.T) {
	env := newTestEnv()
	env.addResearcher(1, "Alpha Base", science.Biology, 50, 5)
	s := env.newStudy(t, science.Biology, 1, 1)

	s.AddInvitee(7)
	s.RespondToInvitation(7)
	s.RespondToInvitation(7)
	if !s.HasRespondedToInvitation(7) {
		t.Error("Expected invitee 7 to stay responded")
	}

	// Re-inviting must not reset the response.
	s.AddInvitee(7)
	if !s.HasRespondedToInvitation(7) {
		t.Error("Expected re-invitation to keep the response")
	}

	// Responding for a never-invited id is a no-op.
	s.RespondToInvitation(8)
	if s.IsInvitee(8) {
		t.Error("Expected response for unknown invitee to be a no-op")
	}
}

func TestCompleteRequiresTerminalOutcome(t *testing.T) {
	env := newTestEnv()
	env.addResearcher(1, "Alpha Base", science.Biology, 50, 5)
	s := env.newStudy(t, science.Biology, 1, 1)

	if err := s.Complete(science.PhaseResearch, "nope"); !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for non-terminal outcome, got %v", err)
	}
	if err := s.Complete(science.PhaseCancelled, "primary researcher died"); err != nil {
		t.Fatalf("Unexpected error completing study: %v", err)
	}
	if got := s.Phase(); got != science.PhaseCancelled {
		t.Errorf("Expected phase cancelled, got %s", got)
	}
	if got := s.CompletionReason(); got != "primary researcher died" {
		t.Errorf("Unexpected completion reason %q", got)
	}
}

func TestTerminalStudyRejectsMutation(t *testing.T) {
	env := newTestEnv()
	env.addResearcher(1, "Alpha Base", science.Biology, 50, 5)
	env.addResearcher(2, "Alpha Base", science.Botany, 50, 5)
	s := env.newStudy(t, science.Biology, 1, 1)

	if err := s.Complete(science.PhaseCancelled, "test"); err != nil {
		t.Fatalf("Unexpected error completing study: %v", err)
	}

	s.AddProposalWorkTime(50)
	if got := s.ProposalWorkTime(); got != 0 {
		t.Errorf("Expected no proposal work after termination, got %.2f", got)
	}

	s.AddCollaborator(2, science.Botany)
	if s.HasCollaborator(2) {
		t.Error("Expected no collaborator additions after termination")
	}

	s.AddInvitee(3)
	if s.IsInvitee(3) {
		t.Error("Expected no invitations after termination")
	}

	if err := s.AddCollaborativeResearchWorkTime(2, 10); !errors.Is(err, core.ErrStudyComplete) {
		t.Errorf("Expected ErrStudyComplete, got %v", err)
	}
}

func TestCollaboratorDetachOnComplete(t *testing.T) {
	env := newTestEnv()
	env.addResearcher(1, "Alpha Base", science.Biology, 50, 5)
	env.addResearcher(2, "Alpha Base", science.Botany, 50, 5)
	s := env.newStudy(t, science.Biology, 1, 1)

	s.AddCollaborator(2, science.Botany)
	if got := env.directory.CollaborativeStudiesOf(2); len(got) != 1 {
		t.Fatalf("Expected one collaboration association, got %v", got)
	}

	if err := s.Complete(science.PhaseCancelled, "test"); err != nil {
		t.Fatalf("Unexpected error completing study: %v", err)
	}
	if got := env.directory.CollaborativeStudiesOf(2); len(got) != 0 {
		t.Errorf("Expected collaboration association cleared, got %v", got)
	}
}

func TestConcurrentCollaboratorMutation(t *testing.T) {
	env := newTestEnv()
	env.addResearcher(1, "Alpha Base", science.Biology, 50, 5)
	s := env.newStudy(t, science.Biology, 1, 1)

	const survivors = 50
	const churned = 50

	for i := 0; i < survivors; i++ {
		s.AddCollaborator(core.PersonID(100+i), science.Biology)
	}

	var wg sync.WaitGroup

	// Concurrent progress for the surviving collaborators.
	for i := 0; i < survivors; i++ {
		wg.Add(1)
		go func(id core.PersonID) {
			defer wg.Done()
			if err := s.AddCollaborativeResearchWorkTime(id, 10); err != nil {
				t.Errorf("Unexpected error for collaborator %s: %v", id, err)
			}
		}(core.PersonID(100 + i))
	}

	// A disjoint set concurrently joins and leaves.
	for i := 0; i < churned; i++ {
		wg.Add(1)
		go func(id core.PersonID) {
			defer wg.Done()
			s.AddCollaborator(id, science.Botany)
			s.RemoveCollaborator(id)
		}(core.PersonID(500 + i))
	}

	wg.Wait()

	if got := s.CollaboratorCount(); got != survivors {
		t.Errorf("Expected %d surviving collaborators, got %d", survivors, got)
	}
	for i := 0; i < survivors; i++ {
		stats, ok := s.CollaboratorStatsOf(core.PersonID(100 + i))
		if !ok {
			t.Fatalf("Lost collaborator %d", 100+i)
		}
		if stats.ResearchWorkTime != 10 {
			t.Errorf("Lost update for collaborator %d: got %.2f", 100+i, stats.ResearchWorkTime)
		}
	}
}

func TestStatusSnapshot(t *testing.T) {
	env := newTestEnv()
	env.addResearcher(1, "Alpha Base", science.Biology, 50, 5)
	s := env.newStudy(t, science.Biology, 2, 1)

	status := s.Status()
	if status["name"] != "TST-AL-10-001" {
		t.Errorf("Unexpected name in status: %v", status["name"])
	}
	if status["phase"] != science.PhaseProposal {
		t.Errorf("Unexpected phase in status: %v", status["phase"])
	}
	if status["difficulty"] != 2 {
		t.Errorf("Unexpected difficulty in status: %v", status["difficulty"])
	}
}
