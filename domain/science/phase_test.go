package science

import "testing"

func TestPhaseOrderIsForward(t *testing.T) {
	sequence := []Phase{PhaseProposal, PhaseInvitation, PhaseResearch, PhasePaper, PhasePeerReview}
	for i := 1; i < len(sequence); i++ {
		if sequence[i].Order() <= sequence[i-1].Order() {
			t.Errorf("Expected %s to rank above %s", sequence[i], sequence[i-1])
		}
	}
	for _, terminal := range []Phase{PhaseSuccess, PhaseFailed, PhaseCancelled} {
		if !terminal.IsTerminal() {
			t.Errorf("Expected %s to be terminal", terminal)
		}
		if terminal.Order() <= PhasePeerReview.Order() {
			t.Errorf("Expected %s to rank above peer review", terminal)
		}
	}
	if PhaseSuccess.Order() != PhaseFailed.Order() || PhaseFailed.Order() != PhaseCancelled.Order() {
		t.Error("Expected all terminal phases to share one rank")
	}
}

func TestPhaseValidity(t *testing.T) {
	for phase := range phaseOrder {
		if !phase.IsValid() {
			t.Errorf("Expected %s to be valid", phase)
		}
	}
	if Phase("drafting").IsValid() {
		t.Error("Expected unknown phase to be invalid")
	}
	if PhaseResearch.IsTerminal() {
		t.Error("Expected research to be non-terminal")
	}
}

func TestScoreWeights(t *testing.T) {
	if PhaseSuccess.ScoreWeight() != 3.0 {
		t.Errorf("Unexpected success weight %.2f", PhaseSuccess.ScoreWeight())
	}
	if PhaseFailed.ScoreWeight() != 1.0 {
		t.Errorf("Unexpected failure weight %.2f", PhaseFailed.ScoreWeight())
	}
	if PhaseCancelled.ScoreWeight() != 0.5 {
		t.Errorf("Unexpected cancellation weight %.2f", PhaseCancelled.ScoreWeight())
	}

	// Ongoing weights grow with progress.
	prev := 0.0
	for _, phase := range []Phase{PhaseProposal, PhaseInvitation, PhaseResearch, PhasePaper, PhasePeerReview} {
		if w := phase.ScoreWeight(); w <= prev {
			t.Errorf("Expected %s weight above %.2f, got %.2f", phase, prev, w)
		} else {
			prev = w
		}
	}
}
