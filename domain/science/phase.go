package science

// Phase represents the current stage of a study in its fixed forward
// sequence. The three terminal variants are collectively "complete".
type Phase string

const (
	PhaseProposal   Phase = "proposal"
	PhaseInvitation Phase = "invitation"
	PhaseResearch   Phase = "research"
	PhasePaper      Phase = "paper"
	PhasePeerReview Phase = "peer_review"
	PhaseSuccess    Phase = "success"
	PhaseFailed     Phase = "failed"
	PhaseCancelled  Phase = "cancelled"
)

// phaseOrder fixes the forward total order over phases. Terminal variants
// share the highest rank; a study never moves to a lower rank.
var phaseOrder = map[Phase]int{
	PhaseProposal:   0,
	PhaseInvitation: 1,
	PhaseResearch:   2,
	PhasePaper:      3,
	PhasePeerReview: 4,
	PhaseSuccess:    5,
	PhaseFailed:     5,
	PhaseCancelled:  5,
}

// Order returns the rank of the phase in the forward total order.
func (p Phase) Order() int {
	return phaseOrder[p]
}

// IsTerminal reports whether the phase is one of the terminal variants.
func (p Phase) IsTerminal() bool {
	switch p {
	case PhaseSuccess, PhaseFailed, PhaseCancelled:
		return true
	}
	return false
}

// IsValid checks if the phase is a known variant.
func (p Phase) IsValid() bool {
	_, ok := phaseOrder[p]
	return ok
}

// String returns the string representation.
func (p Phase) String() string { return string(p) }

// ScoreWeight returns the reporting weight of a study in this phase:
// a phase-graded weight while ongoing, a fixed outcome weight once terminal.
// Reporting only; no invariant depends on it.
func (p Phase) ScoreWeight() float64 {
	switch p {
	case PhaseProposal:
		return 0.5
	case PhaseInvitation:
		return 1.0
	case PhaseResearch:
		return 1.5
	case PhasePaper:
		return 2.0
	case PhasePeerReview:
		return 2.5
	case PhaseSuccess:
		return 3.0
	case PhaseFailed:
		return 1.0
	case PhaseCancelled:
		return 0.5
	}
	return 0
}

// TimeKind keys the mean-duration parameters a TimeParameterProvider serves.
type TimeKind string

const (
	TimeProposal              TimeKind = "proposal"
	TimePrimaryResearch       TimeKind = "primary_research"
	TimeCollaborativeResearch TimeKind = "collaborative_research"
	TimePrimaryPaper          TimeKind = "primary_paper"
	TimeCollaborativePaper    TimeKind = "collaborative_paper"
	TimePeerReview            TimeKind = "peer_review"
	TimePrimaryDowntime       TimeKind = "primary_downtime"
	TimeCollaborativeDowntime TimeKind = "collaborative_downtime"
)
