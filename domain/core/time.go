package core

import (
	"fmt"
	"math"
)

// MillisolsPerSol is the number of millisols in one mission sol.
const MillisolsPerSol = 1000.0

// SimTime represents a point in simulated mission time, measured in
// millisols since mission start.
type SimTime float64

// NewSimTime creates a SimTime from a sol number and a millisol-of-sol offset.
func NewSimTime(sol int, millisol float64) SimTime {
	return SimTime(float64(sol)*MillisolsPerSol + millisol)
}

// Sol returns the integer mission sol this time falls in.
func (t SimTime) Sol() int {
	return int(math.Floor(float64(t) / MillisolsPerSol))
}

// MillisolOfSol returns the millisol offset within the current sol.
func (t SimTime) MillisolOfSol() float64 {
	return float64(t) - float64(t.Sol())*MillisolsPerSol
}

// Millisols returns the raw millisol count since mission start.
func (t SimTime) Millisols() float64 {
	return float64(t)
}

// Before returns true if t is before u.
func (t SimTime) Before(u SimTime) bool {
	return t < u
}

// After returns true if t is after u.
func (t SimTime) After(u SimTime) bool {
	return t > u
}

// Elapsed returns the duration in millisols from t to u.
func (t SimTime) Elapsed(u SimTime) float64 {
	return float64(u) - float64(t)
}

// String formats the time as sol:millisol for logs and reports.
func (t SimTime) String() string {
	return fmt.Sprintf("%04d:%06.2f", t.Sol(), t.MillisolOfSol())
}

// PersonID identifies a participant in the directory. Zero is never a
// valid participant.
type PersonID int

// IsZero checks if the id is unset.
func (id PersonID) IsZero() bool { return id == 0 }

// String returns the string representation.
func (id PersonID) String() string { return fmt.Sprintf("P%04d", int(id)) }
