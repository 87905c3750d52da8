package ports

import "gostudy/domain/core"

// Clock provides the simulated mission time. The core never reaches for an
// ambient global clock; every consumer takes a Clock at construction.
type Clock interface {
	// Now returns the current simulated time.
	Now() core.SimTime
}
