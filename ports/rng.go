package ports

import "math/rand"

// RNG provides seeded random number generation for deterministic operations.
// Every stochastic draw inside the core (schedule jitter, collaborator cap,
// peer-review outcome) goes through a stream obtained here, so tests can
// inject a fixed seed and replay outcomes.
type RNG interface {
	// SeededStream creates a deterministic random number generator for a
	// named operation.
	SeededStream(name string, seed int64) *rand.Rand
}
