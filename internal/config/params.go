package config

import (
	"fmt"
	"math/rand"
	"sync"

	"gostudy/domain/science"
)

// StudyParameters is the config-backed TimeParameterProvider. Mean durations
// come from ScienceConfig; topics are drawn from a built-in per-field pool.
type StudyParameters struct {
	cfg ScienceConfig

	mu  sync.Mutex
	rng *rand.Rand
}

// NewStudyParameters creates a provider from the loaded science config and a
// seeded topic stream.
func NewStudyParameters(cfg ScienceConfig, rng *rand.Rand) *StudyParameters {
	return &StudyParameters{cfg: cfg, rng: rng}
}

// MeanTime returns the configured mean duration for the given kind.
func (p *StudyParameters) MeanTime(kind science.TimeKind) float64 {
	return p.cfg.MeanTimes[kind]
}

// MeanCollaboratorCount returns the configured collaborator-count mean.
func (p *StudyParameters) MeanCollaboratorCount() float64 {
	return p.cfg.MeanCollaboratorCount
}

// RandomTopic draws a topic for the given field from the built-in pool.
func (p *StudyParameters) RandomTopic(field science.Field) string {
	pool, ok := fieldTopics[field]
	if !ok || len(pool) == 0 {
		return fmt.Sprintf("general %s survey", field)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return pool[p.rng.Intn(len(pool))]
}

// fieldTopics holds a small built-in topic pool per field. Replaceable by a
// richer external provider; the core only sees the port.
var fieldTopics = map[science.Field][]string{
	science.Areology: {
		"regolith stratigraphy of the northern lowlands",
		"recurring slope lineae formation",
		"subsurface ice distribution mapping",
	},
	science.Astronomy: {
		"dust-storm effects on optical seeing",
		"orbital debris cataloguing",
		"solar flare early warning",
	},
	science.Biology: {
		"microbial survival in perchlorate soils",
		"radiation effects on cell cultures",
		"closed-loop ecosystem stability",
	},
	science.Botany: {
		"low-pressure greenhouse crop yields",
		"hydroponic nutrient cycling",
		"plant phototropism under LED spectra",
	},
	science.Chemistry: {
		"in-situ propellant synthesis",
		"perchlorate remediation pathways",
		"atmospheric trace gas analysis",
	},
	science.Computing: {
		"fault-tolerant habitat control software",
		"bandwidth-constrained data triage",
		"autonomous rover path planning",
	},
	science.Engineering: {
		"dust mitigation for solar arrays",
		"3D-printed structural regolith composites",
		"airlock seal fatigue analysis",
	},
	science.Mathematics: {
		"trajectory optimization under dust drag",
		"resource allocation under uncertainty",
		"stochastic failure modelling",
	},
	science.Medicine: {
		"bone density countermeasures",
		"closed-habitat epidemiology",
		"telemedicine latency compensation",
	},
	science.Meteorology: {
		"dust devil frequency mapping",
		"seasonal pressure cycle modelling",
		"boundary layer turbulence",
	},
	science.Physics: {
		"cosmic ray shielding effectiveness",
		"low-gravity fluid dynamics",
		"thermal cycling material stress",
	},
	science.Psychology: {
		"crew cohesion in long-duration isolation",
		"circadian adaptation to sol length",
		"workload and error rate correlation",
	},
}
