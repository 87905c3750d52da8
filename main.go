package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"gostudy/domain/core"
	"gostudy/domain/science"
	"gostudy/internal"
	"gostudy/internal/config"
	"gostudy/internal/reporting"
	"gostudy/internal/study"
	"gostudy/internal/testkit"
	"gostudy/ui"
)

const (
	simulationSols  = 30
	ticksPerSol     = 10
	workPerTick     = 40.0
	acceptChance    = 0.75
	collabWorkShare = 0.5
)

var settlements = []string{"Alpha Base", "New Plymouth", "Tianming"}

func main() {
	// Load .env file if present (optional in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewDefaultLogger()
	runID := uuid.New()
	logger.Info("simulation run %s starting", runID)

	rng := testkit.SeededRNG{}
	params := config.NewStudyParameters(cfg.Science, rng.SeededStream("topics", cfg.Science.BaseSeed))
	directory := buildPopulation()
	achievements := testkit.NewAchievementRecorder()

	clock := testkit.NewStepClock(core.NewSimTime(1000, 0))
	registry := study.NewRegistry(study.Dependencies{
		Clock:        clock,
		Params:       params,
		Directory:    directory,
		Achievements: achievements,
		Log:          logger,
	}, rng, cfg.Science.BaseSeed)

	server := ui.NewServer(registry, settlements, logger)
	go func() {
		if err := server.ListenAndServe(cfg.Server.Port); err != nil {
			logger.Error("reporting server stopped: %v", err)
		}
	}()

	driver := newDriver(registry, directory, clock, logger,
		rng.SeededStream("driver", cfg.Science.BaseSeed))
	driver.run(simulationSols, ticksPerSol)

	if err := exportScoreboard(cfg, registry, logger); err != nil {
		logger.Error("scoreboard export failed: %v", err)
	}
	logger.Info("simulation run %s finished: %d studies, %d completed",
		runID, len(registry.AllStudies(nil)), len(registry.CompletedStudies()))
}

// buildPopulation creates a small demo population across the settlements.
func buildPopulation() *testkit.FakeDirectory {
	directory := testkit.NewFakeDirectory()
	fields := science.AllFields()
	id := core.PersonID(0)
	for _, settlement := range settlements {
		for i := 0; i < 8; i++ {
			id++
			field := fields[int(id)%len(fields)]
			directory.Add(testkit.Participant{
				ID:         id,
				Settlement: settlement,
				Field:      field,
				Aptitude:   40 + int(id)%50,
				Skills:     map[science.Field]int{field: 1 + int(id)%9},
			})
		}
	}
	return directory
}

// driver simulates participant activity: proposal work, invitations,
// research and paper contributions. The core owns none of this; it only
// reacts to the calls.
type driver struct {
	registry  *study.Registry
	directory *testkit.FakeDirectory
	clock     *testkit.StepClock
	log       *internal.Logger
	rng       *rand.Rand
}

func newDriver(registry *study.Registry, directory *testkit.FakeDirectory,
	clock *testkit.StepClock, log *internal.Logger, rng *rand.Rand) *driver {
	return &driver{
		registry:  registry,
		directory: directory,
		clock:     clock,
		log:       log.Named("driver"),
		rng:       rng,
	}
}

func (d *driver) run(sols, ticksPerSol int) {
	tickLength := core.MillisolsPerSol / float64(ticksPerSol)
	for sol := 0; sol < sols; sol++ {
		d.proposeStudies()
		for tick := 0; tick < ticksPerSol; tick++ {
			d.clock.Step(tickLength)
			now := d.clock.Now()
			d.workOnStudies()
			d.registry.AdvanceAll(now)
		}
	}
}

// proposeStudies lets a few idle researchers start new studies each sol.
func (d *driver) proposeStudies() {
	for _, id := range d.directory.AllParticipants() {
		if d.directory.PrimaryStudyOf(id) != "" || d.rng.Float64() > 0.1 {
			continue
		}
		field, ok := d.directory.FieldOfScience(id)
		if !ok {
			continue
		}
		difficulty := 1 + d.rng.Intn(3)
		if _, err := d.registry.Create(id, field, difficulty); err != nil {
			d.log.Warn("create study for %s: %v", id, err)
		}
	}
}

// workOnStudies plays one tick of participant activity on every ongoing
// study.
func (d *driver) workOnStudies() {
	for _, s := range d.registry.OngoingStudies() {
		switch s.Phase() {
		case science.PhaseProposal:
			s.AddProposalWorkTime(workPerTick)
		case science.PhaseInvitation:
			d.extendInvitations(s)
		case science.PhaseResearch:
			s.AddPrimaryResearchWorkTime(workPerTick)
			for _, id := range s.CollaboratorIDs() {
				_ = s.AddCollaborativeResearchWorkTime(id, workPerTick*collabWorkShare)
			}
		case science.PhasePaper:
			s.AddPrimaryPaperWorkTime(workPerTick)
			for _, id := range s.CollaboratorIDs() {
				_ = s.AddCollaborativePaperWorkTime(id, workPerTick*collabWorkShare)
			}
		}
	}
}

// extendInvitations invites one eligible researcher per tick and answers
// outstanding invitations.
func (d *driver) extendInvitations(s *study.Study) {
	selector := study.NewSelector(d.directory)
	if available := selector.ListAvailable(s); len(available) > 0 &&
		s.CollaboratorCount() < s.MaxCollaborators() {
		s.AddInvitee(available[d.rng.Intn(len(available))])
	}

	for _, id := range s.InviteeIDs() {
		if s.HasRespondedToInvitation(id) {
			continue
		}
		if d.rng.Float64() < acceptChance {
			if field, ok := d.directory.FieldOfScience(id); ok {
				s.AddCollaborator(id, field)
			}
		}
		s.RespondToInvitation(id)
	}
}

// exportScoreboard writes the final settlement scoreboard workbook.
func exportScoreboard(cfg *config.Config, registry *study.Registry, logger *internal.Logger) error {
	if err := os.MkdirAll(cfg.Paths.ReportDir, 0o755); err != nil {
		return fmt.Errorf("ensure report dir: %w", err)
	}
	reporter := reporting.NewReporter(registry)
	summaries, overall, err := reporter.Scoreboard(settlements, "")
	if err != nil {
		return err
	}
	path := filepath.Join(cfg.Paths.ReportDir, "scoreboard.xlsx")
	if err := reporting.ExportScoreboard(path, summaries, overall); err != nil {
		return err
	}
	logger.Info("scoreboard written to %s", path)
	return nil
}
