package testkit

import (
	"hash/fnv"
	"math/rand"
	"sort"
	"sync"

	"gostudy/domain/core"
	"gostudy/domain/science"
	"gostudy/ports"
)

// Participant is one fake directory entry.
type Participant struct {
	ID         core.PersonID
	Settlement string
	Field      science.Field // empty means the role declares no field
	Aptitude   int
	Skills     map[science.Field]int
	Dead       bool

	primaryStudy  string
	collaborating map[string]bool
}

// FakeDirectory is an in-memory ParticipantDirectory for tests and demo
// runs. Safe for concurrent use.
type FakeDirectory struct {
	mu           sync.RWMutex
	participants map[core.PersonID]*Participant
}

// NewFakeDirectory creates an empty directory.
func NewFakeDirectory() *FakeDirectory {
	return &FakeDirectory{participants: make(map[core.PersonID]*Participant)}
}

// Add registers a participant. Later calls with the same id overwrite.
func (d *FakeDirectory) Add(p Participant) {
	if p.Skills == nil {
		p.Skills = make(map[science.Field]int)
	}
	p.collaborating = make(map[string]bool)
	d.mu.Lock()
	d.participants[p.ID] = &p
	d.mu.Unlock()
}

// Kill marks a participant dead.
func (d *FakeDirectory) Kill(id core.PersonID) {
	d.mu.Lock()
	if p, ok := d.participants[id]; ok {
		p.Dead = true
	}
	d.mu.Unlock()
}

// Exists implements ports.ParticipantDirectory.
func (d *FakeDirectory) Exists(id core.PersonID) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.participants[id]
	return ok
}

// IsDead implements ports.ParticipantDirectory. Unknown ids report dead.
func (d *FakeDirectory) IsDead(id core.PersonID) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.participants[id]
	if !ok {
		return true
	}
	return p.Dead
}

// FieldOfScience implements ports.ParticipantDirectory.
func (d *FakeDirectory) FieldOfScience(id core.PersonID) (science.Field, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.participants[id]
	if !ok || p.Field.IsEmpty() {
		return "", false
	}
	return p.Field, true
}

// AcademicAptitude implements ports.ParticipantDirectory.
func (d *FakeDirectory) AcademicAptitude(id core.PersonID) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if p, ok := d.participants[id]; ok {
		return p.Aptitude
	}
	return 0
}

// SkillLevel implements ports.ParticipantDirectory.
func (d *FakeDirectory) SkillLevel(id core.PersonID, field science.Field) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if p, ok := d.participants[id]; ok {
		return p.Skills[field]
	}
	return 0
}

// SettlementOf implements ports.ParticipantDirectory.
func (d *FakeDirectory) SettlementOf(id core.PersonID) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if p, ok := d.participants[id]; ok {
		return p.Settlement
	}
	return ""
}

// AllParticipants implements ports.ParticipantDirectory. Returns a sorted
// snapshot for deterministic iteration in tests.
func (d *FakeDirectory) AllParticipants() []core.PersonID {
	d.mu.RLock()
	ids := make([]core.PersonID, 0, len(d.participants))
	for id := range d.participants {
		ids = append(ids, id)
	}
	d.mu.RUnlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// AssignPrimaryStudy implements ports.ParticipantDirectory.
func (d *FakeDirectory) AssignPrimaryStudy(id core.PersonID, study string) {
	d.mu.Lock()
	if p, ok := d.participants[id]; ok {
		p.primaryStudy = study
	}
	d.mu.Unlock()
}

// ClearPrimaryStudy implements ports.ParticipantDirectory.
func (d *FakeDirectory) ClearPrimaryStudy(id core.PersonID) {
	d.mu.Lock()
	if p, ok := d.participants[id]; ok {
		p.primaryStudy = ""
	}
	d.mu.Unlock()
}

// AddCollaborativeStudy implements ports.ParticipantDirectory.
func (d *FakeDirectory) AddCollaborativeStudy(id core.PersonID, study string) {
	d.mu.Lock()
	if p, ok := d.participants[id]; ok {
		p.collaborating[study] = true
	}
	d.mu.Unlock()
}

// RemoveCollaborativeStudy implements ports.ParticipantDirectory.
func (d *FakeDirectory) RemoveCollaborativeStudy(id core.PersonID, study string) {
	d.mu.Lock()
	if p, ok := d.participants[id]; ok {
		delete(p.collaborating, study)
	}
	d.mu.Unlock()
}

// PrimaryStudyOf exposes the association table for assertions.
func (d *FakeDirectory) PrimaryStudyOf(id core.PersonID) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if p, ok := d.participants[id]; ok {
		return p.primaryStudy
	}
	return ""
}

// CollaborativeStudiesOf exposes the association table for assertions.
func (d *FakeDirectory) CollaborativeStudiesOf(id core.PersonID) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.participants[id]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(p.collaborating))
	for study := range p.collaborating {
		out = append(out, study)
	}
	sort.Strings(out)
	return out
}

// StepClock is a settable simulated clock.
type StepClock struct {
	mu  sync.RWMutex
	now core.SimTime
}

// NewStepClock creates a clock starting at the given time.
func NewStepClock(start core.SimTime) *StepClock {
	return &StepClock{now: start}
}

// Now implements ports.Clock.
func (c *StepClock) Now() core.SimTime {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// Step advances the clock by the given number of millisols.
func (c *StepClock) Step(millisols float64) {
	c.mu.Lock()
	c.now += core.SimTime(millisols)
	c.mu.Unlock()
}

// Set jumps the clock to an absolute time.
func (c *StepClock) Set(t core.SimTime) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// FixedParams is a TimeParameterProvider with fixed means and a canned
// topic.
type FixedParams struct {
	MeanTimes  map[science.TimeKind]float64
	MeanCollab float64
	Topic      string
}

// NewFixedParams creates a provider where every duration kind has the same
// mean.
func NewFixedParams(mean float64, meanCollab float64) *FixedParams {
	times := make(map[science.TimeKind]float64)
	for _, kind := range []science.TimeKind{
		science.TimeProposal, science.TimePrimaryResearch,
		science.TimeCollaborativeResearch, science.TimePrimaryPaper,
		science.TimeCollaborativePaper, science.TimePeerReview,
		science.TimePrimaryDowntime, science.TimeCollaborativeDowntime,
	} {
		times[kind] = mean
	}
	return &FixedParams{MeanTimes: times, MeanCollab: meanCollab, Topic: "test topic"}
}

// MeanTime implements ports.TimeParameterProvider.
func (p *FixedParams) MeanTime(kind science.TimeKind) float64 {
	return p.MeanTimes[kind]
}

// RandomTopic implements ports.TimeParameterProvider.
func (p *FixedParams) RandomTopic(field science.Field) string {
	return p.Topic
}

// MeanCollaboratorCount implements ports.TimeParameterProvider.
func (p *FixedParams) MeanCollaboratorCount() float64 {
	return p.MeanCollab
}

// SeededRNG derives one deterministic stream per named operation.
type SeededRNG struct{}

// SeededStream implements ports.RNG.
func (SeededRNG) SeededStream(name string, seed int64) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return rand.New(rand.NewSource(seed ^ int64(h.Sum64())))
}

// AchievementRecorder captures achievement credit for assertions.
type AchievementRecorder struct {
	mu          sync.Mutex
	researchers map[core.PersonID]map[science.Field]float64
	settlements map[string]map[science.Field]float64
}

// NewAchievementRecorder creates an empty recorder.
func NewAchievementRecorder() *AchievementRecorder {
	return &AchievementRecorder{
		researchers: make(map[core.PersonID]map[science.Field]float64),
		settlements: make(map[string]map[science.Field]float64),
	}
}

// RecordResearcher implements ports.AchievementSink.
func (a *AchievementRecorder) RecordResearcher(id core.PersonID, field science.Field, amount float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.researchers[id] == nil {
		a.researchers[id] = make(map[science.Field]float64)
	}
	a.researchers[id][field] += amount
}

// RecordSettlement implements ports.AchievementSink.
func (a *AchievementRecorder) RecordSettlement(settlement string, field science.Field, amount float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.settlements[settlement] == nil {
		a.settlements[settlement] = make(map[science.Field]float64)
	}
	a.settlements[settlement][field] += amount
}

// ResearcherTotal returns the credit a participant earned in a field.
func (a *AchievementRecorder) ResearcherTotal(id core.PersonID, field science.Field) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.researchers[id][field]
}

// SettlementTotal returns the credit a settlement earned in a field.
func (a *AchievementRecorder) SettlementTotal(settlement string, field science.Field) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.settlements[settlement][field]
}

var _ ports.ParticipantDirectory = (*FakeDirectory)(nil)
var _ ports.Clock = (*StepClock)(nil)
var _ ports.TimeParameterProvider = (*FixedParams)(nil)
var _ ports.RNG = SeededRNG{}
var _ ports.AchievementSink = (*AchievementRecorder)(nil)
