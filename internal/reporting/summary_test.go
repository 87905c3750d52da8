package reporting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gostudy/domain/core"
	"gostudy/domain/science"
	"gostudy/internal"
	"gostudy/internal/errors"
	"gostudy/internal/study"
	"gostudy/internal/testkit"
)

func newTestRegistry(t *testing.T) (*study.Registry, *testkit.FakeDirectory) {
	t.Helper()
	directory := testkit.NewFakeDirectory()
	deps := study.Dependencies{
		Clock:        testkit.NewStepClock(core.NewSimTime(10, 0)),
		Params:       testkit.NewFixedParams(100, 2),
		Directory:    directory,
		Achievements: testkit.NewAchievementRecorder(),
		Log:          internal.NewLogger(internal.LogLevelError),
	}
	return study.NewRegistry(deps, testkit.SeededRNG{}, 7), directory
}

func addResearcher(directory *testkit.FakeDirectory, id core.PersonID, settlement string, field science.Field) {
	directory.Add(testkit.Participant{
		ID:         id,
		Settlement: settlement,
		Field:      field,
		Aptitude:   50,
		Skills:     map[science.Field]int{field: 5},
	})
}

func TestScoreboardRequiresSettlements(t *testing.T) {
	registry, _ := newTestRegistry(t)
	reporter := NewReporter(registry)

	_, _, err := reporter.Scoreboard(nil, "")
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestScoreboardSummaries(t *testing.T) {
	registry, directory := newTestRegistry(t)
	addResearcher(directory, 1, "Alpha Base", science.Biology)
	addResearcher(directory, 2, "New Plymouth", science.Botany)

	s1, err := registry.Create(1, science.Biology, 1)
	require.NoError(t, err)
	require.NoError(t, s1.Complete(science.PhaseSuccess, "passed"))

	_, err = registry.Create(2, science.Botany, 1)
	require.NoError(t, err)

	reporter := NewReporter(registry)
	summaries, overall, err := reporter.Scoreboard([]string{"Alpha Base", "New Plymouth"}, "")
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	// Success scores 3.0, an ongoing proposal 0.5.
	assert.Equal(t, 3.0, summaries[0].Score)
	assert.Equal(t, 1, summaries[0].Counts.Succeeded)
	assert.Equal(t, 0.5, summaries[1].Score)
	assert.Equal(t, 1, summaries[1].Counts.OngoingPrimary)

	assert.InDelta(t, 1.75, overall.Mean, 1e-9)
	assert.InDelta(t, 1.75, overall.Median, 1e-9)
	assert.Equal(t, 3.0, overall.Max)
	assert.Greater(t, overall.StdDev, 0.0)

	// The higher score sits above the lower one on the normal fit.
	assert.Greater(t, summaries[0].Percentile, summaries[1].Percentile)
	assert.Greater(t, summaries[0].Percentile, 50.0)
	assert.Less(t, summaries[1].Percentile, 50.0)
}

func TestScoreboardDegenerateDistribution(t *testing.T) {
	registry, _ := newTestRegistry(t)
	reporter := NewReporter(registry)

	summaries, overall, err := reporter.Scoreboard([]string{"Alpha Base", "New Plymouth"}, "")
	require.NoError(t, err)
	assert.Equal(t, 0.0, overall.StdDev)
	for _, summary := range summaries {
		assert.Equal(t, 50.0, summary.Percentile)
	}
}

func TestExportScoreboard(t *testing.T) {
	registry, directory := newTestRegistry(t)
	addResearcher(directory, 1, "Alpha Base", science.Biology)
	s, err := registry.Create(1, science.Biology, 1)
	require.NoError(t, err)
	require.NoError(t, s.Complete(science.PhaseSuccess, "passed"))

	reporter := NewReporter(registry)
	summaries, overall, err := reporter.Scoreboard([]string{"Alpha Base"}, "")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "scoreboard.xlsx")
	require.NoError(t, ExportScoreboard(path, summaries, overall))

	_, err = os.Stat(path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetCellValue("Scoreboard", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Alpha Base", got)
}
