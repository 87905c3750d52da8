package study

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gostudy/domain/core"
	"gostudy/domain/science"
	"gostudy/internal/testkit"
)

func TestSelectorEligibility(t *testing.T) {
	env := newTestEnv()
	env.addResearcher(1, "Alpha Base", science.Botany, 50, 5)
	s := env.newStudy(t, science.Botany, 1, 1)
	selector := NewSelector(env.directory)

	// Compatible field from the collaboration table.
	env.addResearcher(2, "Alpha Base", science.Biology, 50, 5)
	assert.Equal(t, 1, selector.CountAvailable(s))

	// Same field as the study is always compatible.
	env.addResearcher(3, "New Plymouth", science.Botany, 50, 5)
	assert.Equal(t, 2, selector.CountAvailable(s))

	// Incompatible field.
	env.addResearcher(4, "Alpha Base", science.Engineering, 50, 5)
	assert.Equal(t, 2, selector.CountAvailable(s))

	// No declared field of science.
	env.directory.Add(testkit.Participant{ID: 5, Settlement: "Alpha Base", Aptitude: 50})
	assert.Equal(t, 2, selector.CountAvailable(s))

	// Dead participants are skipped.
	env.directory.Kill(3)
	assert.Equal(t, 1, selector.CountAvailable(s))

	// Already-invited participants are skipped, whether or not they
	// responded.
	s.AddInvitee(2)
	assert.Equal(t, 0, selector.CountAvailable(s))
	s.RespondToInvitation(2)
	assert.Equal(t, 0, selector.CountAvailable(s))

	assert.Empty(t, selector.ListAvailable(s))
}

func TestSelectorExcludesPrimary(t *testing.T) {
	env := newTestEnv()
	env.addResearcher(1, "Alpha Base", science.Chemistry, 50, 5)
	s := env.newStudy(t, science.Chemistry, 1, 1)
	selector := NewSelector(env.directory)

	assert.Equal(t, 0, selector.CountAvailable(s))
	assert.NotContains(t, selector.ListAvailable(s), s.PrimaryResearcher())
}

func TestSelectorListMatchesCount(t *testing.T) {
	env := newTestEnv()
	env.addResearcher(1, "Alpha Base", science.Medicine, 50, 5)
	for i := 2; i <= 6; i++ {
		env.addResearcher(core.PersonID(i), "Alpha Base", science.Biology, 50, 5)
	}
	s := env.newStudy(t, science.Medicine, 1, 1)
	selector := NewSelector(env.directory)

	available := selector.ListAvailable(s)
	assert.Len(t, available, selector.CountAvailable(s))
	assert.Len(t, available, 5)
}
