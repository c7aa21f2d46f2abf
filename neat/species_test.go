package neat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSpecies(t *testing.T, config *Config, fitnesses ...float64) (*Species, []*Organism) {
	t.Helper()
	require.NotEmpty(t, fitnesses)
	members := make([]*Organism, len(fitnesses))
	for i, f := range fitnesses {
		members[i], _ = newTestOrganism(t, config, 1.0, f)
	}
	s := NewSpecies(members[0], WithRand(seededRand(42)))
	for _, o := range members[1:] {
		s.AddOrganism(o)
	}
	return s, members
}

func TestNewSpecies(t *testing.T) {
	founder, _ := newTestOrganism(t, testConfig(), 1.0, 1)
	founder.SetFitnessModifier(0.1)

	s := NewSpecies(founder, WithKey(7), WithRand(seededRand(1)))
	assert.Equal(t, 7, s.Key)
	assert.Equal(t, 1, s.Size())
	assert.Equal(t, 1.0, founder.FitnessModifier())
	require.NotNil(t, s.Representative())
	assert.NotSame(t, founder, s.Representative(), "representative is a private copy")
	assert.Equal(t, founder.Genome().Genes(), s.Representative().Genome().Genes())
}

func TestSpeciesFitnessSharing(t *testing.T) {
	s, members := newTestSpecies(t, testConfig(), 1, 2, 3, 4)

	require.Equal(t, 4, s.Size())
	for _, o := range members {
		assert.InDelta(t, 0.25, o.FitnessModifier(), 1e-12)
	}
	assert.InDelta(t, 1.0, members[3].GetOrCalculateFitness(), 1e-12)
}

func TestSpeciesIsCompatible(t *testing.T) {
	config := testConfig()
	config.SpeciesSet.CompatibilityThreshold = 3.0
	config.Genome.CompatibilityWeightCoefficient = 0.5
	s, _ := newTestSpecies(t, config, 1)

	near, _ := newTestOrganism(t, config, 2.0, 0)
	assert.True(t, s.IsCompatible(near.Genome()))

	atThreshold, _ := newTestOrganism(t, config, 7.0, 0)
	assert.True(t, s.IsCompatible(atThreshold.Genome()), "distance equal to the threshold is compatible")

	far, _ := newTestOrganism(t, config, 11.0, 0)
	assert.False(t, s.IsCompatible(far.Genome()))
}

func TestSpeciesGetFittestOrganism(t *testing.T) {
	s, members := newTestSpecies(t, testConfig(), 1, 3, 2)
	assert.Same(t, members[1], s.GetFittestOrganism())
	assert.Same(t, members[1], s.Population()[0])
}

func TestSpeciesLetPopulationLive(t *testing.T) {
	config := testConfig()
	a, bodyA := newTestOrganism(t, config, 1.0, 1)
	b, bodyB := newTestOrganism(t, config, 1.0, 2)
	s := NewSpecies(a, WithRand(seededRand(1)))
	s.AddOrganism(b)
	require.Same(t, b, s.GetFittestOrganism())

	bodyA.fitness = 10
	require.NoError(t, s.LetPopulationLive())
	assert.Equal(t, 1, bodyA.updates)
	assert.Equal(t, 1, bodyB.updates)
	assert.Same(t, a, s.GetFittestOrganism(), "sort cache is invalidated")

	s.ResetToTeachableState()
	assert.Equal(t, 1, bodyA.resets)
	assert.Equal(t, 1, bodyB.resets)
}

func TestSpeciesLetPopulationLiveError(t *testing.T) {
	o, body := newTestOrganism(t, testConfig(), 1.0, 1)
	body.inputs = nil
	s := NewSpecies(o, WithRand(seededRand(1)))
	assert.Error(t, s.LetPopulationLive())
}

func TestSpeciesStagnation(t *testing.T) {
	config := testConfig()
	s, _ := newTestSpecies(t, config, 5, 1)

	s.AnalyzeAndClearPopulation()
	assert.Equal(t, 5.0, s.FitnessHighscore())
	assert.Zero(t, s.NumberOfStagnantGenerations())
	assert.True(t, s.IsEmpty())

	worse, _ := newTestOrganism(t, config, 1.0, 3)
	s.AddOrganism(worse)
	s.AnalyzeAndClearPopulation()
	assert.Equal(t, 5.0, s.FitnessHighscore())
	assert.Equal(t, 1, s.NumberOfStagnantGenerations())

	equal, _ := newTestOrganism(t, config, 1.0, 5)
	s.AddOrganism(equal)
	s.AnalyzeAndClearPopulation()
	assert.Equal(t, 2, s.NumberOfStagnantGenerations(), "matching the highscore is not an improvement")

	better, _ := newTestOrganism(t, config, 1.0, 7)
	s.AddOrganism(better)
	s.AnalyzeAndClearPopulation()
	assert.Equal(t, 7.0, s.FitnessHighscore())
	assert.Zero(t, s.NumberOfStagnantGenerations())
}

func TestSpeciesEmptyPopulationFallback(t *testing.T) {
	s, _ := newTestSpecies(t, testConfig(), 1, 2)
	s.AnalyzeAndClearPopulation()
	require.True(t, s.IsEmpty())

	rep := s.Representative()
	require.NotNil(t, rep)
	assert.Same(t, rep, s.GetFittestOrganism())
	assert.Same(t, rep, s.GetOrganismToBreed())
}

func TestSpeciesBreedingDistribution(t *testing.T) {
	s, members := newTestSpecies(t, testConfig(), 1, 2, 3)

	const draws = 60000
	counts := make(map[*Organism]int)
	for range draws {
		counts[s.GetOrganismToBreed()]++
	}
	for i, want := range []float64{1.0 / 6, 2.0 / 6, 3.0 / 6} {
		assert.InDelta(t, want, float64(counts[members[i]])/draws, 0.01, "member %d", i)
	}
}

func TestSpeciesBreedingZeroFitnessIsUniform(t *testing.T) {
	s, members := newTestSpecies(t, testConfig(), 0, 0, 0, 0)

	const draws = 40000
	counts := make(map[*Organism]int)
	for range draws {
		counts[s.GetOrganismToBreed()]++
	}
	for i, o := range members {
		assert.InDelta(t, 0.25, float64(counts[o])/draws, 0.015, "member %d", i)
	}
}

func TestSpeciesBreedingIgnoresNegativeFitness(t *testing.T) {
	s, members := newTestSpecies(t, testConfig(), -5, 1)
	for range 1000 {
		assert.Same(t, members[1], s.GetOrganismToBreed())
	}
}

func TestSpeciesElectFittest(t *testing.T) {
	config := testConfig()
	config.SpeciesSet.RepresentativeElection = ElectFittest

	founder, _ := newTestOrganism(t, config, 1.0, 1)
	best, _ := newTestOrganism(t, config, 2.0, 9)
	s := NewSpecies(founder, WithRand(seededRand(1)))
	s.AddOrganism(best)
	assert.Equal(t, founder.Genome().Genes(), s.Representative().Genome().Genes(), "no election before the generation ends")

	s.AnalyzeAndClearPopulation()
	assert.Equal(t, best.Genome().Genes(), s.Representative().Genome().Genes())
}

func TestSpeciesElectPerAdd(t *testing.T) {
	config := testConfig()
	config.SpeciesSet.RepresentativeElection = ElectPerAdd

	founder, _ := newTestOrganism(t, config, 1.0, 1)
	s := NewSpecies(founder, WithRand(seededRand(5)))
	first := s.Representative()
	other, _ := newTestOrganism(t, config, 2.0, 1)
	s.AddOrganism(other)
	assert.NotSame(t, first, s.Representative(), "re-elected on add")
}
