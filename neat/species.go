package neat

import (
	"math"
	"sort"
)

// Species represents a group of genetically similar organisms. It owns its
// population and keeps a private copy of one member as the representative
// that compatibility tests measure against.
type Species struct {
	Key int // Unique identifier, assigned by the owning SpeciesSet.

	population     []*Organism
	representative *Organism
	config         *Config
	rng            Rand

	isSortedByFitness           bool
	fitnessHighscore            float64
	numberOfStagnantGenerations int
}

// SpeciesOption configures a Species.
type SpeciesOption func(*Species)

// WithRand sets the random source used for representative election and
// parent selection.
func WithRand(rng Rand) SpeciesOption {
	return func(s *Species) {
		s.rng = rng
	}
}

// WithKey sets the species key.
func WithKey(key int) SpeciesOption {
	return func(s *Species) {
		s.Key = key
	}
}

// NewSpecies creates a species founded by founder, which must not be nil.
// The species takes ownership of the founder and reads its training
// parameters from the founder's genome.
func NewSpecies(founder *Organism, opts ...SpeciesOption) *Species {
	s := &Species{
		config:           founder.Config(),
		fitnessHighscore: math.Inf(-1),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = newDefaultRand()
	}

	founder.SetFitnessModifier(1.0)
	s.population = append(s.population, founder)
	s.selectRandomRepresentative()
	return s
}

// AddOrganism adds o to the population and shares fitness evenly among all
// members.
func (s *Species) AddOrganism(o *Organism) {
	s.population = append(s.population, o)
	if s.config.SpeciesSet.RepresentativeElection == ElectPerAdd {
		s.selectRandomRepresentative()
	}
	s.isSortedByFitness = false
	s.setPopulationsFitnessModifier()
}

// IsCompatible reports whether g is close enough to the representative to
// join the species.
func (s *Species) IsCompatible(g *Genome) bool {
	distance := s.representative.Genome().GeneticalDistance(g)
	return distance <= s.config.SpeciesSet.CompatibilityThreshold
}

// LetPopulationLive runs one update step on every member.
func (s *Species) LetPopulationLive() error {
	for _, o := range s.population {
		if err := o.Update(); err != nil {
			return err
		}
	}
	s.isSortedByFitness = false
	return nil
}

// ResetToTeachableState resets every member's body.
func (s *Species) ResetToTeachableState() {
	for _, o := range s.population {
		o.Reset()
	}
}

// GetFittestOrganism returns the member with the highest shared fitness, or
// the representative when the population is empty.
func (s *Species) GetFittestOrganism() *Organism {
	if len(s.population) == 0 {
		return s.representative
	}
	if !s.isSortedByFitness {
		sort.SliceStable(s.population, func(i, j int) bool {
			return s.population[i].GetOrCalculateFitness() > s.population[j].GetOrCalculateFitness()
		})
		s.isSortedByFitness = true
	}
	return s.population[0]
}

// GetOrganismToBreed picks a member with probability proportional to its
// shared fitness. Negative fitness counts as zero. If no member has positive
// fitness the pick is uniform. The representative is returned when the
// population is empty.
func (s *Species) GetOrganismToBreed() *Organism {
	if len(s.population) == 0 {
		return s.representative
	}

	cumulative := make([]float64, len(s.population))
	total := 0.0
	for i, o := range s.population {
		total += math.Max(0, o.GetOrCalculateFitness())
		cumulative[i] = total
	}
	if total <= 0 {
		return s.population[s.rng.Intn(len(s.population))]
	}

	draw := s.rng.Float64() * total
	i := sort.Search(len(cumulative), func(i int) bool { return cumulative[i] > draw })
	if i == len(cumulative) {
		i = len(cumulative) - 1
	}
	return s.population[i]
}

// AnalyzeAndClearPopulation closes the generation: the best raw fitness is
// compared with the highscore to track stagnation, a representative is
// elected for the next generation and the population is released.
func (s *Species) AnalyzeAndClearPopulation() {
	currentBestFitness := s.GetFittestOrganism().GetOrCalculateRawFitness()
	if currentBestFitness > s.fitnessHighscore {
		s.fitnessHighscore = currentBestFitness
		s.numberOfStagnantGenerations = 0
	} else {
		s.numberOfStagnantGenerations++
	}

	if len(s.population) > 0 {
		switch s.config.SpeciesSet.RepresentativeElection {
		case ElectPerGeneration:
			s.selectRandomRepresentative()
		case ElectFittest:
			s.selectFittestRepresentative()
		}
	}

	clear(s.population)
	s.population = s.population[:0]
	s.isSortedByFitness = false
}

// Population returns the current members, fittest first if the species was
// sorted since the last change.
func (s *Species) Population() []*Organism {
	return append([]*Organism(nil), s.population...)
}

// Size returns the number of members.
func (s *Species) Size() int { return len(s.population) }

// IsEmpty reports whether the population is empty.
func (s *Species) IsEmpty() bool { return len(s.population) == 0 }

// Representative returns the private copy used for compatibility tests.
func (s *Species) Representative() *Organism { return s.representative }

// FitnessHighscore returns the best raw fitness seen across generations.
// It is -Inf before the first AnalyzeAndClearPopulation.
func (s *Species) FitnessHighscore() float64 { return s.fitnessHighscore }

// NumberOfStagnantGenerations returns how many consecutive generations ended
// without beating the highscore.
func (s *Species) NumberOfStagnantGenerations() int { return s.numberOfStagnantGenerations }

// TotalFitness sums the shared fitness of every member, ignoring negative values.
func (s *Species) TotalFitness() float64 {
	total := 0.0
	for _, o := range s.population {
		total += math.Max(0, o.GetOrCalculateFitness())
	}
	return total
}

func (s *Species) setPopulationsFitnessModifier() {
	modifier := 1.0 / float64(len(s.population))
	for _, o := range s.population {
		o.SetFitnessModifier(modifier)
	}
}

func (s *Species) selectRandomRepresentative() {
	s.representative = s.population[s.rng.Intn(len(s.population))].Clone()
}

func (s *Species) selectFittestRepresentative() {
	s.representative = s.GetFittestOrganism().Clone()
}
