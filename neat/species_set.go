package neat

import (
	"log/slog"
	"math"
	"sort"
)

// SpeciesSet manages the collection of species within a population.
type SpeciesSet struct {
	config     *Config
	species    []*Species
	stagnation *Stagnation
	indexer    int
	rng        Rand
	logger     *slog.Logger
}

// SpeciesSetOption configures a SpeciesSet.
type SpeciesSetOption func(*SpeciesSet)

// WithLogger sets the logger for speciation events.
func WithLogger(logger *slog.Logger) SpeciesSetOption {
	return func(ss *SpeciesSet) {
		ss.logger = logger
	}
}

// WithSpeciesRand sets the random source handed to every species the set creates.
func WithSpeciesRand(rng Rand) SpeciesSetOption {
	return func(ss *SpeciesSet) {
		ss.rng = rng
	}
}

// NewSpeciesSet creates a new species set manager.
func NewSpeciesSet(config *Config, opts ...SpeciesSetOption) *SpeciesSet {
	ss := &SpeciesSet{
		config:     config,
		stagnation: NewStagnation(&config.Stagnation),
		indexer:    1, // Start species keys at 1
	}
	for _, opt := range opts {
		opt(ss)
	}
	if ss.rng == nil {
		ss.rng = newDefaultRand()
	}
	if ss.logger == nil {
		ss.logger = slog.New(slog.DiscardHandler)
	}
	return ss
}

// Speciate assigns every organism to the first compatible species, founding
// a new species when none accepts it.
func (ss *SpeciesSet) Speciate(organisms []*Organism) {
	for _, o := range organisms {
		if sp := ss.findCompatible(o.Genome()); sp != nil {
			sp.AddOrganism(o)
			continue
		}
		sp := NewSpecies(o, WithKey(ss.indexer), WithRand(ss.rng))
		ss.indexer++
		ss.species = append(ss.species, sp)
		ss.logger.Debug("created species", "key", sp.Key)
	}
}

func (ss *SpeciesSet) findCompatible(g *Genome) *Species {
	for _, sp := range ss.species {
		if sp.IsCompatible(g) {
			return sp
		}
	}
	return nil
}

// Species returns the current species.
func (ss *SpeciesSet) Species() []*Species {
	return append([]*Species(nil), ss.species...)
}

// LetGenerationLive runs one update step on every organism of every species.
func (ss *SpeciesSet) LetGenerationLive() error {
	for _, sp := range ss.species {
		if err := sp.LetPopulationLive(); err != nil {
			return err
		}
	}
	return nil
}

// ResetToTeachableState resets every organism of every species.
func (ss *SpeciesSet) ResetToTeachableState() {
	for _, sp := range ss.species {
		sp.ResetToTeachableState()
	}
}

// FittestOrganism returns the organism with the highest raw fitness across
// all species, or nil if there are none.
func (ss *SpeciesSet) FittestOrganism() *Organism {
	var best *Organism
	for _, sp := range ss.species {
		candidate := sp.GetFittestOrganism()
		if best == nil || candidate.GetOrCalculateRawFitness() > best.GetOrCalculateRawFitness() {
			best = candidate
		}
	}
	return best
}

// OffspringQuota returns how many offspring each species should produce,
// in the order of Species. Quotas are proportional to each species' total
// shared fitness and add up to popSize. When no species has positive
// fitness, popSize is split evenly.
func (ss *SpeciesSet) OffspringQuota(popSize int) []int {
	if len(ss.species) == 0 {
		return nil
	}
	quotas := make([]int, len(ss.species))
	if popSize <= 0 {
		return quotas
	}

	fitnesses := make([]float64, len(ss.species))
	total := 0.0
	for i, sp := range ss.species {
		fitnesses[i] = sp.TotalFitness()
		total += fitnesses[i]
	}
	if total <= 0 {
		for i := range fitnesses {
			fitnesses[i] = 1
		}
		total = float64(len(fitnesses))
	}

	// Floor every share, then hand the remainder to the largest fractions.
	remainders := make([]float64, len(fitnesses))
	assigned := 0
	for i, f := range fitnesses {
		share := f / total * float64(popSize)
		quotas[i] = int(math.Floor(share))
		remainders[i] = share - float64(quotas[i])
		assigned += quotas[i]
	}
	order := make([]int, len(quotas))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]] > remainders[order[b]]
	})
	for k := 0; assigned < popSize; k++ {
		quotas[order[k%len(order)]]++
		assigned++
	}
	return quotas
}

// EndGeneration closes the generation on every species and removes the
// species that went extinct or stagnated.
func (ss *SpeciesSet) EndGeneration() {
	survivors := make([]*Species, 0, len(ss.species))
	active := make([]*Species, 0, len(ss.species))
	for _, sp := range ss.species {
		if sp.IsEmpty() {
			ss.logger.Info("species went extinct", "key", sp.Key)
			continue
		}
		sp.AnalyzeAndClearPopulation()
		active = append(active, sp)
	}

	for _, info := range ss.stagnation.Update(active) {
		if info.IsStagnant {
			ss.logger.Info("species removed due to stagnation",
				"key", info.Species.Key,
				"highscore", info.Species.FitnessHighscore(),
				"stagnant_generations", info.Species.NumberOfStagnantGenerations())
			continue
		}
		survivors = append(survivors, info.Species)
	}
	ss.species = survivors
}

// Summary holds aggregate statistics over the species of a set.
type Summary struct {
	NumSpecies     int
	NumOrganisms   int
	MeanSize       float64
	StdevSize      float64
	MeanHighscore  float64
	StdevHighscore float64
	BestHighscore  float64
}

// LogValue implements slog.LogValuer for structured logging.
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("species", s.NumSpecies),
		slog.Int("organisms", s.NumOrganisms),
		slog.Float64("size_mean", s.MeanSize),
		slog.Float64("size_stdev", s.StdevSize),
		slog.Float64("highscore_mean", s.MeanHighscore),
		slog.Float64("highscore_stdev", s.StdevHighscore),
		slog.Float64("highscore_best", s.BestHighscore),
	)
}

// Summary computes statistics over the current species. Species without a
// highscore yet are left out of the highscore figures.
func (ss *SpeciesSet) Summary() Summary {
	summary := Summary{
		NumSpecies:    len(ss.species),
		BestHighscore: math.Inf(-1),
	}
	sizes := make([]float64, len(ss.species))
	highscores := make([]float64, len(ss.species))
	for i, sp := range ss.species {
		sizes[i] = float64(sp.Size())
		highscores[i] = sp.FitnessHighscore()
		summary.NumOrganisms += sp.Size()
		summary.BestHighscore = math.Max(summary.BestHighscore, sp.FitnessHighscore())
	}
	summary.MeanSize, summary.StdevSize = meanStdev(sizes)
	summary.MeanHighscore, summary.StdevHighscore = meanStdev(highscores)
	return summary
}
