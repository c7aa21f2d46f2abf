package neat

import "sort"

// Stagnation decides which species have stopped improving.
type Stagnation struct {
	Config *StagnationConfig
}

// NewStagnation creates a new stagnation manager.
func NewStagnation(config *StagnationConfig) *Stagnation {
	return &Stagnation{Config: config}
}

// StagnationInfo holds the stagnation verdict for a single species.
type StagnationInfo struct {
	Species    *Species
	IsStagnant bool
}

// Update marks species that went MaxStagnation or more generations without
// a new highscore. The SpeciesElitism species with the best highscores are
// never marked. Results are in the order of the input.
func (s *Stagnation) Update(species []*Species) []StagnationInfo {
	result := make([]StagnationInfo, len(species))
	order := make([]int, len(species))
	for i, sp := range species {
		result[i].Species = sp
		order[i] = i
	}

	// Best highscore first.
	sort.SliceStable(order, func(a, b int) bool {
		return species[order[a]].FitnessHighscore() > species[order[b]].FitnessHighscore()
	})

	for rank, i := range order {
		if rank < s.Config.SpeciesElitism {
			continue
		}
		result[i].IsStagnant = species[i].NumberOfStagnantGenerations() >= s.Config.MaxStagnation
	}
	return result
}
