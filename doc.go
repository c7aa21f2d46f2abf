// Package neat provides the core of a NeuroEvolution of Augmenting Topologies (NEAT) trainer.
//
// The nn subpackage turns a gene list into an executable network (the phenotype) and
// evaluates it lazily. The neat package clusters organisms into species by genetic
// distance, shares fitness within each species, tracks stagnation and selects parents
// for breeding. Mutation and crossover operators and the generation loop are left to
// the caller; examples/logic shows a minimal driver.
//
// Basic usage:
//
//	config, err := neat.LoadConfig("path/to/config.ini")
//	if err != nil {
//		log.Fatalf("Error loading config: %v", err)
//	}
//
//	speciesSet := neat.NewSpeciesSet(config)
//	speciesSet.Speciate(population) // []*neat.Organism
//	if err := speciesSet.LetGenerationLive(); err != nil {
//		log.Fatalf("Error running generation: %v", err)
//	}
//
//	quotas := speciesSet.OffspringQuota(config.Neat.PopSize)
//	for i, sp := range speciesSet.Species() {
//		for range quotas[i] {
//			parent := sp.GetOrganismToBreed()
//			// mutate parent.Genome().Genes() into a child genome
//		}
//	}
//	speciesSet.EndGeneration()
package neat
