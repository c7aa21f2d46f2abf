package neat

import (
	"fmt"
	"math"

	"github.com/baldhumanity/neat-core/neat/nn"
)

// Genome is the gene-list encoding of a network. Neurons 0..NumInputs-1 are
// inputs, the next NumOutputs neurons are outputs, anything above is hidden.
type Genome struct {
	genes      []nn.Gene
	numInputs  int
	numOutputs int
	config     *Config
}

// NewGenome creates a genome holding only the essential genes for the
// configured inputs and outputs, with weights drawn from the configured
// initial distribution.
func NewGenome(config *Config, rng Rand) (*Genome, error) {
	genes, err := nn.EssentialGenes(config.Genome.NumInputs, config.Genome.NumOutputs)
	if err != nil {
		return nil, fmt.Errorf("failed to create essential genes: %w", err)
	}
	for i := range genes {
		genes[i].Weight = initWeight(&config.Genome, rng)
	}
	return &Genome{
		genes:      genes,
		numInputs:  config.Genome.NumInputs,
		numOutputs: config.Genome.NumOutputs,
		config:     config,
	}, nil
}

// NewGenomeFromGenes wraps an already formed gene list, e.g. the output of a
// mutation or crossover operator. The genes are copied.
func NewGenomeFromGenes(config *Config, genes []nn.Gene, numInputs, numOutputs int) (*Genome, error) {
	if numInputs <= 0 || numOutputs <= 0 {
		return nil, fmt.Errorf("%w: %d inputs, %d outputs", nn.ErrInvalidLayout, numInputs, numOutputs)
	}
	for i, g := range genes {
		if g.From < 0 || g.To < 0 {
			return nil, fmt.Errorf("%w: gene %d (%d->%d)", nn.ErrNeuronIndexOutOfRange, i, g.From, g.To)
		}
	}
	return &Genome{
		genes:      append([]nn.Gene(nil), genes...),
		numInputs:  numInputs,
		numOutputs: numOutputs,
		config:     config,
	}, nil
}

// Genes returns a copy of the gene list.
func (g *Genome) Genes() []nn.Gene {
	return append([]nn.Gene(nil), g.genes...)
}

// NumInputs returns the number of input neurons.
func (g *Genome) NumInputs() int { return g.numInputs }

// NumOutputs returns the number of output neurons.
func (g *Genome) NumOutputs() int { return g.numOutputs }

// Config returns the training parameters the genome was created with.
func (g *Genome) Config() *Config { return g.config }

// Layout returns the input and output neuron indices of the phenotype.
func (g *Genome) Layout() nn.Layout {
	layout := nn.Layout{
		Inputs:  make([]int, g.numInputs),
		Outputs: make([]int, g.numOutputs),
	}
	for i := range layout.Inputs {
		layout.Inputs[i] = i
	}
	for i := range layout.Outputs {
		layout.Outputs[i] = g.numInputs + i
	}
	return layout
}

// Copy creates a deep copy of the Genome.
func (g *Genome) Copy() *Genome {
	return &Genome{
		genes:      g.Genes(),
		numInputs:  g.numInputs,
		numOutputs: g.numOutputs,
		config:     g.config,
	}
}

// NewNeuralNetwork builds the phenotype of the genome.
func (g *Genome) NewNeuralNetwork() (*nn.NeuralNetwork, error) {
	net, err := nn.NewNeuralNetworkFromGenes(g.genes, g.Layout(), g.config.Genome.NetworkOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to build network from genome: %w", err)
	}
	return net, nil
}

type geneKey struct {
	from, to int
}

// GeneticalDistance calculates the compatibility distance between two genomes.
// Genes are matched by their (From, To) pair:
//
//	d = c_disjoint * unmatched / N + c_weight * mean weight difference of matched genes
//
// where N is the distinct gene count of the larger genome. A matched pair whose
// enabled flags differ adds 1 to its weight difference.
func (g *Genome) GeneticalDistance(other *Genome) float64 {
	mine := indexGenes(g.genes)
	theirs := indexGenes(other.genes)

	disjoint := 0
	matching := 0
	weightDiffSum := 0.0
	for key, a := range mine {
		b, ok := theirs[key]
		if !ok {
			disjoint++
			continue
		}
		d := math.Abs(a.Weight - b.Weight)
		if a.Enabled != b.Enabled {
			d += 1.0
		}
		weightDiffSum += d
		matching++
	}
	for key := range theirs {
		if _, ok := mine[key]; !ok {
			disjoint++
		}
	}

	n := float64(max(len(mine), len(theirs), 1))
	distance := g.config.Genome.CompatibilityDisjointCoefficient * float64(disjoint) / n
	if matching > 0 {
		distance += g.config.Genome.CompatibilityWeightCoefficient * weightDiffSum / float64(matching)
	}
	return distance
}

func indexGenes(genes []nn.Gene) map[geneKey]nn.Gene {
	index := make(map[geneKey]nn.Gene, len(genes))
	for _, g := range genes {
		index[geneKey{from: g.From, to: g.To}] = g
	}
	return index
}

func initWeight(gc *GenomeConfig, rng Rand) float64 {
	w := rng.NormFloat64()*gc.WeightInitStdev + gc.WeightInitMean
	return clamp(w, gc.WeightMinValue, gc.WeightMaxValue)
}
