package nn

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLayout is returned when input or output counts are not positive.
	ErrInvalidLayout = errors.New("invalid network layout")
	// ErrLayoutNotInferable is returned when input/output counts cannot be read from a gene list.
	ErrLayoutNotInferable = errors.New("cannot infer network layout from genes")
)

// Gene describes one directed, weighted connection between two neurons.
// From and To are dense neuron indices starting at 0.
type Gene struct {
	From    int
	To      int
	Weight  float64
	Enabled bool
}

// String returns a string representation of the Gene.
func (g Gene) String() string {
	return fmt.Sprintf("Gene(%d->%d, Weight: %.3f, Enabled: %t)", g.From, g.To, g.Weight, g.Enabled)
}

// CountNeurons returns the number of neurons a gene list addresses,
// i.e. one plus the highest referenced index. Disabled genes count too,
// their endpoints still exist in the phenotype.
func CountNeurons(genes []Gene) int {
	count := 0
	for _, g := range genes {
		if g.From+1 > count {
			count = g.From + 1
		}
		if g.To+1 > count {
			count = g.To + 1
		}
	}
	return count
}

// EssentialGenes returns the minimal fully connected gene set: one enabled
// gene per (input, output) pair, grouped by input. Outputs are numbered
// right after the inputs.
func EssentialGenes(numInputs, numOutputs int) ([]Gene, error) {
	if numInputs <= 0 || numOutputs <= 0 {
		return nil, fmt.Errorf("%w: %d inputs, %d outputs", ErrInvalidLayout, numInputs, numOutputs)
	}
	genes := make([]Gene, 0, numInputs*numOutputs)
	for in := 0; in < numInputs; in++ {
		for out := numInputs; out < numInputs+numOutputs; out++ {
			genes = append(genes, Gene{From: in, To: out, Weight: 1.0, Enabled: true})
		}
	}
	return genes, nil
}

// InferLayout reads the number of inputs and outputs from the shape of a
// gene list. It only works for lists that start with the essential layout:
// blocks of genes grouped by source neuron, sources counting up from 0, each
// block listing every output once. Evolved lists should carry their layout
// explicitly instead (see NewNeuralNetworkFromGenes).
func InferLayout(genes []Gene) (numInputs, numOutputs int, err error) {
	if len(genes) == 0 {
		return 0, 0, fmt.Errorf("%w: empty gene list", ErrLayoutNotInferable)
	}
	if genes[0].From != 0 {
		return 0, 0, fmt.Errorf("%w: first gene starts at neuron %d", ErrLayoutNotInferable, genes[0].From)
	}

	numOutputs = 1
	for numOutputs < len(genes) && genes[numOutputs].From == genes[0].From {
		numOutputs++
	}

	numInputs = 1
	for i := 1; i < len(genes); i++ {
		if genes[i].From == genes[i-1].From {
			continue
		}
		if genes[i].From != genes[i-1].From+1 {
			break
		}
		numInputs++
	}

	if numInputs*numOutputs > len(genes) {
		return 0, 0, fmt.Errorf("%w: %d inputs x %d outputs needs more than %d genes",
			ErrLayoutNotInferable, numInputs, numOutputs, len(genes))
	}
	return numInputs, numOutputs, nil
}
