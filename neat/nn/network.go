package nn

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

var (
	// ErrInputCountMismatch is returned by SetInputs for a wrong number of values.
	ErrInputCountMismatch = errors.New("number of inputs provided doesn't match genetic information")
	// ErrGeneCountMismatch is returned when an essential gene list has the wrong length.
	ErrGeneCountMismatch = errors.New("number of genes doesn't match inputs x outputs")
	// ErrNeuronIndexOutOfRange is returned when a gene or layout refers to a negative neuron index.
	ErrNeuronIndexOutOfRange = errors.New("neuron index out of range")
	// ErrRecurrentTopology is returned when RequireAcyclic is set and the genes form a cycle.
	ErrRecurrentTopology = errors.New("genes form a recurrent topology")
)

// Layout lists which neurons act as network inputs and outputs, by index.
type Layout struct {
	Inputs  []int
	Outputs []int
}

type options struct {
	activation     ActivationFunc
	aggregation    AggregationFunc
	requireAcyclic bool
}

// Option configures a NeuralNetwork at construction.
type Option func(*options) error

// WithActivation selects the activation function applied by every connected neuron.
func WithActivation(name string) Option {
	return func(o *options) error {
		fn, err := GetActivation(name)
		if err != nil {
			return err
		}
		o.activation = fn
		return nil
	}
}

// WithAggregation selects how a neuron combines its weighted inputs.
func WithAggregation(name string) Option {
	return func(o *options) error {
		fn, err := GetAggregation(name)
		if err != nil {
			return err
		}
		o.aggregation = fn
		return nil
	}
}

// RequireAcyclic makes construction fail with ErrRecurrentTopology when the
// enabled genes contain a cycle.
func RequireAcyclic() Option {
	return func(o *options) error {
		o.requireAcyclic = true
		return nil
	}
}

// NeuralNetwork is the phenotype built from a gene list. Outputs are
// computed lazily by pulling values through incoming connections and are
// cached until the inputs change.
//
// A NeuralNetwork is not safe for concurrent use.
type NeuralNetwork struct {
	genes    []Gene
	explicit *Layout // nil when inputs/outputs follow the essential-genes convention

	numInputs  int
	numOutputs int

	neurons       []Neuron
	inputNeurons  []int
	outputNeurons []int
	isInput       []bool
	outputs       []float64

	areOutputsUpToDate bool
	recurrent          bool

	opts           options
	pass           uint64
	recomputations int
}

// NewNeuralNetwork builds a network from the essential genes for the given
// number of inputs and outputs: every input connected to every output.
func NewNeuralNetwork(numInputs, numOutputs int, opts ...Option) (*NeuralNetwork, error) {
	genes, err := EssentialGenes(numInputs, numOutputs)
	if err != nil {
		return nil, err
	}
	return newNeuralNetwork(genes, nil, numInputs, numOutputs, opts)
}

// NewNeuralNetworkFromEssentialGenes builds a network from a copy of genes
// laid out like EssentialGenes. The list must hold exactly
// numInputs*numOutputs genes.
func NewNeuralNetworkFromEssentialGenes(genes []Gene, numInputs, numOutputs int, opts ...Option) (*NeuralNetwork, error) {
	if numInputs <= 0 || numOutputs <= 0 {
		return nil, fmt.Errorf("%w: %d inputs, %d outputs", ErrInvalidLayout, numInputs, numOutputs)
	}
	if len(genes) != numInputs*numOutputs {
		return nil, fmt.Errorf("%w: got %d genes for %d inputs x %d outputs",
			ErrGeneCountMismatch, len(genes), numInputs, numOutputs)
	}
	return newNeuralNetwork(copyGenes(genes), nil, numInputs, numOutputs, opts)
}

// NewNeuralNetworkInferred builds a network whose input and output counts
// are read from the gene layout with InferLayout. The network takes
// ownership of genes; the caller must not modify the slice afterwards.
//
// This exists for gene lists that never carried their layout. Prefer
// NewNeuralNetworkFromGenes.
func NewNeuralNetworkInferred(genes []Gene, opts ...Option) (*NeuralNetwork, error) {
	numInputs, numOutputs, err := InferLayout(genes)
	if err != nil {
		return nil, err
	}
	return newNeuralNetwork(genes, nil, numInputs, numOutputs, opts)
}

// NewNeuralNetworkFromGenes builds a network from a copy of genes with
// explicitly designated input and output neurons.
func NewNeuralNetworkFromGenes(genes []Gene, layout Layout, opts ...Option) (*NeuralNetwork, error) {
	if len(layout.Inputs) == 0 || len(layout.Outputs) == 0 {
		return nil, fmt.Errorf("%w: %d inputs, %d outputs", ErrInvalidLayout, len(layout.Inputs), len(layout.Outputs))
	}
	seen := make(map[int]bool, len(layout.Inputs))
	for _, idx := range layout.Inputs {
		if seen[idx] {
			return nil, fmt.Errorf("%w: input neuron %d listed twice", ErrInvalidLayout, idx)
		}
		seen[idx] = true
	}
	explicit := &Layout{
		Inputs:  append([]int(nil), layout.Inputs...),
		Outputs: append([]int(nil), layout.Outputs...),
	}
	return newNeuralNetwork(copyGenes(genes), explicit, len(layout.Inputs), len(layout.Outputs), opts)
}

func newNeuralNetwork(genes []Gene, explicit *Layout, numInputs, numOutputs int, opts []Option) (*NeuralNetwork, error) {
	net := &NeuralNetwork{
		genes:      genes,
		explicit:   explicit,
		numInputs:  numInputs,
		numOutputs: numOutputs,
		opts: options{
			activation:  Sigmoid,
			aggregation: AggregateSum,
		},
	}
	for _, opt := range opts {
		if err := opt(&net.opts); err != nil {
			return nil, fmt.Errorf("failed to configure network: %w", err)
		}
	}
	if err := net.buildNetworkFromGenes(); err != nil {
		return nil, err
	}
	return net, nil
}

// buildNetworkFromGenes discards all neurons and rebuilds the graph from the genes.
func (net *NeuralNetwork) buildNetworkFromGenes() error {
	net.neurons = nil
	net.inputNeurons = nil
	net.outputNeurons = nil
	net.isInput = nil

	size := CountNeurons(net.genes)
	for i, g := range net.genes {
		if g.From < 0 || g.To < 0 {
			return fmt.Errorf("%w: gene %d (%d->%d)", ErrNeuronIndexOutOfRange, i, g.From, g.To)
		}
	}
	if net.explicit != nil {
		for _, idx := range append(append([]int(nil), net.explicit.Inputs...), net.explicit.Outputs...) {
			if idx < 0 {
				return fmt.Errorf("%w: layout neuron %d", ErrNeuronIndexOutOfRange, idx)
			}
			if idx+1 > size {
				size = idx + 1
			}
		}
	} else if size < net.numInputs {
		size = net.numInputs
	}

	net.neurons = make([]Neuron, size)
	for _, g := range net.genes {
		if g.Enabled {
			net.neurons[g.To].AddConnection(g.From, g.Weight)
		}
	}
	net.interpretInputsAndOutputs()
	net.isInput = make([]bool, size)
	for _, idx := range net.inputNeurons {
		net.isInput[idx] = true
	}

	net.recurrent = hasCycle(net.genes, size)
	if net.recurrent && net.opts.requireAcyclic {
		return ErrRecurrentTopology
	}

	net.outputs = make([]float64, net.numOutputs)
	net.areOutputsUpToDate = false
	return nil
}

// interpretInputsAndOutputs designates input and output neurons. Without an
// explicit layout the first numInputs neurons are inputs and the outputs are
// the targets of the first source block of genes.
func (net *NeuralNetwork) interpretInputsAndOutputs() {
	if net.explicit != nil {
		net.inputNeurons = append([]int(nil), net.explicit.Inputs...)
		net.outputNeurons = append([]int(nil), net.explicit.Outputs...)
		return
	}
	net.inputNeurons = make([]int, net.numInputs)
	for i := range net.inputNeurons {
		net.inputNeurons[i] = i
	}
	net.outputNeurons = make([]int, net.numOutputs)
	for i := range net.outputNeurons {
		net.outputNeurons[i] = net.genes[i].To
	}
}

// hasCycle reports whether the enabled genes contain a directed cycle.
func hasCycle(genes []Gene, numNeurons int) bool {
	g := simple.NewDirectedGraph()
	for i := 0; i < numNeurons; i++ {
		g.AddNode(simple.Node(i))
	}
	for _, gene := range genes {
		if !gene.Enabled {
			continue
		}
		if gene.From == gene.To {
			return true
		}
		g.SetEdge(g.NewEdge(simple.Node(gene.From), simple.Node(gene.To)))
	}
	_, err := topo.Sort(g)
	return err != nil
}

// SetInputs writes values into the input neurons and marks the outputs
// stale. Nothing is computed until GetOrCalculateOutputs.
func (net *NeuralNetwork) SetInputs(values []float64) error {
	if len(values) != len(net.inputNeurons) {
		return fmt.Errorf("%w: got %d values, network has %d inputs",
			ErrInputCountMismatch, len(values), len(net.inputNeurons))
	}
	for i, idx := range net.inputNeurons {
		net.neurons[idx].SetInput(values[i])
	}
	net.areOutputsUpToDate = false
	return nil
}

// GetOrCalculateOutputs returns the output values, computing them only if
// the inputs changed since the last call.
func (net *NeuralNetwork) GetOrCalculateOutputs() []float64 {
	if !net.areOutputsUpToDate {
		net.pass++
		net.recomputations++
		for i, idx := range net.outputNeurons {
			net.outputs[i] = net.actionPotential(idx)
		}
		net.areOutputsUpToDate = true
	}
	out := make([]float64, len(net.outputs))
	copy(out, net.outputs)
	return out
}

// actionPotential pulls the value of neuron idx through its incoming
// connections. Every neuron is computed once per pass. A neuron reached
// again while it is still being computed lies on a cycle and contributes
// its value from the previous pass.
func (net *NeuralNetwork) actionPotential(idx int) float64 {
	n := &net.neurons[idx]
	if !n.HasConnections() || net.isInput[idx] || n.pass == net.pass || n.evaluating {
		return n.value
	}

	n.evaluating = true
	weighted := make([]float64, len(n.connections))
	for i, c := range n.connections {
		weighted[i] = net.actionPotential(c.From) * c.Weight
	}
	n.value = net.opts.activation(net.opts.aggregation(weighted))
	n.evaluating = false
	n.pass = net.pass
	return n.value
}

// GetGenes returns a copy of the genes the network was built from.
func (net *NeuralNetwork) GetGenes() []Gene {
	return copyGenes(net.genes)
}

// Layout returns the indices of the input and output neurons.
func (net *NeuralNetwork) Layout() Layout {
	return Layout{
		Inputs:  append([]int(nil), net.inputNeurons...),
		Outputs: append([]int(nil), net.outputNeurons...),
	}
}

// NumInputs returns the number of input neurons.
func (net *NeuralNetwork) NumInputs() int { return len(net.inputNeurons) }

// NumOutputs returns the number of output neurons.
func (net *NeuralNetwork) NumOutputs() int { return len(net.outputNeurons) }

// NumNeurons returns the size of the neuron collection.
func (net *NeuralNetwork) NumNeurons() int { return len(net.neurons) }

// IsRecurrent reports whether the enabled connections contain a cycle.
func (net *NeuralNetwork) IsRecurrent() bool { return net.recurrent }

func copyGenes(genes []Gene) []Gene {
	out := make([]Gene, len(genes))
	copy(out, genes)
	return out
}
