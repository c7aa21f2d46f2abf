package neat

import (
	"errors"
	"fmt"

	"github.com/baldhumanity/neat-core/neat/nn"
)

// Trainable is the body an organism controls: it supplies network inputs,
// reacts to network outputs, and scores the result.
type Trainable interface {
	Reset()
	ProvideNetworkWithInputs() []float64
	Update(outputs []float64)
	Fitness() float64
}

// Organism pairs a genome and its phenotype with a trainable body.
type Organism struct {
	genome  *Genome
	network *nn.NeuralNetwork
	body    Trainable

	rawFitness        float64
	fitnessModifier   float64
	isFitnessUpToDate bool
}

// NewOrganism builds the genome's network and attaches it to body.
func NewOrganism(genome *Genome, body Trainable) (*Organism, error) {
	if genome == nil {
		return nil, errors.New("organism requires a genome")
	}
	if body == nil {
		return nil, errors.New("organism requires a trainable body")
	}
	network, err := genome.NewNeuralNetwork()
	if err != nil {
		return nil, err
	}
	return &Organism{
		genome:          genome,
		network:         network,
		body:            body,
		fitnessModifier: 1.0,
	}, nil
}

// Update runs one step: the body's inputs go through the network and the
// outputs go back to the body.
func (o *Organism) Update() error {
	if err := o.network.SetInputs(o.body.ProvideNetworkWithInputs()); err != nil {
		return fmt.Errorf("failed to feed organism inputs: %w", err)
	}
	o.body.Update(o.network.GetOrCalculateOutputs())
	o.isFitnessUpToDate = false
	return nil
}

// Reset returns the body to its initial state.
func (o *Organism) Reset() {
	o.body.Reset()
	o.isFitnessUpToDate = false
}

// GetOrCalculateRawFitness returns the body's fitness, before sharing.
func (o *Organism) GetOrCalculateRawFitness() float64 {
	if !o.isFitnessUpToDate {
		o.rawFitness = o.body.Fitness()
		o.isFitnessUpToDate = true
	}
	return o.rawFitness
}

// GetOrCalculateFitness returns the shared fitness: raw fitness times the
// modifier set by the organism's species.
func (o *Organism) GetOrCalculateFitness() float64 {
	return o.GetOrCalculateRawFitness() * o.fitnessModifier
}

// SetFitnessModifier sets the fitness sharing factor.
func (o *Organism) SetFitnessModifier(modifier float64) {
	o.fitnessModifier = modifier
}

// FitnessModifier returns the fitness sharing factor.
func (o *Organism) FitnessModifier() float64 { return o.fitnessModifier }

// Genome returns the organism's genome.
func (o *Organism) Genome() *Genome { return o.genome }

// Network returns the organism's phenotype.
func (o *Organism) Network() *nn.NeuralNetwork { return o.network }

// Config returns the training parameters of the organism's genome.
func (o *Organism) Config() *Config { return o.genome.Config() }

// Clone copies the genome and rebuilds the network. The body is shared
// with o and cached fitness is carried over.
func (o *Organism) Clone() *Organism {
	genome := o.genome.Copy()
	network, err := genome.NewNeuralNetwork()
	if err != nil {
		// the same genes built successfully for o
		panic(fmt.Sprintf("cloning organism: %v", err))
	}
	return &Organism{
		genome:            genome,
		network:           network,
		body:              o.body,
		rawFitness:        o.rawFitness,
		fitnessModifier:   o.fitnessModifier,
		isFitnessUpToDate: o.isFitnessUpToDate,
	}
}
