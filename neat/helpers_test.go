package neat

import (
	"math/rand"
	"testing"

	"github.com/baldhumanity/neat-core/neat/nn"
	"github.com/stretchr/testify/require"
)

type fakeBody struct {
	inputs      []float64
	fitness     float64
	lastOutputs []float64
	updates     int
	resets      int
}

func (b *fakeBody) Reset() { b.resets++ }

func (b *fakeBody) ProvideNetworkWithInputs() []float64 { return b.inputs }

func (b *fakeBody) Update(outputs []float64) {
	b.updates++
	b.lastOutputs = outputs
}

func (b *fakeBody) Fitness() float64 { return b.fitness }

func testConfig() *Config {
	config := DefaultConfig()
	config.Genome.NumInputs = 2
	config.Genome.NumOutputs = 1
	config.Genome.ActivationDefault = "identity"
	return config
}

func seededRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// newTestOrganism builds a 2-input, 1-output organism whose two genes carry weight w.
func newTestOrganism(t *testing.T, config *Config, w, fitness float64) (*Organism, *fakeBody) {
	t.Helper()
	genome, err := NewGenomeFromGenes(config, []nn.Gene{
		{From: 0, To: 2, Weight: w, Enabled: true},
		{From: 1, To: 2, Weight: w, Enabled: true},
	}, 2, 1)
	require.NoError(t, err)
	body := &fakeBody{inputs: []float64{1, 2}, fitness: fitness}
	o, err := NewOrganism(genome, body)
	require.NoError(t, err)
	return o, body
}
