package nn

// Connection is a weighted link into a neuron. From indexes the source
// neuron in the owning network's neuron slice.
type Connection struct {
	From   int
	Weight float64
}

// Neuron holds the incoming connections of one node and its last action
// potential. Neurons live in a network-owned slice and refer to each other
// by index only.
type Neuron struct {
	connections []Connection
	value       float64

	// evaluation bookkeeping, owned by NeuralNetwork
	pass       uint64
	evaluating bool
}

// AddConnection adds an incoming connection from the neuron at index from.
func (n *Neuron) AddConnection(from int, weight float64) {
	n.connections = append(n.connections, Connection{From: from, Weight: weight})
}

// Connections returns a copy of the incoming connections.
func (n *Neuron) Connections() []Connection {
	out := make([]Connection, len(n.connections))
	copy(out, n.connections)
	return out
}

// SetInput stores a value directly, bypassing any incoming connections.
func (n *Neuron) SetInput(v float64) {
	n.value = v
}

// Value returns the last computed action potential, or the value set by SetInput.
func (n *Neuron) Value() float64 {
	return n.value
}

// HasConnections reports whether any connection leads into the neuron.
func (n *Neuron) HasConnections() bool {
	return len(n.connections) > 0
}
