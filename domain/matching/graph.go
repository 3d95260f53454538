// Package matching implements the pairing engine for a single round: a
// dense weighted graph over the currently waiting participants, and a
// greedy pass that partitions them into pairs preferring partners they
// have met the fewest times.
package matching

import (
	"fmt"
	"iter"
)

// Graph is a complete undirected weighted graph over the participants of
// one matching round. Nodes are addressed by compact zero-based indices
// assigned in insertion order; the weight between two nodes counts how
// often the corresponding participants have been paired before, with 0
// (the default) meaning they have never met. Weights are kept symmetric
// on every mutation.
//
// A Graph is built fresh per round and discarded once the round's pairs
// are computed. It is not safe for concurrent use.
type Graph struct {
	nodes   []uint64
	weights [][]int
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{}
}

// AddNode appends a node for the given participant and returns its index.
// Indices are assigned monotonically starting at 0 and never reused. The
// weight matrix gains one all-zero row and column so that every existing
// node starts with a zero-weight edge to the new one.
func (g *Graph) AddNode(participantID uint64) int {
	idx := len(g.nodes)
	g.nodes = append(g.nodes, participantID)
	for i := range g.weights {
		g.weights[i] = append(g.weights[i], 0)
	}
	g.weights = append(g.weights, make([]int, len(g.nodes)))
	return idx
}

// NodeCount returns the number of nodes added so far.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// Node returns the participant identifier stored at index i.
func (g *Graph) Node(i int) uint64 {
	return g.nodes[i]
}

// AddEdge sets the symmetric weight between two distinct existing nodes.
// A self edge or an out-of-range index means the caller mis-built its
// identifier-to-index mapping, which is a bug, so it panics.
func (g *Graph) AddEdge(i, j, weight int) {
	if i == j {
		panic(fmt.Sprintf("matching: self edge on index %d", i))
	}
	if i < 0 || i >= len(g.nodes) || j < 0 || j >= len(g.nodes) {
		panic(fmt.Sprintf("matching: edge (%d, %d) out of range for %d nodes", i, j, len(g.nodes)))
	}
	g.weights[i][j] = weight
	g.weights[j][i] = weight
}

// Weight returns the pairing count between nodes i and j.
func (g *Graph) Weight(i, j int) int {
	return g.weights[i][j]
}

// EdgesFor yields the edges incident to node i as (other index, weight)
// pairs in ascending index order, skipping i itself. Weight 0 is a real
// edge, not absence: every pair of waiting participants is a candidate
// pair. The sequence is restartable.
func (g *Graph) EdgesFor(i int) iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for j, w := range g.weights[i] {
			if j == i {
				continue
			}
			if !yield(j, w) {
				return
			}
		}
	}
}
