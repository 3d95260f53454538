package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchingEmptyGraph(t *testing.T) {
	g := NewGraph()

	result := g.Matching()

	assert.Empty(t, result.Pairs)
	assert.False(t, result.HasSingleton())
}

func TestMatchingSingleNode(t *testing.T) {
	g := NewGraph()
	g.AddNode(42)

	result := g.Matching()

	assert.Empty(t, result.Pairs)
	require.True(t, result.HasSingleton())
	assert.Equal(t, 0, result.Singleton)
}

func TestMatchingTwoNodes(t *testing.T) {
	g := NewGraph()
	g.AddNode(1)
	g.AddNode(2)

	result := g.Matching()

	assert.Equal(t, []Pair{{A: 0, B: 1}}, result.Pairs)
	assert.False(t, result.HasSingleton())
}

func TestMatchingPrefersLowestWeight(t *testing.T) {
	g := NewGraph()
	for i := 0; i < 4; i++ {
		g.AddNode(uint64(i))
	}
	g.AddEdge(0, 1, 5)
	g.AddEdge(0, 2, 0)
	g.AddEdge(0, 3, 9)
	g.AddEdge(1, 2, 9)
	g.AddEdge(1, 3, 0)
	g.AddEdge(2, 3, 5)

	result := g.Matching()

	// Node 0 takes node 2 at weight 0, leaving 1 and 3 to pair at 0.
	assert.Equal(t, []Pair{{A: 0, B: 2}, {A: 1, B: 3}}, result.Pairs)
	assert.False(t, result.HasSingleton())
}

func TestMatchingTieBreaksOnSmallestIndex(t *testing.T) {
	// All weights equal: lowest indices are consumed greedily and the
	// highest index is left over.
	g := NewGraph()
	for i := 0; i < 5; i++ {
		g.AddNode(uint64(i))
	}

	result := g.Matching()

	assert.Equal(t, []Pair{{A: 0, B: 1}, {A: 2, B: 3}}, result.Pairs)
	require.True(t, result.HasSingleton())
	assert.Equal(t, 4, result.Singleton)
}

func TestMatchingAvoidsPreviousPartner(t *testing.T) {
	g := NewGraph()
	for i := 0; i < 3; i++ {
		g.AddNode(uint64(i))
	}
	g.AddEdge(0, 1, 1)

	result := g.Matching()

	assert.Equal(t, []Pair{{A: 0, B: 2}}, result.Pairs)
	require.True(t, result.HasSingleton())
	assert.Equal(t, 1, result.Singleton)
}

func TestMatchingPartitionsEveryIndexExactlyOnce(t *testing.T) {
	for n := 0; n <= 13; n++ {
		g := NewGraph()
		for i := 0; i < n; i++ {
			g.AddNode(uint64(i * 10))
		}
		// Deterministic, uneven weights.
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				g.AddEdge(i, j, (i*7+j*13)%5)
			}
		}

		result := g.Matching()

		assert.Len(t, result.Pairs, n/2, "n=%d", n)
		assert.Equal(t, n%2 == 1, result.HasSingleton(), "n=%d", n)

		covered := make(map[int]bool)
		for _, p := range result.Pairs {
			assert.Less(t, p.A, p.B, "n=%d", n)
			assert.False(t, covered[p.A], "n=%d index %d repeated", n, p.A)
			assert.False(t, covered[p.B], "n=%d index %d repeated", n, p.B)
			covered[p.A] = true
			covered[p.B] = true
		}
		if result.HasSingleton() {
			assert.False(t, covered[result.Singleton], "n=%d", n)
			covered[result.Singleton] = true
		}
		assert.Len(t, covered, n, "n=%d", n)
	}
}

func TestMatchingDoesNotMutateWeights(t *testing.T) {
	g := NewGraph()
	for i := 0; i < 5; i++ {
		g.AddNode(uint64(i))
	}
	g.AddEdge(0, 1, 2)
	g.AddEdge(2, 4, 3)

	before := make(map[[2]int]int)
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			if i != j {
				before[[2]int{i, j}] = g.Weight(i, j)
			}
		}
	}

	first := g.Matching()
	second := g.Matching()

	assert.Equal(t, first, second)
	for key, w := range before {
		assert.Equal(t, w, g.Weight(key[0], key[1]))
	}
}
