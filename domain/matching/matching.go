package matching

// NoSingleton marks a result in which every node found a partner.
const NoSingleton = -1

// Pair holds the graph indices of a matched pair, ordered so A < B.
type Pair struct {
	A int
	B int
}

// Result is a full partition of a graph's indices: every index appears in
// exactly one pair, or as the singleton when the node count is odd.
type Result struct {
	Pairs     []Pair
	Singleton int
}

// HasSingleton reports whether one node was left unpaired.
func (r Result) HasSingleton() bool {
	return r.Singleton != NoSingleton
}

// Matching partitions the graph's nodes into pairs, greedily choosing the
// lowest-weight remaining partner for the lowest unmatched index. Ties go
// to the smaller index because candidates are scanned in ascending order.
// With an odd node count exactly one node is left over and reported as the
// singleton.
//
// The pass is read-only and deterministic: calling it again on an
// unmodified graph returns the identical result. It is a heuristic, not an
// optimal minimum-weight matching: there is no backtracking. The dense
// scan costs O(n^2).
func (g *Graph) Matching() Result {
	result := Result{Singleton: NoSingleton}
	seen := make([]bool, len(g.nodes))

	for i := range g.nodes {
		if seen[i] {
			continue
		}

		best, bestWeight := NoSingleton, 0
		for j, w := range g.EdgesFor(i) {
			if seen[j] {
				continue
			}
			if best == NoSingleton || w < bestWeight {
				best, bestWeight = j, w
			}
		}

		if best == NoSingleton {
			// Everyone else is already paired; parity says this
			// happens at most once per pass.
			result.Singleton = i
			continue
		}

		a, b := i, best
		if b < a {
			a, b = b, a
		}
		result.Pairs = append(result.Pairs, Pair{A: a, B: b})
		seen[i], seen[best] = true, true
	}

	return result
}
