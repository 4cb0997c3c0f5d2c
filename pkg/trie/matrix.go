// Package trie holds the input to the double-array layout solver: an
// already-built trie expressed as an adjacency matrix, keyed by node index.
package trie

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
)

// Edge is a single labeled transition out of a node.
type Edge struct {
	Label byte
	Child int
}

// Matrix is an ordered sequence of nodes, each carrying its outgoing edges.
// Node 0 is the root. Labels within a single node's edge list are unique.
type Matrix struct {
	Nodes [][]Edge
}

// N returns the number of nodes in the matrix.
func (m *Matrix) N() int {
	return len(m.Nodes)
}

// Internal reports whether node u has at least one outgoing edge.
func (m *Matrix) Internal(u int) bool {
	return len(m.Nodes[u]) > 0
}

// MaxChar returns the largest edge label out of node u, or 0 if u has no
// children.
func (m *Matrix) MaxChar(u int) byte {
	var max byte
	for _, e := range m.Nodes[u] {
		if e.Label > max {
			max = e.Label
		}
	}
	return max
}

// ChildLabels returns the sorted edge labels out of node u.
func (m *Matrix) ChildLabels(u int) []byte {
	labels := make([]byte, len(m.Nodes[u]))
	for i, e := range m.Nodes[u] {
		labels[i] = e.Label
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	return labels
}

// InternalNodes returns the indices of every internal node, in matrix order.
func (m *Matrix) InternalNodes() []int {
	var result []int
	for u := range m.Nodes {
		if m.Internal(u) {
			result = append(result, u)
		}
	}
	return result
}

// BaseNodes returns the indices of every node that must be assigned a
// base(u,·) variable: every internal node, plus the root even if it has no
// children (I6 fixes base(root,0) true unconditionally, so a root-only
// trie still needs a base variable for node 0).
func (m *Matrix) BaseNodes() []int {
	nodes := m.InternalNodes()
	if !m.Internal(0) {
		nodes = append([]int{0}, nodes...)
	}
	return nodes
}

// Validate checks that labels within each node are unique and that every
// child index is in range.
func (m *Matrix) Validate() error {
	n := m.N()
	for u, edges := range m.Nodes {
		seen := make(map[byte]struct{}, len(edges))
		for _, e := range edges {
			if _, ok := seen[e.Label]; ok {
				return fmt.Errorf("node %d: duplicate label %d", u, e.Label)
			}
			seen[e.Label] = struct{}{}
			if e.Child < 0 || e.Child >= n {
				return fmt.Errorf("node %d: child %d out of range [0,%d)", u, e.Child, n)
			}
		}
	}
	return nil
}

// wireMatrix is the JSON wire format: {"mat": [[[c,v],...], ...]}.
type wireMatrix struct {
	Mat [][][2]int `json:"mat"`
}

// Decode parses a trie matrix from its JSON wire representation.
func Decode(r io.Reader) (*Matrix, error) {
	var w wireMatrix
	if err := json.NewDecoder(r).Decode(&w); err != nil {
		return nil, fmt.Errorf("decode trie matrix: %w", err)
	}
	m := &Matrix{Nodes: make([][]Edge, len(w.Mat))}
	for u, pairs := range w.Mat {
		edges := make([]Edge, len(pairs))
		for i, p := range pairs {
			if p[0] < 0 || p[0] > 255 {
				return nil, fmt.Errorf("node %d: label %d out of range [0,255]", u, p[0])
			}
			edges[i] = Edge{Label: byte(p[0]), Child: p[1]}
		}
		m.Nodes[u] = edges
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// ReadFile loads a trie matrix from a JSON file at path.
func ReadFile(path string) (*Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trie matrix %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// Encode writes the trie matrix to its JSON wire representation.
func (m *Matrix) Encode(w io.Writer) error {
	wire := wireMatrix{Mat: make([][][2]int, len(m.Nodes))}
	for u, edges := range m.Nodes {
		pairs := make([][2]int, len(edges))
		for i, e := range edges {
			pairs[i] = [2]int{int(e.Label), e.Child}
		}
		wire.Mat[u] = pairs
	}
	enc := json.NewEncoder(w)
	return enc.Encode(wire)
}
