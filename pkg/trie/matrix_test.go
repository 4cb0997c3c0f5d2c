package trie

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeAndEncodeRoundTrip(t *testing.T) {
	input := `{"mat": [[[1,1],[2,2]],[],[]]}`
	m, err := Decode(strings.NewReader(input))
	assert.NoError(t, err)
	assert.Equal(t, 3, m.N())
	assert.Equal(t, []Edge{{Label: 1, Child: 1}, {Label: 2, Child: 2}}, m.Nodes[0])

	var buf bytes.Buffer
	assert.NoError(t, m.Encode(&buf))

	rt, err := Decode(&buf)
	assert.NoError(t, err)
	assert.Equal(t, m.Nodes, rt.Nodes)
}

func TestMaxCharAndChildLabels(t *testing.T) {
	m := &Matrix{Nodes: [][]Edge{
		{{Label: 5, Child: 1}, {Label: 2, Child: 2}},
		nil,
		nil,
	}}
	assert.Equal(t, byte(5), m.MaxChar(0))
	assert.Equal(t, []byte{2, 5}, m.ChildLabels(0))
	assert.Equal(t, byte(0), m.MaxChar(1))
}

func TestInternalNodesAndBaseNodes(t *testing.T) {
	m := &Matrix{Nodes: [][]Edge{
		{{Label: 1, Child: 1}},
		nil,
	}}
	assert.Equal(t, []int{0}, m.InternalNodes())
	assert.Equal(t, []int{0}, m.BaseNodes())

	leafOnly := &Matrix{Nodes: [][]Edge{nil}}
	assert.Equal(t, []int(nil), leafOnly.InternalNodes())
	assert.Equal(t, []int{0}, leafOnly.BaseNodes())
}

func TestValidateRejectsDuplicateLabel(t *testing.T) {
	m := &Matrix{Nodes: [][]Edge{
		{{Label: 1, Child: 1}, {Label: 1, Child: 2}},
		nil,
		nil,
	}}
	assert.Error(t, m.Validate())
}

func TestValidateRejectsOutOfRangeChild(t *testing.T) {
	m := &Matrix{Nodes: [][]Edge{
		{{Label: 1, Child: 5}},
	}}
	assert.Error(t, m.Validate())
}

func TestDecodeRejectsLabelOutOfRange(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"mat": [[[300,0]]]}`))
	assert.Error(t, err)
}
