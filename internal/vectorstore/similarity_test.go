package vectorstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilaritySelf(t *testing.T) {
	v := []float32{0.3, -1.2, 4.5, 0.01}
	got, err := CosineSimilarity(v, v)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got, 1e-9)
}

func TestCosineSimilarityZeroNorm(t *testing.T) {
	zero := []float32{0, 0, 0}
	v := []float32{1, 2, 3}

	got, err := CosineSimilarity(v, zero)
	require.NoError(t, err)
	assert.Zero(t, got)

	got, err = CosineSimilarity(zero, zero)
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestCosineSimilaritySymmetric(t *testing.T) {
	a := []float32{1, 0.5, -2}
	b := []float32{-0.3, 4, 1.1}

	ab, err := CosineSimilarity(a, b)
	require.NoError(t, err)
	ba, err := CosineSimilarity(b, a)
	require.NoError(t, err)
	assert.Equal(t, ab, ba)
}

func TestCosineSimilarityOrthogonal(t *testing.T) {
	got, err := CosineSimilarity([]float32{1, 0}, []float32{0, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0, got, 1e-9)
}

func TestCosineSimilarityDimensionMismatch(t *testing.T) {
	_, err := CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3})
	assert.Error(t, err)
}

type doc struct {
	name string
	vec  []float32
}

func docVec(d doc) []float32 { return d.vec }

func TestTopKOrdering(t *testing.T) {
	query := []float32{1, 0}
	docs := []doc{
		{"orthogonal", []float32{0, 1}},
		{"exact", []float32{2, 0}},
		{"close", []float32{1, 0.5}},
		{"opposite", []float32{-1, 0}},
	}

	got, err := TopK(query, docs, docVec, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "exact", got[0].Item.name)
	assert.Equal(t, "close", got[1].Item.name)
	assert.Equal(t, "orthogonal", got[2].Item.name)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}
}

func TestTopKAtMostK(t *testing.T) {
	query := []float32{1, 1}
	docs := []doc{{"a", []float32{1, 1}}, {"b", []float32{1, 0}}}

	got, err := TopK(query, docs, docVec, 10)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = TopK(query, docs, docVec, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTopKStableOnTies(t *testing.T) {
	query := []float32{1, 0}
	// All candidates score identically; input order must survive.
	docs := []doc{
		{"first", []float32{1, 0}},
		{"second", []float32{2, 0}},
		{"third", []float32{3, 0}},
	}

	got, err := TopK(query, docs, docVec, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].Item.name)
	assert.Equal(t, "second", got[1].Item.name)
	assert.Equal(t, "third", got[2].Item.name)
}

func TestTopKDimensionMismatchFatal(t *testing.T) {
	query := []float32{1, 0}
	docs := []doc{{"good", []float32{1, 0}}, {"bad", []float32{1, 0, 0}}}

	_, err := TopK(query, docs, docVec, 2)
	assert.Error(t, err)
}

func TestTopKEmptyCandidates(t *testing.T) {
	got, err := TopK([]float32{1}, nil, docVec, 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}
