package nlp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestMatrix(titles []string) ([]TitleFeatures, *Matrix) {
	features, vocab := Analyze(titles)
	return features, BuildMatrix(features, vocab)
}

func TestBuildMatrix_VectorsAreUnitLength(t *testing.T) {
	_, m := buildTestMatrix([]string{
		"Rust Ownership Basics",
		"Python Decorators Guide",
		"SQL Joins Explained",
	})

	for d := 0; d < m.Len(); d++ {
		var norm float64
		for _, w := range m.Vector(d) {
			norm += w * w
		}
		assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-9, "doc %d", d)
	}
}

func TestMatrix_Similarity(t *testing.T) {
	_, m := buildTestMatrix([]string{
		"Rust Ownership Basics",
		"Rust Ownership Basics",
		"SQL Joins Explained",
	})

	assert.InDelta(t, 1.0, m.Similarity(0, 1), 1e-9, "identical titles")
	assert.InDelta(t, 0.0, m.Similarity(0, 2), 1e-9, "disjoint titles")
	assert.Equal(t, m.Similarity(0, 2), m.Similarity(2, 0), "symmetric")
}

func TestMatrix_PairsAbove(t *testing.T) {
	_, m := buildTestMatrix([]string{
		"Rust Ownership Basics",
		"Rust Ownership Rules",
		"SQL Joins Explained",
	})

	pairs := m.PairsAbove(0.1)
	require.Len(t, pairs, 1)
	assert.Equal(t, 0, pairs[0].A)
	assert.Equal(t, 1, pairs[0].B)
	assert.Greater(t, pairs[0].Similarity, 0.1)
}

func TestMatrix_InputMetrics(t *testing.T) {
	features, m := buildTestMatrix([]string{
		"Rust Ownership Basics",
		"Python Decorators Guide",
		"SQL Joins Explained",
	})

	metrics := m.InputMetrics(features)
	assert.Equal(t, 3, metrics.VideoCount)
	assert.Equal(t, metrics.UniqueStems, metrics.VocabularySize)
	assert.InDelta(t, 3.0, metrics.AverageTitleLength, 0.01)
	// Fully disjoint topics: diversity near 1.
	assert.Greater(t, metrics.ContentDiversityScore, 0.9)
}

func TestCentroid_Normalized(t *testing.T) {
	_, m := buildTestMatrix([]string{
		"Rust Ownership Basics",
		"Rust Borrowing Rules",
	})
	c := Centroid([]SparseVector{m.Vector(0), m.Vector(1)})
	var norm float64
	for _, w := range c {
		norm += w * w
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-9)
}

func TestTopTerms_LexicographicTieBreak(t *testing.T) {
	features, vocab := Analyze([]string{"zebra apple"})
	m := BuildMatrix(features, vocab)

	top := m.TopTerms(m.Vector(0), 2)
	require.Len(t, top, 2)
	// Equal weights; "apple" wins the tie lexicographically.
	assert.Equal(t, "apple", vocab.Term(top[0]))
	assert.Equal(t, "zebra", vocab.Term(top[1]))
}

func TestBuildMatrix_Deterministic(t *testing.T) {
	titles := []string{
		"Rust Ownership Basics",
		"Python Decorators Guide",
		"SQL Joins Explained",
		"Rust Lifetimes Deep Dive",
	}
	_, m1 := buildTestMatrix(titles)
	_, m2 := buildTestMatrix(titles)
	for d := 0; d < m1.Len(); d++ {
		assert.Equal(t, m1.Vector(d), m2.Vector(d))
	}
}
