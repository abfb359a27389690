package cluster

import (
	"fmt"

	"github.com/k5602/course-pilot/internal/nlp"
)

// DefaultSimilarityThreshold is the dendrogram cut point for hierarchical
// clustering when the caller does not override it.
const DefaultSimilarityThreshold = 0.6

// Hierarchical runs agglomerative clustering with average linkage on
// cosine distance. Merging stops at the first candidate merge whose
// average similarity drops to or below the threshold, or once the cluster
// count falls inside the k-means k range.
func Hierarchical(m *nlp.Matrix, threshold float64, cancel CancelCheck) (*Result, error) {
	n := m.Len()
	if n == 0 {
		return nil, fmt.Errorf("hierarchical clustering needs at least 1 document")
	}
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	_, hi := KRange(n)

	clusters := make([][]int, n)
	for d := 0; d < n; d++ {
		clusters[d] = []int{d}
	}

	for len(clusters) > 1 {
		if cancel != nil {
			if err := cancel(); err != nil {
				return nil, err
			}
		}

		bi, bj, bestSim := -1, -1, -1.0
		for i := 0; i < len(clusters); i++ {
			for j := i + 1; j < len(clusters); j++ {
				if sim := averageLinkage(m, clusters[i], clusters[j]); sim > bestSim {
					bi, bj, bestSim = i, j, sim
				}
			}
		}

		// Cut: next merge is below the threshold and we already have an
		// acceptable cluster count.
		if bestSim <= threshold && len(clusters) <= hi {
			break
		}

		clusters[bi] = append(clusters[bi], clusters[bj]...)
		clusters = append(clusters[:bj], clusters[bj+1:]...)
	}

	return fromClusters(m, clusters), nil
}

// averageLinkage is the mean pairwise similarity across two clusters.
func averageLinkage(m *nlp.Matrix, a, b []int) float64 {
	var sum float64
	for _, i := range a {
		for _, j := range b {
			sum += m.Similarity(i, j)
		}
	}
	return sum / float64(len(a)*len(b))
}

// fromClusters builds a Result from explicit member lists.
func fromClusters(m *nlp.Matrix, clusters [][]int) *Result {
	assign := make([]int, m.Len())
	centroids := make([]nlp.SparseVector, len(clusters))
	for c, members := range clusters {
		vecs := make([]nlp.SparseVector, len(members))
		for i, d := range members {
			assign[d] = c
			vecs[i] = m.Vector(d)
		}
		centroids[c] = nlp.Centroid(vecs)
	}
	return &Result{
		Assignments: assign,
		Centroids:   centroids,
		K:           len(clusters),
		Silhouette:  centroidSilhouette(m, centroids, assign),
		Iterations:  m.Len() - len(clusters),
	}
}
