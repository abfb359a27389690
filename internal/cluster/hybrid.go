package cluster

import (
	"math"

	"github.com/k5602/course-pilot/internal/nlp"
)

const (
	hybridMergeSimilarity = 0.8
	hybridSplitFactor     = 2.0
)

// Hybrid refines a k-means result hierarchically: merge cluster pairs whose
// centroids are near-identical (similarity >= 0.8) when the combined size
// stays under ceil(1.5·N/k), then split any cluster whose internal diameter
// exceeds twice the mean diameter.
func Hybrid(m *nlp.Matrix, seedFor func(attempt int) int64, cancel CancelCheck) (*Result, error) {
	base, err := BestKMeans(m, seedFor, cancel)
	if err != nil {
		return nil, err
	}

	n := m.Len()
	clusters := base.Clusters()
	maxMergedSize := int(math.Ceil(1.5 * float64(n) / float64(base.K)))

	// Merge pass.
	for {
		merged := false
		for i := 0; i < len(clusters) && !merged; i++ {
			for j := i + 1; j < len(clusters); j++ {
				if len(clusters[i])+len(clusters[j]) > maxMergedSize {
					continue
				}
				ci := memberCentroid(m, clusters[i])
				cj := memberCentroid(m, clusters[j])
				if nlp.Cosine(ci, cj) >= hybridMergeSimilarity {
					clusters[i] = append(clusters[i], clusters[j]...)
					clusters = append(clusters[:j], clusters[j+1:]...)
					merged = true
					break
				}
			}
		}
		if !merged {
			break
		}
	}

	// Split pass: clusters stretched far beyond the mean get bisected.
	diameters := make([]float64, len(clusters))
	var meanDiameter float64
	for i, members := range clusters {
		diameters[i] = diameter(m, members)
		meanDiameter += diameters[i]
	}
	if len(clusters) > 0 {
		meanDiameter /= float64(len(clusters))
	}
	if meanDiameter > 0 {
		var out [][]int
		for i, members := range clusters {
			if len(members) >= 4 && diameters[i] > hybridSplitFactor*meanDiameter {
				a, b := bisect(m, members)
				out = append(out, a, b)
				continue
			}
			out = append(out, members)
		}
		clusters = out
	}

	return fromClusters(m, clusters), nil
}

func memberCentroid(m *nlp.Matrix, members []int) nlp.SparseVector {
	vecs := make([]nlp.SparseVector, len(members))
	for i, d := range members {
		vecs[i] = m.Vector(d)
	}
	return nlp.Centroid(vecs)
}

// diameter is the maximum pairwise cosine distance within a cluster.
func diameter(m *nlp.Matrix, members []int) float64 {
	var max float64
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			if d := 1 - m.Similarity(members[i], members[j]); d > max {
				max = d
			}
		}
	}
	return max
}

// bisect splits members around the two most distant documents.
func bisect(m *nlp.Matrix, members []int) ([]int, []int) {
	pi, pj := members[0], members[1]
	var max float64 = -1
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			if d := 1 - m.Similarity(members[i], members[j]); d > max {
				pi, pj, max = members[i], members[j], d
			}
		}
	}
	var a, b []int
	for _, d := range members {
		if m.Similarity(d, pi) >= m.Similarity(d, pj) {
			a = append(a, d)
		} else {
			b = append(b, d)
		}
	}
	if len(a) == 0 || len(b) == 0 {
		// Degenerate split; keep the original cluster halves stable.
		mid := len(members) / 2
		return members[:mid], members[mid:]
	}
	return a, b
}
