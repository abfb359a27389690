package nlp

import (
	"math"
	"time"

	"github.com/k5602/course-pilot/internal/domain"
)

// Classification thresholds. These come from observed heuristics and should
// be recalibrated against a labelled corpus.
const (
	sequentialOrderingStrong = 0.7
	sequentialOrderingWeak   = 0.4
	sequentialCohesionMin    = 0.5
	clusteredSeparationMin   = 0.6
	mixedBandLow             = 0.4
	mixedBandHigh            = 0.7
)

// Signals are the four normalized classifier inputs, kept for rationale.
type Signals struct {
	OrderingStrength   float64
	DurationUniformity float64
	LexicalCohesion    float64
	ThematicSeparation float64
}

// Classification is the content-type decision plus the signals behind it.
type Classification struct {
	Type    domain.ContentType
	Signals Signals
}

// Classify decides whether titles are sequential, clustered, mixed, or
// ambiguous, from ordering cues, duration spread, and lexical structure.
func Classify(features []TitleFeatures, durations []time.Duration, m *Matrix) Classification {
	sig := Signals{
		OrderingStrength:   orderingStrength(features),
		DurationUniformity: durationUniformity(durations),
		LexicalCohesion:    lexicalCohesion(m),
		ThematicSeparation: thematicSeparation(m),
	}

	var ct domain.ContentType
	switch {
	case sig.OrderingStrength >= sequentialOrderingStrong,
		sig.OrderingStrength >= sequentialOrderingWeak && sig.LexicalCohesion >= sequentialCohesionMin:
		ct = domain.ContentSequential
	case sig.ThematicSeparation >= clusteredSeparationMin && sig.OrderingStrength < sequentialOrderingWeak:
		ct = domain.ContentClustered
	case inMixedBand(sig.OrderingStrength) && inMixedBand(sig.ThematicSeparation):
		ct = domain.ContentMixed
	default:
		ct = domain.ContentAmbiguous
	}

	return Classification{Type: ct, Signals: sig}
}

func inMixedBand(v float64) bool {
	return v >= mixedBandLow && v <= mixedBandHigh
}

// orderingStrength is the share of titles covered by the longest strictly
// increasing run of numbering-cue indices.
func orderingStrength(features []TitleFeatures) float64 {
	n := len(features)
	if n == 0 {
		return 0
	}
	longest, run := 0, 0
	prev := math.MinInt
	for _, f := range features {
		if !f.Hint.Valid {
			continue
		}
		if f.Hint.Index > prev {
			run++
		} else {
			run = 1
		}
		prev = f.Hint.Index
		if run > longest {
			longest = run
		}
	}
	return float64(longest) / float64(n)
}

// durationUniformity is 1 minus the coefficient of variation, or 0 when
// fewer than two durations are known.
func durationUniformity(durations []time.Duration) float64 {
	var known []float64
	for _, d := range durations {
		if d > 0 {
			known = append(known, d.Seconds())
		}
	}
	if len(known) < 2 {
		return 0
	}
	var sum float64
	for _, v := range known {
		sum += v
	}
	mean := sum / float64(len(known))
	if mean == 0 {
		return 0
	}
	var variance float64
	for _, v := range known {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(known))
	cv := math.Sqrt(variance) / mean
	return clamp01(1 - cv)
}

// lexicalCohesion is the mean similarity of adjacent titles in input order.
func lexicalCohesion(m *Matrix) float64 {
	n := m.Len()
	if n < 2 {
		return 0
	}
	var sum float64
	for i := 1; i < n; i++ {
		sum += m.Similarity(i-1, i)
	}
	return clamp01(sum / float64(n-1))
}

// separationMergeThreshold collapses near-duplicate centroids before the
// silhouette pass, so an oversplit topic does not read as poor separation.
const separationMergeThreshold = 0.5

// thematicSeparation runs a cheap two-pass k=√N clustering and returns a
// silhouette-like score: high when titles form distinct lexical groups.
func thematicSeparation(m *Matrix) float64 {
	n := m.Len()
	if n < 4 {
		return 0
	}
	k := int(math.Round(math.Sqrt(float64(n))))
	if k < 2 {
		k = 2
	}

	// Seed centroids at evenly spaced documents, then two assignment passes.
	centroids := make([]SparseVector, k)
	for i := 0; i < k; i++ {
		centroids[i] = m.Vector(i * n / k)
	}
	assign := make([]int, n)
	for pass := 0; pass < 2; pass++ {
		assignNearest(m, centroids, assign)
		centroids = recompute(m, centroids, assign)
	}

	centroids = mergeCentroids(centroids, separationMergeThreshold)
	if len(centroids) < 2 {
		return 0
	}
	assignNearest(m, centroids, assign)

	// Silhouette-like: own-centroid distance vs nearest other centroid.
	var total float64
	counted := 0
	for d := 0; d < n; d++ {
		a := 1 - Cosine(m.Vector(d), centroids[assign[d]])
		b := math.Inf(1)
		for c := range centroids {
			if c == assign[d] {
				continue
			}
			if dist := 1 - Cosine(m.Vector(d), centroids[c]); dist < b {
				b = dist
			}
		}
		denom := math.Max(a, b)
		if math.IsInf(b, 1) || denom == 0 {
			continue
		}
		total += (b - a) / denom
		counted++
	}
	if counted == 0 {
		return 0
	}
	return clamp01(total / float64(counted))
}

func assignNearest(m *Matrix, centroids []SparseVector, assign []int) {
	for d := 0; d < m.Len(); d++ {
		best, bestSim := 0, -1.0
		for c := range centroids {
			if sim := Cosine(m.Vector(d), centroids[c]); sim > bestSim {
				best, bestSim = c, sim
			}
		}
		assign[d] = best
	}
}

func recompute(m *Matrix, centroids []SparseVector, assign []int) []SparseVector {
	groups := make([][]SparseVector, len(centroids))
	for d := 0; d < m.Len(); d++ {
		groups[assign[d]] = append(groups[assign[d]], m.Vector(d))
	}
	out := make([]SparseVector, len(centroids))
	for c := range centroids {
		if len(groups[c]) > 0 {
			out[c] = Centroid(groups[c])
		} else {
			out[c] = centroids[c]
		}
	}
	return out
}

// mergeCentroids greedily folds together centroids whose similarity meets
// the threshold, keeping the earlier one.
func mergeCentroids(centroids []SparseVector, threshold float64) []SparseVector {
	var merged []SparseVector
	for _, c := range centroids {
		absorbed := false
		for i, m := range merged {
			if Cosine(c, m) >= threshold {
				merged[i] = Centroid([]SparseVector{m, c})
				absorbed = true
				break
			}
		}
		if !absorbed {
			merged = append(merged, c)
		}
	}
	return merged
}
