package cluster

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/k5602/course-pilot/internal/nlp"
)

// ErrNonConvergent reports that every seeded k-means run hit the
// iteration cap without converging.
var ErrNonConvergent = errors.New("kmeans did not converge")

const (
	kmeansMaxIterations = 50
	kmeansTolerance     = 1e-4
	kmeansAttempts      = 3
)

// CancelCheck is polled inside long inner loops; a non-nil error aborts
// the run.
type CancelCheck func() error

// Result is one clustering outcome: per-document assignments plus quality.
type Result struct {
	Assignments []int
	Centroids   []nlp.SparseVector
	K           int
	Silhouette  float64
	Iterations  int
}

// Clusters groups document indices by assignment, dropping empty groups.
func (r *Result) Clusters() [][]int {
	groups := make([][]int, r.K)
	for d, c := range r.Assignments {
		groups[c] = append(groups[c], d)
	}
	out := make([][]int, 0, r.K)
	for _, g := range groups {
		if len(g) > 0 {
			out = append(out, g)
		}
	}
	return out
}

// KRange returns the candidate cluster-count range [ceil(√N/2), min(12, ceil(√N))].
func KRange(n int) (lo, hi int) {
	root := math.Sqrt(float64(n))
	lo = int(math.Ceil(root / 2))
	hi = int(math.Ceil(root))
	if hi > 12 {
		hi = 12
	}
	if lo < 2 {
		lo = 2
	}
	if hi < lo {
		hi = lo
	}
	if hi > n {
		hi = n
	}
	if lo > hi {
		lo = hi
	}
	return lo, hi
}

// BestKMeans sweeps the k range and up to three seeds per k, keeping the
// run with the best silhouette. The seed for attempt a is seedFor(a).
func BestKMeans(m *nlp.Matrix, seedFor func(attempt int) int64, cancel CancelCheck) (*Result, error) {
	n := m.Len()
	if n < 2 {
		return nil, fmt.Errorf("kmeans needs at least 2 documents, got %d", n)
	}
	lo, hi := KRange(n)

	var best *Result
	attempt := 0
	for k := lo; k <= hi; k++ {
		for trial := 0; trial < kmeansAttempts; trial++ {
			res, err := runKMeans(m, k, seedFor(attempt), cancel)
			attempt++
			if err != nil {
				return nil, err
			}
			if res == nil {
				continue // did not converge with this seed
			}
			if best == nil || res.Silhouette > best.Silhouette {
				best = res
			}
		}
	}
	if best == nil {
		return nil, fmt.Errorf("k in [%d,%d], %d attempts: %w", lo, hi, attempt, ErrNonConvergent)
	}
	return best, nil
}

// runKMeans executes one k-means run with k-means++ seeding on cosine
// distance. Returns nil (no error) when the iteration cap is hit without
// convergence.
func runKMeans(m *nlp.Matrix, k int, seed int64, cancel CancelCheck) (*Result, error) {
	n := m.Len()
	if k > n {
		k = n
	}
	rng := rand.New(rand.NewSource(seed))
	return lloyd(m, seedPlusPlus(m, k, rng), cancel)
}

// SeededKMeans runs Lloyd iterations from centroids computed over the
// given document groups, one centroid per group. No randomness is
// involved; the outcome is a pure function of the matrix and the groups.
// Returns nil (no error) when the iteration cap is hit without
// convergence.
func SeededKMeans(m *nlp.Matrix, groups [][]int, cancel CancelCheck) (*Result, error) {
	if len(groups) < 2 {
		return nil, fmt.Errorf("seeded kmeans needs at least 2 groups, got %d", len(groups))
	}
	centroids := make([]nlp.SparseVector, len(groups))
	for c, group := range groups {
		vecs := make([]nlp.SparseVector, len(group))
		for i, d := range group {
			vecs[i] = m.Vector(d)
		}
		centroids[c] = nlp.Centroid(vecs)
	}
	return lloyd(m, centroids, cancel)
}

// lloyd iterates assign/recenter until the centroid shift drops below
// tolerance. Returns nil (no error) when the iteration cap is hit first.
func lloyd(m *nlp.Matrix, centroids []nlp.SparseVector, cancel CancelCheck) (*Result, error) {
	n := m.Len()
	k := len(centroids)
	assign := make([]int, n)

	converged := false
	iterations := 0
	for iter := 0; iter < kmeansMaxIterations; iter++ {
		iterations = iter + 1
		if cancel != nil {
			if err := cancel(); err != nil {
				return nil, err
			}
		}

		for d := 0; d < n; d++ {
			assign[d] = nearestCentroid(m.Vector(d), centroids)
		}

		groups := make([][]nlp.SparseVector, k)
		for d := 0; d < n; d++ {
			groups[assign[d]] = append(groups[assign[d]], m.Vector(d))
		}

		shift := 0.0
		for c := 0; c < k; c++ {
			if len(groups[c]) == 0 {
				// Reseed empty clusters from the farthest document.
				centroids[c] = m.Vector(farthestDoc(m, centroids))
				shift = 1
				continue
			}
			next := nlp.Centroid(groups[c])
			if delta := 1 - nlp.Cosine(centroids[c], next); delta > shift {
				shift = delta
			}
			centroids[c] = next
		}
		if shift < kmeansTolerance {
			converged = true
			break
		}
	}
	if !converged {
		return nil, nil
	}

	return &Result{
		Assignments: assign,
		Centroids:   centroids,
		K:           k,
		Silhouette:  centroidSilhouette(m, centroids, assign),
		Iterations:  iterations,
	}, nil
}

// seedPlusPlus picks initial centroids k-means++ style: first uniform,
// then proportional to squared cosine distance from the nearest chosen seed.
func seedPlusPlus(m *nlp.Matrix, k int, rng *rand.Rand) []nlp.SparseVector {
	n := m.Len()
	centroids := make([]nlp.SparseVector, 0, k)
	centroids = append(centroids, m.Vector(rng.Intn(n)))

	for len(centroids) < k {
		weights := make([]float64, n)
		var total float64
		for d := 0; d < n; d++ {
			dist := 1 - nlp.Cosine(m.Vector(d), centroids[nearestCentroid(m.Vector(d), centroids)])
			weights[d] = dist * dist
			total += weights[d]
		}
		if total == 0 {
			// All documents coincide with a seed; fill uniformly.
			centroids = append(centroids, m.Vector(rng.Intn(n)))
			continue
		}
		target := rng.Float64() * total
		chosen := n - 1
		acc := 0.0
		for d := 0; d < n; d++ {
			acc += weights[d]
			if acc >= target {
				chosen = d
				break
			}
		}
		centroids = append(centroids, m.Vector(chosen))
	}
	return centroids
}

func nearestCentroid(v nlp.SparseVector, centroids []nlp.SparseVector) int {
	best, bestSim := 0, -1.0
	for c := range centroids {
		if sim := nlp.Cosine(v, centroids[c]); sim > bestSim {
			best, bestSim = c, sim
		}
	}
	return best
}

func farthestDoc(m *nlp.Matrix, centroids []nlp.SparseVector) int {
	worst, worstSim := 0, math.Inf(1)
	for d := 0; d < m.Len(); d++ {
		sim := nlp.Cosine(m.Vector(d), centroids[nearestCentroid(m.Vector(d), centroids)])
		if sim < worstSim {
			worst, worstSim = d, sim
		}
	}
	return worst
}

// centroidSilhouette scores an assignment by comparing each document's
// distance to its own centroid against the nearest other centroid.
func centroidSilhouette(m *nlp.Matrix, centroids []nlp.SparseVector, assign []int) float64 {
	if len(centroids) < 2 {
		return 0
	}
	var total float64
	counted := 0
	for d := 0; d < m.Len(); d++ {
		a := 1 - nlp.Cosine(m.Vector(d), centroids[assign[d]])
		b := math.Inf(1)
		for c := range centroids {
			if c == assign[d] {
				continue
			}
			if dist := 1 - nlp.Cosine(m.Vector(d), centroids[c]); dist < b {
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
	return total / float64(counted)
}

// MeanIntraSimilarity is the mean pairwise cosine similarity of the given
// documents; 1.0 for a single document.
func MeanIntraSimilarity(m *nlp.Matrix, docs []int) float64 {
	if len(docs) < 2 {
		return 1.0
	}
	var sum float64
	pairs := 0
	for i := 0; i < len(docs); i++ {
		for j := i + 1; j < len(docs); j++ {
			sum += m.Similarity(docs[i], docs[j])
			pairs++
		}
	}
	return sum / float64(pairs)
}
