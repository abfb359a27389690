package cluster

import (
	"errors"
	"sort"
	"time"

	"github.com/k5602/course-pilot/internal/domain"
	"github.com/k5602/course-pilot/internal/nlp"
)

// hybridMinVideos is the course size at which clustered content moves from
// plain agglomerative grouping to kmeans with hierarchical refinement.
const hybridMinVideos = 20

// Options tune a single structuring run. Zero values mean "decide
// automatically".
type Options struct {
	StrategyOverride    domain.ClusteringStrategy
	AlgorithmOverride   domain.ClusteringAlgorithm
	SimilarityThreshold float64
}

// Input is one course's material for the engine.
type Input struct {
	CourseID  string
	Titles    []string
	Durations []time.Duration
	Options   Options
	Cancel    CancelCheck
}

// Engine turns raw titles into a course structure. It is stateless and
// safe for concurrent use.
type Engine struct{}

func NewEngine() *Engine { return &Engine{} }

// Analysis carries the NLP artifacts the clustering stage consumes. It
// exists so callers that report per-stage progress can run the text
// analysis separately from the clustering.
type Analysis struct {
	Features []nlp.TitleFeatures
	Matrix   *nlp.Matrix
	Class    nlp.Classification
}

// Analyze runs normalization, vectorization, and classification.
func (e *Engine) Analyze(titles []string, durations []time.Duration) Analysis {
	features, vocab := nlp.Analyze(titles)
	m := nlp.BuildMatrix(features, vocab)
	return Analysis{
		Features: features,
		Matrix:   m,
		Class:    nlp.Classify(features, durations, m),
	}
}

// Structure runs the full pipeline: normalize, vectorize, classify, pick
// a strategy, cluster, assemble. Algorithm failures recover to gentler
// strategies and finally to the order-preserving fallback; the only error
// returned is the cancel error.
func (e *Engine) Structure(in Input) (*domain.CourseStructure, error) {
	return e.StructureFrom(in, e.Analyze(in.Titles, in.Durations))
}

// StructureFrom clusters and assembles using a prepared analysis.
func (e *Engine) StructureFrom(in Input, a Analysis) (*domain.CourseStructure, error) {
	features, m, class := a.Features, a.Matrix, a.Class

	threshold := in.Options.SimilarityThreshold
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	if threshold > 1 {
		threshold = 1
	}

	strategy := chooseStrategy(class.Type, len(in.Titles), in.Options.StrategyOverride)
	if strategy == domain.StrategyFallback || degenerate(m) {
		return AssembleSequential(in.Titles, in.Durations, class), nil
	}

	base := AssembleInput{
		Titles:    in.Titles,
		Durations: in.Durations,
		Features:  features,
		Matrix:    m,
		Class:     class,
		Strategy:  strategy,
		Threshold: threshold,
	}

	res, algorithm, err := e.run(in, m, features, strategy, threshold)
	if errors.Is(err, ErrNonConvergent) {
		// Agglomerative grouping always terminates; try it before giving up
		// on clustering entirely.
		res, err = Hierarchical(m, threshold, in.Cancel)
		algorithm = domain.AlgorithmHierarchical
		base.Strategy = domain.StrategyHierarchical
	}
	if err != nil || res == nil || res.K < 2 {
		if err != nil && !errors.Is(err, ErrNonConvergent) {
			return nil, err
		}
		return AssembleSequential(in.Titles, in.Durations, class), nil
	}

	base.Result = res
	base.Algorithm = algorithm
	return AssembleClustered(base), nil
}

// run dispatches the chosen strategy to its algorithm.
func (e *Engine) run(in Input, m *nlp.Matrix, features []nlp.TitleFeatures, strategy domain.ClusteringStrategy, threshold float64) (*Result, domain.ClusteringAlgorithm, error) {
	algorithm := in.Options.AlgorithmOverride
	if algorithm == "" {
		algorithm = defaultAlgorithm(strategy)
	}
	seedFor := func(attempt int) int64 { return Seed(in.CourseID, algorithm, attempt) }

	switch algorithm {
	case domain.AlgorithmHierarchical:
		res, err := Hierarchical(m, threshold, in.Cancel)
		return res, algorithm, err
	case domain.AlgorithmLda:
		_, hi := KRange(m.Len())
		res, err := Lda(m, features, hi, seedFor(0), in.Cancel)
		return res, algorithm, err
	case domain.AlgorithmHybrid:
		res, err := Hybrid(m, seedFor, in.Cancel)
		return res, algorithm, err
	case domain.AlgorithmTfIdf:
		res, err := durationBuckets(m, durationSeconds(in.Durations, m.Len()))
		return res, algorithm, err
	default:
		// Mixed content carries partial numbering: seed the centroids
		// from the consecutive numbered runs before falling back to the
		// k-means++ sweep.
		if strategy == domain.StrategyContentBased {
			if runs := orderingRuns(features); len(runs) >= 2 {
				_, hi := KRange(m.Len())
				res, err := SeededKMeans(m, mergeRuns(runs, hi), in.Cancel)
				if err != nil {
					return nil, domain.AlgorithmKMeans, err
				}
				if res != nil {
					return res, domain.AlgorithmKMeans, nil
				}
			}
		}
		res, err := BestKMeans(m, seedFor, in.Cancel)
		return res, domain.AlgorithmKMeans, err
	}
}

// orderingRuns splits the title sequence into maximal runs of increasing
// numbering cues. A title without a cue stays with the current run; a cue
// that does not increase the previous one starts a new run.
func orderingRuns(features []nlp.TitleFeatures) [][]int {
	var runs [][]int
	lastIndex := 0
	haveIndex := false
	for d, f := range features {
		fresh := len(runs) == 0
		if f.Hint.Valid && haveIndex && f.Hint.Index <= lastIndex {
			fresh = true
		}
		if fresh {
			runs = append(runs, nil)
			haveIndex = false
		}
		runs[len(runs)-1] = append(runs[len(runs)-1], d)
		if f.Hint.Valid {
			lastIndex = f.Hint.Index
			haveIndex = true
		}
	}
	return runs
}

// mergeRuns joins adjacent runs until at most maxK remain, always picking
// the pair with the fewest combined members.
func mergeRuns(runs [][]int, maxK int) [][]int {
	for len(runs) > maxK && len(runs) > 1 {
		best := 0
		for i := 1; i < len(runs)-1; i++ {
			if len(runs[i])+len(runs[i+1]) < len(runs[best])+len(runs[best+1]) {
				best = i
			}
		}
		merged := append(runs[best], runs[best+1]...)
		runs = append(runs[:best], append([][]int{merged}, runs[best+2:]...)...)
	}
	return runs
}

func chooseStrategy(ct domain.ContentType, n int, override domain.ClusteringStrategy) domain.ClusteringStrategy {
	if override != "" {
		return override
	}
	switch ct {
	case domain.ContentSequential:
		return domain.StrategyFallback
	case domain.ContentClustered:
		if n >= hybridMinVideos {
			return domain.StrategyHybrid
		}
		return domain.StrategyHierarchical
	case domain.ContentMixed:
		return domain.StrategyContentBased
	default:
		return domain.StrategyFallback
	}
}

func defaultAlgorithm(strategy domain.ClusteringStrategy) domain.ClusteringAlgorithm {
	switch strategy {
	case domain.StrategyHierarchical:
		return domain.AlgorithmHierarchical
	case domain.StrategyLda:
		return domain.AlgorithmLda
	case domain.StrategyHybrid:
		return domain.AlgorithmHybrid
	case domain.StrategyDurationBased:
		return domain.AlgorithmTfIdf
	default:
		return domain.AlgorithmKMeans
	}
}

// degenerate reports whether the corpus cannot be clustered: empty
// vocabulary or all title vectors identical.
func degenerate(m *nlp.Matrix) bool {
	if m.Vocab().Size() == 0 || m.Len() < 2 {
		return true
	}
	for d := 1; d < m.Len(); d++ {
		if m.Similarity(0, d) < 1-kmeansTolerance {
			return false
		}
	}
	return true
}

func durationSeconds(durations []time.Duration, n int) []float64 {
	secs := make([]float64, n)
	for i := range secs {
		if i < len(durations) {
			secs[i] = durations[i].Seconds()
		}
	}
	return secs
}

// durationBuckets groups videos of similar length into near-equal-count
// buckets, for courses organized by runtime rather than topic.
func durationBuckets(m *nlp.Matrix, secs []float64) (*Result, error) {
	n := len(secs)
	if n < 2 {
		return nil, errors.New("duration grouping needs at least 2 videos")
	}
	k, _ := KRange(n)

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		if secs[order[a]] != secs[order[b]] {
			return secs[order[a]] < secs[order[b]]
		}
		return order[a] < order[b]
	})

	clusters := make([][]int, k)
	for pos, d := range order {
		clusters[pos*k/n] = append(clusters[pos*k/n], d)
	}
	filled := clusters[:0]
	for _, c := range clusters {
		if len(c) > 0 {
			filled = append(filled, c)
		}
	}
	return fromClusters(m, filled), nil
}
