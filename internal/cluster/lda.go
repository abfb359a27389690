package cluster

import (
	"fmt"
	"math/rand"

	"github.com/k5602/course-pilot/internal/nlp"
)

const (
	ldaIterations = 30
	ldaAlpha      = 0.1
	ldaBeta       = 0.01
)

// Lda assigns documents to topics via lightweight collapsed Gibbs sampling
// over the stem bags. The topic count matches the k-means k range midpoint
// unless k is given (> 0). Documents land in their argmax topic.
func Lda(m *nlp.Matrix, features []nlp.TitleFeatures, k int, seed int64, cancel CancelCheck) (*Result, error) {
	n := len(features)
	if n == 0 {
		return nil, fmt.Errorf("lda needs at least 1 document")
	}
	if k <= 0 {
		lo, hi := KRange(n)
		k = (lo + hi) / 2
	}
	if k > n {
		k = n
	}
	vocabSize := m.Vocab().Size()
	if vocabSize == 0 {
		return nil, fmt.Errorf("lda needs a non-empty vocabulary")
	}

	// Flatten documents into (doc, term) token instances.
	type token struct{ doc, term int }
	var tokens []token
	for d, f := range features {
		for _, s := range f.Stems {
			if id, ok := m.Vocab().Lookup(s); ok {
				tokens = append(tokens, token{doc: d, term: id})
			}
		}
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("lda found no usable tokens")
	}

	rng := rand.New(rand.NewSource(seed))
	topicOf := make([]int, len(tokens))
	docTopic := make([][]int, n)
	for d := range docTopic {
		docTopic[d] = make([]int, k)
	}
	topicTerm := make([][]int, k)
	topicTotal := make([]int, k)
	for t := range topicTerm {
		topicTerm[t] = make([]int, vocabSize)
	}

	for i, tok := range tokens {
		t := rng.Intn(k)
		topicOf[i] = t
		docTopic[tok.doc][t]++
		topicTerm[t][tok.term]++
		topicTotal[t]++
	}

	probs := make([]float64, k)
	for iter := 0; iter < ldaIterations; iter++ {
		if cancel != nil {
			if err := cancel(); err != nil {
				return nil, err
			}
		}
		for i, tok := range tokens {
			old := topicOf[i]
			docTopic[tok.doc][old]--
			topicTerm[old][tok.term]--
			topicTotal[old]--

			var total float64
			for t := 0; t < k; t++ {
				p := (float64(docTopic[tok.doc][t]) + ldaAlpha) *
					(float64(topicTerm[t][tok.term]) + ldaBeta) /
					(float64(topicTotal[t]) + ldaBeta*float64(vocabSize))
				probs[t] = p
				total += p
			}
			target := rng.Float64() * total
			next := k - 1
			acc := 0.0
			for t := 0; t < k; t++ {
				acc += probs[t]
				if acc >= target {
					next = t
					break
				}
			}

			topicOf[i] = next
			docTopic[tok.doc][next]++
			topicTerm[next][tok.term]++
			topicTotal[next]++
		}
	}

	assign := make([]int, n)
	for d := 0; d < n; d++ {
		best, bestCount := 0, -1
		for t := 0; t < k; t++ {
			if docTopic[d][t] > bestCount {
				best, bestCount = t, docTopic[d][t]
			}
		}
		assign[d] = best
	}

	// Compact to non-empty topics and score like the other algorithms.
	used := make(map[int]int)
	var clusters [][]int
	for d, t := range assign {
		idx, ok := used[t]
		if !ok {
			idx = len(clusters)
			used[t] = idx
			clusters = append(clusters, nil)
		}
		clusters[idx] = append(clusters[idx], d)
	}
	res := fromClusters(m, clusters)
	res.Iterations = ldaIterations
	return res, nil
}
