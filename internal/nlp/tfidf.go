package nlp

import (
	"math"
	"sort"

	"github.com/k5602/course-pilot/internal/domain"
)

// SparseVector is an L2-normalized document vector keyed by term id.
type SparseVector map[int]float64

// Matrix holds the TF-IDF vectors for a corpus of titles. Vectors are
// sparse; the matrix never materializes the dense N×V form.
type Matrix struct {
	vectors []SparseVector
	idf     []float64
	vocab   *Vocabulary
}

// BuildMatrix computes TF-IDF over per-title stem bags:
//
//	tf(d,t)  = count(d,t) / max(1, total terms in d)
//	idf(t)   = ln((1+N)/(1+df(t))) + 1
//
// followed by L2 normalization of every document vector.
func BuildMatrix(features []TitleFeatures, vocab *Vocabulary) *Matrix {
	n := len(features)
	df := make([]int, vocab.Size())
	counts := make([]map[int]int, n)

	for d, f := range features {
		counts[d] = make(map[int]int, len(f.Stems))
		for _, s := range f.Stems {
			id, ok := vocab.Lookup(s)
			if !ok {
				continue
			}
			counts[d][id]++
		}
		for id := range counts[d] {
			df[id]++
		}
	}

	idf := make([]float64, vocab.Size())
	for t := range idf {
		idf[t] = math.Log(float64(1+n)/float64(1+df[t])) + 1
	}

	vectors := make([]SparseVector, n)
	for d := range counts {
		total := 0
		for _, c := range counts[d] {
			total += c
		}
		if total < 1 {
			total = 1
		}
		vec := make(SparseVector, len(counts[d]))
		var norm float64
		for t, c := range counts[d] {
			w := float64(c) / float64(total) * idf[t]
			vec[t] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for t := range vec {
				vec[t] /= norm
			}
		}
		vectors[d] = vec
	}

	return &Matrix{vectors: vectors, idf: idf, vocab: vocab}
}

// Len returns the number of documents.
func (m *Matrix) Len() int { return len(m.vectors) }

// Vocab returns the vocabulary the matrix was built over.
func (m *Matrix) Vocab() *Vocabulary { return m.vocab }

// IDF returns the inverse document frequency for a term id.
func (m *Matrix) IDF(term int) float64 { return m.idf[term] }

// Vector returns the L2-normalized vector for document d.
func (m *Matrix) Vector(d int) SparseVector { return m.vectors[d] }

// Similarity returns the cosine similarity of two documents.
func (m *Matrix) Similarity(d1, d2 int) float64 {
	return Cosine(m.vectors[d1], m.vectors[d2])
}

// Pair is a document pair with its similarity.
type Pair struct {
	A, B       int
	Similarity float64
}

// PairsAbove returns all document pairs with similarity >= threshold,
// ordered by (A, B).
func (m *Matrix) PairsAbove(threshold float64) []Pair {
	var pairs []Pair
	for a := 0; a < len(m.vectors); a++ {
		for b := a + 1; b < len(m.vectors); b++ {
			if sim := Cosine(m.vectors[a], m.vectors[b]); sim >= threshold {
				pairs = append(pairs, Pair{A: a, B: b, Similarity: sim})
			}
		}
	}
	return pairs
}

// MeanPairwiseSimilarity averages cosine similarity over all pairs;
// 0 for fewer than two documents.
func (m *Matrix) MeanPairwiseSimilarity() float64 {
	n := len(m.vectors)
	if n < 2 {
		return 0
	}
	var sum float64
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			sum += Cosine(m.vectors[a], m.vectors[b])
		}
	}
	return sum / float64(n*(n-1)/2)
}

// InputMetrics summarizes the corpus for diagnostics.
func (m *Matrix) InputMetrics(features []TitleFeatures) domain.InputMetrics {
	unique := make(map[string]bool)
	totalStems := 0
	for _, f := range features {
		totalStems += len(f.Stems)
		for _, s := range f.Stems {
			unique[s] = true
		}
	}
	avg := 0.0
	if len(features) > 0 {
		avg = float64(totalStems) / float64(len(features))
	}
	diversity := clamp01(1 - m.MeanPairwiseSimilarity())
	return domain.InputMetrics{
		VideoCount:            len(features),
		UniqueStems:           len(unique),
		VocabularySize:        m.vocab.Size(),
		AverageTitleLength:    avg,
		ContentDiversityScore: diversity,
	}
}

// Cosine is the inner product of two L2-normalized sparse vectors.
func Cosine(a, b SparseVector) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for t, w := range a {
		if w2, ok := b[t]; ok {
			dot += w * w2
		}
	}
	return dot
}

// Centroid returns the L2-normalized mean of the given document vectors.
func Centroid(vectors []SparseVector) SparseVector {
	c := make(SparseVector)
	if len(vectors) == 0 {
		return c
	}
	for _, v := range vectors {
		for t, w := range v {
			c[t] += w
		}
	}
	inv := 1.0 / float64(len(vectors))
	var norm float64
	for t := range c {
		c[t] *= inv
		norm += c[t] * c[t]
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for t := range c {
			c[t] /= norm
		}
	}
	return c
}

// TopTerms returns the ids of the k heaviest terms of a vector, weight
// descending with lexicographic term tie-break.
func (m *Matrix) TopTerms(v SparseVector, k int) []int {
	ids := make([]int, 0, len(v))
	for t := range v {
		ids = append(ids, t)
	}
	sort.Slice(ids, func(i, j int) bool {
		wi, wj := v[ids[i]], v[ids[j]]
		if wi != wj {
			return wi > wj
		}
		return m.vocab.Term(ids[i]) < m.vocab.Term(ids[j])
	})
	if len(ids) > k {
		ids = ids[:k]
	}
	return ids
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
