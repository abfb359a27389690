package cluster

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/k5602/course-pilot/internal/domain"
	"github.com/k5602/course-pilot/internal/nlp"
)

const moduleKeywordCount = 5

// AssembleInput is everything the structure assembler needs. Result is nil
// on the order-preserving path.
type AssembleInput struct {
	Titles    []string
	Durations []time.Duration
	Features  []nlp.TitleFeatures
	Matrix    *nlp.Matrix
	Class     nlp.Classification
	Result    *Result
	Strategy  domain.ClusteringStrategy
	Algorithm domain.ClusteringAlgorithm
	Threshold float64
}

// AssembleSequential builds the order-preserving structure: one module with
// every section in original order and no clustering metadata.
func AssembleSequential(titles []string, durations []time.Duration, class nlp.Classification) *domain.CourseStructure {
	sections := make([]domain.Section, len(titles))
	for i, title := range titles {
		sections[i] = domain.Section{Title: title, VideoIndex: i, Duration: durationAt(durations, i)}
	}
	mod := domain.NewModule("Module 1", sections)
	mod.Difficulty = DifficultyForTitles(titles)

	s := &domain.CourseStructure{
		Modules: []domain.Module{mod},
		Metadata: domain.StructureMetadata{
			ContentTypeDetected:    class.Type,
			OriginalOrderPreserved: true,
			ProcessingStrategyUsed: domain.StrategyFallback,
		},
	}
	finishMetadata(s)
	return s
}

// AssembleClustered converts cluster assignments into the module tree with
// keywords, similarity, difficulty, confidence scores, and rationale.
func AssembleClustered(in AssembleInput) *domain.CourseStructure {
	clusters := in.Result.Clusters()

	// Preserve overall progression: modules by minimum original index,
	// members within a module by original index.
	for _, members := range clusters {
		sort.Ints(members)
	}
	sort.Slice(clusters, func(i, j int) bool { return clusters[i][0] < clusters[j][0] })

	modules := make([]domain.Module, 0, len(clusters))
	moduleKeywords := make([][]string, 0, len(clusters))
	for idx, members := range clusters {
		keywords := clusterKeywords(in.Matrix, members)
		sections := make([]domain.Section, len(members))
		titles := make([]string, len(members))
		for i, d := range members {
			sections[i] = domain.Section{Title: in.Titles[d], VideoIndex: d, Duration: durationAt(in.Durations, d)}
			titles[i] = in.Titles[d]
		}
		sim := MeanIntraSimilarity(in.Matrix, members)
		mod := domain.NewModule(moduleTitle(keywords, idx), sections)
		mod.SimilarityScore = &sim
		mod.TopicKeywords = keywords
		mod.Difficulty = DifficultyForTitles(titles)
		modules = append(modules, mod)
		moduleKeywords = append(moduleKeywords, keywords)
	}

	confidence := confidenceScores(in, clusters, moduleKeywords)
	s := &domain.CourseStructure{
		Modules: modules,
		Metadata: domain.StructureMetadata{
			ContentTypeDetected:    in.Class.Type,
			OriginalOrderPreserved: false,
			ProcessingStrategyUsed: in.Strategy,
		},
		ClusteringMetadata: &domain.ClusteringMetadata{
			Algorithm:           in.Algorithm,
			Strategy:            in.Strategy,
			SimilarityThreshold: in.Threshold,
			ClusterCount:        len(clusters),
			QualityScore:        clampScore(in.Result.Silhouette),
			ContentTopics:       contentTopics(in, clusters, moduleKeywords),
			Confidence:          confidence,
			Rationale:           buildRationale(in, modules, clusters),
			Performance: domain.PerformanceMetrics{
				AlgorithmIterations: in.Result.Iterations,
				Input:               in.Matrix.InputMetrics(in.Features),
			},
		},
	}
	finishMetadata(s)
	return s
}

func finishMetadata(s *domain.CourseStructure) {
	s.Metadata.TotalVideos = s.SectionCount()
	s.Metadata.TotalDuration = s.AggregateDuration()
}

func durationAt(durations []time.Duration, i int) time.Duration {
	if i < len(durations) {
		return durations[i]
	}
	return 0
}

// clusterKeywords returns the top stems by mean TF-IDF weight within the
// cluster, ties broken lexicographically.
func clusterKeywords(m *nlp.Matrix, members []int) []string {
	vecs := make([]nlp.SparseVector, len(members))
	for i, d := range members {
		vecs[i] = m.Vector(d)
	}
	mean := make(nlp.SparseVector)
	for _, v := range vecs {
		for t, w := range v {
			mean[t] += w
		}
	}
	for t := range mean {
		mean[t] /= float64(len(members))
	}
	top := m.TopTerms(mean, moduleKeywordCount)
	keywords := make([]string, len(top))
	for i, t := range top {
		keywords[i] = m.Vocab().Term(t)
	}
	return keywords
}

// moduleTitle builds "Keyword (Second)" from the top keywords, falling
// back to a positional name.
func moduleTitle(keywords []string, index int) string {
	if len(keywords) == 0 {
		return fmt.Sprintf("Module %d", index+1)
	}
	title := titleCase(keywords[0])
	if len(keywords) > 1 && keywords[1] != keywords[0] {
		title += " (" + titleCase(keywords[1]) + ")"
	}
	return title
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func confidenceScores(in AssembleInput, clusters [][]int, keywords [][]string) domain.ClusteringConfidenceScores {
	moduleConf := make([]domain.ModuleConfidence, len(clusters))
	var sumConf, sumSim, sumTopic float64
	for i, members := range clusters {
		sim := MeanIntraSimilarity(in.Matrix, members)
		topic := topicCoherence(in.Features, members, keywords[i])
		balance := durationBalance(in.Durations, members)
		conf := 0.5*sim + 0.3*topic + 0.2*balance
		moduleConf[i] = domain.ModuleConfidence{
			ModuleIndex:        i,
			Confidence:         clampScore(conf),
			SimilarityStrength: clampScore(sim),
			TopicCoherence:     clampScore(topic),
			DurationBalance:    clampScore(balance),
		}
		sumConf += moduleConf[i].Confidence
		sumSim += moduleConf[i].SimilarityStrength
		sumTopic += moduleConf[i].TopicCoherence
	}
	n := float64(len(clusters))
	grouping := sumConf / n
	similarity := sumSim / n
	topics := sumTopic / n
	return domain.ClusteringConfidenceScores{
		Overall:           clampScore((grouping + similarity + topics) / 3),
		ModuleGrouping:    clampScore(grouping),
		Similarity:        clampScore(similarity),
		TopicExtraction:   clampScore(topics),
		ModuleConfidences: moduleConf,
	}
}

// topicCoherence is the mean share of cluster members containing each of
// the top three keywords.
func topicCoherence(features []nlp.TitleFeatures, members []int, keywords []string) float64 {
	if len(keywords) == 0 || len(members) == 0 {
		return 0
	}
	limit := 3
	if len(keywords) < limit {
		limit = len(keywords)
	}
	var total float64
	for _, kw := range keywords[:limit] {
		hits := 0
		for _, d := range members {
			for _, s := range features[d].Stems {
				if s == kw {
					hits++
					break
				}
			}
		}
		total += float64(hits) / float64(len(members))
	}
	return total / float64(limit)
}

// durationBalance is 1 minus the coefficient of variation of the cluster's
// known durations; 0.5 when durations are unknown (neutral).
func durationBalance(durations []time.Duration, members []int) float64 {
	var known []float64
	for _, d := range members {
		if dur := durationAt(durations, d); dur > 0 {
			known = append(known, dur.Seconds())
		}
	}
	if len(known) < 2 {
		return 0.5
	}
	var sum float64
	for _, v := range known {
		sum += v
	}
	mean := sum / float64(len(known))
	if mean == 0 {
		return 0.5
	}
	var variance float64
	for _, v := range known {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(known))
	cv := (variance / (mean * mean))
	return clampScore(1 - cv)
}

func contentTopics(in AssembleInput, clusters [][]int, keywords [][]string) []domain.TopicInfo {
	seen := make(map[string]bool)
	var topics []domain.TopicInfo
	for i, kws := range keywords {
		for _, kw := range kws {
			if seen[kw] {
				continue
			}
			seen[kw] = true
			count := 0
			for _, f := range in.Features {
				for _, s := range f.Stems {
					if s == kw {
						count++
						break
					}
				}
			}
			topics = append(topics, domain.TopicInfo{
				Keyword:        kw,
				RelevanceScore: clampScore(MeanIntraSimilarity(in.Matrix, clusters[i])),
				VideoCount:     count,
			})
		}
	}
	sort.Slice(topics, func(i, j int) bool {
		if topics[i].VideoCount != topics[j].VideoCount {
			return topics[i].VideoCount > topics[j].VideoCount
		}
		return topics[i].Keyword < topics[j].Keyword
	})
	if len(topics) > 10 {
		topics = topics[:10]
	}
	return topics
}

func buildRationale(in AssembleInput, modules []domain.Module, clusters [][]int) domain.ClusteringRationale {
	sig := in.Class.Signals
	keyFactors := []string{
		fmt.Sprintf("ordering strength %.2f", sig.OrderingStrength),
		fmt.Sprintf("duration uniformity %.2f", sig.DurationUniformity),
		fmt.Sprintf("lexical cohesion %.2f", sig.LexicalCohesion),
		fmt.Sprintf("thematic separation %.2f", sig.ThematicSeparation),
	}

	moduleRationales := make([]domain.ModuleRationale, len(modules))
	for i := range modules {
		sim := 0.0
		if modules[i].SimilarityScore != nil {
			sim = *modules[i].SimilarityScore
		}
		moduleRationales[i] = domain.ModuleRationale{
			ModuleIndex: i,
			ModuleTitle: modules[i].Title,
			GroupingReason: fmt.Sprintf("%d videos share the topic %q",
				len(modules[i].Sections), firstOr(modules[i].TopicKeywords, "unknown")),
			SimilarityExplanation: fmt.Sprintf("mean intra-module similarity %.2f", sim),
			TopicKeywords:         modules[i].TopicKeywords,
			VideoCount:            len(modules[i].Sections),
		}
	}

	explanation := fmt.Sprintf(
		"Content was detected as %s and grouped into %d modules using the %s strategy. "+
			"Titles clustered on shared vocabulary; module order follows the earliest video in each group.",
		in.Class.Type, len(clusters), in.Strategy)

	return domain.ClusteringRationale{
		PrimaryStrategy:        string(in.Strategy),
		Explanation:            explanation,
		KeyFactors:             keyFactors,
		AlternativesConsidered: alternatives(in.Strategy),
		ModuleRationales:       moduleRationales,
	}
}

func alternatives(chosen domain.ClusteringStrategy) []string {
	all := []domain.ClusteringStrategy{
		domain.StrategyContentBased, domain.StrategyHierarchical,
		domain.StrategyLda, domain.StrategyHybrid, domain.StrategyFallback,
	}
	var out []string
	for _, s := range all {
		if s != chosen {
			out = append(out, string(s))
		}
	}
	return out
}

func firstOr(list []string, fallback string) string {
	if len(list) > 0 {
		return list[0]
	}
	return fallback
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
