// Package cluster groups course videos into modules. It implements the
// clustering strategies and the structure assembler; everything here is
// pure computation with deterministic, seeded randomness.
package cluster

import (
	"fmt"
	"hash/fnv"

	"github.com/k5602/course-pilot/internal/domain"
)

// Seed derives a deterministic RNG seed from the course identity, the
// algorithm, and the attempt index, so parallel or repeated runs produce
// identical results.
func Seed(courseID string, algorithm domain.ClusteringAlgorithm, attempt int) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%d", courseID, algorithm, attempt)
	return int64(h.Sum64())
}
