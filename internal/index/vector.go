package index

import (
	"math"
	"sort"

	"pdfchat/internal/model"
)

// CosineSimilarity returns the cosine of the angle between a and b, or 0
// when either vector is empty, zero, or the dimensions disagree.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA <= 0 || normB <= 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

// ScoredSegment pairs a segment with its relevance score.
type ScoredSegment struct {
	Segment model.Segment
	Score   float32
}

// TopK sorts scored segments by descending score, stable with respect to
// the incoming order on ties, and returns the first k.
func TopK(scored []ScoredSegment, k int) []model.Segment {
	if k <= 0 || len(scored) == 0 {
		return nil
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if k > len(scored) {
		k = len(scored)
	}
	out := make([]model.Segment, k)
	for i := 0; i < k; i++ {
		out[i] = scored[i].Segment
	}
	return out
}
