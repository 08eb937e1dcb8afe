package index

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pdfchat/internal/model"
)

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-6)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
	assert.InDelta(t, -1.0, CosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-6)

	// degenerate inputs score zero instead of dividing by zero
	assert.Zero(t, CosineSimilarity(nil, nil))
	assert.Zero(t, CosineSimilarity([]float32{1}, []float32{1, 2}))
	assert.Zero(t, CosineSimilarity([]float32{0, 0}, []float32{1, 1}))
}

func TestTopKStableOnTies(t *testing.T) {
	scored := []ScoredSegment{
		{Segment: model.Segment{Position: 0}, Score: 0.5},
		{Segment: model.Segment{Position: 1}, Score: 0.9},
		{Segment: model.Segment{Position: 2}, Score: 0.5},
		{Segment: model.Segment{Position: 3}, Score: 0.9},
	}

	got := TopK(scored, 3)
	assert.Equal(t, []int{1, 3, 0}, []int{got[0].Position, got[1].Position, got[2].Position})
}

func TestTopKBounds(t *testing.T) {
	scored := []ScoredSegment{{Segment: model.Segment{Position: 0}, Score: 1}}
	assert.Len(t, TopK(scored, 5), 1)
	assert.Nil(t, TopK(scored, 0))
	assert.Nil(t, TopK(nil, 3))
}
