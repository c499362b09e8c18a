package reward

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankBased(t *testing.T) {
	tests := []struct {
		name string
		revs []float64
		want []float64
	}{
		{"single agent", []float64{42}, []float64{0.5}},
		{"distinct", []float64{10, 30, 20}, []float64{0, 1, 0.5}},
		{"tie at bottom", []float64{5, 5, 9}, []float64{0.25, 0.25, 1}},
		{"tie at top", []float64{9, 1, 9}, []float64{0.75, 0, 0.75}},
		{"all tied", []float64{7, 7, 7, 7}, []float64{0.5, 0.5, 0.5, 0.5}},
		{"two agents", []float64{2, 1}, []float64{1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RankBased{}.Normalize(tt.revs)
			require.NoError(t, err)
			assert.InDeltaSlice(t, tt.want, got, 1e-12)
		})
	}
}

func TestRankBased_DoesNotReorderInput(t *testing.T) {
	revs := []float64{3, 1, 2}
	_, err := RankBased{}.Normalize(revs)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1, 2}, revs)
}

func TestRankBased_Degenerate(t *testing.T) {
	assert.True(t, RankBased{}.Degenerate([]float64{1, 1}))
	assert.False(t, RankBased{}.Degenerate([]float64{1, 2}))
}
