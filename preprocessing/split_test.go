package preprocessing

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/tabml/pkg/errors"
)

func makeRows(n int) [][]string {
	rows := make([][]string, n)
	for i := range rows {
		rows[i] = []string{fmt.Sprint(i)}
	}
	return rows
}

func TestNewTrainTestSplitter_RejectsRatio(t *testing.T) {
	for _, ratio := range []float64{0, 1, -0.2, 1.5} {
		_, err := NewTrainTestSplitter(ratio, 42)
		var valErr *errors.ValidationError
		require.True(t, errors.As(err, &valErr), "ratio %v", ratio)
		assert.Equal(t, "ratio", valErr.ParamName)
	}
}

func TestTrainTestSplitter_Sizes(t *testing.T) {
	tests := []struct {
		n         int
		ratio     float64
		wantTrain int
	}{
		{10, 0.8, 8},
		{7, 0.5, 3},
		{3, 0.1, 0},
		{101, 0.75, 75},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d/r=%v", tt.n, tt.ratio), func(t *testing.T) {
			s, err := NewTrainTestSplitter(tt.ratio, 1)
			require.NoError(t, err)

			train, test := s.Split(makeRows(tt.n))
			assert.Len(t, train, tt.wantTrain)
			assert.Equal(t, tt.n, len(train)+len(test))
		})
	}
}

func TestTrainTestSplitter_DeterministicAndDisjoint(t *testing.T) {
	rows := makeRows(50)
	s, err := NewTrainTestSplitter(0.8, 42)
	require.NoError(t, err)

	train1, test1 := s.Split(rows)
	train2, test2 := s.Split(rows)
	assert.Equal(t, train1, train2)
	assert.Equal(t, test1, test2)

	seen := make(map[string]int)
	for _, r := range append(append([][]string{}, train1...), test1...) {
		seen[r[0]]++
	}
	assert.Len(t, seen, 50)
	for k, c := range seen {
		assert.Equal(t, 1, c, "row %s appears %d times", k, c)
	}

	for i, r := range rows {
		assert.Equal(t, fmt.Sprint(i), r[0], "input rows must not be reordered")
	}
}

func TestTrainTestSplitter_SeedChangesOrder(t *testing.T) {
	rows := makeRows(30)
	a, _ := NewTrainTestSplitter(0.5, 1)
	b, _ := NewTrainTestSplitter(0.5, 2)

	trainA, _ := a.Split(rows)
	trainB, _ := b.Split(rows)
	assert.NotEqual(t, trainA, trainB)
}
