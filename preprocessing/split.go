package preprocessing

import (
	"math/rand"

	"github.com/YuminosukeSato/tabml/pkg/errors"
)

// TrainTestSplitter partitions rows into train and test sets with a seeded
// shuffle. The same rows, ratio and seed always give the same split.
type TrainTestSplitter struct {
	ratio float64
	seed  int64
}

// NewTrainTestSplitter validates ratio, which must lie strictly between 0 and 1.
func NewTrainTestSplitter(ratio float64, seed int64) (*TrainTestSplitter, error) {
	if !(ratio > 0 && ratio < 1) {
		return nil, errors.NewValidationError("ratio", "must be strictly between 0 and 1", ratio)
	}
	return &TrainTestSplitter{ratio: ratio, seed: seed}, nil
}

// Ratio returns the train fraction.
func (s *TrainTestSplitter) Ratio() float64 { return s.ratio }

// Seed returns the shuffle seed.
func (s *TrainTestSplitter) Seed() int64 { return s.seed }

// Split shuffles a copy of rows and returns the first floor(n*ratio) rows
// as train and the rest as test. rows itself is left untouched.
func (s *TrainTestSplitter) Split(rows [][]string) (train, test [][]string) {
	shuffled := make([][]string, len(rows))
	copy(shuffled, rows)

	rng := rand.New(rand.NewSource(s.seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	trainSize := int(float64(len(shuffled)) * s.ratio)
	return shuffled[:trainSize:trainSize], shuffled[trainSize:]
}
