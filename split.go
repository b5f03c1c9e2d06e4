package v7yolo

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
)

// Split divides data into a training and a validation set by position: the first
// floor(len(data) * validationFraction) files form the validation set and the rest the training
// set. The split is not randomised and not stratified by label; use Shuffle beforehand for a
// random split.
//
// validationFraction must be in [0, 1].
func Split(data AnnotatedFiles, validationFraction float64) (train, val AnnotatedFiles, err error) {
	if math.IsNaN(validationFraction) || validationFraction < 0 || validationFraction > 1 {
		return nil, nil, errors.Errorf("invalid validation fraction %v, must be in [0, 1]",
			validationFraction)
	}

	k := int(math.Floor(float64(len(data)) * validationFraction))
	val = make(AnnotatedFiles, k)
	copy(val, data[:k])
	train = make(AnnotatedFiles, len(data)-k)
	copy(train, data[k:])

	return train, val, nil
}

// Shuffle returns a copy of data in a pseudo-random order determined by seed. The input is not
// modified.
func Shuffle(data AnnotatedFiles, seed int64) AnnotatedFiles {
	shuffled := make(AnnotatedFiles, len(data))
	copy(shuffled, data)

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}
