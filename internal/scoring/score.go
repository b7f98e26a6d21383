// Package scoring reduces an ordered rating vector to a single mood score.
//
// Each rating is multiplied by its question weight and the sum is divided by
// Normalizer. Questions in the inversion set are phrased so that a high raw
// rating means a worse mood; their rating v is replaced with 11 - v first.
// Because both v and 11 - v lie in [1,10] and the weights sum to Normalizer,
// the score always lies in [1,10].
package scoring

import (
	"fmt"

	"lunalog/internal/model"
)

// Normalizer is the fixed sum every weight table must have.
const Normalizer = 25

// Weights is the ordered weight table, parallel to the question catalog.
type Weights []int

// Sum returns the total of all weights.
func (w Weights) Sum() int {
	total := 0
	for _, v := range w {
		total += v
	}
	return total
}

// Validate checks that every weight is positive and the table sums to Normalizer.
func (w Weights) Validate() error {
	if len(w) == 0 {
		return fmt.Errorf("%w: empty weight table", model.ErrInvalidInput)
	}
	for i, v := range w {
		if v <= 0 {
			return fmt.Errorf("%w: weight %d at index %d must be positive", model.ErrInvalidInput, v, i)
		}
	}
	if sum := w.Sum(); sum != Normalizer {
		return fmt.Errorf("%w: weights sum to %d, must sum to %d", model.ErrInvalidInput, sum, Normalizer)
	}
	return nil
}

// InversionSet holds the 0-based indices whose rating is inverted before weighting.
type InversionSet map[int]struct{}

// NewInversionSet builds a set from indices.
func NewInversionSet(indices ...int) InversionSet {
	set := make(InversionSet, len(indices))
	for _, i := range indices {
		set[i] = struct{}{}
	}
	return set
}

// Contains reports whether index i is inverted.
func (s InversionSet) Contains(i int) bool {
	_, ok := s[i]
	return ok
}

// Score computes the mood score for responses.
func Score(responses []int, weights Weights, inverted InversionSet) (float64, error) {
	if err := weights.Validate(); err != nil {
		return 0, err
	}
	if err := ValidateResponses(responses, len(weights)); err != nil {
		return 0, err
	}

	sum := 0
	for i, v := range responses {
		if inverted.Contains(i) {
			v = model.RatingMax + model.RatingMin - v
		}
		sum += v * weights[i]
	}
	return float64(sum) / Normalizer, nil
}

// ValidateResponses checks the vector length and that every rating is on the scale.
func ValidateResponses(responses []int, n int) error {
	if len(responses) != n {
		return fmt.Errorf("%w: expected %d responses, got %d", model.ErrInvalidInput, n, len(responses))
	}
	for i, v := range responses {
		if v < model.RatingMin || v > model.RatingMax {
			return fmt.Errorf("%w: response %d is %d, must be in [%d,%d]",
				model.ErrInvalidInput, i+1, v, model.RatingMin, model.RatingMax)
		}
	}
	return nil
}

// Engine is a validated weight table and inversion set, usually derived from
// the question catalog.
type Engine struct {
	weights  Weights
	inverted InversionSet
}

// NewEngine validates the configuration once so Score only checks responses.
func NewEngine(weights Weights, inverted InversionSet) (*Engine, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	for i := range inverted {
		if i < 0 || i >= len(weights) {
			return nil, fmt.Errorf("%w: inverted index %d out of range", model.ErrInvalidInput, i)
		}
	}
	w := make(Weights, len(weights))
	copy(w, weights)
	return &Engine{weights: w, inverted: inverted}, nil
}

// NewEngineFromCatalog builds an engine from the catalog's weights and inverted questions.
func NewEngineFromCatalog(c *model.Catalog) (*Engine, error) {
	return NewEngine(Weights(c.Weights()), NewInversionSet(c.InvertedIndices()...))
}

// Len returns the expected response vector length.
func (e *Engine) Len() int {
	return len(e.weights)
}

// Score computes the mood score for responses.
func (e *Engine) Score(responses []int) (float64, error) {
	return Score(responses, e.weights, e.inverted)
}
