package model

import "fmt"

const (
	// RatingMin and RatingMax bound every answer on the rating scale.
	RatingMin = 1
	RatingMax = 10
)

// Question is one step of the mood questionnaire
type Question struct {
	Key            string         `json:"key" yaml:"key"` // e.g., "q1"
	Prompt         string         `json:"prompt" yaml:"prompt"`
	SubDescription string         `json:"subDescription,omitempty" yaml:"subDescription,omitempty"`
	ScaleLabels    map[int]string `json:"scaleLabels" yaml:"scaleLabels"`               // rating 1..10 -> label
	Weight         int            `json:"weight" yaml:"weight"`                         // contribution to the mood score
	Inverted       bool           `json:"inverted,omitempty" yaml:"inverted,omitempty"` // high raw rating means a worse mood
}

// Label returns the scale label for a rating, empty when the catalog has none.
func (q Question) Label(rating int) string {
	return q.ScaleLabels[rating]
}

// Catalog is the ordered, immutable question sequence for a wizard run
type Catalog struct {
	Questions []Question `json:"questions" yaml:"questions"`
}

// Len returns the number of questions, which is also the response vector length.
func (c *Catalog) Len() int {
	return len(c.Questions)
}

// Weights returns the weight table parallel to the questions.
func (c *Catalog) Weights() []int {
	weights := make([]int, len(c.Questions))
	for i, q := range c.Questions {
		weights[i] = q.Weight
	}
	return weights
}

// InvertedIndices returns the 0-based indices of inverted questions.
func (c *Catalog) InvertedIndices() []int {
	var idx []int
	for i, q := range c.Questions {
		if q.Inverted {
			idx = append(idx, i)
		}
	}
	return idx
}

// QuestionKey returns the questionDict key for the i-th response ("q1".."qN").
func QuestionKey(i int) string {
	return fmt.Sprintf("q%d", i+1)
}
