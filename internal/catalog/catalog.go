// Package catalog loads the mood questionnaire.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"lunalog/internal/model"
	"lunalog/internal/scoring"
)

//go:embed questions.yaml
var defaultCatalog []byte

// Default returns the built-in questionnaire.
func Default() (*model.Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog from path, or the built-in one when path is empty.
func Load(path string) (*model.Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*model.Catalog, error) {
	var c model.Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := Validate(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the catalog can drive a wizard run and score its answers.
func Validate(c *model.Catalog) error {
	if c.Len() == 0 {
		return fmt.Errorf("catalog has no questions")
	}

	for i := range c.Questions {
		q := &c.Questions[i]
		want := model.QuestionKey(i)
		if q.Key == "" {
			q.Key = want
		}
		// answers travel as q1..qN by position
		if q.Key != want {
			return fmt.Errorf("catalog: question %d has key %q, want %q", i+1, q.Key, want)
		}

		if q.Prompt == "" {
			return fmt.Errorf("catalog: question %s has no prompt", q.Key)
		}
		for r := model.RatingMin; r <= model.RatingMax; r++ {
			if q.ScaleLabels[r] == "" {
				return fmt.Errorf("catalog: question %s has no label for rating %d", q.Key, r)
			}
		}
	}

	if _, err := scoring.NewEngineFromCatalog(c); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	return nil
}
