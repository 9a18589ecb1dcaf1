// Package seed installs the default category set.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/models"
	"fintrack/internal/services"
)

//go:embed categories.yaml
var defaultCategories []byte

// Category is one entry of a seed file.
type Category struct {
	Name  string              `yaml:"name"`
	Type  models.CategoryType `yaml:"type"`
	Icon  string              `yaml:"icon"`
	Color string              `yaml:"color"`
}

type file struct {
	Categories []Category `yaml:"categories"`
}

// Parse decodes a seed file.
func Parse(data []byte) ([]Category, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return f.Categories, nil
}

// ReadFile parses the seed file at path.
func ReadFile(path string) ([]Category, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(data)
}

// Defaults returns the built-in category set.
func Defaults() []Category {
	cats, err := Parse(defaultCategories)
	if err != nil {
		panic(err)
	}
	return cats
}

// Apply creates every category in cats that does not exist yet and returns
// how many were created. Existing name/type pairs are left untouched.
func Apply(ctx context.Context, svc services.CategoryServicer, cats []Category) (int, error) {
	created := 0
	for _, c := range cats {
		_, err := svc.CreateCategory(ctx, c.Name, c.Type, c.Icon, c.Color)
		switch {
		case err == nil:
			created++
		case apperrors.HasCode(err, apperrors.ErrDuplicate.Code):
			continue
		default:
			return created, fmt.Errorf("seeding category %q: %w", c.Name, err)
		}
	}

	if created > 0 {
		logger.Get().Infow("seeded default categories", "created", created)
	}
	return created, nil
}
