package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/models"
	"fintrack/internal/store"
	"fintrack/internal/validator"
)

// categoryService handles category-related business logic.
type categoryService struct {
	mu    sync.Mutex
	store store.Store[models.Category]
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(s store.Store[models.Category]) CategoryServicer {
	return &categoryService{store: s}
}

// ListCategories returns every category in store order.
func (s *categoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.store.FetchAll(ctx)
	if err != nil {
		return nil, apperrors.Backend(err)
	}
	return categories, nil
}

// ListCategoriesByType returns the categories of one type.
func (s *categoryService) ListCategoriesByType(ctx context.Context, categoryType models.CategoryType) ([]models.Category, error) {
	if !categoryType.Valid() {
		return nil, apperrors.Validation("type", "type must be expense or income")
	}

	categories, err := s.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]models.Category, 0, len(categories))
	for _, c := range categories {
		if c.Type == categoryType {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

// GetCategoryByID retrieves a category by ID.
func (s *categoryService) GetCategoryByID(ctx context.Context, categoryID uint) (*models.Category, error) {
	category, err := s.store.FetchOne(ctx, categoryID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Backend(err)
	}
	return category, nil
}

// GetCategoryByName resolves a category for display. Expense categories win
// over income ones with the same name. Unknown names and backend failures
// both yield the placeholder.
func (s *categoryService) GetCategoryByName(ctx context.Context, name string) models.Category {
	categories, err := s.store.FetchAll(ctx)
	if err != nil {
		logger.Get().Warnw("category lookup failed, using placeholder", "name", name, "error", err)
		return models.PlaceholderCategory(name)
	}

	var fallback *models.Category
	for i := range categories {
		if categories[i].Name != name {
			continue
		}
		if categories[i].Type == models.CategoryTypeExpense {
			return categories[i]
		}
		if fallback == nil {
			fallback = &categories[i]
		}
	}
	if fallback != nil {
		return *fallback
	}
	return models.PlaceholderCategory(name)
}

// FindCategory returns the category with exactly this name and type.
func (s *categoryService) FindCategory(ctx context.Context, name string, categoryType models.CategoryType) (*models.Category, error) {
	categories, err := s.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range categories {
		if c.Name == name && c.Type == categoryType {
			return &c, nil
		}
	}
	return nil, apperrors.ErrCategoryNotFound
}

// CreateCategory creates a new category. Empty icon and color get the
// placeholder defaults.
func (s *categoryService) CreateCategory(
	ctx context.Context,
	name string,
	categoryType models.CategoryType,
	icon string,
	color string,
) (*models.Category, error) {
	category := &models.Category{
		Name:  strings.TrimSpace(name),
		Type:  categoryType,
		Icon:  icon,
		Color: color,
	}
	if category.Icon == "" {
		category.Icon = models.DefaultCategoryIcon
	}
	if category.Color == "" {
		category.Color = models.DefaultCategoryColor
	}
	if err := validateCategory(category); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkDuplicate(ctx, category.Name, category.Type, 0); err != nil {
		return nil, err
	}

	if err := s.store.CreateOne(ctx, category); err != nil {
		return nil, apperrors.Backend(err)
	}
	return category, nil
}

// UpdateCategory applies the non-nil fields of patch.
func (s *categoryService) UpdateCategory(ctx context.Context, categoryID uint, patch CategoryPatch) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.GetCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	merged := *current
	if patch.Name != nil {
		merged.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Type != nil {
		merged.Type = *patch.Type
	}
	if patch.Icon != nil {
		merged.Icon = *patch.Icon
	}
	if patch.Color != nil {
		merged.Color = *patch.Color
	}
	if err := validateCategory(&merged); err != nil {
		return nil, err
	}
	if merged.Name != current.Name || merged.Type != current.Type {
		if err := s.checkDuplicate(ctx, merged.Name, merged.Type, categoryID); err != nil {
			return nil, err
		}
	}

	updated, err := s.store.UpdateOne(ctx, categoryID, func(c *models.Category) error {
		c.Name, c.Type, c.Icon, c.Color = merged.Name, merged.Type, merged.Icon, merged.Color
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Backend(err)
	}
	return updated, nil
}

// DeleteCategory deletes a category. Transactions and budgets keep the name
// and fall back to the placeholder on lookup.
func (s *categoryService) DeleteCategory(ctx context.Context, categoryID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok, err := s.store.DeleteOne(ctx, categoryID)
	if err != nil {
		return apperrors.Backend(err)
	}
	if !ok {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}

func (s *categoryService) checkDuplicate(ctx context.Context, name string, categoryType models.CategoryType, exceptID uint) error {
	categories, err := s.ListCategories(ctx)
	if err != nil {
		return err
	}
	for _, c := range categories {
		if c.ID != exceptID && c.Type == categoryType && strings.EqualFold(c.Name, name) {
			return apperrors.ErrDuplicateCategory
		}
	}
	return nil
}

func validateCategory(c *models.Category) error {
	if c.Name == "" {
		return apperrors.Validation("name", "category name is required")
	}
	if !c.Type.Valid() {
		return apperrors.Validation("type", "type must be expense or income")
	}
	if !validator.IsHexColor(c.Color) {
		return apperrors.Validation("color", "color must be a hex color like #10B981")
	}
	return nil
}
