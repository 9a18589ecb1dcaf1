package models

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Valid reports whether t is one of the supported category types.
func (t CategoryType) Valid() bool {
	return t == CategoryTypeIncome || t == CategoryTypeExpense
}

// Display defaults used for new categories without an icon or color and for
// the placeholder returned when a name does not resolve.
const (
	DefaultCategoryIcon  = "Circle"
	DefaultCategoryColor = "#6B7280"
)

// Category represents a transaction category. Transactions and budgets
// reference it by Name, not by ID.
type Category struct {
	Base
	Name  string       `gorm:"not null;index" json:"name"`
	Type  CategoryType `gorm:"not null" json:"type"`
	Icon  string       `json:"icon"`
	Color string       `json:"color"`
}

// PlaceholderCategory is the category shown for a name that no longer (or
// never did) resolve to a stored category.
func PlaceholderCategory(name string) Category {
	return Category{
		Name:  name,
		Type:  CategoryTypeExpense,
		Icon:  DefaultCategoryIcon,
		Color: DefaultCategoryColor,
	}
}
