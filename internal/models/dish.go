package models

import "fmt"

// Category represents a menu section
type Category string

const (
	CategoryMain   Category = "main"
	CategorySoups  Category = "soups"
	CategorySalads Category = "salads"
	CategoryBakery Category = "bakery"
	CategoryDrinks Category = "drinks"
)

// Categories lists all valid menu sections in display order
var Categories = []Category{CategoryMain, CategorySoups, CategorySalads, CategoryBakery, CategoryDrinks}

// Dish represents a menu item. Unavailable dishes stay in the catalog but are
// excluded from customer-facing listings (the stop-list mechanism).
type Dish struct {
	ID          string   `json:"id" db:"id"`
	Name        string   `json:"name" db:"name"`
	Category    Category `json:"category" db:"category"`
	Price       int      `json:"price" db:"price"`
	Image       string   `json:"image" db:"image"`
	Description string   `json:"description" db:"description"`
	Ingredients string   `json:"ingredients" db:"ingredients"`
	Available   bool     `json:"available" db:"available"`
	Weight      string   `json:"weight,omitempty" db:"weight"`
}

// DishRequest represents the admin request to create or update a dish
type DishRequest struct {
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Price       int      `json:"price"`
	Image       string   `json:"image"`
	Description string   `json:"description"`
	Ingredients string   `json:"ingredients"`
	Available   bool     `json:"available"`
	Weight      string   `json:"weight,omitempty"`
}

// Validate validates a dish create/update request
func (req *DishRequest) Validate() error {
	if len(req.Name) == 0 {
		return fmt.Errorf("name is required")
	}
	if len(req.Name) > 100 {
		return fmt.Errorf("name must not exceed 100 characters")
	}
	if !req.Category.Valid() {
		return fmt.Errorf("category must be one of: main, soups, salads, bakery, drinks")
	}
	if req.Price < 1 {
		return fmt.Errorf("price must be a positive amount")
	}
	return nil
}

// Valid reports whether the category is one of the fixed menu sections
func (c Category) Valid() bool {
	switch c {
	case CategoryMain, CategorySoups, CategorySalads, CategoryBakery, CategoryDrinks:
		return true
	default:
		return false
	}
}
