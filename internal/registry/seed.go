package registry

import (
	"context"

	"github.com/budgetbook/backend/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Taxonomy maps main category names to their subcategory names.
type Taxonomy map[string][]string

// DefaultTaxonomy is the expense taxonomy new installations start with.
var DefaultTaxonomy = Taxonomy{
	"Housing":        {"Rent", "Utilities", "Maintenance", "Insurance"},
	"Food":           {"Groceries", "Restaurants", "Coffee"},
	"Transportation": {"Fuel", "Public Transport", "Car Maintenance", "Parking"},
	"Health":         {"Doctor", "Pharmacy", "Fitness"},
	"Entertainment":  {"Streaming", "Events", "Hobbies"},
	"Shopping":       {"Clothing", "Electronics", "Household"},
	"Travel":         {"Flights", "Accommodation"},
	"Education":      {"Courses", "Books"},
	"Gifts":          {},
	"Other":          {},
}

// Seed creates all categories and subcategories of the taxonomy that do
// not exist yet and returns how many rows were created. Existing rows are
// left untouched, so seeding twice is a no-op.
func Seed(ctx context.Context, db *gorm.DB, taxonomy Taxonomy) (int, error) {
	created := 0

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for name, subcategories := range taxonomy {
			category := models.MainCategory{Name: name}
			res := tx.Where(models.MainCategory{Name: name}).FirstOrCreate(&category)
			if res.Error != nil {
				return res.Error
			}
			created += int(res.RowsAffected)

			for _, subName := range subcategories {
				sub := models.Subcategory{MainCategoryID: category.ID, Name: subName}
				res := tx.Where(models.Subcategory{MainCategoryID: category.ID, Name: subName}).FirstOrCreate(&sub)
				if res.Error != nil {
					return res.Error
				}
				created += int(res.RowsAffected)
			}
		}
		return nil
	})
	if err != nil {
		return 0, models.WrapOperation("failed to seed expense categories", err)
	}

	log.Ctx(ctx).Info().Int("created", created).Msg("expense categories seeded")
	return created, nil
}
