package db

import (
	"fmt"

	"blogicum/internal/models"

	"gorm.io/gorm"
)

// Seed creates a starter set of categories and locations on an empty database.
// It reports how many rows were created.
func Seed(database *gorm.DB) (int, error) {
	var count int64
	if err := database.Model(&models.Category{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	categories := []models.Category{
		{Title: "Путешествия", Slug: "travel", Description: "Заметки о поездках и маршрутах", IsPublished: true},
		{Title: "Не мой день", Slug: "not-my-day", Description: "Истории о неудачных днях", IsPublished: true},
		{Title: "Кино", Slug: "movies", Description: "Рецензии и впечатления", IsPublished: true},
	}
	locations := []models.Location{
		{Name: "Москва", IsPublished: true},
		{Name: "Санкт-Петербург", IsPublished: true},
		{Name: "Остров отчаянья", IsPublished: true},
	}

	created := 0
	err := database.Transaction(func(tx *gorm.DB) error {
		for i := range categories {
			if err := tx.Create(&categories[i]).Error; err != nil {
				return fmt.Errorf("create category %s: %w", categories[i].Slug, err)
			}
			created++
		}
		for i := range locations {
			if err := tx.Create(&locations[i]).Error; err != nil {
				return fmt.Errorf("create location %s: %w", locations[i].Name, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}
