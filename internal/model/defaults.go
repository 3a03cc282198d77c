package model

import (
	"cmp"
	"slices"
)

// Palette is the set of display colours offered to new categories.
var Palette = []string{
	"#10b981", // emerald
	"#3b82f6", // blue
	"#f59e0b", // amber
	"#8b5cf6", // violet
	"#ec4899", // pink
	"#06b6d4", // cyan
	"#f97316", // orange
	"#84cc16", // lime
}

// DefaultCategories returns a fresh copy of the categories every new store starts with.
func DefaultCategories() []Category {
	return []Category{
		{ID: "1", Name: "Fablab", Color: "#10b981", Active: true, Order: 1, Family: "Numérique"},
		{ID: "2", Name: "Céramiste", Color: "#3b82f6", Active: true, Order: 2, Family: "Créatif"},
		{ID: "3", Name: "Atelier couture", Color: "#f59e0b", Active: true, Order: 3, Family: "Créatif"},
		{ID: "4", Name: "Visiteur", Color: "#8b5cf6", Active: true, Order: 4, Family: "Accueil"},
		{ID: "5", Name: "Coworking", Color: "#ec4899", Active: true, Order: 5, Family: "Numérique"},
	}
}

// PaletteColor picks a palette colour by position, wrapping around.
func PaletteColor(index int) string {
	if index < 0 {
		index = -index
	}
	return Palette[index%len(Palette)]
}

// SortCategories returns a copy ordered by Order, then by name.
func SortCategories(categories []Category) []Category {
	sorted := slices.Clone(categories)
	slices.SortStableFunc(sorted, func(a, b Category) int {
		if diff := cmp.Compare(a.Order, b.Order); diff != 0 {
			return diff
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return sorted
}
