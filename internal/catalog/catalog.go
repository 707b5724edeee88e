// Package catalog is the screen-side logic of the catalog and product
// views: filtering an already-fetched product list and picking
// recommendations. Search against the live index happens server-side and
// is not this app's concern.
package catalog

import (
	"math/rand"
	"strings"

	"github.com/kmalykh/shop_mobile/internal/models"
)

// AllCategories is the pseudo-category that passes every product.
const AllCategories = "all"

func Filter(products []models.Product, categoryName, query string) []models.Product {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if categoryName != AllCategories {
			if p.Category == nil || p.Category.CategoryName != categoryName {
				continue
			}
		}
		if query != "" && !strings.Contains(strings.ToLower(p.ProductName), query) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Recommendations picks up to n random products, never including the one
// currently on screen.
func Recommendations(products []models.Product, excludeID, n int, rng *rand.Rand) []models.Product {
	others := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.ProductID != excludeID {
			others = append(others, p)
		}
	}
	rng.Shuffle(len(others), func(i, j int) {
		others[i], others[j] = others[j], others[i]
	})
	if len(others) > n {
		others = others[:n]
	}
	return others
}
