// Package catalog holds the static reference datasets the storefront reads:
// products, categories and the user directory. The data is embedded at build
// time and never written; it stands in for a backend the system does not have.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

//go:embed data/products.json
var productsJSON []byte

//go:embed data/categories.json
var categoriesJSON []byte

// Product is a read-only catalog record. Stock is the snapshot ceiling the
// cart enforces per line item.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock"`
}

// Category groups products for browsing.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Catalog is the parsed, immutable product and category reference data.
type Catalog struct {
	products   []Product
	categories []Category
	byID       map[string]Product
}

// Load parses the embedded datasets.
func Load() (*Catalog, error) {
	var products []Product
	if err := json.Unmarshal(productsJSON, &products); err != nil {
		return nil, fmt.Errorf("parsing products dataset: %w", err)
	}
	var categories []Category
	if err := json.Unmarshal(categoriesJSON, &categories); err != nil {
		return nil, fmt.Errorf("parsing categories dataset: %w", err)
	}

	byID := make(map[string]Product, len(products))
	for _, p := range products {
		if _, exists := byID[p.ID]; exists {
			return nil, fmt.Errorf("duplicate product id %q in dataset", p.ID)
		}
		byID[p.ID] = p
	}

	return &Catalog{
		products:   products,
		categories: categories,
		byID:       byID,
	}, nil
}

// Products returns the catalog records in dataset order.
func (c *Catalog) Products() []Product {
	return append([]Product(nil), c.products...)
}

// Categories returns the category records in dataset order.
func (c *Catalog) Categories() []Category {
	return append([]Category(nil), c.categories...)
}

// ProductByID looks up a single product.
func (c *Catalog) ProductByID(id string) (Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}
