// Package catalog holds the product catalog the stock-taking session matches
// scanned barcodes against. A Catalog is built once and read-only afterwards.
package catalog

import (
	"sort"
	"strings"

	"cartographia/stocktake/internal/barcode"
	"cartographia/stocktake/internal/models"
)

// DefaultSearchLimit caps Search results when no limit is given.
const DefaultSearchLimit = 15

// Catalog indexes products by normalized barcode. Products sharing a
// normalized barcode are kept side by side in file order.
type Catalog struct {
	byCode   map[string][]*models.Product
	products []*models.Product
}

// Empty returns a catalog without products. Sessions run against it in
// degraded mode when the catalog file could not be loaded.
func Empty() *Catalog {
	return &Catalog{byCode: make(map[string][]*models.Product)}
}

// New builds a catalog from already constructed products.
func New(products ...*models.Product) *Catalog {
	c := Empty()
	for _, p := range products {
		c.add(p)
	}
	return c
}

func (c *Catalog) add(p *models.Product) {
	code := p.NormalizedBarcode()
	c.byCode[code] = append(c.byCode[code], p)
	c.products = append(c.products, p)
}

func (c *Catalog) has(code string) bool {
	_, ok := c.byCode[code]
	return ok
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// Products returns every product in file order.
func (c *Catalog) Products() []*models.Product {
	out := make([]*models.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Codes returns the distinct normalized barcodes, sorted.
func (c *Catalog) Codes() []string {
	codes := make([]string, 0, len(c.byCode))
	for code := range c.byCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Get returns the products stored under a normalized barcode.
// The result is nil when the barcode is unknown.
func (c *Catalog) Get(normalized string) []*models.Product {
	list, ok := c.byCode[normalized]
	if !ok {
		return nil
	}
	out := make([]*models.Product, len(list))
	copy(out, list)
	return out
}

// Lookup normalizes code with the catalog rule and reports what it matches.
func (c *Catalog) Lookup(code string) Match {
	return c.LookupNormalized(barcode.Normalize(code))
}

// LookupNormalized reports the products stored under an already normalized code.
func (c *Catalog) LookupNormalized(normalized string) Match {
	list := c.Get(normalized)
	switch len(list) {
	case 0:
		return Match{Kind: NotFound, Code: normalized}
	case 1:
		return Match{Kind: Found, Code: normalized, Candidates: list}
	default:
		return Match{Kind: Ambiguous, Code: normalized, Candidates: list}
	}
}

// ByOriginal returns the product whose catalog barcode equals raw exactly.
// Reconciliation resolves log lines this way rather than by normalized code.
// When several products carry the identical barcode the last one wins.
func (c *Catalog) ByOriginal(raw string) *models.Product {
	var found *models.Product
	for _, p := range c.byCode[barcode.Normalize(raw)] {
		if p.Barcode() == raw {
			found = p
		}
	}
	return found
}

// Search returns products whose name contains every space separated word of
// text, case-insensitively. Numeric tokens never search by name.
func (c *Catalog) Search(text string, limit int) []*models.Product {
	if text == "" || barcode.IsNumericToken(text) {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	patterns := strings.Fields(strings.ToLower(text))
	var out []*models.Product
	for _, p := range c.products {
		name := strings.ToLower(p.Name())
		matched := true
		for _, pattern := range patterns {
			if !strings.Contains(name, pattern) {
				matched = false
				break
			}
		}
		if matched {
			out = append(out, p)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}
