package models

import "cartographia/stocktake/internal/barcode"

// Product is one catalog row. It is immutable after construction; the
// normalized barcode is derived exactly once in NewProduct.
type Product struct {
	barcode    string
	normalized string
	name       string
	publisher  string
	stock      *int
	id         string
}

// NewProduct builds a Product. A nil stock means the stock count is unknown,
// which is distinct from a known stock of zero.
func NewProduct(code, name, publisher string, stock *int, id string) *Product {
	p := &Product{
		barcode:    code,
		normalized: barcode.Normalize(code),
		name:       name,
		publisher:  publisher,
		id:         id,
	}
	if stock != nil {
		v := *stock
		p.stock = &v
	}
	return p
}

// Barcode returns the barcode exactly as read from the catalog.
func (p *Product) Barcode() string { return p.barcode }

// NormalizedBarcode returns the catalog lookup key.
func (p *Product) NormalizedBarcode() string { return p.normalized }

func (p *Product) Name() string      { return p.name }
func (p *Product) Publisher() string { return p.publisher }
func (p *Product) ID() string        { return p.id }

// Stock returns the recorded stock count and whether it is known.
func (p *Product) Stock() (int, bool) {
	if p.stock == nil {
		return 0, false
	}
	return *p.stock, true
}
