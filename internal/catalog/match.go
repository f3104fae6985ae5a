package catalog

import "cartographia/stocktake/internal/models"

// MatchKind tells the outcome of a barcode lookup.
type MatchKind int

const (
	NotFound MatchKind = iota
	Found
	Ambiguous
)

func (k MatchKind) String() string {
	switch k {
	case Found:
		return "found"
	case Ambiguous:
		return "ambiguous"
	default:
		return "not_found"
	}
}

// Match is the result of a catalog lookup.
type Match struct {
	Kind       MatchKind
	Code       string
	Candidates []*models.Product
}

// Product returns the single matched product, or nil unless Kind is Found.
func (m Match) Product() *models.Product {
	if m.Kind != Found {
		return nil
	}
	return m.Candidates[0]
}
