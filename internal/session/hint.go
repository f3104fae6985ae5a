package session

import (
	"fmt"
	"regexp"
	"strings"

	"cartographia/stocktake/internal/barcode"
	"cartographia/stocktake/internal/catalog"
	"cartographia/stocktake/internal/models"
)

var yearToken = regexp.MustCompile(`^(?:19|20)[0-9]{2}$`)

// HintKind classifies a previewed token.
type HintKind int

const (
	HintNone HintKind = iota
	HintProduct
	HintMultiple
	HintUnknown
	HintCount
	HintYear
	HintUnclear
	HintComment
)

// Hint tells the operator what the token being typed will do.
type Hint struct {
	Kind              HintKind
	Product           *models.Product
	Candidates        int
	InvalidCheckDigit bool
}

func (h Hint) String() string {
	var s string
	switch h.Kind {
	case HintNone:
		return ""
	case HintProduct:
		s = h.Product.Name()
	case HintMultiple:
		s = fmt.Sprintf("Több termék azonos vonalkóddal: %d", h.Candidates)
	case HintUnknown:
		s = "Ismeretlen termék"
	case HintCount:
		return "Darabszám módosítás"
	case HintYear:
		return "Kiadási évszám megadása"
	case HintComment:
		return "Megjegyzés hozzáadása"
	default:
		return "?"
	}
	if h.InvalidCheckDigit {
		s += " (ÉRVÉNYTELEN ISBN!)"
	}
	return s
}

// Preview describes what input would do when fed to a classifier over cat.
func Preview(cat *catalog.Catalog, input string) Hint {
	token := strings.TrimSpace(input)
	if token == "" {
		return Hint{Kind: HintNone}
	}
	if !barcode.IsNumericToken(token) {
		return Hint{Kind: HintComment}
	}

	normalized := barcode.NormalizeToken(token)
	switch {
	case len(normalized) >= MinBarcodeLength:
		h := Hint{InvalidCheckDigit: !barcode.IsValid(normalized)}
		var match catalog.Match
		if cat != nil {
			match = cat.LookupNormalized(normalized)
		}
		switch match.Kind {
		case catalog.Found:
			h.Kind = HintProduct
			h.Product = match.Product()
			h.Candidates = 1
		case catalog.Ambiguous:
			h.Kind = HintMultiple
			h.Candidates = len(match.Candidates)
		default:
			h.Kind = HintUnknown
		}
		return h
	case len(normalized) < 4:
		return Hint{Kind: HintCount}
	case yearToken.MatchString(normalized):
		return Hint{Kind: HintYear}
	default:
		return Hint{Kind: HintUnclear}
	}
}
