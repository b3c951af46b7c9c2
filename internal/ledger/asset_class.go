// Package ledger implements the position-accounting rules for a personal
// portfolio: merging purchases into holdings, liquidating them through sales
// and redemptions, and the validation that guards every mutation.
//
// Nothing in this package performs I/O. Services load the current position,
// call into ledger to compute the next state and the journal entry, and
// persist both atomically.
package ledger

// AssetClass identifies the kind of asset a holding tracks.
type AssetClass string

// Supported asset classes.
const (
	Stock          AssetClass = "stock"
	Crypto         AssetClass = "crypto"
	RealEstateFund AssetClass = "fund"
	FixedIncome    AssetClass = "fixed_income"
)

// Descriptor captures the per-class variations of the shared reconciliation
// rules for traded (ticker-based) asset classes.
type Descriptor struct {
	Class AssetClass
	Label string

	// WholeUnits rejects fractional quantities.
	WholeUnits bool

	// HasLogo keeps the provider logo on the holding; classes without one
	// always store an empty logo.
	HasLogo bool

	// CloseOnOversell closes the position whenever the sold quantity is at
	// least the held quantity instead of rejecting sales above it.
	CloseOnOversell bool
}

var descriptors = map[AssetClass]Descriptor{
	Stock: {
		Class:   Stock,
		Label:   "Ações",
		HasLogo: true,
	},
	Crypto: {
		Class:           Crypto,
		Label:           "Criptomoedas",
		CloseOnOversell: true,
	},
	RealEstateFund: {
		Class:      RealEstateFund,
		Label:      "Fundos Imobiliários",
		WholeUnits: true,
		HasLogo:    true,
	},
}

// tradedClasses fixes the display order used by listings and the dashboard.
var tradedClasses = []AssetClass{Stock, RealEstateFund, Crypto}

// Describe returns the descriptor for a traded asset class.
func Describe(class AssetClass) (Descriptor, bool) {
	d, ok := descriptors[class]
	return d, ok
}

// TradedClasses returns the descriptors of all ticker-based classes.
func TradedClasses() []Descriptor {
	out := make([]Descriptor, 0, len(tradedClasses))
	for _, c := range tradedClasses {
		out = append(out, descriptors[c])
	}
	return out
}

// Label returns the display label of any asset class, including fixed income.
func (c AssetClass) Label() string {
	if c == FixedIncome {
		return "Renda Fixa"
	}
	if d, ok := descriptors[c]; ok {
		return d.Label
	}
	return string(c)
}

// Valid reports whether c is a known asset class.
func (c AssetClass) Valid() bool {
	_, ok := descriptors[c]
	return ok || c == FixedIncome
}
