// Package stats turns fetched report state into display tiles.
package stats

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/alligatorO15/finboard/internal/models"
	"github.com/shopspring/decimal"
)

const (
	FormatCurrency = "currency"
	FormatNumber   = "number"
)

// Descriptor maps a tile to a (store, key) pair.
type Descriptor struct {
	ID       string `json:"id" mapstructure:"id"`
	Title    string `json:"title" mapstructure:"title"`
	Store    string `json:"store" mapstructure:"store"`
	Accessor string `json:"accessor" mapstructure:"accessor"`
	DataKey  string `json:"dataKey" mapstructure:"dataKey"`
	Format   string `json:"format" mapstructure:"format"`
}

// DefaultDescriptors are the tiles shown when no override file is set.
func DefaultDescriptors() []Descriptor {
	return []Descriptor{
		{
			ID:       "totalAR",
			Title:    "Total Accounts Receivable",
			Store:    "balance-sheet",
			Accessor: "getValue",
			DataKey:  "Total Accounts Receivable",
			Format:   FormatCurrency,
		},
		{
			ID:       "totalAP",
			Title:    "Total Accounts Payable",
			Store:    "balance-sheet",
			Accessor: "getValue",
			DataKey:  "Total Accounts Payable",
			Format:   FormatCurrency,
		},
		{
			ID:       "netIncome",
			Title:    "Net Income",
			Store:    "income",
			Accessor: "getValue",
			DataKey:  "Net Income",
			Format:   FormatCurrency,
		},
	}
}

// Source is anything a descriptor can point at.
type Source interface {
	Lookup(accessor, key string) (any, bool)
}

// Tile is a resolved descriptor ready for display. Missing tiles have a
// zero value and a blank display.
type Tile struct {
	ID      string          `json:"id"`
	Title   string          `json:"title"`
	Value   decimal.Decimal `json:"value"`
	Display string          `json:"display"`
	Missing bool            `json:"missing"`
}

type Aggregator struct {
	descriptors []Descriptor
	sources     map[string]Source
	currency    string
}

func NewAggregator(descriptors []Descriptor, sources map[string]Source, currency string) *Aggregator {
	if currency == "" {
		currency = money.USD
	}
	return &Aggregator{
		descriptors: descriptors,
		sources:     sources,
		currency:    currency,
	}
}

func (a *Aggregator) Descriptors() []Descriptor {
	out := make([]Descriptor, len(a.descriptors))
	copy(out, a.descriptors)
	return out
}

// Stores lists the distinct stores the descriptors read, in order.
func (a *Aggregator) Stores() []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range a.descriptors {
		if !seen[d.Store] {
			seen[d.Store] = true
			out = append(out, d.Store)
		}
	}
	return out
}

// Tiles resolves every descriptor against the current store state.
func (a *Aggregator) Tiles() []Tile {
	tiles := make([]Tile, 0, len(a.descriptors))
	for _, d := range a.descriptors {
		tiles = append(tiles, a.resolve(d))
	}
	return tiles
}

func (a *Aggregator) resolve(d Descriptor) Tile {
	tile := Tile{ID: d.ID, Title: d.Title, Missing: true}

	src, ok := a.sources[d.Store]
	if !ok || src == nil {
		return tile
	}
	raw, ok := src.Lookup(d.Accessor, d.DataKey)
	if !ok {
		return tile
	}
	value, ok := models.ToDecimal(raw)
	if !ok {
		return tile
	}

	tile.Value = value
	tile.Display = Format(value, d.Format, a.currency)
	tile.Missing = false
	return tile
}

// Format renders v according to format. Unknown formats print the plain
// decimal.
func Format(v decimal.Decimal, format, currency string) string {
	switch format {
	case FormatCurrency:
		return formatCurrency(v, currency)
	case FormatNumber:
		return v.StringFixed(2)
	default:
		return v.String()
	}
}

func formatCurrency(v decimal.Decimal, code string) string {
	cur := money.GetCurrency(code)
	if cur == nil {
		return fmt.Sprintf("%s %s", v.StringFixed(2), code)
	}
	minor := v.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, code).Display()
}
