package stats

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource map[string]any

func (f fakeSource) Lookup(accessor, key string) (any, bool) {
	if accessor != "getValue" {
		return nil, false
	}
	v, ok := f[key]
	return v, ok
}

func TestAggregator_Tiles(t *testing.T) {
	sources := map[string]Source{
		"balance-sheet": fakeSource{
			"Total Accounts Receivable": decimal.RequireFromString("1234.5"),
		},
		"income": fakeSource{
			"Net Income": decimal.RequireFromString("-20"),
		},
	}

	tiles := NewAggregator(DefaultDescriptors(), sources, "USD").Tiles()
	require.Len(t, tiles, 3)

	assert.Equal(t, "totalAR", tiles[0].ID)
	assert.Equal(t, "$1,234.50", tiles[0].Display)
	assert.False(t, tiles[0].Missing)

	// missing key fails soft and does not affect other tiles
	assert.Equal(t, "totalAP", tiles[1].ID)
	assert.True(t, tiles[1].Missing)
	assert.Empty(t, tiles[1].Display)
	assert.True(t, tiles[1].Value.IsZero())

	assert.Equal(t, "-$20.00", tiles[2].Display)
}

func TestAggregator_MissingStoreAndBadValues(t *testing.T) {
	descriptors := []Descriptor{
		{ID: "a", Store: "nowhere", Accessor: "getValue", DataKey: "x", Format: FormatCurrency},
		{ID: "b", Store: "s", Accessor: "getValue", DataKey: "label", Format: FormatCurrency},
		{ID: "c", Store: "s", Accessor: "unknown", DataKey: "n", Format: FormatCurrency},
		{ID: "d", Store: "s", Accessor: "getValue", DataKey: "n", Format: FormatNumber},
		{ID: "e", Store: "s", Accessor: "getValue", DataKey: "n", Format: ""},
	}
	sources := map[string]Source{
		"s": fakeSource{"label": "not a number", "n": 3.14159},
	}

	tiles := NewAggregator(descriptors, sources, "").Tiles()
	require.Len(t, tiles, 5)

	assert.True(t, tiles[0].Missing)
	assert.True(t, tiles[1].Missing)
	assert.True(t, tiles[2].Missing)
	assert.Equal(t, "3.14", tiles[3].Display)
	assert.Equal(t, "3.14159", tiles[4].Display)
}

func TestFormat_Currency(t *testing.T) {
	assert.Equal(t, "$1,000,000.00", Format(decimal.NewFromInt(1000000), FormatCurrency, "USD"))
	assert.Equal(t, "$0.13", Format(decimal.RequireFromString("0.125"), FormatCurrency, "USD"))
	assert.Equal(t, "10.00 ZZZ", Format(decimal.NewFromInt(10), FormatCurrency, "ZZZ"))
}

func TestAggregator_Stores(t *testing.T) {
	a := NewAggregator(DefaultDescriptors(), nil, "USD")
	assert.Equal(t, []string{"balance-sheet", "income"}, a.Stores())
}

func TestLoadDescriptors_Default(t *testing.T) {
	got, err := LoadDescriptors("")
	require.NoError(t, err)
	assert.Equal(t, DefaultDescriptors(), got)
}

func TestLoadDescriptors_YAML(t *testing.T) {
	// Given
	path := filepath.Join(t.TempDir(), "stats.yaml")
	content := `statBoxes:
  - id: cash
    title: Current Cash Flow
    store: cash-flow
    dataKey: Current Cash Flow
    format: currency
  - id: dso
    store: dso
    accessor: jsonPath
    dataKey: $.current.dso
    format: number
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	// When
	got, err := LoadDescriptors(path)

	// Then
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, Descriptor{
		ID:       "cash",
		Title:    "Current Cash Flow",
		Store:    "cash-flow",
		Accessor: "getValue",
		DataKey:  "Current Cash Flow",
		Format:   "currency",
	}, got[0])
	assert.Equal(t, "jsonPath", got[1].Accessor)
	assert.Equal(t, "$.current.dso", got[1].DataKey)
	assert.Equal(t, "dso", got[1].Title)
}

func TestLoadDescriptors_Invalid(t *testing.T) {
	dir := t.TempDir()

	missing := filepath.Join(dir, "missing.yaml")
	_, err := LoadDescriptors(missing)
	assert.Error(t, err)

	incomplete := filepath.Join(dir, "incomplete.yaml")
	require.NoError(t, os.WriteFile(incomplete, []byte("statBoxes:\n  - id: x\n"), 0o644))
	_, err = LoadDescriptors(incomplete)
	assert.ErrorContains(t, err, "stat box 0")
}
