package batch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baskoro/barpos-inventory-service/internal/model"
)

func TestParseAdjustments(t *testing.T) {
	csv := strings.Join([]string{
		"location_id,item_id,type,quantity,notes",
		"bar-1,gin,in,12,weekly delivery",
		"bar-1,gin,OUT,2,breakage",
		"store,tonic,adjustment,30,",
	}, "\n")

	entries, failures, err := ParseAdjustments(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Empty(t, failures)
	require.Len(t, entries, 3)

	assert.Equal(t, 2, entries[0].Line)
	assert.Equal(t, "bar-1", entries[0].LocationID)
	assert.Equal(t, "gin", entries[0].ItemID)
	assert.Equal(t, model.MovementTypeIn, entries[0].Type)
	assert.Equal(t, float64(12), entries[0].Quantity)
	assert.Equal(t, "weekly delivery", entries[0].Notes)

	// Type is case-insensitive.
	assert.Equal(t, model.MovementTypeOut, entries[1].Type)

	assert.Equal(t, model.MovementTypeAdjustment, entries[2].Type)
	assert.Equal(t, float64(30), entries[2].Quantity)
	assert.Equal(t, "", entries[2].Notes)
}

func TestParseAdjustmentsBadRows(t *testing.T) {
	csv := strings.Join([]string{
		"location_id,item_id,type,quantity,notes",
		"bar-1,gin,in,twelve,",
		"bar-1,gin,transfer,5,",
		"bar-1,gin",
		",gin,in,5,",
		"bar-1,,in,5,",
		"bar-1,tonic,out,3,",
	}, "\n")

	entries, failures, err := ParseAdjustments(strings.NewReader(csv))
	require.NoError(t, err)

	// The one valid row still parses; each bad row fails on its own.
	require.Len(t, entries, 1)
	assert.Equal(t, "tonic", entries[0].ItemID)
	assert.Equal(t, 7, entries[0].Line)

	require.Len(t, failures, 5)
	assert.Equal(t, 2, failures[0].Entry.Line)
	assert.Contains(t, failures[0].Error, "invalid quantity")
	assert.Contains(t, failures[1].Error, "unknown movement type")
	assert.Contains(t, failures[2].Error, "at least 4 columns")
	assert.Contains(t, failures[3].Error, "missing location_id")
	assert.Contains(t, failures[4].Error, "missing item_id")
	for _, f := range failures {
		assert.False(t, f.OK)
	}
}

func TestParseAdjustmentsHeaderErrors(t *testing.T) {
	_, _, err := ParseAdjustments(strings.NewReader(""))
	require.Error(t, err)

	_, _, err = ParseAdjustments(strings.NewReader("only,three,columns\n"))
	require.Error(t, err)
}
