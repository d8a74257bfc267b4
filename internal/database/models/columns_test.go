package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddonListColumn(t *testing.T) {
	list := AddonList{{ID: "addon-1", Name: "Borda recheada", Price: decimal.RequireFromString("8")}}
	v, err := list.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"addon-1","name":"Borda recheada","price":"8"}]`, v.(string))

	var scanned AddonList
	require.NoError(t, scanned.Scan([]byte(v.(string))))
	require.Len(t, scanned, 1)
	assert.True(t, scanned[0].Price.Equal(decimal.NewFromInt(8)))

	var empty AddonList
	v, err = empty.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
	require.NoError(t, empty.Scan(nil))
	assert.NotNil(t, empty)

	assert.Error(t, empty.Scan(42))
}

func TestStatusHistoryColumn(t *testing.T) {
	at := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	h := StatusHistory{{To: "received", At: at, By: "client-1"}}
	v, err := h.Value()
	require.NoError(t, err)

	var scanned StatusHistory
	require.NoError(t, scanned.Scan(v.(string)))
	require.Len(t, scanned, 1)
	assert.Equal(t, "received", scanned[0].To)
	assert.True(t, scanned[0].At.Equal(at))
}
