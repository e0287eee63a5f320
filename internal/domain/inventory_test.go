package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInventory(t *testing.T) {
	t.Run("Drops duplicates and keeps the first", func(t *testing.T) {
		inv, rejected := NewInventory([]Pallet{pallet(1, 1), pallet(1, 2), pallet(2, 3)})

		assert.Equal(t, []int64{1, 2}, PalletIDs(inv.Filter(TabAll)))
		first, ok := inv.Find(1)
		require.True(t, ok)
		assert.Equal(t, 1.0, first.GrossWeight)
		require.Len(t, rejected, 1)
		assert.Equal(t, int64(1), rejected[0].RFIDID)
		assert.Contains(t, rejected[0].Reason, "duplicate pallet identifier")
	})

	t.Run("Drops negative weight", func(t *testing.T) {
		inv, rejected := NewInventory([]Pallet{{RFIDID: 1, NetWeight: -0.5}, pallet(2, 4)})

		assert.Equal(t, []int64{2}, PalletIDs(inv.Filter(TabAll)))
		require.Len(t, rejected, 1)
		assert.Equal(t, int64(1), rejected[0].RFIDID)
		assert.Contains(t, rejected[0].Reason, ErrNegativeWeight.Error())
	})

	t.Run("Empty inventory", func(t *testing.T) {
		inv, rejected := NewInventory(nil)
		assert.Empty(t, rejected)
		assert.Zero(t, inv.Len())
		assert.Empty(t, inv.Filter(TabAll))
	})
}

func TestInventoryFilter(t *testing.T) {
	assigned := pallet(2, 1)
	assigned.AssignedToDelivery = true
	inv, rejected := NewInventory([]Pallet{pallet(1, 1), assigned, pallet(3, 1)})
	require.Empty(t, rejected)

	assert.Equal(t, []int64{1, 2, 3}, PalletIDs(inv.Filter(TabAll)))
	assert.Equal(t, []int64{1, 3}, PalletIDs(inv.Filter(TabAvailable)))
	assert.Equal(t, []int64{2}, PalletIDs(inv.Filter(TabAssigned)))

	_, ok := inv.Find(42)
	assert.False(t, ok)
}

func TestParseInventoryTab(t *testing.T) {
	tab, err := ParseInventoryTab("")
	require.NoError(t, err)
	assert.Equal(t, TabAll, tab)

	tab, err = ParseInventoryTab("assigned")
	require.NoError(t, err)
	assert.Equal(t, TabAssigned, tab)

	_, err = ParseInventoryTab("archived")
	assert.ErrorIs(t, err, ErrInvalidTab)
}

func TestPalletUnits(t *testing.T) {
	assert.Equal(t, 60, Pallet{Cases: 5, UnitsPerCase: 12}.Units())
	assert.Equal(t, 7, Pallet{Cases: 5, UnitsPerCase: 12, TotalUnits: 7}.Units())
}
