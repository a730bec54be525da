package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCart(t *testing.T) {
	cart := NewCart("user-1")
	assert.NotEmpty(t, cart.ID)
	assert.Equal(t, "user-1", cart.UserID)
	assert.Empty(t, cart.Lines)
	assert.Equal(t, 0.0, cart.Subtotal())
}

func TestAddLine_MergesSameProduct(t *testing.T) {
	cart := NewCart("user-1")
	require.NoError(t, cart.AddLine("p-1", "Margherita", 12.50, "m.jpg", 2))
	require.NoError(t, cart.AddLine("p-1", "Margherita", 12.50, "m.jpg", 3))

	// 同一商品加购两次只产生一行，数量累加。
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 5, cart.Lines[0].Quantity)
}

func TestAddLine_DistinctProducts(t *testing.T) {
	cart := NewCart("user-1")
	require.NoError(t, cart.AddLine("p-1", "Margherita", 12.50, "m.jpg", 1))
	require.NoError(t, cart.AddLine("p-2", "Tiramisu", 6.00, "t.jpg", 1))

	require.Len(t, cart.Lines, 2)
	assert.NotEqual(t, cart.Lines[0].ID, cart.Lines[1].ID)
}

func TestAddLine_RejectsNonPositiveQuantity(t *testing.T) {
	cart := NewCart("user-1")
	assert.ErrorIs(t, cart.AddLine("p-1", "Margherita", 12.50, "m.jpg", 0), ErrInvalidQuantity)
	assert.ErrorIs(t, cart.AddLine("p-1", "Margherita", 12.50, "m.jpg", -2), ErrInvalidQuantity)
	assert.Empty(t, cart.Lines)
}

func TestSetQuantity(t *testing.T) {
	cart := NewCart("user-1")
	require.NoError(t, cart.AddLine("p-1", "Margherita", 12.50, "m.jpg", 2))
	lineID := cart.Lines[0].ID

	require.NoError(t, cart.SetQuantity(lineID, 7))
	assert.Equal(t, 7, cart.Lines[0].Quantity)

	// 下限为 1：归零必须走 RemoveLine，聚合保持不变。
	err := cart.SetQuantity(lineID, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Equal(t, 7, cart.Lines[0].Quantity)

	err = cart.SetQuantity("no-such-line", 3)
	assert.ErrorIs(t, err, ErrLineNotFound)
}

func TestRemoveLine_Idempotent(t *testing.T) {
	cart := NewCart("user-1")
	require.NoError(t, cart.AddLine("p-1", "Margherita", 12.50, "m.jpg", 1))
	lineID := cart.Lines[0].ID

	cart.RemoveLine(lineID)
	assert.Empty(t, cart.Lines)

	// 再删一次仍然是成功。
	cart.RemoveLine(lineID)
	cart.RemoveLine("never-existed")
	assert.Empty(t, cart.Lines)
}

func TestClear(t *testing.T) {
	cart := NewCart("user-1")
	require.NoError(t, cart.AddLine("p-1", "Margherita", 12.50, "m.jpg", 1))
	require.NoError(t, cart.AddLine("p-2", "Tiramisu", 6.00, "t.jpg", 2))

	cart.Clear()
	assert.Empty(t, cart.Lines)
	cart.Clear()
	assert.Empty(t, cart.Lines)
}

func TestSubtotal(t *testing.T) {
	cart := NewCart("user-1")
	require.NoError(t, cart.AddLine("p-1", "Margherita", 8.50, "m.jpg", 2))
	require.NoError(t, cart.AddLine("p-2", "Cola", 1.50, "c.jpg", 2))
	assert.Equal(t, 20.00, cart.Subtotal())
}

func TestSubtotal_RoundsToCents(t *testing.T) {
	cart := NewCart("user-1")
	require.NoError(t, cart.AddLine("p-1", "Espresso", 3.335, "e.jpg", 3))
	// 3.335 × 3 = 10.005 → 10.01
	assert.Equal(t, 10.01, cart.Subtotal())
}
