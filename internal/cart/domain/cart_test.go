package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddSameProductMergesLine(t *testing.T) {
	c := NewCart()

	_, err := c.Add("mug-001", 2, map[string]string{"color": "blue"})
	require.NoError(t, err)
	line, err := c.Add("mug-001", 3, map[string]string{"size": "L"})
	require.NoError(t, err)

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, int64(5), line.Quantity)
	assert.Equal(t, map[string]string{"color": "blue", "size": "L"}, line.Attrs)
}

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	c := NewCart()
	for _, q := range []int64{0, -1} {
		_, err := c.Add("mug-001", q, nil)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	}
	assert.Equal(t, 0, c.Len())
}

func TestSetQuantity(t *testing.T) {
	t.Run("missing line", func(t *testing.T) {
		_, err := NewCart().SetQuantity("x", 1)
		assert.ErrorIs(t, err, ErrLineNotFound)
	})

	t.Run("zero behaves like remove", func(t *testing.T) {
		a, b := NewCart(), NewCart()
		for _, c := range []*Cart{a, b} {
			_, _ = c.Add("x", 2, nil)
			_, _ = c.Add("y", 1, nil)
		}
		_, err := a.SetQuantity("x", 0)
		require.NoError(t, err)
		require.NoError(t, b.Remove("x"))
		assert.Equal(t, b.Lines(), a.Lines())
	})

	t.Run("sets quantity", func(t *testing.T) {
		c := NewCart()
		_, _ = c.Add("x", 2, nil)
		line, err := c.SetQuantity("x", 7)
		require.NoError(t, err)
		assert.Equal(t, int64(7), line.Quantity)
	})
}

func TestLinesKeepInsertionOrderAndAreCopies(t *testing.T) {
	c := NewCart()
	_, _ = c.Add("b", 1, map[string]string{"size": "M"})
	_, _ = c.Add("a", 1, nil)
	_, _ = c.Add("c", 1, nil)
	require.NoError(t, c.Remove("a"))

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "b", lines[0].ProductID)
	assert.Equal(t, "c", lines[1].ProductID)

	lines[0].Attrs["size"] = "XL"
	l, _ := c.Line("b")
	assert.Equal(t, "M", l.Attrs["size"])
}

func TestClearAndReplace(t *testing.T) {
	c := NewCart()
	_, _ = c.Add("a", 1, nil)
	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.ErrorIs(t, c.Remove("a"), ErrLineNotFound)

	c.Replace([]CartLine{{ProductID: "a", Quantity: 1}, {ProductID: "a", Quantity: 2}, {ProductID: "bad", Quantity: 0}})
	require.Equal(t, 1, c.Len())
	l, _ := c.Line("a")
	assert.Equal(t, int64(3), l.Quantity)
}
