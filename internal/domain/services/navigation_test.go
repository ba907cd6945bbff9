package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/marpview/internal/domain/entities"
	"github.com/fredcamaral/marpview/internal/test/builders"
)

func TestNavigationController_NoDeck(t *testing.T) {
	c := NewNavigationController()

	assert.Nil(t, c.Deck())
	assert.Equal(t, 0, c.Index())
	assert.Equal(t, 0, c.Len())
	assert.False(t, c.Next())
	assert.False(t, c.Previous())
	assert.False(t, c.GoTo(0))
	assert.False(t, c.Last())
	assert.Equal(t, 0, c.Index())
	assert.Equal(t, entities.PositionNoDeck, c.Position())

	_, ok := c.Current()
	assert.False(t, ok)
}

func TestNavigationController_Clamping(t *testing.T) {
	c := NewNavigationController()
	c.Reset(builders.ThreeSlideDeck())

	t.Run("previous at the first slide stays", func(t *testing.T) {
		assert.False(t, c.Previous())
		assert.Equal(t, 0, c.Index())
		assert.Equal(t, entities.PositionAtFirst, c.Position())
	})

	t.Run("next walks to the last slide and stops", func(t *testing.T) {
		assert.True(t, c.Next())
		assert.Equal(t, entities.PositionAtMiddle, c.Position())
		assert.True(t, c.Next())
		assert.False(t, c.Next())
		assert.Equal(t, 2, c.Index())
		assert.Equal(t, entities.PositionAtLast, c.Position())
	})

	t.Run("first and last", func(t *testing.T) {
		assert.True(t, c.First())
		assert.Equal(t, 0, c.Index())
		assert.False(t, c.First())
		assert.True(t, c.Last())
		assert.Equal(t, 2, c.Index())
	})
}

func TestNavigationController_GoTo(t *testing.T) {
	c := NewNavigationController()
	c.Reset(builders.ThreeSlideDeck())

	assert.True(t, c.GoTo(1))
	assert.Equal(t, 1, c.Index())
	assert.False(t, c.GoTo(1), "same index is not a change")

	for _, i := range []int{-1, 3, 7} {
		assert.False(t, c.GoTo(i))
		assert.Equal(t, 1, c.Index(), "out of range goto is a no-op")

		err := c.ValidateIndex(i)
		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrOutOfRange)
	}

	slide, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, "B", slide.Title)
}

func TestNavigationController_Reset(t *testing.T) {
	c := NewNavigationController()
	c.Reset(builders.NewDeckBuilder().WithSlideCount(5).Build())
	c.GoTo(4)

	c.Reset(builders.ThreeSlideDeck())
	assert.Equal(t, 0, c.Index())
	assert.Equal(t, 3, c.Len())

	c.Reset(nil)
	assert.Equal(t, 0, c.Index())
	assert.Equal(t, entities.PositionNoDeck, c.Position())
}

func TestNavigationController_Snapshot(t *testing.T) {
	c := NewNavigationController()
	c.Reset(builders.ThreeSlideDeck())
	c.Next()

	assert.Equal(t, entities.NavigationState{Index: 1, Total: 3, Position: entities.PositionAtMiddle}, c.Snapshot())
}

func TestNavigationController_SingleSlide(t *testing.T) {
	c := NewNavigationController()
	c.Reset(builders.MinimalDeck())

	assert.Equal(t, entities.PositionAtFirst, c.Position())
	assert.True(t, c.Snapshot().AtFirst())
	assert.True(t, c.Snapshot().AtLast())
	assert.False(t, c.Next())
	assert.False(t, c.Previous())
}
