package session

import (
	"testing"

	"cartographia/stocktake/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	s := NewStore()
	assert.Nil(t, s.Head())
	assert.Nil(t, s.Open())
	assert.Empty(t, s.Entries())

	first := models.NewLogEntry(fixedTime, "12345670", nil)
	s.Push(first)
	assert.Same(t, first, s.Open())

	first.Commit()
	assert.Nil(t, s.Open())
	assert.Same(t, first, s.Head())

	second := models.NewLogEntry(fixedTime, "9789631234565", nil)
	s.Push(second)
	require.Equal(t, 2, s.Len())

	snapshot := s.Entries()
	require.Len(t, snapshot, 2)
	assert.Equal(t, "9789631234565", snapshot[0].Barcode)
	assert.False(t, snapshot[0].Committed())
	assert.True(t, snapshot[1].Committed())

	second.Count = 5
	assert.Equal(t, 1, snapshot[0].Count)
}
