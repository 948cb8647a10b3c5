package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridColumns_Scenario(t *testing.T) {
	assert.Equal(t, 4, GridColumns(280, 16, 1200))
}

func TestGridColumns_NeverZero(t *testing.T) {
	assert.Equal(t, 1, GridColumns(280, 16, 100))
	assert.Equal(t, 1, GridColumns(0, 0, 1200))
	for width := 280.0; width <= 3000; width += 55 {
		require.GreaterOrEqual(t, GridColumns(280, 16, width), 1)
	}
}

func TestComputeGridWindow_LayoutIsRowMajor(t *testing.T) {
	w := ComputeGridWindow(GridParams{
		ItemCount:       10,
		ItemWidth:       100,
		ItemHeight:      50,
		Gap:             10,
		ContainerWidth:  330,
		ContainerHeight: 200,
	})
	require.Equal(t, 3, w.Columns)
	require.Equal(t, 4, w.Rows)
	assert.Equal(t, float64(4*60-10), w.TotalHeight)

	require.NotEmpty(t, w.Cells)
	for i, c := range w.Cells {
		assert.Equal(t, i, c.Index)
		assert.Equal(t, c.Index/3, c.Row)
		assert.Equal(t, c.Index%3, c.Col)
		assert.Equal(t, float64(c.Col)*110, c.Left)
		assert.Equal(t, float64(c.Row)*60, c.Top)
	}
}

func TestComputeGridWindow_ScrolledWindowAndTail(t *testing.T) {
	w := ComputeGridWindow(GridParams{
		ItemCount:       10,
		ItemWidth:       100,
		ItemHeight:      50,
		Gap:             10,
		ContainerWidth:  330,
		ContainerHeight: 60,
		ScrollTop:       120,
	})
	// Row 2 only: indices 6, 7, 8.
	require.Len(t, w.Cells, 3)
	assert.Equal(t, 6, w.Cells[0].Index)

	w = ComputeGridWindow(GridParams{
		ItemCount:       10,
		ItemWidth:       100,
		ItemHeight:      50,
		Gap:             10,
		ContainerWidth:  330,
		ContainerHeight: 60,
		ScrollTop:       180,
	})
	require.Len(t, w.Cells, 1)
	assert.Equal(t, 9, w.Cells[0].Index)
}

func TestComputeGridWindow_EmptyAndNarrow(t *testing.T) {
	w := ComputeGridWindow(GridParams{ItemWidth: 280, Gap: 16, ContainerWidth: 1200})
	assert.Equal(t, 0, w.Rows)
	assert.Equal(t, 0.0, w.TotalHeight)
	assert.Empty(t, w.Cells)

	w = ComputeGridWindow(GridParams{ItemCount: 3, ItemWidth: 280, ItemHeight: 100, Gap: 16, ContainerWidth: 120, ContainerHeight: 500})
	assert.Equal(t, 1, w.Columns)
	assert.Equal(t, 3, w.Rows)
	assert.Len(t, w.Cells, 3)
}

func TestRowTop(t *testing.T) {
	assert.Equal(t, 120.0, RowTop(7, 3, 50, 10))
	assert.Equal(t, 0.0, RowTop(-1, 3, 50, 10))
}
