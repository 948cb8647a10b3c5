package viewport

import "math"

// GridParams describes a fixed-size cell grid inside a scroll container.
type GridParams struct {
	ItemCount       int
	ItemWidth       float64
	ItemHeight      float64
	Gap             float64
	ContainerWidth  float64
	ContainerHeight float64
	ScrollTop       float64
	OverscanRows    int
}

// GridCell is one rendered cell, positioned relative to the content origin.
type GridCell struct {
	Index int
	Row   int
	Col   int
	Left  float64
	Top   float64
}

// GridWindow is the visible part of a grid plus the layout it was derived from.
type GridWindow struct {
	Cells       []GridCell
	Columns     int
	Rows        int
	TotalHeight float64
}

// GridColumns returns how many cells fit in one row. Never less than one.
func GridColumns(itemWidth, gap, containerWidth float64) int {
	stride := itemWidth + gap
	if stride <= 0 {
		return 1
	}
	return max(int(math.Floor((containerWidth+gap)/stride)), 1)
}

// ComputeGridWindow lays items out row-major and returns the cells whose row
// intersects [ScrollTop, ScrollTop+ContainerHeight), widened by OverscanRows.
func ComputeGridWindow(p GridParams) GridWindow {
	cols := GridColumns(p.ItemWidth, p.Gap, p.ContainerWidth)
	if p.ItemCount <= 0 {
		return GridWindow{Columns: cols}
	}
	rows := (p.ItemCount + cols - 1) / cols
	rowStride := p.ItemHeight + p.Gap
	out := GridWindow{
		Columns:     cols,
		Rows:        rows,
		TotalHeight: math.Max(float64(rows)*rowStride-p.Gap, 0),
	}
	if rowStride <= 0 {
		return out
	}

	scrollTop := math.Max(p.ScrollTop, 0)
	firstRow := int(math.Floor(scrollTop / rowStride))
	lastRow := int(math.Ceil((scrollTop+math.Max(p.ContainerHeight, 0))/rowStride)) - 1
	lastRow = max(lastRow, firstRow)
	overscan := max(p.OverscanRows, 0)
	firstRow = max(firstRow-overscan, 0)
	lastRow = min(lastRow+overscan, rows-1)
	if firstRow > lastRow {
		return out
	}

	colStride := p.ItemWidth + p.Gap
	out.Cells = make([]GridCell, 0, (lastRow-firstRow+1)*cols)
	for row := firstRow; row <= lastRow; row++ {
		for col := range cols {
			idx := row*cols + col
			if idx >= p.ItemCount {
				break
			}
			out.Cells = append(out.Cells, GridCell{
				Index: idx,
				Row:   row,
				Col:   col,
				Left:  float64(col) * colStride,
				Top:   float64(row) * rowStride,
			})
		}
	}
	return out
}

// RowTop returns the content offset of the row holding idx.
func RowTop(idx, columns int, itemHeight, gap float64) float64 {
	if idx < 0 || columns < 1 {
		return 0
	}
	return float64(idx/columns) * (itemHeight + gap)
}
