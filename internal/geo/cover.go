package geo

import (
	"math"
	"sort"
)

// KeyRange is one contiguous [Start, End] interval of geohash keys, inclusive
// on both ends.
type KeyRange struct {
	Start string
	End   string
}

// rangeEnd sorts after every base32 character, so cell+rangeEnd upper-bounds
// all stored keys that share the cell's prefix.
const rangeEnd = "~"

// QueryRanges computes an ordered set of key ranges whose union covers the
// disc of radiusM meters around the center point. The cover is the center's
// cell plus its 8 neighbors at a precision coarse enough that a single cell
// spans the radius, so it is always a superset of the disc; callers must
// re-filter by exact distance. Ranges over adjacent cells are merged, so the
// result is typically 1-9 entries.
//
// A disc that reaches past a pole wraps every longitude there, which the 3x3
// neighbor block cannot express; in that case the cover also takes the whole
// row of cells touching that pole. A radius of zero or less degenerates to a
// single zero-width range at the center's own store-precision key.
func QueryRanges(lat, lng, radiusM float64) []KeyRange {
	if radiusM <= 0 {
		key := Encode(lat, lng, StorePrecision)
		return []KeyRange{{Start: key, End: key}}
	}

	precision := coverPrecision(lat, lng, radiusM)
	center := Encode(lat, lng, precision)

	cells := append(Neighbors(center), center)

	radiusDeg := radiusM / EarthRadiusMeters * (180 / math.Pi)
	if lat+radiusDeg >= 90 {
		cells = append(cells, polarRowCells(precision, 90)...)
	}
	if lat-radiusDeg <= -90 {
		cells = append(cells, polarRowCells(precision, -90)...)
	}

	sort.Strings(cells)

	ranges := make([]KeyRange, 0, len(cells))
	for _, cell := range cells {
		if n := len(ranges); n > 0 {
			last := &ranges[n-1]
			if cell == last.End {
				continue // pole/antimeridian clamping can duplicate cells
			}
			// Consecutive cells form one contiguous key interval.
			if cell == cellAfter(last.End) {
				last.End = cell
				continue
			}
		}
		ranges = append(ranges, KeyRange{Start: cell, End: cell})
	}

	for i := range ranges {
		ranges[i].End += rangeEnd
	}
	return ranges
}

// coverPrecision returns the finest geohash precision at which the center's
// cell is still at least radiusM meters tall and wide, so the 3x3 block of
// cells around the center is guaranteed to contain the whole disc.
func coverPrecision(lat, lng, radiusM float64) int {
	for p := 12; p >= 1; p-- {
		minLat, minLng, maxLat, maxLng := CellBounds(Encode(lat, lng, p))

		height := Distance(minLat, minLng, maxLat, minLng)
		// Cell width shrinks toward the poles; measure the narrower edge.
		width := Distance(minLat, minLng, minLat, maxLng)
		if top := Distance(maxLat, minLng, maxLat, maxLng); top < width {
			width = top
		}

		if height >= radiusM && width >= radiusM {
			return p
		}
	}
	return 1
}

// polarRowCells returns every cell in the latitude row touching the given
// pole (90 or -90) at the given precision. Any point the disc reaches across
// the pole sits within one cell height of it, so this row completes the cover
// whenever coverPrecision holds (cell height spans the radius).
func polarRowCells(precision int, poleLat float64) []string {
	_, minLng, _, maxLng := CellBounds(Encode(poleLat, 0, precision))
	delta := maxLng - minLng

	cells := make([]string, 0, int(360/delta))
	for lng := -180 + delta/2; lng < 180; lng += delta {
		cells = append(cells, Encode(poleLat, lng, precision))
	}
	return cells
}

// cellAfter returns the lexicographic successor of a cell within its parent,
// or "" when the cell is the last child and the successor would cross a
// prefix boundary.
func cellAfter(cell string) string {
	if cell == "" {
		return ""
	}
	idx := indexOfBase32(cell[len(cell)-1])
	if idx == -1 || idx == len(base32)-1 {
		return ""
	}
	return cell[:len(cell)-1] + string(base32[idx+1])
}
