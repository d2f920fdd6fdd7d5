package geo

// base32 alphabet used by geohash encoding
const base32 = "0123456789bcdefghjkmnpqrstuvwxyz"

// StorePrecision is the geohash length activities are stored under. Nine
// characters resolve to roughly 5m cells, well below any useful search radius.
const StorePrecision = 9

// Encode converts a coordinate pair into a geohash of the given precision
// (1-12 characters) by interleaving longitude and latitude bisection bits.
func Encode(lat, lng float64, precision int) string {
	if precision < 1 {
		precision = 1
	}
	if precision > 12 {
		precision = 12
	}

	latRange := [2]float64{-90.0, 90.0}
	lngRange := [2]float64{-180.0, 180.0}

	hash := make([]byte, 0, precision)
	bits := 0
	bit := 0
	ch := 0

	for len(hash) < precision {
		if bit%2 == 0 {
			mid := (lngRange[0] + lngRange[1]) / 2
			if lng > mid {
				ch |= 1 << (4 - bits)
				lngRange[0] = mid
			} else {
				lngRange[1] = mid
			}
		} else {
			mid := (latRange[0] + latRange[1]) / 2
			if lat > mid {
				ch |= 1 << (4 - bits)
				latRange[0] = mid
			} else {
				latRange[1] = mid
			}
		}

		bits++
		if bits == 5 {
			hash = append(hash, base32[ch])
			bits = 0
			ch = 0
		}
		bit++
	}

	return string(hash)
}

// Decode returns the center point of the cell named by the geohash.
func Decode(hash string) (lat, lng float64) {
	minLat, minLng, maxLat, maxLng := CellBounds(hash)
	return (minLat + maxLat) / 2, (minLng + maxLng) / 2
}

// CellBounds returns the bounding box of a geohash cell as
// (minLat, minLng, maxLat, maxLng).
func CellBounds(hash string) (float64, float64, float64, float64) {
	latRange := [2]float64{-90.0, 90.0}
	lngRange := [2]float64{-180.0, 180.0}

	isLng := true
	for i := 0; i < len(hash); i++ {
		idx := indexOfBase32(hash[i])
		if idx == -1 {
			continue
		}

		for mask := 16; mask > 0; mask >>= 1 {
			if isLng {
				mid := (lngRange[0] + lngRange[1]) / 2
				if idx&mask != 0 {
					lngRange[0] = mid
				} else {
					lngRange[1] = mid
				}
			} else {
				mid := (latRange[0] + latRange[1]) / 2
				if idx&mask != 0 {
					latRange[0] = mid
				} else {
					latRange[1] = mid
				}
			}
			isLng = !isLng
		}
	}

	return latRange[0], lngRange[0], latRange[1], lngRange[1]
}

// Neighbors returns the up-to-8 cells surrounding a geohash at the same
// precision. Latitude is clamped at the poles and longitude wraps at the
// antimeridian, so cells on an edge can produce fewer than 8 distinct
// neighbors.
func Neighbors(hash string) []string {
	lat, lng := Decode(hash)
	precision := len(hash)

	minLat, minLng, maxLat, maxLng := CellBounds(hash)
	latDelta := maxLat - minLat
	lngDelta := maxLng - minLng

	neighbors := make([]string, 0, 8)
	for dLat := -1; dLat <= 1; dLat++ {
		for dLng := -1; dLng <= 1; dLng++ {
			if dLat == 0 && dLng == 0 {
				continue
			}
			nLat := lat + float64(dLat)*latDelta
			nLng := lng + float64(dLng)*lngDelta

			if nLat > 90 {
				nLat = 90
			}
			if nLat < -90 {
				nLat = -90
			}
			if nLng > 180 {
				nLng -= 360
			}
			if nLng < -180 {
				nLng += 360
			}

			neighbors = append(neighbors, Encode(nLat, nLng, precision))
		}
	}

	return neighbors
}

func indexOfBase32(ch byte) int {
	for i := 0; i < len(base32); i++ {
		if base32[i] == ch {
			return i
		}
	}
	return -1
}
