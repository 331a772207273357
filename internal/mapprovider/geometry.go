package mapprovider

// pointAlongVertices interpolates by polyline-vertex index fraction
// distanceMiles/totalMiles, shared by every Provider implementation so
// the clamping and degenerate-geometry rules live in exactly one place.
func pointAlongVertices(geometry [][2]float64, distanceMiles, totalMiles float64) (lat, lng float64) {
	if len(geometry) == 0 {
		return 0, 0
	}
	if len(geometry) == 1 {
		return geometry[0][1], geometry[0][0]
	}

	frac := 0.0
	if totalMiles > 0 {
		frac = distanceMiles / totalMiles
	}
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}

	lastIdx := len(geometry) - 1
	pos := frac * float64(lastIdx)
	idx := int(pos)
	if idx >= lastIdx {
		v := geometry[lastIdx]
		return v[1], v[0]
	}

	t := pos - float64(idx)
	a, b := geometry[idx], geometry[idx+1]
	lng = a[0] + (b[0]-a[0])*t
	lat = a[1] + (b[1]-a[1])*t
	return lat, lng
}
