package domain

import "math"

func degToRad(d float64) float64 {
	return d * math.Pi / 180.0
}

func radToDeg(r float64) float64 {
	return 180.0 * r / math.Pi
}

// ComputeBearing returns the initial compass bearing (forward azimuth) from origin
// to destination in degrees, normalized into [0, 360).
//
// https://www.movable-type.co.uk/scripts/latlong.html
func ComputeBearing(origin, destination Coordinates) float64 {
	// Identical points have no direction; report north.
	if origin == destination {
		return 0
	}

	lat1 := degToRad(origin.Lat)
	lat2 := degToRad(destination.Lat)
	dLon := degToRad(destination.Lon - origin.Lon)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)

	return math.Mod(radToDeg(math.Atan2(y, x))+360, 360)
}
