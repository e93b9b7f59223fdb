package geo

import "math"

// earthRadius is the mean Earth radius in meters.
const earthRadius = 6371000.0

// Distance returns the great-circle distance in meters between two
// latitude/longitude points, computed with the haversine formula.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadius * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// WithinGeofence reports whether point (lat, lon) lies inside the disk of
// radiusMeters around the center. The boundary itself is outside: a point at
// exactly radiusMeters is rejected.
func WithinGeofence(lat, lon, centerLat, centerLon, radiusMeters float64) bool {
	return Distance(lat, lon, centerLat, centerLon) < radiusMeters
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
