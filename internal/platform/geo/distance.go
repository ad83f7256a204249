package geo

import "math"

const (
	earthRadiusMiles = 3958.8
	earthRadiusKm    = 6371.0
)

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// FromLngLat builds a point from the [lng, lat] pair returned by geocoders.
func FromLngLat(pair [2]float64) Point {
	return Point{Lat: pair[1], Lng: pair[0]}
}

// LngLat returns the point in [lng, lat] order.
func (p Point) LngLat() [2]float64 {
	return [2]float64{p.Lng, p.Lat}
}

// Valid reports whether the point is inside the lat/lng domain and not the zero value.
func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) {
		return false
	}
	if p.Lat == 0 && p.Lng == 0 {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// DistanceMiles returns the great-circle distance between a and b in miles.
func DistanceMiles(a, b Point) float64 {
	return haversine(a, b) * earthRadiusMiles
}

// DistanceKm returns the great-circle distance between a and b in kilometres.
func DistanceKm(a, b Point) float64 {
	return haversine(a, b) * earthRadiusKm
}

func haversine(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	deltaLat := (b.Lat - a.Lat) * math.Pi / 180
	deltaLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(deltaLng/2)*math.Sin(deltaLng/2)
	return 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
