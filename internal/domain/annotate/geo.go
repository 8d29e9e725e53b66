package annotate

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

const metersPerMile = 1609.344

// Coordinates is a latitude/longitude pair in degrees.
type Coordinates struct {
	Lat float64 `yaml:"lat" json:"lat"`
	Lon float64 `yaml:"lon" json:"lon"`
}

// Point converts to an orb point, which is ordered lon/lat.
func (c Coordinates) Point() orb.Point {
	return orb.Point{c.Lon, c.Lat}
}

// Miles is the great-circle distance between a and b.
func Miles(a, b Coordinates) float64 {
	return geo.DistanceHaversine(a.Point(), b.Point()) / metersPerMile
}
