package geo

import (
	"errors"
	"math"
	"strconv"
	"strings"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"
)

// The simulation itself runs in a flat local plane of meters. For map
// display and GeoJSON export, an Origin anchors that plane to geographic
// coordinates: local x is meters east of the origin, local y meters north.

// ErrInvalidCoordinates is returned when the coordinates are invalid
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// Origin is the geographic anchor of the local plane, EPSG:4326.
type Origin struct {
	Lon float64
	Lat float64
}

// ParseOrigin parses a "lon,lat" string into an Origin.
func ParseOrigin(coords string) (Origin, error) {
	coordsSplit := strings.Split(coords, ",")
	if len(coordsSplit) < 2 {
		return Origin{}, ErrInvalidCoordinates
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(coordsSplit[0]), 64)
	if err != nil {
		return Origin{}, ErrInvalidCoordinates
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(coordsSplit[1]), 64)
	if err != nil {
		return Origin{}, ErrInvalidCoordinates
	}
	return Origin{Lon: lon, Lat: lat}, nil
}

// ToLonLat converts a local plane position to geographic coordinates.
// The conversion goes through EPSG:3857 with the ground-distance scale
// factor at the origin latitude applied, so local meters stay true
// meters near the origin.
func (o Origin) ToLonLat(x, y float64) (lon, lat float64) {
	epsg := wgs84.EPSG()
	to3857 := epsg.Transform(4326, 3857)
	to4326 := epsg.Transform(3857, 4326)

	ex, ey, _ := to3857(o.Lon, o.Lat, 0)
	k := 1 / math.Cos(o.Lat*math.Pi/180)
	lon, lat, _ = to4326(ex+x*k, ey+y*k, 0)
	return lon, lat
}

// Point3857 projects geographic coordinates to an EPSG:3857 point.
func Point3857(longitude, latitude float64) geom.Point {
	epsg := wgs84.EPSG()
	f := epsg.Transform(4326, 3857)
	x, y, _ := f(longitude, latitude, 0)
	return geom.NewPoint(
		geom.Coordinates{
			XY: geom.XY{X: x, Y: y},
			Z:  0,
		},
	)
}
