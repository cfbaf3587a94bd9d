package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/sirupsen/logrus"
)

// Coordinate is one vertex of the plant boundary polygon.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Boundary is the polygonal plant area permits are expected to fall
// inside. Purely advisory: a permit outside the boundary is flagged on
// review, never blocked.
type Boundary struct {
	Name    string
	polygon orb.Polygon
}

// ParseBoundary builds a Boundary from the JSON form
// {"name": "...", "coordinates": [{"lat": .., "lng": ..}, ...]}.
func ParseBoundary(raw string) (*Boundary, error) {
	var payload struct {
		Name        string       `json:"name"`
		Coordinates []Coordinate `json:"coordinates"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("invalid boundary JSON: %w", err)
	}
	if len(payload.Coordinates) < 3 {
		return nil, errors.New("boundary needs at least 3 coordinates to form a polygon")
	}
	for i, c := range payload.Coordinates {
		if c.Lat < -90 || c.Lat > 90 {
			return nil, fmt.Errorf("coordinate %d: latitude %.6f out of range [-90, 90]", i, c.Lat)
		}
		if c.Lng < -180 || c.Lng > 180 {
			return nil, fmt.Errorf("coordinate %d: longitude %.6f out of range [-180, 180]", i, c.Lng)
		}
	}

	ring := make(orb.Ring, 0, len(payload.Coordinates)+1)
	for _, c := range payload.Coordinates {
		ring = append(ring, orb.Point{c.Lng, c.Lat})
	}
	// Close the ring when the input polygon is open.
	if ring[0] != ring[len(ring)-1] {
		ring = append(ring, ring[0])
	}

	return &Boundary{
		Name:    payload.Name,
		polygon: orb.Polygon{ring},
	}, nil
}

// Contains reports whether the point lies inside the boundary polygon.
func (b *Boundary) Contains(lat, lng float64) bool {
	return planar.PolygonContains(b.polygon, orb.Point{lng, lat})
}

var (
	boundaryOnce sync.Once
	boundary     *Boundary
)

// PlantBoundary returns the boundary configured through PLANT_BOUNDARY,
// or nil when none is set (the geofence advisory is then skipped).
func PlantBoundary() *Boundary {
	boundaryOnce.Do(func() {
		raw := os.Getenv("PLANT_BOUNDARY")
		if raw == "" {
			return
		}
		b, err := ParseBoundary(raw)
		if err != nil {
			logrus.WithError(err).Warn("Ignoring PLANT_BOUNDARY")
			return
		}
		boundary = b
	})
	return boundary
}
