package utils

import (
	"strings"
	"testing"
)

const plantJSON = `{
	"name": "North Plant",
	"coordinates": [
		{"lat": 13.70, "lng": 100.50},
		{"lat": 13.70, "lng": 100.60},
		{"lat": 13.80, "lng": 100.60},
		{"lat": 13.80, "lng": 100.50}
	]
}`

func TestParseBoundary(t *testing.T) {
	b, err := ParseBoundary(plantJSON)
	if err != nil {
		t.Fatalf("ParseBoundary: %v", err)
	}
	if b.Name != "North Plant" {
		t.Errorf("name = %q, want North Plant", b.Name)
	}
}

func TestParseBoundaryErrors(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantMsg string
	}{
		{"garbage", "not json", "invalid boundary JSON"},
		{"too few points", `{"coordinates":[{"lat":1,"lng":1},{"lat":2,"lng":2}]}`, "at least 3 coordinates"},
		{"latitude out of range", `{"coordinates":[{"lat":91,"lng":0},{"lat":0,"lng":1},{"lat":1,"lng":0}]}`, "latitude"},
		{"longitude out of range", `{"coordinates":[{"lat":0,"lng":181},{"lat":0,"lng":1},{"lat":1,"lng":0}]}`, "longitude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBoundary(tt.raw)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %v, want mention of %q", err, tt.wantMsg)
			}
		})
	}
}

func TestBoundaryContains(t *testing.T) {
	b, err := ParseBoundary(plantJSON)
	if err != nil {
		t.Fatalf("ParseBoundary: %v", err)
	}

	tests := []struct {
		name     string
		lat, lng float64
		want     bool
	}{
		{"center of plant", 13.75, 100.55, true},
		{"just inside west edge", 13.75, 100.501, true},
		{"west of plant", 13.75, 100.40, false},
		{"north of plant", 13.90, 100.55, false},
		{"other side of the world", -13.75, -100.55, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Contains(tt.lat, tt.lng); got != tt.want {
				t.Errorf("Contains(%v, %v) = %v, want %v", tt.lat, tt.lng, got, tt.want)
			}
		})
	}
}
