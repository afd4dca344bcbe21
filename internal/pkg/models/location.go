package models

import "time"

// Coordinate is a WGS84 latitude/longitude pair.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinate is inside the WGS84 range.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// Location is a coordinate with an optional human-readable address.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

// Coordinate strips the address off a location.
func (l Location) Coordinate() Coordinate {
	return Coordinate{Latitude: l.Latitude, Longitude: l.Longitude}
}

// DriverPresence is the ephemeral connectivity record of one driver.
type DriverPresence struct {
	DriverID  string     `json:"driver_id"`
	IsOnline  bool       `json:"is_online"`
	Location  Coordinate `json:"location"`
	Geohash   string     `json:"geohash,omitempty"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NearbyDriver is one proximity query result.
type NearbyDriver struct {
	DriverID       string  `json:"driver_id"`
	DistanceMeters float64 `json:"distance_meters"`
}
