package location

import "time"

// Ping is one location sample taken while a work session is open.
type Ping struct {
	ID         string    `json:"id"`
	DeviceID   string    `json:"device_id"`
	ReportID   string    `json:"report_id"`
	Date       string    `json:"date"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Accuracy   float64   `json:"accuracy"`
	CapturedAt time.Time `json:"captured_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// Point is a polyline vertex.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Segment is the stay between a ping and its successor.
type Segment struct {
	From           Ping    `json:"from"`
	To             Ping    `json:"to"`
	DwellMinutes   float64 `json:"dwell_minutes"`
	DistanceMeters float64 `json:"distance_meters"`
	// Dwell is empty for stays under a minute.
	Dwell string `json:"dwell"`
}

// Trail is the reconstructed movement of one device.
type Trail struct {
	DeviceID            string    `json:"device_id"`
	UserName            *string   `json:"user_name,omitempty"`
	Current             Ping      `json:"current"`
	History             []Ping    `json:"history"`
	Segments            []Segment `json:"segments"`
	Polyline            []Point   `json:"polyline"`
	TotalDistanceMeters float64   `json:"total_distance_meters"`
}
