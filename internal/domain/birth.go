package domain

import "time"

// BirthInput is the validated birth data a Blueprint is computed from.
// Date is YYYY-MM-DD, Time is HH:MM or HH:MM:SS in local civil time.
// Timezone is an optional IANA name; when empty it is resolved from coordinates.
type BirthInput struct {
	Date      string  `json:"date"`
	Time      string  `json:"time"`
	Location  string  `json:"location"`
	Latitude  float64 `json:"latitude"`  // [-90, 90]
	Longitude float64 `json:"longitude"` // [-180, 180]
	Timezone  string  `json:"timezone,omitempty"`
}

// ResolvedInstant is the absolute UTC instant of a BirthInput.
type ResolvedInstant struct {
	UTC      time.Time // absolute instant, location UTC
	Timezone string    // IANA zone used for the conversion
	Fallback bool      // true when no zone could be resolved and UTC was assumed
}
