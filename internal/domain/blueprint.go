package domain

import "time"

// PlanetPosition is a body's placement in a Blueprint.
type PlanetPosition struct {
	Body             Body    `json:"name"`
	Longitude        float64 `json:"ecliptic_longitude"` // [0, 360)
	Sign             Sign    `json:"sign"`
	DegreeWithinSign float64 `json:"degree"`        // [0, 30)
	House            int     `json:"house"`         // [1, 12]
	Speed            float64 `json:"angular_speed"` // degrees per hour, signed
	Retrograde       bool    `json:"is_retrograde"`
}

// AspectType names one entry of the aspect catalog.
type AspectType string

const (
	AspectConjunction AspectType = "Conjunction"
	AspectOpposition  AspectType = "Opposition"
	AspectTrine       AspectType = "Trine"
	AspectSquare      AspectType = "Square"
	AspectSextile     AspectType = "Sextile"
)

// String returns the string representation of AspectType.
func (a AspectType) String() string {
	return string(a)
}

// AspectRelation is an angular relationship between two bodies.
// In synastry BodyA belongs to profile 1 and BodyB to profile 2.
type AspectRelation struct {
	BodyA    Body       `json:"body_a"`
	BodyB    Body       `json:"body_b"`
	Type     AspectType `json:"aspect_type"`
	Orb      float64    `json:"orb"` // |separation - exact angle|
	Applying bool       `json:"is_applying"`
}

// HouseCusps are the 12 house boundaries; index 0 is the cusp of house 1.
type HouseCusps [12]float64

// Blueprint is the immutable computed chart of one BirthInput.
type Blueprint struct {
	Input      BirthInput `json:"input"`
	InstantUTC time.Time  `json:"instant_utc"`
	Timezone   string     `json:"timezone"`

	Planets []PlanetPosition `json:"planets"` // BodyCount entries in Body order
	Aspects []AspectRelation `json:"aspects"`

	LocalSiderealTime float64    `json:"local_sidereal_time"`
	Ascendant         float64    `json:"ascendant"`
	Midheaven         float64    `json:"midheaven"`
	AscendantSign     Sign       `json:"ascendant_sign"`
	MidheavenSign     Sign       `json:"midheaven_sign"`
	HouseCusps        HouseCusps `json:"house_cusps"`

	ElementTally      ElementTally `json:"element_tally"`
	HouseDistribution [12]float64  `json:"house_distribution"`
}

// Planet returns the position of a body, or false when the Blueprint lacks it.
func (b *Blueprint) Planet(body Body) (PlanetPosition, bool) {
	if b == nil {
		return PlanetPosition{}, false
	}
	if body.IsValid() && int(body) < len(b.Planets) && b.Planets[body].Body == body {
		return b.Planets[body], true
	}
	for _, p := range b.Planets {
		if p.Body == body {
			return p, true
		}
	}
	return PlanetPosition{}, false
}

// Clone returns a deep copy.
func (b *Blueprint) Clone() *Blueprint {
	if b == nil {
		return nil
	}
	c := *b
	c.Planets = append([]PlanetPosition(nil), b.Planets...)
	if b.Aspects != nil {
		c.Aspects = append([]AspectRelation{}, b.Aspects...)
	}
	return &c
}

// SkySnapshot is the current position of every body, streamed as transits.
type SkySnapshot struct {
	At      time.Time        `json:"at"`
	Planets []PlanetPosition `json:"planets"` // House is 0: no observer frame
}
