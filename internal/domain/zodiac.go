package domain

import "fmt"

// Sign is one of the 12 zodiac signs, each spanning 30° of ecliptic longitude
// starting at Aries = 0°.
type Sign int

const (
	Aries Sign = iota
	Taurus
	Gemini
	Cancer
	Leo
	Virgo
	Libra
	Scorpio
	Sagittarius
	Capricorn
	Aquarius
	Pisces
)

// SignCount is the number of zodiac signs.
const SignCount = 12

var signNames = [SignCount]string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

// IsValid checks if the sign is in range.
func (s Sign) IsValid() bool {
	return s >= Aries && s <= Pisces
}

// String returns the sign name.
func (s Sign) String() string {
	if !s.IsValid() {
		return fmt.Sprintf("Sign(%d)", int(s))
	}
	return signNames[s]
}

// Element returns the classical element of the sign.
func (s Sign) Element() Element {
	return Element(int(s) % ElementCount)
}

// MarshalText encodes the sign as its name.
func (s Sign) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("invalid sign %d", int(s))
	}
	return []byte(signNames[s]), nil
}

// UnmarshalText decodes a sign name.
func (s *Sign) UnmarshalText(text []byte) error {
	for i, n := range signNames {
		if n == string(text) {
			*s = Sign(i)
			return nil
		}
	}
	return fmt.Errorf("unknown sign %q", string(text))
}

// Element is one of the four classical elements.
// Signs cycle Fire, Earth, Air, Water from Aries onward.
type Element int

const (
	Fire Element = iota
	Earth
	Air
	Water
)

// ElementCount is the number of elements.
const ElementCount = 4

var elementNames = [ElementCount]string{"Fire", "Earth", "Air", "Water"}

// Elements returns all elements in tie-break order.
func Elements() []Element {
	return []Element{Fire, Earth, Air, Water}
}

// String returns the element name.
func (e Element) String() string {
	if e < Fire || e > Water {
		return fmt.Sprintf("Element(%d)", int(e))
	}
	return elementNames[e]
}

// MarshalText encodes the element as its name.
func (e Element) MarshalText() ([]byte, error) {
	if e < Fire || e > Water {
		return nil, fmt.Errorf("invalid element %d", int(e))
	}
	return []byte(elementNames[e]), nil
}

// UnmarshalText decodes an element name.
func (e *Element) UnmarshalText(text []byte) error {
	for i, n := range elementNames {
		if n == string(text) {
			*e = Element(i)
			return nil
		}
	}
	return fmt.Errorf("unknown element %q", string(text))
}

// ElementTally holds per-element fractions of bodies (Fire, Earth, Air, Water).
type ElementTally struct {
	Fire  float64 `json:"fire"`
	Earth float64 `json:"earth"`
	Air   float64 `json:"air"`
	Water float64 `json:"water"`
}

// Get returns the fraction for an element.
func (t ElementTally) Get(e Element) float64 {
	switch e {
	case Fire:
		return t.Fire
	case Earth:
		return t.Earth
	case Air:
		return t.Air
	case Water:
		return t.Water
	}
	return 0
}
