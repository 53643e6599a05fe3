package domain

import "fmt"

// Body identifies a tracked celestial body.
// The numeric value is the body's fixed position in every Blueprint.
type Body int

const (
	Sun Body = iota
	Moon
	Mercury
	Venus
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Pluto
)

// BodyCount is the number of bodies in a Blueprint.
const BodyCount = 10

var bodyNames = [BodyCount]string{
	"Sun", "Moon", "Mercury", "Venus", "Mars",
	"Jupiter", "Saturn", "Uranus", "Neptune", "Pluto",
}

// Bodies returns all bodies in Blueprint order.
func Bodies() []Body {
	out := make([]Body, BodyCount)
	for i := range out {
		out[i] = Body(i)
	}
	return out
}

// IsValid checks if the body is one of the tracked bodies.
func (b Body) IsValid() bool {
	return b >= Sun && b <= Pluto
}

// String returns the body name.
func (b Body) String() string {
	if !b.IsValid() {
		return fmt.Sprintf("Body(%d)", int(b))
	}
	return bodyNames[b]
}

// MarshalText encodes the body as its name.
func (b Body) MarshalText() ([]byte, error) {
	if !b.IsValid() {
		return nil, fmt.Errorf("invalid body %d", int(b))
	}
	return []byte(bodyNames[b]), nil
}

// UnmarshalText decodes a body name.
func (b *Body) UnmarshalText(text []byte) error {
	parsed, err := ParseBody(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// ParseBody returns the body with the given name.
func ParseBody(name string) (Body, error) {
	for i, n := range bodyNames {
		if n == name {
			return Body(i), nil
		}
	}
	return 0, fmt.Errorf("unknown body %q", name)
}
