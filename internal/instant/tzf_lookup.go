package instant

import (
	"errors"
	"fmt"

	"github.com/ringsaturn/tzf"
)

// ErrZoneNotFound is returned when no timezone polygon contains the coordinates.
var ErrZoneNotFound = errors.New("timezone not found for coordinates")

// TZFLookup resolves timezones from the embedded tzf polygon data.
type TZFLookup struct {
	finder tzf.F
}

// NewTZFLookup loads the default tzf finder. Loading takes a moment and
// should happen once per process.
func NewTZFLookup() (*TZFLookup, error) {
	finder, err := tzf.NewDefaultFinder()
	if err != nil {
		return nil, fmt.Errorf("load tzf finder: %w", err)
	}
	return &TZFLookup{finder: finder}, nil
}

// TimezoneName returns the IANA name for the coordinates.
func (l *TZFLookup) TimezoneName(lat, lon float64) (string, error) {
	name := l.finder.GetTimezoneName(lon, lat)
	if name == "" {
		return "", ErrZoneNotFound
	}
	return name, nil
}

var _ ZoneLookup = (*TZFLookup)(nil)
