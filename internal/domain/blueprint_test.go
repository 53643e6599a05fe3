package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlueprint_Planet(t *testing.T) {
	bp := &Blueprint{Planets: []PlanetPosition{
		{Body: Sun, Longitude: 161.5},
		{Body: Moon, Longitude: 20},
	}}

	sun, ok := bp.Planet(Sun)
	assert.True(t, ok)
	assert.Equal(t, 161.5, sun.Longitude)

	_, ok = bp.Planet(Pluto)
	assert.False(t, ok)

	for _, body := range []Body{Body(-1), Body(BodyCount)} {
		assert.NotPanics(t, func() {
			_, ok := bp.Planet(body)
			assert.False(t, ok)
		})
	}

	var empty *Blueprint
	_, ok = empty.Planet(Sun)
	assert.False(t, ok)
}
