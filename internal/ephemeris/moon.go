package ephemeris

import (
	"math"

	"cosmic-blueprint/internal/angle"
)

// Days from JD to 2000 Jan 0.0 UT, the epoch of the lunar elements.
const lunarEpochJD = 2451543.5

// moonPerturbation is one periodic longitude term:
// amplitude · sin(cM·Mm + cS·Ms + cD·D + cF·F).
type moonPerturbation struct {
	amplitude      float64
	cM, cS, cD, cF float64
}

// The twelve largest periodic terms of lunar longitude (degrees).
var moonPerturbations = []moonPerturbation{
	{-1.274, 1, 0, -2, 0}, // evection
	{+0.658, 0, 0, 2, 0},  // variation
	{-0.186, 0, 1, 0, 0},  // yearly equation
	{-0.059, 2, 0, -2, 0},
	{-0.057, 1, 1, -2, 0},
	{+0.053, 1, 0, 2, 0},
	{+0.046, 0, -1, 2, 0},
	{+0.041, 1, -1, 0, 0},
	{-0.035, 0, 0, 1, 0}, // parallactic equation
	{-0.031, 1, 1, 0, 0},
	{-0.015, 0, 0, -2, 2},
	{+0.011, 1, 0, -4, 0},
}

// moonLongitude returns the geocentric ecliptic longitude of the Moon.
func moonLongitude(jd float64) (float64, error) {
	d := jd - lunarEpochJD

	node := 125.1228 - 0.0529538083*d
	inc := 5.1454
	argPeri := 318.0634 + 0.1643573223*d
	const a = 60.2666 // Earth radii
	const e = 0.054900
	meanAnomaly := angle.Normalize(115.3654 + 13.0649929509*d)

	E, err := solveKepler(angle.Radians(meanAnomaly), e)
	if err != nil {
		return 0, err
	}

	xp := a * (math.Cos(E) - e)
	yp := a * math.Sqrt(1-e*e) * math.Sin(E)
	pos := rotateToEcliptic(xp, yp, angle.Radians(argPeri), angle.Radians(node), angle.Radians(inc))
	lon := angle.Degrees(math.Atan2(pos.y, pos.x))

	sunMeanAnomaly := 356.0470 + 0.9856002585*d
	sunMeanLon := 282.9404 + 4.70935e-5*d + sunMeanAnomaly
	moonMeanLon := node + argPeri + meanAnomaly
	elongation := moonMeanLon - sunMeanLon
	latArg := moonMeanLon - node

	for _, p := range moonPerturbations {
		arg := p.cM*meanAnomaly + p.cS*sunMeanAnomaly + p.cD*elongation + p.cF*latArg
		lon += p.amplitude * math.Sin(angle.Radians(arg))
	}

	return angle.Normalize(lon), nil
}
