package spatial

import "math"

// DefaultHalfLifeHours is the default observation half-life. A report loses
// half its influence every 72 hours but never reaches exactly zero.
const DefaultHalfLifeHours = 72.0

// DecayWeight returns the exponential time-decay weight in (0, 1] for an
// observation of age (refTS - obsTS). Future-dated observations are clamped
// to age zero and weigh 1.0.
func DecayWeight(obsTS, refTS int64, halfLifeHours float64) float64 {
	ageHours := float64(refTS-obsTS) / 3600.0
	if ageHours < 0 {
		ageHours = 0
	}
	return math.Exp(-math.Ln2 * ageHours / halfLifeHours)
}
