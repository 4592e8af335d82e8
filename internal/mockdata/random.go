package mockdata

import "math"

const (
	lcgMultiplier = 9301
	lcgIncrement  = 49297
	lcgModulus    = 233280
)

// SeededRandom is a linear congruential generator producing a reproducible
// sequence for a given seed. It is not safe for concurrent use; construct one
// per dataset build.
type SeededRandom struct {
	state int64
}

// NewSeededRandom creates a generator. Seeds outside [0, 233280) are reduced
// into that range, which leaves the produced sequence unchanged.
func NewSeededRandom(seed int64) *SeededRandom {
	state := seed % lcgModulus
	if state < 0 {
		state += lcgModulus
	}
	return &SeededRandom{state: state}
}

// Next advances the state and returns a float in [0, 1).
func (r *SeededRandom) Next() float64 {
	r.state = (r.state*lcgMultiplier + lcgIncrement) % lcgModulus
	return float64(r.state) / lcgModulus
}

// NextInt returns an integer in [min, max] inclusive.
func (r *SeededRandom) NextInt(min, max int) int {
	if max < min {
		min, max = max, min
	}
	return int(math.Floor(r.Next()*float64(max-min+1))) + min
}

// NextFloat returns a float in [min, max).
func (r *SeededRandom) NextFloat(min, max float64) float64 {
	return r.Next()*(max-min) + min
}

// Choice returns a uniformly drawn element of list. An empty list yields ""
// without advancing the generator.
func (r *SeededRandom) Choice(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[r.NextInt(0, len(list)-1)]
}
