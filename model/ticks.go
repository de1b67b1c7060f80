package model

// roundest subdivisions first: whole bar of 4/4, quarter, eighth, triplet
// eighth, sixteenth...
var roundDivisors = []int{384, 192, 96, 48, 32, 24, 16, 12, 8, 6, 4, 3, 2, 1}

// RoundTick picks the most musically round tick in [lo, hi]. Among equally
// round candidates the one closest to near wins.
func RoundTick(lo, hi, near int) int {
	if lo < 0 {
		lo = 0
	}
	if hi < lo {
		return near
	}
	for _, d := range roundDivisors {
		first := (lo + d - 1) / d * d
		if first > hi {
			continue
		}
		best := first
		for c := first; c <= hi; c += d {
			if abs(c-near) < abs(best-near) {
				best = c
			}
		}
		return best
	}
	return near
}
