package artifact

import (
	"strconv"
	"strings"

	"github.com/jsphweid/motifdex/config"
	"github.com/jsphweid/motifdex/model"
	"github.com/jsphweid/motifdex/token"
	"github.com/jsphweid/motifdex/util"
)

// the stages never grow a value, this only bounds a broken input
const maxRounds = 32

// Canonicalize maps near-equivalent artifacts onto one value. The stages are
// run until the value stops changing, so canonical values are fixed points.
// This can go further than one pass: "20,22,24" divides down to "10,11,12",
// which the next pass collapses to "1".
func Canonicalize(a model.Artifact, t config.Tuning) model.Artifact {
	res := a
	for i := 0; i < maxRounds; i++ {
		next := canonicalizeOnce(res, t)
		if next.Value == res.Value {
			return next
		}
		res = next
	}
	return res
}

func canonicalizeOnce(a model.Artifact, t config.Tuning) model.Artifact {
	res := a
	switch a.Type {
	case model.RhythmPattern:
		durations, ok := parseInts(a.Value)
		if !ok {
			return a
		}
		durations = simplifyDurations(durations, t)
		res.Value = joinInts(shortestUnit(durations))
	case model.MelodyPattern:
		deltas, durations, ok := parseMelody(a.Value)
		if !ok {
			return a
		}
		durations = simplifyDurations(durations, t)
		symbols := make([]string, len(deltas))
		for i := range deltas {
			symbols[i] = token.MelodySymbol(deltas[i], durations[i])
		}
		res.Value = strings.Join(shortestUnit(symbols), token.Separator)
	case model.PitchPattern:
		symbols := strings.Split(a.Value, token.Separator)
		res.Value = strings.Join(shortestUnit(symbols), token.Separator)
	case model.Chord:
		pitches, ok := parseInts(a.Value)
		if !ok {
			return a
		}
		res.Value = ChordValue(pitches)
	}
	return res
}

// ChordValue is the ascending, duplicate free pitch list.
func ChordValue(pitches []int) string {
	set := make(map[int]bool)
	for _, p := range pitches {
		set[p] = true
	}
	return joinInts(util.GetKeys(set))
}

func simplifyDurations(durations []int, t config.Tuning) []int {
	res := collapseUniform(durations, t)
	res = roundToMultiples(res, t)
	return divideByGCD(res)
}

// collapseUniform treats durations that barely differ as equal.
func collapseUniform(durations []int, t config.Tuning) []int {
	if len(durations) == 0 {
		return durations
	}
	lo, hi := durations[0], durations[0]
	for _, d := range durations {
		if d <= t.UniformDurationFloor {
			return durations
		}
		lo, hi = util.Min(lo, d), util.Max(hi, d)
	}
	if hi-lo > t.UniformDurationSpread {
		return durations
	}
	res := make([]int, len(durations))
	for i := range res {
		res[i] = 1
	}
	return res
}

// roundToMultiples rounds stray durations down to a multiple of the shortest
// one when nearly all of them already are multiples.
func roundToMultiples(durations []int, t config.Tuning) []int {
	if len(durations) == 0 {
		return durations
	}
	shortest := durations[0]
	for _, d := range durations {
		shortest = util.Min(shortest, d)
	}
	if shortest <= 0 {
		return durations
	}
	var strays int
	for _, d := range durations {
		if d%shortest != 0 {
			strays++
		}
	}
	multiples := float64(len(durations)-strays) / float64(len(durations))
	if strays == 0 || (strays > 1 && multiples <= t.MultipleFraction) {
		return durations
	}
	res := make([]int, len(durations))
	for i, d := range durations {
		res[i] = d - d%shortest
	}
	return res
}

func divideByGCD(durations []int) []int {
	gcd := util.GCDAll(durations)
	if gcd <= 1 {
		return durations
	}
	res := make([]int, len(durations))
	for i, d := range durations {
		res[i] = d / gcd
	}
	return res
}

// shortestUnit returns the shortest prefix that repeats exactly to the end.
func shortestUnit[A comparable](seq []A) []A {
	n := len(seq)
	for size := 1; size < n; size++ {
		if n%size != 0 {
			continue
		}
		repeats := true
		for i := size; i < n; i++ {
			if seq[i] != seq[i%size] {
				repeats = false
				break
			}
		}
		if repeats {
			return seq[:size]
		}
	}
	return seq
}

func parseInts(value string) ([]int, bool) {
	if value == "" {
		return nil, false
	}
	parts := strings.Split(value, token.Separator)
	res := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, false
		}
		res[i] = v
	}
	return res, true
}

func parseMelody(value string) (deltas, durations []int, ok bool) {
	if value == "" {
		return nil, nil, false
	}
	for _, s := range strings.Split(value, token.Separator) {
		delta, duration, ok := token.ParseMelodySymbol(s)
		if !ok {
			return nil, nil, false
		}
		deltas = append(deltas, delta)
		durations = append(durations, duration)
	}
	return deltas, durations, true
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, token.Separator)
}
