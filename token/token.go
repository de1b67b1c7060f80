// Package token projects a monophonic line of notes onto symbol strings and
// finds every repeated run of symbols.
package token

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jsphweid/motifdex/model"
)

const Separator = ","

// MelodyLine keeps the highest note of every onset so each symbol maps to
// exactly one note.
func MelodyLine(notes model.Notes) model.Notes {
	sorted := model.CloneNotes(notes)
	model.SortByStart(sorted)
	var res model.Notes
	for i, n := range sorted {
		// SortByStart puts the highest pitch first
		if i > 0 && sorted[i-1].StartTick == n.StartTick {
			continue
		}
		res = append(res, n)
	}
	return res
}

// Tokenize turns a melody line into one symbol per note. Pitch patterns start
// with "0" and continue with semitone steps, rhythm patterns are tick
// durations and melody patterns pair both as "(step-duration)".
func Tokenize(notes model.Notes, t model.ArtifactType) []string {
	res := make([]string, 0, len(notes))
	for i, n := range notes {
		delta := 0
		if i > 0 {
			delta = n.Pitch - notes[i-1].Pitch
		}
		switch t {
		case model.PitchPattern:
			res = append(res, strconv.Itoa(delta))
		case model.RhythmPattern:
			res = append(res, strconv.Itoa(n.Duration()))
		case model.MelodyPattern:
			res = append(res, MelodySymbol(delta, n.Duration()))
		default:
			return nil
		}
	}
	return res
}

func MelodySymbol(delta, duration int) string {
	return fmt.Sprintf("(%v-%v)", delta, duration)
}

// ParseMelodySymbol reverses MelodySymbol.
func ParseMelodySymbol(s string) (delta, duration int, ok bool) {
	inner := strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	sep := strings.LastIndex(inner, "-")
	if sep <= 0 || len(inner) == len(s) {
		return 0, 0, false
	}
	var err error
	if delta, err = strconv.Atoi(inner[:sep]); err != nil {
		return 0, 0, false
	}
	if duration, err = strconv.Atoi(inner[sep+1:]); err != nil {
		return 0, 0, false
	}
	return delta, duration, true
}

// FindRepeats maps every distinct run of minLen to maxLen symbols to every
// offset it starts at, overlapping occurrences included. Runs occurring only
// once are kept too.
func FindRepeats(symbols []string, minLen, maxLen int) map[string][]int {
	res := make(map[string][]int)
	if minLen < 1 || maxLen < minLen {
		return res
	}
	for length := minLen; length <= maxLen && length <= len(symbols); length++ {
		for offset := 0; offset+length <= len(symbols); offset++ {
			key := strings.Join(symbols[offset:offset+length], Separator)
			res[key] = append(res[key], offset)
		}
	}
	return res
}

// Repeated drops the runs that occur only once.
func Repeated(found map[string][]int) map[string][]int {
	res := make(map[string][]int)
	for k, offsets := range found {
		if len(offsets) >= 2 {
			res[k] = offsets
		}
	}
	return res
}

// Span returns the notes realizing the run of length symbols at offset.
func Span(line model.Notes, offset, length int) model.Notes {
	if offset < 0 || length <= 0 || offset+length > len(line) {
		return nil
	}
	return model.CloneNotes(line[offset : offset+length])
}

// Rebase rewrites the first step of a pitch or melody run to 0 so the same
// shape found mid-line and at the start of a line reads the same.
func Rebase(key string, t model.ArtifactType) string {
	symbols := strings.Split(key, Separator)
	switch t {
	case model.PitchPattern:
		symbols[0] = "0"
	case model.MelodyPattern:
		if _, duration, ok := ParseMelodySymbol(symbols[0]); ok {
			symbols[0] = MelodySymbol(0, duration)
		}
	}
	return strings.Join(symbols, Separator)
}
