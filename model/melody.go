package model

import (
	"fmt"
	"strings"
)

// NotesSlice is a window of one voice.
type NotesSlice struct {
	SongID    uint32
	Voice     int
	Bar       int
	Beat      int
	StartTick int
	EndTick   int
	Notes     Notes
}

func (s NotesSlice) Length() int {
	return s.EndTick - s.StartTick
}

// RelativeNote is a note seen from the start of its slice. DeltaPitch is
// measured from the previous note of the slice, so the first one is always 0.
type RelativeNote struct {
	Offset     int
	DeltaPitch int
	Duration   int
}

type MelodyMatch struct {
	Slice1        NotesSlice
	Slice2        NotesSlice
	Matches       int
	Differences   int
	AreTransposed bool
	// relative to the slice start
	StartTick int
	EndTick   int
	// index of the first matched note in each slice
	First1 int
	First2 int
}

// MelodyFigure is the transposition free shape of a melody match, filed in the
// catalog under its Key.
type MelodyFigure struct {
	Notes    []RelativeNote
	Duration int
}

func (p MelodyFigure) Key() string {
	parts := make([]string, len(p.Notes))
	for i, n := range p.Notes {
		parts[i] = fmt.Sprintf("%v:%v:%v", n.Offset, n.DeltaPitch, n.Duration)
	}
	return strings.Join(parts, ",") + fmt.Sprintf("|%v", p.Duration)
}

func (p MelodyFigure) LeadingRest() int {
	if len(p.Notes) == 0 {
		return 0
	}
	return p.Notes[0].Offset
}

type Occurrence struct {
	SongID    uint32
	Voice     int
	Bar       int
	Beat      int
	StartTick int
}
