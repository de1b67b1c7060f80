package model

import (
	"sort"

	"github.com/google/uuid"
)

type PitchBend struct {
	Tick  int
	Value int
}

type Note struct {
	// ID only tracks a note through one pipeline run. It is never persisted.
	ID uuid.UUID

	Pitch        int
	Volume       int
	StartTick    int
	EndTick      int
	Voice        int
	Instrument   int
	IsPercussion bool

	// only meaningful before simplification
	PitchBends []PitchBend
}

type Notes = []Note

func NewNote(pitch, volume, start, end, voice int) Note {
	return Note{
		ID:        uuid.New(),
		Pitch:     pitch,
		Volume:    volume,
		StartTick: start,
		EndTick:   end,
		Voice:     voice,
	}
}

func (n Note) Duration() int {
	return n.EndTick - n.StartTick
}

// Clone keeps the ID so provenance survives the copy.
func (n Note) Clone() Note {
	c := n
	if n.PitchBends != nil {
		c.PitchBends = make([]PitchBend, len(n.PitchBends))
		copy(c.PitchBends, n.PitchBends)
	}
	return c
}

func (n Note) Overlaps(o Note) bool {
	return n.StartTick < o.EndTick && o.StartTick < n.EndTick
}

// OverlapTicks is how many ticks both notes sound together.
func (n Note) OverlapTicks(o Note) int {
	start := n.StartTick
	if o.StartTick > start {
		start = o.StartTick
	}
	end := n.EndTick
	if o.EndTick < end {
		end = o.EndTick
	}
	if end < start {
		return 0
	}
	return end - start
}

// IsSimultaneous means both notes start and end together, give or take
// tolerance ticks.
func (n Note) IsSimultaneous(o Note, tolerance int) bool {
	return abs(n.StartTick-o.StartTick) <= tolerance && abs(n.EndTick-o.EndTick) <= tolerance
}

func CloneNotes(notes Notes) Notes {
	res := make(Notes, len(notes))
	for i, n := range notes {
		res[i] = n.Clone()
	}
	return res
}

// SortByStart orders by start tick, then highest pitch first, then shortest.
func SortByStart(notes Notes) {
	sort.SliceStable(notes, func(i, j int) bool {
		a, b := notes[i], notes[j]
		if a.StartTick != b.StartTick {
			return a.StartTick < b.StartTick
		}
		if a.Pitch != b.Pitch {
			return a.Pitch > b.Pitch
		}
		return a.EndTick < b.EndTick
	})
}

// GroupByVoice returns the notes of every voice, keyed by voice number.
func GroupByVoice(notes Notes) map[int]Notes {
	res := make(map[int]Notes)
	for _, n := range notes {
		res[n.Voice] = append(res[n.Voice], n)
	}
	return res
}

// VoiceNumbers returns the distinct voice numbers in ascending order.
func VoiceNumbers(notes Notes) []int {
	seen := make(map[int]bool)
	var res []int
	for _, n := range notes {
		if !seen[n.Voice] {
			seen[n.Voice] = true
			res = append(res, n.Voice)
		}
	}
	sort.Ints(res)
	return res
}

func LastEndTick(notes Notes) int {
	var last int
	for _, n := range notes {
		if n.EndTick > last {
			last = n.EndTick
		}
	}
	return last
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
