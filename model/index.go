package model

import "time"

type FileNumToMidiPath = map[uint32]string

// SongSummary is what the index remembers about a song once it is mined.
type SongSummary struct {
	ID       uint32
	Name     string
	Notes    int
	Voices   int
	Bars     int
	Chords   int
	Duration time.Duration
}
