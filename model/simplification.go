package model

import "github.com/pkg/errors"

var ErrUnknownVersion = errors.New("song has no simplification with that version")

// SongSimplification is an immutable snapshot: a new version is always a new
// value.
type SongSimplification struct {
	Version    int
	VoiceCount int
	Notes      Notes
}

type Song struct {
	ID              uint32
	Name            string
	Bars            []Bar
	Simplifications []SongSimplification
}

func (s Song) Simplification(version int) (SongSimplification, bool) {
	for _, simp := range s.Simplifications {
		if simp.Version == version {
			return simp, true
		}
	}
	return SongSimplification{}, false
}

func (s Song) MustSimplification(version int) (SongSimplification, error) {
	simp, ok := s.Simplification(version)
	if !ok {
		return simp, errors.Wrapf(ErrUnknownVersion, "song %v version %v", s.ID, version)
	}
	return simp, nil
}
