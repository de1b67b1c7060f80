package model

import (
	"strings"

	"github.com/pkg/errors"
)

type ArtifactType int

const (
	PitchPattern ArtifactType = iota + 1
	RhythmPattern
	MelodyPattern
	Chord
	ChordProgression
)

var ErrUnknownArtifactType = errors.New("unknown artifact type")

var artifactTypeNames = map[ArtifactType]string{
	PitchPattern:     "PitchPattern",
	RhythmPattern:    "RhythmPattern",
	MelodyPattern:    "MelodyPattern",
	Chord:            "Chord",
	ChordProgression: "ChordProgression",
}

func (t ArtifactType) String() string {
	if name, ok := artifactTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// ParseArtifactType accepts the type name or a short alias such as "pitch".
func ParseArtifactType(s string) (ArtifactType, error) {
	lower := strings.ToLower(s)
	for t, name := range artifactTypeNames {
		if strings.ToLower(name) == lower || strings.TrimSuffix(strings.ToLower(name), "pattern") == lower {
			return t, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownArtifactType, "%q", s)
}

// ArtifactKey is the identity of an artifact: two artifacts are the same
// entity iff type and canonical value match.
type ArtifactKey struct {
	Type  ArtifactType
	Value string
}

func (k ArtifactKey) String() string {
	return k.Type.String() + ":" + k.Value
}

type Artifact struct {
	// assigned by a store, empty until persisted
	ID    string
	Type  ArtifactType
	Value string
}

func (a Artifact) Key() ArtifactKey {
	return ArtifactKey{Type: a.Type, Value: a.Value}
}

type Instance struct {
	Artifact  ArtifactKey
	SongID    uint32
	Version   int
	Voice     int
	StartTick int
	EndTick   int
	Notes     Notes
}
