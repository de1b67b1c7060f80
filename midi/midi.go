package midi

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jsphweid/motifdex/model"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"
)

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	var blank smf.SMF

	dat, err := os.ReadFile(filepath)
	if err != nil {
		return &blank, errors.Wrap(err, "Error reading midi file")
	}
	return ReadMidi(bytes.NewReader(dat))
}

func ReadMidi(r io.Reader) (s *smf.SMF, e error) {
	var blank smf.SMF

	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if rec := recover(); rec != nil {
			s = &blank
			e = errors.New(fmt.Sprintf("Error parsing midi file... %v", rec))
		}
	}()

	res, err := smf.ReadFrom(r)
	if err != nil {
		return &blank, errors.Wrap(err, "Error parsing midi file")
	}
	return res, nil
}

// LoadSong decodes a file into a song holding only the raw (version 0)
// simplification.
func LoadSong(id uint32, path string) (model.Song, error) {
	parsed, err := ReadMidiFile(path)
	if err != nil {
		return model.Song{}, err
	}
	return SongFromSMF(id, filepath.Base(path), parsed)
}

func SongFromSMF(id uint32, name string, parsed *smf.SMF) (model.Song, error) {
	notes, bars, err := Decode(parsed)
	if err != nil {
		return model.Song{}, errors.Wrapf(err, "could not decode %v", name)
	}
	raw := model.SongSimplification{
		Version:    0,
		Notes:      notes,
		VoiceCount: len(model.VoiceNumbers(notes)),
	}
	return model.Song{
		ID:              id,
		Name:            name,
		Bars:            bars,
		Simplifications: []model.SongSimplification{raw},
	}, nil
}
