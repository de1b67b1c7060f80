// Package simplify turns decoded notes into progressively simpler versions of
// a song. Version 0 is the raw decode, version 1 is quantized and split into
// monophonic voices, and each later version drops more detail.
package simplify

import (
	"github.com/jsphweid/motifdex/config"
	"github.com/jsphweid/motifdex/model"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const MaxVersion = 3

var ErrNoFurtherSimplification = errors.New("no further simplification available")

type stage struct {
	name string
	run  func(model.Notes) model.Notes
}

func baseStages(bars []model.Bar, t config.Tuning) []stage {
	return []stage{
		{"flatten bends", func(n model.Notes) model.Notes { return FlattenBends(n, t) }},
		{"quantize", func(n model.Notes) model.Notes { return Quantize(n, bars, t) }},
		{"correct timing", func(n model.Notes) model.Notes { return CorrectTiming(n, t) }},
		{"remove duplicates", func(n model.Notes) model.Notes { return RemoveDuplicates(n, t) }},
		{"split voices", func(n model.Notes) model.Notes { return SplitVoices(n, t) }},
		{"clip to last bar", func(n model.Notes) model.Notes { return ClipToLastBar(n, bars) }},
		{"reorder voices", ReorderVoices},
	}
}

func newSimplification(version int, notes model.Notes) model.SongSimplification {
	return model.SongSimplification{
		Version:    version,
		VoiceCount: len(model.VoiceNumbers(notes)),
		Notes:      notes,
	}
}

// Raw wraps decoded notes as version 0.
func Raw(notes model.Notes) model.SongSimplification {
	res := model.CloneNotes(notes)
	model.SortByStart(res)
	return newSimplification(0, res)
}

// Next derives the version after prev. prev is never modified.
func Next(prev model.SongSimplification, bars []model.Bar, t config.Tuning) (model.SongSimplification, error) {
	version := prev.Version + 1
	var notes model.Notes
	switch prev.Version {
	case 0:
		notes = model.CloneNotes(prev.Notes)
		for _, s := range baseStages(bars, t) {
			notes = s.run(notes)
			logrus.WithFields(logrus.Fields{
				"stage": s.name,
				"notes": len(notes),
			}).Debug("stage done")
		}
	case 1:
		notes = RemoveOrnaments(prev.Notes, t)
	case 2:
		notes = ReduceToMelody(prev.Notes)
	default:
		return model.SongSimplification{}, errors.Wrapf(ErrNoFurtherSimplification, "version %v", prev.Version)
	}
	warnZeroLength(notes, version)
	return newSimplification(version, notes), nil
}

// Simplify builds the requested version starting from the raw notes.
func Simplify(notes model.Notes, bars []model.Bar, version int, t config.Tuning) (model.SongSimplification, error) {
	if version < 0 || version > MaxVersion {
		return model.SongSimplification{}, errors.Wrapf(ErrNoFurtherSimplification, "version %v", version)
	}
	res := Raw(notes)
	for res.Version < version {
		var err error
		if res, err = Next(res, bars, t); err != nil {
			return model.SongSimplification{}, err
		}
	}
	return res, nil
}

// SimplifySong adds every missing version up to and including version to the
// song, building each one from the one before.
func SimplifySong(song model.Song, version int, t config.Tuning) (model.Song, error) {
	if version > MaxVersion {
		return song, errors.Wrapf(ErrNoFurtherSimplification, "version %v", version)
	}
	prev, ok := song.Simplification(0)
	if !ok {
		return song, errors.Wrapf(model.ErrUnknownVersion, "song %v has no raw notes", song.ID)
	}
	res := song
	res.Simplifications = append([]model.SongSimplification(nil), song.Simplifications...)
	for v := 1; v <= version; v++ {
		if existing, ok := res.Simplification(v); ok {
			prev = existing
			continue
		}
		next, err := Next(prev, song.Bars, t)
		if err != nil {
			return song, err
		}
		res.Simplifications = append(res.Simplifications, next)
		prev = next
	}
	return res, nil
}

func warnZeroLength(notes model.Notes, version int) {
	var count int
	for _, n := range notes {
		if n.Duration() <= 0 {
			count++
		}
	}
	if count > 0 {
		logrus.WithFields(logrus.Fields{
			"version": version,
			"count":   count,
		}).Warn("simplification produced zero length notes")
	}
}
