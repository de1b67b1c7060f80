// Package artifact canonicalizes mined musical units and collects every
// place they occur.
package artifact

import (
	"strings"

	"github.com/jsphweid/motifdex/config"
	"github.com/jsphweid/motifdex/model"
	"github.com/jsphweid/motifdex/token"
	"github.com/jsphweid/motifdex/util"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// IsTokenType reports whether t can be mined from symbol strings.
func IsTokenType(t model.ArtifactType) bool {
	return t == model.PitchPattern || t == model.RhythmPattern || t == model.MelodyPattern
}

// MineTokenPatterns finds every run of minLen to maxLen notes that recurs in
// the melodic voices of one simplification. Runs that canonicalize alike are
// one artifact; artifacts seen fewer than MinArtifactOccurrences times are
// dropped.
func MineTokenPatterns(song model.Song, version int, t model.ArtifactType, minLen, maxLen int, tuning config.Tuning) (Collection, error) {
	if !IsTokenType(t) {
		return nil, errors.Wrapf(model.ErrUnknownArtifactType, "%v is not a token pattern", t)
	}
	simp, err := song.MustSimplification(version)
	if err != nil {
		return nil, err
	}

	res := make(Collection)
	byVoice := model.GroupByVoice(simp.Notes)
	for _, v := range model.VoiceNumbers(simp.Notes) {
		voiceNotes := byVoice[v]
		if voiceNotes[0].IsPercussion {
			continue
		}
		line := token.MelodyLine(voiceNotes)
		found := token.FindRepeats(token.Tokenize(line, t), minLen, maxLen)
		for _, key := range util.GetKeys(found) {
			length := strings.Count(key, token.Separator) + 1
			a := Canonicalize(model.Artifact{Type: t, Value: token.Rebase(key, t)}, tuning)
			for _, offset := range found[key] {
				span := token.Span(line, offset, length)
				if len(span) == 0 {
					continue
				}
				res.Add(a, model.Instance{
					SongID:    song.ID,
					Version:   version,
					Voice:     v,
					StartTick: span[0].StartTick,
					EndTick:   span[len(span)-1].EndTick,
					Notes:     span,
				})
			}
		}
	}
	res.Prune(tuning.MinArtifactOccurrences)

	logrus.WithFields(logrus.Fields{
		"song":      song.ID,
		"version":   version,
		"type":      t.String(),
		"artifacts": len(res),
	}).Debug("mined token patterns")
	return res, nil
}
