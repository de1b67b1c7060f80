package cmd

import (
	"github.com/jsphweid/motifdex/artifact"
	"github.com/jsphweid/motifdex/chord"
	"github.com/jsphweid/motifdex/melody"
	"github.com/jsphweid/motifdex/model"
	"github.com/jsphweid/motifdex/simplify"
	"github.com/pkg/errors"
)

// melody matches are not artifacts, they live in a catalog
const melodyMatchType = "melodymatch"

type analysis struct {
	kind    string
	version int
	minLen  int
	maxLen  int
}

type analysisResult struct {
	song       model.Song
	simp       model.SongSimplification
	collection artifact.Collection
	catalog    *melody.Catalog
}

func (a analysis) lengths() (int, int) {
	minLen, maxLen := a.minLen, a.maxLen
	if minLen <= 0 {
		minLen = tuning.MinPatternLength
	}
	if maxLen <= 0 {
		maxLen = tuning.MaxPatternLength
	}
	return minLen, maxLen
}

// run simplifies the song up to the requested version and mines that version.
func (a analysis) run(song model.Song) (analysisResult, error) {
	song, err := simplify.SimplifySong(song, a.version, tuning)
	if err != nil {
		return analysisResult{}, err
	}
	simp, err := song.MustSimplification(a.version)
	if err != nil {
		return analysisResult{}, err
	}
	res := analysisResult{song: song, simp: simp}

	if a.kind == melodyMatchType {
		res.catalog, err = melody.Mine(song, a.version, tuning)
		return res, err
	}

	kind, err := model.ParseArtifactType(a.kind)
	if err != nil {
		return res, err
	}
	switch {
	case artifact.IsTokenType(kind):
		minLen, maxLen := a.lengths()
		res.collection, err = artifact.MineTokenPatterns(song, a.version, kind, minLen, maxLen, tuning)
	case kind == model.Chord:
		res.collection = chord.Mine(song.ID, simp, tuning)
	case kind == model.ChordProgression:
		res.collection = chord.MineProgressions(song.ID, simp, tuning)
	default:
		err = errors.Wrapf(model.ErrUnknownArtifactType, "%v", kind)
	}
	return res, err
}

func (r analysisResult) artifacts() []model.ArtifactResult {
	res := make([]model.ArtifactResult, 0)
	for _, m := range r.collection.Sorted() {
		ar := model.ArtifactResult{Type: m.Artifact.Type.String(), Value: m.Artifact.Value}
		for _, inst := range m.Instances {
			ar.Instances = append(ar.Instances, model.TickRange{Voice: inst.Voice, StartTick: inst.StartTick, EndTick: inst.EndTick})
		}
		res = append(res, ar)
	}
	if r.catalog == nil {
		return res
	}
	for _, e := range r.catalog.Sorted() {
		ar := model.ArtifactResult{Type: "MelodyMatch", Value: e.Pattern.Key()}
		for _, occ := range e.Occurrences {
			ar.Instances = append(ar.Instances, model.TickRange{Voice: occ.Voice, StartTick: occ.StartTick, EndTick: occ.StartTick + e.Pattern.Duration})
		}
		res = append(res, ar)
	}
	return res
}
