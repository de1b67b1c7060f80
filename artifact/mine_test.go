package artifact

import (
	"testing"

	"github.com/jsphweid/motifdex/config"
	"github.com/jsphweid/motifdex/model"
	"github.com/stretchr/testify/assert"
)

func songOf(pitches ...int) model.Song {
	var notes model.Notes
	for i, p := range pitches {
		notes = append(notes, model.NewNote(p, 100, i*96, i*96+96, 0))
	}
	drum := model.NewNote(36, 100, 0, 48, 1)
	drum.IsPercussion = true
	notes = append(notes, drum)
	return model.Song{
		ID: 3,
		Simplifications: []model.SongSimplification{
			{Version: 1, VoiceCount: 2, Notes: notes},
		},
	}
}

func TestMinePitchPatterns(t *testing.T) {
	song := songOf(60, 62, 64, 60, 62, 64)

	res, err := MineTokenPatterns(song, 1, model.PitchPattern, 3, 3, config.Default())

	assert := assert.New(t)
	assert.Nil(err)
	assert.Len(res, 1)
	m := res[model.ArtifactKey{Type: model.PitchPattern, Value: "0,2,2"}]
	if assert.NotNil(m) {
		assert.Len(m.Instances, 2)
		sorted := res.Sorted()[0].Instances
		assert.Equal(0, sorted[0].StartTick)
		assert.Equal(288, sorted[0].EndTick)
		assert.Equal(288, sorted[1].StartTick)
		assert.Equal(576, sorted[1].EndTick)
		assert.Len(sorted[1].Notes, 3)
		assert.Equal(uint32(3), sorted[1].SongID)
	}
}

func TestMineRhythmPatternsMergeCanonicalForms(t *testing.T) {
	song := songOf(60, 62, 64, 65, 67, 69)

	res, err := MineTokenPatterns(song, 1, model.RhythmPattern, 3, 4, config.Default())

	assert := assert.New(t)
	assert.Nil(err)
	assert.Len(res, 1)
	m := res[model.ArtifactKey{Type: model.RhythmPattern, Value: "1"}]
	if assert.NotNil(m) {
		// four runs of three notes and three runs of four
		assert.Len(m.Instances, 7)
	}
}

func TestMineIsDeterministic(t *testing.T) {
	song := songOf(60, 62, 64, 60, 62, 64, 60, 62)
	first, err := MineTokenPatterns(song, 1, model.MelodyPattern, 3, 12, config.Default())
	assert.Nil(t, err)
	second, err := MineTokenPatterns(song, 1, model.MelodyPattern, 3, 12, config.Default())
	assert.Nil(t, err)

	assert.Equal(t, len(first), len(second))
	for k, m := range first {
		assert.Equal(t, len(m.Instances), len(second[k].Instances))
	}
}

func TestMineErrors(t *testing.T) {
	song := songOf(60, 62, 64)

	_, err := MineTokenPatterns(song, 2, model.PitchPattern, 3, 12, config.Default())
	assert.ErrorIs(t, err, model.ErrUnknownVersion)

	_, err = MineTokenPatterns(song, 1, model.Chord, 3, 12, config.Default())
	assert.ErrorIs(t, err, model.ErrUnknownArtifactType)
}
