package voice

import (
	"math/rand"
	"testing"

	"github.com/jsphweid/motifdex/config"
	"github.com/jsphweid/motifdex/model"
	"github.com/stretchr/testify/assert"
)

func note(pitch, start, end int) model.Note {
	return model.NewNote(pitch, 100, start, end, 0)
}

func pitches(notes model.Notes) []int {
	var res []int
	for _, n := range notes {
		res = append(res, n.Pitch)
	}
	return res
}

func TestSplitsMelodyFromBass(t *testing.T) {
	notes := model.Notes{
		note(48, 0, 384),
		note(72, 0, 96),
		note(74, 96, 192),
		note(76, 192, 288),
		note(77, 288, 384),
	}

	voices := Split(notes, len(notes), config.Default())

	assert := assert.New(t)
	assert.Len(voices, 2)
	assert.Equal([]int{72, 74, 76, 77}, pitches(voices[0]))
	assert.Equal([]int{48}, pitches(voices[1]))
}

func TestBlockChordsStayInOneVoice(t *testing.T) {
	var notes model.Notes
	for i := 0; i < 4; i++ {
		start := i * 96
		notes = append(notes, note(60, start, start+96), note(64, start, start+96), note(67, start, start+96))
	}

	voices := Split(notes, len(notes), config.Default())

	assert := assert.New(t)
	assert.Len(voices, 1)
	assert.Len(voices[0], 12)
	assert.True(IsMonophonic(voices[0], 0))
}

func TestStrayNoteMergesIntoLastVoice(t *testing.T) {
	var notes model.Notes
	for i := 0; i < 20; i++ {
		notes = append(notes, note(70+i%3, i*96, i*96+96))
	}
	notes = append(notes, note(40, 100, 500))

	voices := Split(notes, len(notes), config.Default())

	assert := assert.New(t)
	assert.Len(voices, 1)
	assert.Len(voices[0], 21)
	assert.True(IsMonophonic(voices[0], config.Default().ChordTolerance))
}

func TestSplitCountIsCapped(t *testing.T) {
	// six staggered lines that all overlap each other
	var notes model.Notes
	for line := 0; line < 6; line++ {
		for i := 0; i < 10; i++ {
			start := i*96 + line*10
			notes = append(notes, note(80-line*5, start, start+90))
		}
	}

	tuning := config.Default()
	voices := Split(notes, len(notes), tuning)

	assert := assert.New(t)
	assert.LessOrEqual(len(voices), tuning.MaxSplits)
	var total int
	for _, v := range voices {
		total += len(v)
		assert.True(IsMonophonic(v, tuning.ChordTolerance))
	}
	assert.Equal(len(notes), total)
}

func TestEveryVoiceIsMonophonicAfterSplit(t *testing.T) {
	tuning := config.Default()
	r := rand.New(rand.NewSource(7))
	for round := 0; round < 20; round++ {
		var notes model.Notes
		for i := 0; i < 60; i++ {
			start := r.Intn(2000)
			notes = append(notes, note(40+r.Intn(40), start, start+10+r.Intn(300)))
		}

		voices := Split(notes, len(notes), tuning)

		var total int
		for _, v := range voices {
			total += len(v)
			if !IsMonophonic(v, tuning.ChordTolerance) {
				t.Fatalf("round %v: voice is not monophonic: %v", round, v)
			}
		}
		assert.Equal(t, len(notes), total)
	}
}

func TestSplitDoesNotTouchInput(t *testing.T) {
	notes := model.Notes{note(60, 0, 100), note(72, 50, 150)}
	Split(notes, len(notes), config.Default())
	assert.Equal(t, 100, notes[0].EndTick)
}

func TestSplitEmpty(t *testing.T) {
	assert.Nil(t, Split(nil, 0, config.Default()))
}

func TestChordFraction(t *testing.T) {
	notes := model.Notes{note(67, 0, 96), note(64, 1, 96), note(60, 0, 95), note(72, 96, 192)}
	model.SortByStart(notes)
	assert.Equal(t, 0.75, ChordFraction(notes, 3))
	assert.Equal(t, 0.0, ChordFraction(nil, 3))
}

func TestMakeMonophonicTurnsNearOnsetsIntoChords(t *testing.T) {
	notes := model.Notes{note(60, 0, 100), note(64, 2, 60), note(67, 40, 80)}
	res := MakeMonophonic(notes, 3)

	assert := assert.New(t)
	assert.True(IsMonophonic(res, 0))
	assert.Equal(0, res[0].StartTick)
	assert.Equal(40, res[0].EndTick)
	assert.Equal(0, res[1].StartTick)
	assert.Equal(40, res[1].EndTick)
	assert.Equal(67, res[2].Pitch)
}

func TestReclaimHandsBackNoteNearTheLowerVoice(t *testing.T) {
	pool := model.Notes{
		note(72, 0, 96), note(73, 96, 192), note(72, 384, 480), note(73, 480, 576),
		note(48, 0, 192), note(48, 192, 384), note(50, 192, 288), note(48, 384, 576),
	}
	model.SortByStart(pool)
	selected := make([]bool, len(pool))
	for i, n := range pool {
		selected[i] = n.Pitch > 48
	}

	reclaim(pool, selected, config.Default())

	for i, n := range pool {
		assert.Equal(t, n.Pitch >= 72, selected[i], "pitch %v at %v", n.Pitch, n.StartTick)
	}
}

func TestSplitSendsStrayLowNoteToLowerVoice(t *testing.T) {
	notes := model.Notes{
		note(72, 0, 96), note(73, 96, 192), note(72, 384, 480), note(73, 480, 576),
		note(48, 0, 192), note(48, 192, 384), note(50, 192, 288), note(48, 384, 576),
	}

	voices := Split(notes, len(notes), config.Default())

	assert := assert.New(t)
	if assert.GreaterOrEqual(len(voices), 2) {
		assert.Equal([]int{72, 73, 72, 73}, pitches(voices[0]))
		assert.Contains(pitches(voices[1]), 50)
	}
}

func TestRepairOverlapsAndGaps(t *testing.T) {
	tests := []struct {
		name    string
		first   model.Note
		second  model.Note
		wantEnd int
	}{
		{"small gap is filled", note(60, 0, 90), note(62, 96, 192), 96},
		{"small overlap is truncated", note(60, 0, 108), note(62, 96, 192), 96},
		{"large gap stays", note(60, 0, 48), note(62, 96, 192), 48},
		{"large overlap stays", note(60, 0, 192), note(62, 96, 192), 192},
		{"touching notes stay", note(60, 0, 96), note(62, 96, 192), 96},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := repairOverlapsAndGaps(model.Notes{tt.first, tt.second}, config.Default())
			assert.Equal(t, tt.wantEnd, res[0].EndTick)
			assert.Equal(t, 192, res[1].EndTick)
		})
	}
}

func TestSnapFinalEndOnlyMovesTheLastOnset(t *testing.T) {
	notes := model.Notes{note(60, 0, 93), note(62, 96, 190), note(55, 97, 190)}

	res := snapFinalEnd(notes, config.Default())

	assert := assert.New(t)
	assert.Equal(93, res[0].EndTick)
	assert.Equal(192, res[1].EndTick)
	assert.Equal(192, res[2].EndTick)
	// input untouched
	assert.Equal(190, notes[1].EndTick)
}

func TestSnapFinalEndStaysWithinTolerance(t *testing.T) {
	// 6 ticks either way: 192 is out of reach, 168 is the roundest in reach
	res := snapFinalEnd(model.Notes{note(60, 0, 170)}, config.Default())
	assert.Equal(t, 168, res[0].EndTick)
}
