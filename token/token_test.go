package token

import (
	"strings"
	"testing"

	"github.com/jsphweid/motifdex/model"
	"github.com/stretchr/testify/assert"
)

func line(pitches ...int) model.Notes {
	var res model.Notes
	for i, p := range pitches {
		res = append(res, model.NewNote(p, 100, i*96, i*96+96, 0))
	}
	return res
}

func TestTokenizePitch(t *testing.T) {
	symbols := Tokenize(line(60, 62, 64, 62, 64, 66), model.PitchPattern)
	assert.Equal(t, []string{"0", "2", "2", "-2", "2", "2"}, symbols)
}

func TestTokenizeRhythmAndMelody(t *testing.T) {
	notes := model.Notes{
		model.NewNote(60, 100, 0, 96, 0),
		model.NewNote(58, 100, 96, 144, 0),
	}

	assert := assert.New(t)
	assert.Equal([]string{"96", "48"}, Tokenize(notes, model.RhythmPattern))
	assert.Equal([]string{"(0-96)", "(-2-48)"}, Tokenize(notes, model.MelodyPattern))
	assert.Nil(Tokenize(notes, model.Chord))
}

func TestParseMelodySymbol(t *testing.T) {
	assert := assert.New(t)

	delta, duration, ok := ParseMelodySymbol("(-2-48)")
	assert.True(ok)
	assert.Equal(-2, delta)
	assert.Equal(48, duration)

	delta, duration, ok = ParseMelodySymbol("(7-96)")
	assert.True(ok)
	assert.Equal(7, delta)
	assert.Equal(96, duration)

	_, _, ok = ParseMelodySymbol("96")
	assert.False(ok)
	_, _, ok = ParseMelodySymbol("(x-96)")
	assert.False(ok)
}

func TestFindRepeatsExactOffsets(t *testing.T) {
	symbols := Tokenize(line(60, 62, 64, 62, 64, 66), model.PitchPattern)

	found := FindRepeats(symbols, 2, 2)

	assert := assert.New(t)
	assert.Equal([]int{1, 4}, found["2,2"])
	assert.Equal([]int{2}, found["2,-2"])
	assert.Equal([]int{3}, found["-2,2"])
	assert.Equal(map[string][]int{"2,2": {1, 4}}, Repeated(found))
}

func TestFindRepeatsOverlapping(t *testing.T) {
	found := FindRepeats([]string{"1", "1", "1", "1"}, 2, 3)

	assert := assert.New(t)
	assert.Equal([]int{0, 1, 2}, found["1,1"])
	assert.Equal([]int{0, 1}, found["1,1,1"])
	assert.Len(found, 2)
}

func TestFindRepeatsIsComplete(t *testing.T) {
	symbols := strings.Split("a,b,a,b,c,a,b,a", ",")
	for length := 1; length <= len(symbols); length++ {
		found := FindRepeats(symbols, length, length)
		want := make(map[string][]int)
		for o := 0; o+length <= len(symbols); o++ {
			k := strings.Join(symbols[o:o+length], ",")
			want[k] = append(want[k], o)
		}
		assert.Equal(t, want, found, "length %v", length)
	}
}

func TestFindRepeatsBadWindow(t *testing.T) {
	assert := assert.New(t)
	assert.Empty(FindRepeats([]string{"1", "2"}, 0, 2))
	assert.Empty(FindRepeats([]string{"1", "2"}, 3, 2))
	assert.Empty(FindRepeats([]string{"1", "2"}, 3, 12))
	assert.Empty(FindRepeats(nil, 3, 12))
}

func TestMelodyLine(t *testing.T) {
	notes := model.Notes{
		model.NewNote(60, 100, 0, 96, 0),
		model.NewNote(67, 100, 0, 96, 0),
		model.NewNote(62, 100, 96, 192, 0),
	}

	res := MelodyLine(notes)

	assert := assert.New(t)
	assert.Len(res, 2)
	assert.Equal(67, res[0].Pitch)
	assert.Equal(62, res[1].Pitch)
}

func TestSpan(t *testing.T) {
	notes := line(60, 62, 64, 62, 64, 66)

	assert := assert.New(t)
	span := Span(notes, 4, 2)
	assert.Len(span, 2)
	assert.Equal(64, span[0].Pitch)
	assert.Equal(notes[4].ID, span[0].ID)
	assert.Nil(Span(notes, 5, 2))
}

func TestRebase(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("0,2", Rebase("2,2", model.PitchPattern))
	assert.Equal("(0-96),(2-48)", Rebase("(-5-96),(2-48)", model.MelodyPattern))
	assert.Equal("96,48", Rebase("96,48", model.RhythmPattern))
}
