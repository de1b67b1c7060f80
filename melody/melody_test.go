package melody

import (
	"testing"

	"github.com/jsphweid/motifdex/config"
	"github.com/jsphweid/motifdex/model"
	"github.com/stretchr/testify/assert"
)

func bar(number, start, num, denom int) model.Bar {
	return model.Bar{
		BarNumber:     number,
		StartTick:     start,
		TimeSignature: model.TimeSignature{Numerator: num, Denominator: denom},
	}
}

func n(pitch, start, end int) model.Note {
	return model.NewNote(pitch, 100, start, end, 0)
}

func slice(start, end int, notes ...model.Note) model.NotesSlice {
	return model.NotesSlice{StartTick: start, EndTick: end, Notes: notes}
}

func TestWindowsFollowTimeSignatures(t *testing.T) {
	bars := []model.Bar{bar(0, 0, 3, 4), bar(1, 288, 4, 4)}

	windows := Windows(bars, 2)

	assert := assert.New(t)
	assert.Equal([]Window{
		{Bar: 0, Beat: 0, StartTick: 0, EndTick: 192},
		{Bar: 0, Beat: 2, StartTick: 192, EndTick: 384},
		{Bar: 1, Beat: 1, StartTick: 384, EndTick: 576},
	}, windows)
	assert.Len(Windows(bars, 1), 7)
	assert.Nil(Windows(bars, 0))
}

func TestWindowsSkipBrokenBars(t *testing.T) {
	bars := []model.Bar{bar(0, 0, 6, 8), bar(1, 288, 0, 4)}

	windows := Windows(bars, 3)

	assert := assert.New(t)
	assert.Len(windows, 2)
	assert.Equal(144, windows[1].StartTick)
	assert.Equal(288, windows[1].EndTick)
	assert.Nil(Windows(nil, 1))
}

func TestSlicesAndRelativeNotes(t *testing.T) {
	notes := model.Notes{n(64, 100, 250), n(60, 0, 96), n(67, 200, 300)}
	windows := []Window{{StartTick: 0, EndTick: 192}, {StartTick: 192, EndTick: 384}, {StartTick: 384, EndTick: 576}}

	slices := Slices(1, notes, 0, windows)

	assert := assert.New(t)
	assert.Len(slices, 2)
	assert.Len(slices[0].Notes, 2)
	assert.Equal([]model.RelativeNote{
		{Offset: 0, DeltaPitch: 0, Duration: 96},
		{Offset: 100, DeltaPitch: 4, Duration: 92},
	}, RelativeNotes(slices[0]))
	assert.Equal(192, slices[1].StartTick)
}

func TestCompare(t *testing.T) {
	s1 := slice(0, 96, n(60, 0, 48), n(64, 48, 96))
	s2 := slice(96, 192, n(62, 96, 144), n(66, 144, 192))

	m := Compare(s1, s2)

	assert := assert.New(t)
	assert.Equal(2, m.Matches)
	assert.Equal(0, m.Differences)
	assert.Equal(0, m.StartTick)
	assert.Equal(96, m.EndTick)
	assert.True(m.AreTransposed)
	assert.True(IsGood(m, config.Default()))
}

func TestCompareFindsLongestRun(t *testing.T) {
	s1 := slice(0, 192, n(60, 0, 48), n(70, 48, 96), n(72, 96, 144), n(74, 144, 192))
	s2 := slice(0, 192, n(50, 0, 48), n(55, 48, 96), n(57, 96, 144), n(59, 144, 192))

	m := Compare(s1, s2)

	assert := assert.New(t)
	assert.Equal(3, m.Matches)
	assert.Equal(1, m.First1)
	assert.Equal(48, m.StartTick)
	assert.Equal(192, m.EndTick)
	assert.Equal(1, m.Differences)

	p := Pattern(m)
	assert.Equal("48:0:48,96:2:48,144:2:48|192", p.Key())
}

func TestCompareOneNoteIsNoMatch(t *testing.T) {
	s1 := slice(0, 96, n(60, 0, 48), n(65, 48, 96))
	s2 := slice(0, 96, n(60, 0, 48), n(67, 48, 96))

	m := Compare(s1, s2)

	assert.Equal(t, 0, m.Matches)
	assert.False(t, IsGood(m, config.Default()))
}

func TestIsGood(t *testing.T) {
	tuning := config.Default()

	t.Run("scale step", func(t *testing.T) {
		m := Compare(slice(0, 96, n(60, 0, 48), n(61, 48, 96)), slice(0, 96, n(62, 0, 48), n(63, 48, 96)))
		assert.False(t, IsGood(m, tuning))
	})

	t.Run("not held over", func(t *testing.T) {
		m := Compare(slice(0, 96, n(60, 0, 48), n(64, 48, 90)), slice(0, 96, n(62, 0, 48), n(66, 48, 90)))
		assert.False(t, IsGood(m, tuning))
	})

	t.Run("too short", func(t *testing.T) {
		m := Compare(
			slice(0, 384, n(60, 0, 24), n(62, 24, 48), n(64, 48, 72)),
			slice(0, 384, n(62, 0, 24), n(64, 24, 48), n(66, 48, 72)))
		assert.Equal(t, 3, m.Matches)
		assert.False(t, IsGood(m, tuning))
	})

	t.Run("same starting pitch", func(t *testing.T) {
		m := Compare(
			slice(0, 96, n(60, 0, 32), n(62, 32, 64), n(64, 64, 96)),
			slice(96, 192, n(60, 96, 128), n(62, 128, 160), n(64, 160, 192)))
		assert.False(t, IsGood(m, tuning))

		unisons := tuning
		unisons.RejectSameStartPitch = false
		assert.True(t, IsGood(m, unisons))
	})
}

func rn(offset, delta, duration int) model.RelativeNote {
	return model.RelativeNote{Offset: offset, DeltaPitch: delta, Duration: duration}
}

func pattern(duration int, notes ...model.RelativeNote) model.MelodyFigure {
	return model.MelodyFigure{Notes: notes, Duration: duration}
}

func occurrences(count int) []model.Occurrence {
	var res []model.Occurrence
	for i := 0; i < count; i++ {
		res = append(res, model.Occurrence{SongID: 1, StartTick: i * 96})
	}
	return res
}

func TestCatalogAddDeduplicates(t *testing.T) {
	c := NewCatalog()
	p := pattern(96, rn(0, 0, 48), rn(48, 2, 48))
	c.Add(p, occurrences(3)...)
	c.Add(p, occurrences(4)...)

	e, ok := c.Get(p.Key())

	assert := assert.New(t)
	assert.True(ok)
	assert.Equal(4, e.Count())
	assert.Equal(1, c.Len())
}

func TestCatalogPrune(t *testing.T) {
	tuning := config.Default()
	long := pattern(192,
		rn(0, 0, 48), rn(48, 2, 48),
		rn(96, 2, 48), rn(144, -4, 48))
	inside := pattern(96, rn(0, 0, 48), rn(48, 2, 48), rn(96, -4, 48))
	frequent := pattern(96, rn(0, 0, 48), rn(48, 2, 48))
	rested := pattern(96, rn(24, 0, 48), rn(72, 2, 48))
	rare := pattern(96, rn(0, 0, 24), rn(24, 7, 24))

	c := NewCatalog()
	c.Add(long, occurrences(5)...)
	c.Add(inside, occurrences(8)...)
	c.Add(frequent, occurrences(12)...)
	c.Add(rested, occurrences(12)...)
	c.Add(rare, occurrences(4)...)

	c.Prune(tuning)

	assert := assert.New(t)
	_, ok := c.Get(long.Key())
	assert.True(ok)
	_, ok = c.Get(inside.Key())
	assert.False(ok)
	_, ok = c.Get(frequent.Key())
	assert.True(ok)
	_, ok = c.Get(rested.Key())
	assert.False(ok)
	_, ok = c.Get(rare.Key())
	assert.False(ok)

	sorted := c.Sorted()
	assert.Equal(frequent.Key(), sorted[0].Pattern.Key())
}

func risingSong(startPitches ...int) model.Song {
	var notes model.Notes
	for beat, p := range startPitches {
		start := beat * 96
		for i, step := range []int{0, 2, 4, 2} {
			notes = append(notes, n(p+step, start+i*24, start+i*24+24))
		}
	}
	drum := model.NewNote(36, 100, 0, 24, 1)
	drum.IsPercussion = true
	notes = append(notes, drum)
	return model.Song{
		ID:   4,
		Bars: []model.Bar{bar(0, 0, 4, 4), bar(1, 384, 4, 4)},
		Simplifications: []model.SongSimplification{
			{Version: 1, VoiceCount: 2, Notes: notes},
		},
	}
}

func TestMineFindsTransposedMotif(t *testing.T) {
	song := risingSong(60, 62, 64, 66, 68, 70, 72, 74)

	c, err := Mine(song, 1, config.Default())

	assert := assert.New(t)
	assert.Nil(err)
	assert.Equal(1, c.Len())
	e, ok := c.Get("0:0:24,24:2:24,48:2:24,72:-2:24|96")
	if assert.True(ok) {
		assert.Equal(8, e.Count())
		assert.Contains(e.Occurrences, model.Occurrence{SongID: 4, Voice: 0, Bar: 1, Beat: 3, StartTick: 672})
	}
}

func TestMineRejectsUnisonRepeats(t *testing.T) {
	song := risingSong(60, 60, 60, 60, 60, 60, 60, 60)

	c, err := Mine(song, 1, config.Default())
	assert.Nil(t, err)
	assert.Equal(t, 0, c.Len())

	tuning := config.Default()
	tuning.RejectSameStartPitch = false
	c, err = Mine(song, 1, tuning)
	assert.Nil(t, err)
	assert.Greater(t, c.Len(), 0)
}

func TestMineUnknownVersion(t *testing.T) {
	_, err := Mine(risingSong(60), 3, config.Default())
	assert.ErrorIs(t, err, model.ErrUnknownVersion)
}
