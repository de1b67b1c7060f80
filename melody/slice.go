package melody

import (
	"sort"

	"github.com/jsphweid/motifdex/model"
	"github.com/jsphweid/motifdex/util"
)

// Slices cuts one voice into the given windows. A note belongs to the window
// it starts in. Empty windows are skipped.
func Slices(songID uint32, notes model.Notes, voice int, windows []Window) []model.NotesSlice {
	sorted := model.CloneNotes(notes)
	model.SortByStart(sorted)

	var res []model.NotesSlice
	for _, w := range windows {
		from := sort.Search(len(sorted), func(i int) bool {
			return sorted[i].StartTick >= w.StartTick
		})
		to := from
		for to < len(sorted) && sorted[to].StartTick < w.EndTick {
			to++
		}
		if to == from {
			continue
		}
		res = append(res, model.NotesSlice{
			SongID:    songID,
			Voice:     voice,
			Bar:       w.Bar,
			Beat:      w.Beat,
			StartTick: w.StartTick,
			EndTick:   w.EndTick,
			Notes:     sorted[from:to],
		})
	}
	return res
}

// RelativeNotes describes the notes of a slice from its start. Durations are
// cut at the end of the slice.
func RelativeNotes(s model.NotesSlice) []model.RelativeNote {
	res := make([]model.RelativeNote, len(s.Notes))
	for i, n := range s.Notes {
		delta := 0
		if i > 0 {
			delta = n.Pitch - s.Notes[i-1].Pitch
		}
		res[i] = model.RelativeNote{
			Offset:     n.StartTick - s.StartTick,
			DeltaPitch: delta,
			Duration:   util.Min(n.EndTick, s.EndTick) - n.StartTick,
		}
	}
	return res
}
