package melody

import (
	"github.com/jsphweid/motifdex/config"
	"github.com/jsphweid/motifdex/model"
	"github.com/jsphweid/motifdex/util"
)

// Compare finds the longest stretch over which both slices play the same
// notes at the same offsets. The first note of the stretch only has to line
// up in time; its step comes from a note outside the stretch. A stretch of
// one note is no agreement at all.
func Compare(s1, s2 model.NotesSlice) model.MelodyMatch {
	r1, r2 := RelativeNotes(s1), RelativeNotes(s2)
	res := model.MelodyMatch{Slice1: s1, Slice2: s2}

	bestLen, best1, best2 := 0, 0, 0
	for i := range r1 {
		for j := range r2 {
			if r1[i].Offset != r2[j].Offset {
				continue
			}
			k := 1
			for i+k < len(r1) && j+k < len(r2) &&
				r1[i+k].Offset == r2[j+k].Offset && r1[i+k].DeltaPitch == r2[j+k].DeltaPitch {
				k++
			}
			if k > bestLen {
				bestLen, best1, best2 = k, i, j
			}
		}
	}

	if bestLen < 2 {
		res.Differences = util.Max(len(r1), len(r2))
		return res
	}

	last1, last2 := r1[best1+bestLen-1], r2[best2+bestLen-1]
	res.Matches = bestLen
	res.Differences = util.Max(len(r1), len(r2)) - bestLen
	res.First1 = best1
	res.First2 = best2
	res.StartTick = r1[best1].Offset
	res.EndTick = last1.Offset + util.Min(last1.Duration, last2.Duration)
	res.AreTransposed = s1.Notes[best1].Pitch != s2.Notes[best2].Pitch
	return res
}

// IsGood decides whether a match is worth keeping: it has to cover more than
// half the window and hold at least three notes, or two notes where the
// second one is held into the next window and is more than a scale step away.
func IsGood(m model.MelodyMatch, t config.Tuning) bool {
	if m.Matches < 2 {
		return false
	}
	if (m.EndTick-m.StartTick)*2 <= m.Slice1.Length() {
		return false
	}
	if t.RejectSameStartPitch && m.Slice1.Notes[0].Pitch == m.Slice2.Notes[0].Pitch {
		return false
	}
	if m.Matches >= 3 {
		return true
	}
	second := m.Slice1.Notes[m.First1+1]
	heldOver := second.EndTick >= m.Slice1.EndTick && m.Slice2.Notes[m.First2+1].EndTick >= m.Slice2.EndTick
	return heldOver && util.Abs(second.Pitch-m.Slice1.Notes[m.First1].Pitch) > 1
}

// Pattern is the part of the first slice that both slices share.
func Pattern(m model.MelodyMatch) model.MelodyFigure {
	r1, r2 := RelativeNotes(m.Slice1), RelativeNotes(m.Slice2)
	notes := make([]model.RelativeNote, m.Matches)
	for i := range notes {
		n := r1[m.First1+i]
		n.Duration = util.Min(n.Duration, r2[m.First2+i].Duration)
		if i == 0 {
			n.DeltaPitch = 0
		}
		notes[i] = n
	}
	return model.MelodyFigure{Notes: notes, Duration: m.Slice1.Length()}
}

func Occurrences(m model.MelodyMatch) []model.Occurrence {
	res := make([]model.Occurrence, 0, 2)
	for _, s := range []model.NotesSlice{m.Slice1, m.Slice2} {
		res = append(res, model.Occurrence{
			SongID:    s.SongID,
			Voice:     s.Voice,
			Bar:       s.Bar,
			Beat:      s.Beat,
			StartTick: s.StartTick,
		})
	}
	return res
}
