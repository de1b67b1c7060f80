package simplify

import (
	"sort"

	"github.com/google/uuid"
	"github.com/jsphweid/motifdex/config"
	"github.com/jsphweid/motifdex/constants"
	"github.com/jsphweid/motifdex/model"
	"github.com/jsphweid/motifdex/util"
)

// FlattenBends replaces pitch bends with real notes. Whenever the bend settles
// on another whole semitone level (up to two either way) the current note is
// closed and a new one opens at the bent pitch.
func FlattenBends(notes model.Notes, t config.Tuning) model.Notes {
	res := make(model.Notes, 0, len(notes))
	for _, n := range notes {
		if len(n.PitchBends) == 0 {
			c := n.Clone()
			c.PitchBends = nil
			res = append(res, c)
			continue
		}
		res = append(res, flattenNote(n, t)...)
	}
	return res
}

func bendLevel(value, current int, t config.Tuning) int {
	offset := value - constants.BendCenter
	for level := -2; level <= 2; level++ {
		if util.Abs(offset-level*t.BendUnitsPerSemitone) <= t.BendTolerance {
			return level
		}
	}
	// between levels the last one holds
	return current
}

func clampPitch(p int) int {
	if p < 0 {
		return 0
	}
	if p > constants.MaxPitch {
		return constants.MaxPitch
	}
	return p
}

func flattenNote(n model.Note, t config.Tuning) model.Notes {
	bends := make([]model.PitchBend, len(n.PitchBends))
	copy(bends, n.PitchBends)
	sort.SliceStable(bends, func(i, j int) bool {
		return bends[i].Tick < bends[j].Tick
	})

	var res model.Notes
	seg := n.Clone()
	seg.PitchBends = nil
	level := 0
	for _, b := range bends {
		if b.Tick >= n.EndTick {
			break
		}
		tick := util.Max(b.Tick, n.StartTick)
		next := bendLevel(b.Value, level, t)
		if next == level {
			continue
		}
		if tick > seg.StartTick {
			seg.EndTick = tick
			res = append(res, seg)
			seg = n.Clone()
			seg.ID = uuid.New()
			seg.PitchBends = nil
			seg.StartTick = tick
		}
		seg.Pitch = clampPitch(n.Pitch + next)
		level = next
	}
	seg.EndTick = n.EndTick
	return append(res, seg)
}
