package simplify

import (
	"github.com/jsphweid/motifdex/config"
	"github.com/jsphweid/motifdex/constants"
	"github.com/jsphweid/motifdex/model"
	"github.com/jsphweid/motifdex/util"
)

// half and third of a quarter
var snapGrids = []int{constants.HalfBeatTicks, constants.TicksPerQuarter / 3}

// 1 to 6 quarters, then a half quarter
var durationTargets = []int{96, 192, 288, 384, 480, 576, 48}

// snapToGrid moves tick onto the nearest grid line if it is at most
// maxDistance away.
func snapToGrid(tick, maxDistance int) int {
	if tick < 0 {
		return tick
	}
	best := tick
	bestDist := maxDistance + 1
	for _, grid := range snapGrids {
		lower := tick / grid * grid
		for _, c := range []int{lower, lower + grid} {
			if d := util.Abs(c - tick); d < bestDist {
				best, bestDist = c, d
			}
		}
	}
	if bestDist > maxDistance {
		return tick
	}
	return best
}

func snapDuration(d int, t config.Tuning) (int, bool) {
	best, bestDist := 0, t.DurationSnapTolerance+1
	for _, target := range durationTargets {
		if dist := util.Abs(d - target); dist < bestDist {
			best, bestDist = target, dist
		}
	}
	return best, bestDist <= t.DurationSnapTolerance
}

// Quantize snaps starts, then ends, then whole durations. A note whose snapped
// end would leave the bar it originally ended in keeps its end.
func Quantize(notes model.Notes, bars []model.Bar, t config.Tuning) model.Notes {
	res := model.CloneNotes(notes)
	for i := range res {
		res[i].StartTick = snapToGrid(res[i].StartTick, t.QuantizeSnapTicks)
	}
	for i := range res {
		res[i].EndTick = snapToGrid(res[i].EndTick, t.QuantizeSnapTicks)
	}
	for i := range res {
		target, ok := snapDuration(res[i].Duration(), t)
		if !ok {
			continue
		}
		end := res[i].StartTick + target
		if end > notes[i].EndTick {
			if bar, found := model.BarAt(bars, notes[i].EndTick-1); found && bar.Length() > 0 && end > bar.EndTick() {
				continue
			}
		}
		res[i].EndTick = end
	}
	for i := range res {
		if res[i].Duration() <= 0 && notes[i].Duration() > 0 {
			res[i].StartTick = notes[i].StartTick
			res[i].EndTick = notes[i].EndTick
		}
	}
	return res
}
