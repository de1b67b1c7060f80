package melody

import (
	"github.com/jsphweid/motifdex/model"
	"github.com/jsphweid/motifdex/util"
)

// Window is a run of whole beats. Bar and Beat locate its first beat.
type Window struct {
	Bar       int
	Beat      int
	StartTick int
	EndTick   int
}

func (w Window) Length() int {
	return w.EndTick - w.StartTick
}

type beatMark struct {
	bar  int
	beat int
	tick int
}

// beatMarks lists every beat of the song followed by a closing mark at the
// end of the last bar. Bars with a broken time signature have no beats.
func beatMarks(bars []model.Bar) []beatMark {
	var res []beatMark
	end := 0
	for _, b := range bars {
		if b.Length() <= 0 {
			continue
		}
		for beat := 0; beat < b.Beats(); beat++ {
			res = append(res, beatMark{bar: b.BarNumber, beat: beat, tick: b.StartTick + beat*b.BeatLength()})
		}
		end = util.Max(end, b.EndTick())
	}
	if len(res) == 0 {
		return nil
	}
	return append(res, beatMark{tick: end})
}

// Windows cuts the song into back to back windows of beats beats, following
// the time signature of every bar. A trailing window shorter than beats beats
// is dropped.
func Windows(bars []model.Bar, beats int) []Window {
	if beats <= 0 {
		return nil
	}
	marks := beatMarks(bars)
	var res []Window
	for i := 0; i+beats < len(marks); i += beats {
		res = append(res, Window{
			Bar:       marks[i].bar,
			Beat:      marks[i].beat,
			StartTick: marks[i].tick,
			EndTick:   marks[i+beats].tick,
		})
	}
	return res
}
