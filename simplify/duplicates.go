package simplify

import (
	"github.com/jsphweid/motifdex/config"
	"github.com/jsphweid/motifdex/model"
	"github.com/jsphweid/motifdex/util"
)

// RemoveDuplicates resolves overlapping notes of the same pitch and instrument
// inside a voice. Two that start together collapse into the louder one (the
// longer one on a tie); otherwise the earlier one is cut where the later one
// starts.
func RemoveDuplicates(notes model.Notes, t config.Tuning) model.Notes {
	byVoice := model.GroupByVoice(notes)
	var res model.Notes
	for _, v := range model.VoiceNumbers(notes) {
		res = append(res, removeVoiceDuplicates(byVoice[v], t)...)
	}
	model.SortByStart(res)
	return res
}

func isDuplicateOf(a, b model.Note) bool {
	return a.Pitch == b.Pitch && a.Instrument == b.Instrument && a.Overlaps(b)
}

// keepFirst decides which of two coinciding notes survives.
func keepFirst(a, b model.Note) bool {
	if a.Volume != b.Volume {
		return a.Volume > b.Volume
	}
	return a.Duration() >= b.Duration()
}

func removeVoiceDuplicates(notes model.Notes, t config.Tuning) model.Notes {
	res := model.CloneNotes(notes)
	model.SortByStart(res)
	removed := make([]bool, len(res))

	for i := range res {
		if removed[i] {
			continue
		}
		for j := i + 1; j < len(res) && res[j].StartTick < res[i].EndTick; j++ {
			if removed[j] || !isDuplicateOf(res[i], res[j]) {
				continue
			}
			tolerance := util.Min(res[i].Duration(), res[j].Duration()) / t.DuplicateToleranceDivisor
			if util.Abs(res[j].StartTick-res[i].StartTick) > tolerance {
				res[i].EndTick = res[j].StartTick
				continue
			}
			if keepFirst(res[i], res[j]) {
				removed[j] = true
				continue
			}
			removed[i] = true
			break
		}
	}

	var kept model.Notes
	for i, n := range res {
		if !removed[i] {
			kept = append(kept, n)
		}
	}
	return kept
}
