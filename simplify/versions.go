package simplify

import (
	"github.com/jsphweid/motifdex/config"
	"github.com/jsphweid/motifdex/model"
)

// onset is a group of notes in one voice that start on the same tick.
type onset struct {
	start int
	end   int
	notes model.Notes
}

func onsets(voiceNotes model.Notes) []onset {
	sorted := model.CloneNotes(voiceNotes)
	model.SortByStart(sorted)
	var res []onset
	for _, n := range sorted {
		if len(res) > 0 && res[len(res)-1].start == n.StartTick {
			last := &res[len(res)-1]
			last.notes = append(last.notes, n)
			if n.EndTick > last.end {
				last.end = n.EndTick
			}
			continue
		}
		res = append(res, onset{start: n.StartTick, end: n.EndTick, notes: model.Notes{n}})
	}
	return res
}

func (o *onset) setStart(tick int) {
	o.start = tick
	for i := range o.notes {
		o.notes[i].StartTick = tick
	}
}

func (o *onset) setEnd(tick int) {
	o.end = tick
	for i := range o.notes {
		o.notes[i].EndTick = tick
	}
}

// perMelodicVoice applies fn to every non-percussion voice.
func perMelodicVoice(notes model.Notes, fn func(model.Notes) model.Notes) model.Notes {
	byVoice := model.GroupByVoice(notes)
	var res model.Notes
	for _, v := range model.VoiceNumbers(notes) {
		voiceNotes := byVoice[v]
		if voiceNotes[0].IsPercussion {
			res = append(res, model.CloneNotes(voiceNotes)...)
			continue
		}
		res = append(res, fn(voiceNotes)...)
	}
	model.SortByStart(res)
	return res
}

// RemoveOrnaments drops grace notes and other very short notes. The time an
// ornament took goes to the note right after it, or failing that to the note
// right before it.
func RemoveOrnaments(notes model.Notes, t config.Tuning) model.Notes {
	return perMelodicVoice(notes, func(voiceNotes model.Notes) model.Notes {
		groups := onsets(voiceNotes)
		keep := make([]bool, len(groups))
		prev := -1
		for i := range groups {
			g := &groups[i]
			d := g.end - g.start
			keep[i] = true
			if d > 0 && d < t.OrnamentMaxTicks {
				switch {
				case i+1 < len(groups) && groups[i+1].start == g.end:
					groups[i+1].setStart(g.start)
					keep[i] = false
				case prev >= 0 && groups[prev].end == g.start:
					groups[prev].setEnd(g.end)
					keep[i] = false
				}
			}
			if keep[i] {
				prev = i
			}
		}

		var res model.Notes
		for i, g := range groups {
			if keep[i] {
				res = append(res, g.notes...)
			}
		}
		return res
	})
}

// ReduceToMelody leaves only the top note of every chord.
func ReduceToMelody(notes model.Notes) model.Notes {
	return perMelodicVoice(notes, func(voiceNotes model.Notes) model.Notes {
		var res model.Notes
		for _, g := range onsets(voiceNotes) {
			top := g.notes[0]
			for _, n := range g.notes[1:] {
				if n.Pitch > top.Pitch {
					top = n
				}
			}
			res = append(res, top)
		}
		return res
	})
}
