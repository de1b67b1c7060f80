package simplify

import (
	"sort"

	"github.com/jsphweid/motifdex/model"
	"github.com/jsphweid/motifdex/util"
)

type voiceSummary struct {
	number       int
	instrument   int
	percussion   bool
	averagePitch float64
}

// ReorderVoices groups melodic voices by instrument in order of first
// appearance, puts higher voices first inside a group and percussion last,
// then renumbers from 0.
func ReorderVoices(notes model.Notes) model.Notes {
	byVoice := model.GroupByVoice(notes)
	numbers := model.VoiceNumbers(notes)

	summaries := make([]voiceSummary, 0, len(numbers))
	for _, v := range numbers {
		voiceNotes := byVoice[v]
		model.SortByStart(voiceNotes)
		pitches := make([]int, len(voiceNotes))
		for i, n := range voiceNotes {
			pitches[i] = n.Pitch
		}
		summaries = append(summaries, voiceSummary{
			number:       v,
			instrument:   voiceNotes[0].Instrument,
			percussion:   voiceNotes[0].IsPercussion,
			averagePitch: util.Average(pitches),
		})
	}

	// instruments rank by the earliest onset of any of their voices
	firstSeen := make(map[int]int)
	for _, s := range summaries {
		if s.percussion {
			continue
		}
		start := byVoice[s.number][0].StartTick
		if seen, ok := firstSeen[s.instrument]; !ok || start < seen {
			firstSeen[s.instrument] = start
		}
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		if a.percussion != b.percussion {
			return !a.percussion
		}
		if a.percussion {
			return a.number < b.number
		}
		if a.instrument != b.instrument {
			if firstSeen[a.instrument] != firstSeen[b.instrument] {
				return firstSeen[a.instrument] < firstSeen[b.instrument]
			}
			return a.instrument < b.instrument
		}
		if a.averagePitch != b.averagePitch {
			return a.averagePitch > b.averagePitch
		}
		return a.number < b.number
	})

	res := make(model.Notes, 0, len(notes))
	for newNumber, s := range summaries {
		for _, n := range byVoice[s.number] {
			c := n.Clone()
			c.Voice = newNumber
			res = append(res, c)
		}
	}
	model.SortByStart(res)
	return res
}
