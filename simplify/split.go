package simplify

import (
	"github.com/jsphweid/motifdex/config"
	"github.com/jsphweid/motifdex/model"
	"github.com/jsphweid/motifdex/voice"
	"github.com/remeh/sizedwaitgroup"
)

// SplitVoices runs the voice splitter over every melodic voice in parallel.
// Percussion voices pass through whole. Resulting voices are numbered in
// input voice order, highest split first.
func SplitVoices(notes model.Notes, t config.Tuning) model.Notes {
	byVoice := model.GroupByVoice(notes)
	numbers := model.VoiceNumbers(notes)
	results := make([][]model.Notes, len(numbers))

	swg := sizedwaitgroup.New(t.WorkerCount())
	for i, v := range numbers {
		voiceNotes := byVoice[v]
		if voiceNotes[0].IsPercussion {
			results[i] = []model.Notes{model.CloneNotes(voiceNotes)}
			continue
		}
		swg.Add()
		go func(i int, voiceNotes model.Notes) {
			defer swg.Done()
			results[i] = voice.Split(voiceNotes, len(notes), t)
		}(i, voiceNotes)
	}
	swg.Wait()

	var res model.Notes
	next := 0
	for _, split := range results {
		for _, v := range split {
			for _, n := range v {
				n.Voice = next
				res = append(res, n)
			}
			next++
		}
	}
	model.SortByStart(res)
	return res
}
