// Package melody finds melodies that come back, in the same voice or in
// another one, by comparing beat aligned windows of the song against each
// other.
package melody

import (
	"github.com/jsphweid/motifdex/config"
	"github.com/jsphweid/motifdex/model"
	"github.com/jsphweid/motifdex/token"
	"github.com/remeh/sizedwaitgroup"
	"github.com/sirupsen/logrus"
)

type voicePair struct {
	v1 int
	v2 int
}

// Mine compares every pair of windows, for every window size, over every
// pair of melodic voices, then prunes the result.
func Mine(song model.Song, version int, t config.Tuning) (*Catalog, error) {
	simp, err := song.MustSimplification(version)
	if err != nil {
		return nil, err
	}

	lines := make(map[int]model.Notes)
	var voices []int
	byVoice := model.GroupByVoice(simp.Notes)
	for _, v := range model.VoiceNumbers(simp.Notes) {
		if byVoice[v][0].IsPercussion {
			continue
		}
		lines[v] = token.MelodyLine(byVoice[v])
		voices = append(voices, v)
	}

	var pairs []voicePair
	for i, v1 := range voices {
		for _, v2 := range voices[i:] {
			pairs = append(pairs, voicePair{v1, v2})
		}
	}

	res := NewCatalog()
	for _, beats := range t.MelodyWindowBeats {
		windows := Windows(song.Bars, beats)
		if len(windows) == 0 {
			continue
		}
		slices := make(map[int][]model.NotesSlice)
		for _, v := range voices {
			slices[v] = Slices(song.ID, lines[v], v, windows)
		}

		found := make([]*Catalog, len(pairs))
		swg := sizedwaitgroup.New(t.WorkerCount())
		for i, p := range pairs {
			swg.Add()
			go func(i int, p voicePair) {
				defer swg.Done()
				found[i] = comparePair(slices[p.v1], slices[p.v2], p.v1 == p.v2, t)
			}(i, p)
		}
		swg.Wait()

		for _, c := range found {
			res.Merge(c)
		}
		logrus.WithFields(logrus.Fields{
			"song":     song.ID,
			"beats":    beats,
			"patterns": res.Len(),
		}).Debug("compared windows")
	}

	res.Prune(t)
	return res, nil
}

func comparePair(slices1, slices2 []model.NotesSlice, sameVoice bool, t config.Tuning) *Catalog {
	res := NewCatalog()
	for i, s1 := range slices1 {
		from := 0
		if sameVoice {
			from = i + 1
		}
		for _, s2 := range slices2[from:] {
			m := Compare(s1, s2)
			if !IsGood(m, t) {
				continue
			}
			res.Add(Pattern(m), Occurrences(m)...)
		}
	}
	return res
}
