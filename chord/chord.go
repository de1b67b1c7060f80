// Package chord finds the chords sounding in a simplification, half a beat
// at a time.
package chord

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jsphweid/motifdex/artifact"
	"github.com/jsphweid/motifdex/config"
	"github.com/jsphweid/motifdex/model"
	"github.com/jsphweid/motifdex/token"
	"github.com/jsphweid/motifdex/util"
)

// AllVoices is the voice of an instance built from every voice at once.
const AllVoices = -1

// pitches inside a progression symbol
const progressionPitchSeparator = "-"

func CreateChordKey(notes []int) string {
	sorted := append([]int(nil), notes...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})
	var res string
	for i, note := range sorted {
		if i > 0 && note == sorted[i-1] {
			continue
		}
		if res != "" {
			res += token.Separator
		}
		res += fmt.Sprintf("%v", note)
	}
	return res
}

type slot struct {
	key   string
	notes map[int]bool
}

// slots lists, for every half beat of the song, the chord sounding in it.
// A slot with too few or too many pitches has an empty key.
func slots(notes model.Notes, t config.Tuning) []slot {
	last := model.LastEndTick(notes)
	if last <= 0 || t.ChordSlotTicks <= 0 {
		return nil
	}
	res := make([]slot, (last+t.ChordSlotTicks-1)/t.ChordSlotTicks)
	pitches := make([]map[int]bool, len(res))
	for i, n := range notes {
		if n.IsPercussion || n.Duration() <= 0 {
			continue
		}
		for s := n.StartTick / t.ChordSlotTicks; s <= (n.EndTick-1)/t.ChordSlotTicks && s < len(res); s++ {
			if pitches[s] == nil {
				pitches[s] = make(map[int]bool)
				res[s].notes = make(map[int]bool)
			}
			pitches[s][n.Pitch] = true
			res[s].notes[i] = true
		}
	}
	for s := range res {
		if len(pitches[s]) < t.MinChordSize || len(pitches[s]) > t.MaxChordSize {
			continue
		}
		res[s].key = CreateChordKey(util.GetKeys(pitches[s]))
	}
	return res
}

// Mine returns one Chord artifact per distinct pitch set. Consecutive slots
// holding the same set are one instance spanning all of them. Runs end at the
// first slot holding anything else, including nothing.
func Mine(songID uint32, simp model.SongSimplification, t config.Tuning) artifact.Collection {
	res := make(artifact.Collection)
	for _, r := range runs(simp.Notes, t) {
		res.Add(model.Artifact{Type: model.Chord, Value: r.key}, model.Instance{
			SongID:    songID,
			Version:   simp.Version,
			Voice:     AllVoices,
			StartTick: r.start,
			EndTick:   r.end,
			Notes:     r.notes,
		})
	}
	return res
}

type run struct {
	key   string
	start int
	end   int
	notes model.Notes
}

func runs(notes model.Notes, t config.Tuning) []run {
	all := slots(notes, t)
	var res []run
	for i := 0; i < len(all); {
		j := i
		for j+1 < len(all) && all[j+1].key == all[i].key {
			j++
		}
		if all[i].key != "" {
			used := make(map[int]bool)
			for s := i; s <= j; s++ {
				for n := range all[s].notes {
					used[n] = true
				}
			}
			var runNotes model.Notes
			for _, n := range util.GetKeys(used) {
				runNotes = append(runNotes, notes[n].Clone())
			}
			model.SortByStart(runNotes)
			res = append(res, run{
				key:   all[i].key,
				start: i * t.ChordSlotTicks,
				end:   (j + 1) * t.ChordSlotTicks,
				notes: runNotes,
			})
		}
		i = j + 1
	}
	return res
}

// MineProgressions finds recurring sequences of consecutive chords. Each chord
// is written with its pitches joined by "-" so the sequence itself can be
// comma separated.
func MineProgressions(songID uint32, simp model.SongSimplification, t config.Tuning) artifact.Collection {
	chords := runs(simp.Notes, t)
	symbols := make([]string, len(chords))
	for i, c := range chords {
		symbols[i] = strings.ReplaceAll(c.key, token.Separator, progressionPitchSeparator)
	}

	res := make(artifact.Collection)
	found := token.Repeated(token.FindRepeats(symbols, t.MinPatternLength, t.MaxPatternLength))
	for _, key := range util.GetKeys(found) {
		length := strings.Count(key, token.Separator) + 1
		a := artifact.Canonicalize(model.Artifact{Type: model.ChordProgression, Value: key}, t)
		for _, offset := range found[key] {
			first, last := chords[offset], chords[offset+length-1]
			var notes model.Notes
			for _, c := range chords[offset : offset+length] {
				notes = append(notes, c.notes...)
			}
			res.Add(a, model.Instance{
				SongID:    songID,
				Version:   simp.Version,
				Voice:     AllVoices,
				StartTick: first.start,
				EndTick:   last.end,
				Notes:     notes,
			})
		}
	}
	return res
}
