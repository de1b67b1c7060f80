// Package voice decomposes a polyphonic pool of notes into monophonic voices.
// A monophonic voice may still hold chords: notes that overlap must start and
// end together.
package voice

import (
	"github.com/jsphweid/motifdex/config"
	"github.com/jsphweid/motifdex/model"
	"github.com/jsphweid/motifdex/util"
)

// Split peels voices off the top of the pool until the pool is exhausted.
// The first voice returned is the highest one. totalSongNotes is the number of
// notes in the whole song; it keeps a handful of stray notes from becoming a
// voice of their own.
func Split(notes model.Notes, totalSongNotes int, t config.Tuning) []model.Notes {
	if len(notes) == 0 {
		return nil
	}

	pool := model.CloneNotes(notes)
	model.SortByStart(pool)
	total := len(pool)

	var voices []model.Notes
	for len(pool) > 0 {
		if len(voices) > 0 && shouldMerge(len(pool), total, totalSongNotes, len(voices), t) {
			last := len(voices) - 1
			merged := append(model.CloneNotes(voices[last]), pool...)
			voices[last] = MakeMonophonic(merged, t.ChordTolerance)
			break
		}

		chordBearing := ChordFraction(pool, t.ChordTolerance) > t.ChordFraction
		var selected []bool
		if chordBearing {
			selected = selectWithChords(pool, t)
		} else {
			selected = selectWithoutChords(pool, t)
		}
		reclaim(pool, selected, t)

		var upper, rest model.Notes
		for i, n := range pool {
			if selected[i] {
				upper = append(upper, n)
			} else {
				rest = append(rest, n)
			}
		}
		if len(upper) == 0 {
			// only reachable with a broken selection; never loop on it
			upper, rest = rest, nil
		}

		upper = repairOverlapsAndGaps(upper, t)
		if !chordBearing {
			upper = snapFinalEnd(upper, t)
		}
		voices = append(voices, MakeMonophonic(upper, t.ChordTolerance))
		pool = rest
	}
	return voices
}

func shouldMerge(remaining, totalInVoice, totalSongNotes, voiceCount int, t config.Tuning) bool {
	if voiceCount >= t.MaxSplits {
		return true
	}
	fewInVoice := float64(remaining) < float64(totalInVoice)/float64(t.RemainingVoiceDivisor)
	fewInSong := float64(remaining) < float64(totalSongNotes)/float64(t.RemainingSongDivisor*(voiceCount+1))
	return fewInVoice && fewInSong
}

// ChordFraction is the share of notes that sound in a chord of three or more
// notes starting and ending together. Notes must be sorted by start.
func ChordFraction(notes model.Notes, tolerance int) float64 {
	if len(notes) == 0 {
		return 0
	}
	var inChord int
	for i, n := range notes {
		together := 1
		for j := i - 1; j >= 0 && notes[j].StartTick >= n.StartTick-tolerance; j-- {
			if notes[j].IsSimultaneous(n, tolerance) {
				together++
			}
		}
		for j := i + 1; j < len(notes) && notes[j].StartTick <= n.StartTick+tolerance; j++ {
			if notes[j].IsSimultaneous(n, tolerance) {
				together++
			}
		}
		if together >= 3 {
			inChord++
		}
	}
	return float64(inChord) / float64(len(notes))
}

// overlapping calls fn for every other note sounding together with notes[i].
// Notes must be sorted by start.
func overlapping(notes model.Notes, i int, fn func(j int)) {
	n := notes[i]
	for j, m := range notes {
		if m.StartTick >= n.EndTick {
			break
		}
		if j != i && m.Overlaps(n) {
			fn(j)
		}
	}
}

func selectWithChords(pool model.Notes, t config.Tuning) []bool {
	selected := make([]bool, len(pool))
	for i, n := range pool {
		accepted := true
		overlapping(pool, i, func(j int) {
			m := pool[j]
			if m.Pitch > n.Pitch && !m.IsSimultaneous(n, t.ChordTolerance) {
				accepted = false
			}
		})
		selected[i] = accepted
	}

	// the rest of an accepted chord comes along
	chordmates := make([]bool, len(pool))
	for i := range pool {
		if !selected[i] {
			continue
		}
		overlapping(pool, i, func(j int) {
			if pool[j].IsSimultaneous(pool[i], t.ChordTolerance) {
				chordmates[j] = true
			}
		})
	}
	for i := range selected {
		selected[i] = selected[i] || chordmates[i]
	}
	return selected
}

func selectWithoutChords(pool model.Notes, t config.Tuning) []bool {
	selected := make([]bool, len(pool))
	for i, n := range pool {
		accepted := true
		overlapping(pool, i, func(j int) {
			m := pool[j]
			allowed := util.Min(t.OverlapMaxTicks, (n.Duration()+m.Duration())/t.SmallOverlapDivisor)
			if m.Pitch > n.Pitch && n.OverlapTicks(m) > allowed {
				accepted = false
			}
		})
		selected[i] = accepted
	}
	return selected
}

// reclaim hands back selected notes that sit much closer to what is left in
// the pool than to the rest of the upper voice around them.
func reclaim(pool model.Notes, selected []bool, t config.Tuning) {
	var selectedCount int
	for _, s := range selected {
		if s {
			selectedCount++
		}
	}

	var giveBack []int
	for i, n := range pool {
		if !selected[i] {
			continue
		}
		var upperPitches, poolPitches []int
		for j, m := range pool {
			if util.Abs(m.StartTick-n.StartTick) > t.ReclaimWindow {
				continue
			}
			if selected[j] {
				upperPitches = append(upperPitches, m.Pitch)
			} else {
				poolPitches = append(poolPitches, m.Pitch)
			}
		}
		if len(poolPitches) == 0 {
			continue
		}
		upperAvg := util.Average(upperPitches)
		poolAvg := util.Average(poolPitches)
		toPool := abs(float64(n.Pitch) - poolAvg)
		toUpper := abs(float64(n.Pitch) - upperAvg)
		if toPool < toUpper-t.ReclaimPitchTolerance {
			giveBack = append(giveBack, i)
		}
	}

	if len(giveBack) >= selectedCount {
		return
	}
	for _, i := range giveBack {
		selected[i] = false
	}
}

// nextOnset is the first note after i that does not start with it.
func nextOnset(notes model.Notes, i, tolerance int) int {
	for j := i + 1; j < len(notes); j++ {
		if notes[j].StartTick > notes[i].StartTick+tolerance {
			return j
		}
	}
	return -1
}

// repairOverlapsAndGaps truncates small overlaps and stretches over small gaps
// between consecutive onsets.
func repairOverlapsAndGaps(notes model.Notes, t config.Tuning) model.Notes {
	res := model.CloneNotes(notes)
	model.SortByStart(res)
	for i := range res {
		j := nextOnset(res, i, t.ChordTolerance)
		if j < 0 {
			continue
		}
		cur, next := res[i], res[j]
		overlap := cur.EndTick - next.StartTick
		gap := next.StartTick - cur.EndTick
		switch {
		case overlap > 0 && overlap*t.SmallOverlapDivisor < cur.Duration()+next.Duration():
			res[i].EndTick = next.StartTick
		case gap > 0 && gap*t.SmallGapDivisor < util.Min(cur.Duration(), next.Duration()):
			res[i].EndTick = next.StartTick
		}
	}
	return res
}

func snapFinalEnd(notes model.Notes, t config.Tuning) model.Notes {
	if len(notes) == 0 {
		return notes
	}
	res := model.CloneNotes(notes)
	lastStart := res[len(res)-1].StartTick
	for i := range res {
		if res[i].StartTick < lastStart-t.ChordTolerance {
			continue
		}
		tolerance := util.Min(res[i].Duration()/t.TimingToleranceDivisor, t.TimingMaxTolerance)
		end := model.RoundTick(res[i].EndTick-tolerance, res[i].EndTick+tolerance, res[i].EndTick)
		if end > res[i].StartTick {
			res[i].EndTick = end
		}
	}
	return res
}

// MakeMonophonic removes every overlap that is not a chord. Notes starting
// within tolerance of the first note of an onset become a chord ending with
// the shortest of them, and each chord is cut at the next onset. No note is
// dropped.
func MakeMonophonic(notes model.Notes, tolerance int) model.Notes {
	var res, silent model.Notes
	for _, n := range notes {
		if n.Duration() <= 0 {
			silent = append(silent, n.Clone())
		} else {
			res = append(res, n.Clone())
		}
	}
	model.SortByStart(res)

	type onset struct{ first, last, start, end int }
	var onsets []onset
	for i, n := range res {
		if len(onsets) > 0 && n.StartTick <= onsets[len(onsets)-1].start+tolerance {
			o := &onsets[len(onsets)-1]
			o.last = i
			o.end = util.Min(o.end, n.EndTick)
			continue
		}
		onsets = append(onsets, onset{first: i, last: i, start: n.StartTick, end: n.EndTick})
	}

	for k, o := range onsets {
		end := o.end
		if k+1 < len(onsets) && onsets[k+1].start < end {
			end = onsets[k+1].start
		}
		for i := o.first; i <= o.last; i++ {
			res[i].StartTick = o.start
			res[i].EndTick = end
		}
	}

	res = append(res, silent...)
	model.SortByStart(res)
	return res
}

// IsMonophonic reports whether every pair of overlapping notes is a chord.
func IsMonophonic(notes model.Notes, tolerance int) bool {
	for i := range notes {
		for j := i + 1; j < len(notes); j++ {
			if notes[i].Overlaps(notes[j]) && !notes[i].IsSimultaneous(notes[j], tolerance) {
				return false
			}
		}
	}
	return true
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
