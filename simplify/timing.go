package simplify

import (
	"sort"

	"github.com/jsphweid/motifdex/config"
	"github.com/jsphweid/motifdex/model"
	"github.com/jsphweid/motifdex/util"
)

// CorrectTiming pulls nearly aligned onsets and note boundaries onto a shared
// round tick, then uses runs of even notes to fix the end of the note leading
// into them. Expects quantized input.
func CorrectTiming(notes model.Notes, t config.Tuning) model.Notes {
	res := model.CloneNotes(notes)
	model.SortByStart(res)
	alignStarts(res, t)
	alignEndsToStarts(res, t)
	return snapBeforeRuns(res, t)
}

func timingTolerance(a, b model.Note, t config.Tuning) int {
	return util.Min(util.Min(a.Duration(), b.Duration())/t.TimingToleranceDivisor, t.TimingMaxTolerance)
}

// sharedTick is the roundest tick between a and b that keeps both notes
// sounding.
func sharedTick(a, b int) int {
	lo, hi := util.Min(a, b), util.Max(a, b)
	return model.RoundTick(lo, hi, (lo+hi)/2)
}

func alignStarts(notes model.Notes, t config.Tuning) {
	for i := range notes {
		if notes[i].IsPercussion {
			continue
		}
		for j := i + 1; j < len(notes); j++ {
			a, b := notes[i], notes[j]
			gap := b.StartTick - a.StartTick
			if gap > t.TimingMaxTolerance {
				break
			}
			if gap <= 0 || b.IsPercussion || gap > timingTolerance(a, b, t) {
				continue
			}
			tick := sharedTick(a.StartTick, b.StartTick)
			if tick >= a.EndTick || tick >= b.EndTick {
				continue
			}
			notes[i].StartTick = tick
			notes[j].StartTick = tick
		}
	}
}

func alignEndsToStarts(notes model.Notes, t config.Tuning) {
	byStart := make([]int, len(notes))
	for i := range byStart {
		byStart[i] = i
	}
	sort.SliceStable(byStart, func(x, y int) bool {
		return notes[byStart[x]].StartTick < notes[byStart[y]].StartTick
	})

	for i := range notes {
		if notes[i].IsPercussion {
			continue
		}
		end := notes[i].EndTick
		from := sort.Search(len(byStart), func(k int) bool {
			return notes[byStart[k]].StartTick >= end-t.TimingMaxTolerance
		})
		for k := from; k < len(byStart); k++ {
			j := byStart[k]
			a, b := notes[i], notes[j]
			if b.StartTick > a.EndTick+t.TimingMaxTolerance {
				break
			}
			gap := util.Abs(b.StartTick - a.EndTick)
			if j == i || b.IsPercussion || gap == 0 || b.StartTick <= a.StartTick || gap > timingTolerance(a, b, t) {
				continue
			}
			tick := sharedTick(a.EndTick, b.StartTick)
			if tick <= a.StartTick || tick >= b.EndTick {
				continue
			}
			notes[i].EndTick = tick
			notes[j].StartTick = tick
		}
	}
}

// runScanner walks one voice looking for a run of notes that each start where
// the previous one ends, with similar durations and small pitch steps.
type runScanner struct {
	t     config.Tuning
	run   []int
	total int
}

func (s *runScanner) average() int {
	if len(s.run) == 0 {
		return 0
	}
	return s.total / len(s.run)
}

func (s *runScanner) reset() {
	s.run = s.run[:0]
	s.total = 0
}

func (s *runScanner) push(i int, n model.Note) {
	s.run = append(s.run, i)
	s.total += n.Duration()
}

func (s *runScanner) accepts(prev, next model.Note) bool {
	avg := s.average()
	if next.StartTick != prev.EndTick || avg <= 0 {
		return false
	}
	if util.Abs(next.Duration()-avg) > avg/3 {
		return false
	}
	return util.Abs(next.Pitch-prev.Pitch) < s.t.RunMaxPitchStep
}

func (s *runScanner) complete() bool {
	return len(s.run) >= s.t.RunLength
}

func snapBeforeRuns(notes model.Notes, t config.Tuning) model.Notes {
	byVoice := model.GroupByVoice(notes)
	var res model.Notes
	for _, v := range model.VoiceNumbers(notes) {
		voiceNotes := byVoice[v]
		model.SortByStart(voiceNotes)
		if !voiceNotes[0].IsPercussion {
			scanRuns(voiceNotes, t)
		}
		res = append(res, voiceNotes...)
	}
	model.SortByStart(res)
	return res
}

func scanRuns(notes model.Notes, t config.Tuning) {
	s := &runScanner{t: t}
	for i, n := range notes {
		switch {
		case len(s.run) == 0:
			s.push(i, n)
		case s.accepts(notes[s.run[len(s.run)-1]], n):
			s.push(i, n)
		default:
			s.reset()
			s.push(i, n)
		}
		if !s.complete() {
			continue
		}
		snapLeadIn(notes, s.run[0], s.average())
		s.reset()
	}
}

// snapLeadIn ends the note that starts about one run-note before the run
// exactly where the run begins. Only a note already ending close to the run
// start qualifies, so a held note in another line is left alone.
func snapLeadIn(notes model.Notes, first, avg int) {
	runStart := notes[first].StartTick
	want := runStart - avg
	best := -1
	for i := first - 1; i >= 0; i-- {
		if notes[i].StartTick < want-avg/3 {
			break
		}
		if notes[i].StartTick >= runStart || util.Abs(notes[i].StartTick-want) > avg/3 ||
			util.Abs(notes[i].EndTick-runStart) > avg/3 {
			continue
		}
		if best < 0 || util.Abs(notes[i].StartTick-want) < util.Abs(notes[best].StartTick-want) {
			best = i
		}
	}
	if best < 0 || notes[best].EndTick == runStart {
		return
	}
	notes[best].EndTick = runStart
}
