package midi

import (
	"sort"

	"github.com/jsphweid/motifdex/constants"
	"github.com/jsphweid/motifdex/model"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

type metaEvent struct {
	tick  int
	num   int
	denom int
	tempo int
	key   int
	kind  int
}

const (
	metaTimeSig = iota
	metaTempo
	metaKey
)

type voiceKey struct {
	track   int
	channel uint8
}

type soundingKey struct {
	channel uint8
	key     uint8
}

// Decode turns every note of the file into a model.Note on the 96 ticks per
// quarter grid and derives the bar list from the time signature, tempo and key
// signature meta events. Each (track, channel) pair becomes a voice.
func Decode(s *smf.SMF) (model.Notes, []model.Bar, error) {
	mt, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok || mt == 0 {
		return nil, nil, errors.New("only metric time formats are supported")
	}
	resolution := int64(mt)
	scale := func(tick int64) int {
		return int((tick*constants.TicksPerQuarter + resolution/2) / resolution)
	}

	var notes model.Notes
	var metas []metaEvent
	voices := make(map[voiceKey]int)

	for trackNum, track := range s.Tracks {
		var absTicks int64
		var programs [16]int
		var bends [16]int
		for i := range bends {
			bends[i] = constants.BendCenter
		}
		sounding := make(map[soundingKey][]int)

		for _, event := range track {
			absTicks += int64(event.Delta)
			tick := scale(absTicks)
			msg := midi.Message(event.Message)

			var channel, key, velocity, program uint8
			var relative int16
			var absolute uint16
			var num, denom, cpt, dsqpq uint8
			var bpm float64
			var keyNote, keyNum uint8
			var isMajor, isFlat bool

			switch {
			case msg.GetNoteStart(&channel, &key, &velocity):
				vk := voiceKey{track: trackNum, channel: channel}
				if _, ok := voices[vk]; !ok {
					voices[vk] = len(voices)
				}
				n := model.NewNote(int(key), int(velocity), tick, tick, voices[vk])
				n.Instrument = programs[channel]
				n.IsPercussion = channel == constants.PercussionChannel
				if bends[channel] != constants.BendCenter {
					n.PitchBends = append(n.PitchBends, model.PitchBend{Tick: tick, Value: bends[channel]})
				}
				sk := soundingKey{channel: channel, key: key}
				sounding[sk] = append(sounding[sk], len(notes))
				notes = append(notes, n)
			case msg.GetNoteEnd(&channel, &key):
				sk := soundingKey{channel: channel, key: key}
				open := sounding[sk]
				if len(open) == 0 {
					continue
				}
				notes[open[0]].EndTick = tick
				sounding[sk] = open[1:]
			case msg.GetProgramChange(&channel, &program):
				programs[channel] = int(program)
			case msg.GetPitchBend(&channel, &relative, &absolute):
				bends[channel] = int(absolute)
				for sk, open := range sounding {
					if sk.channel != channel {
						continue
					}
					for _, idx := range open {
						notes[idx].PitchBends = append(notes[idx].PitchBends, model.PitchBend{Tick: tick, Value: int(absolute)})
					}
				}
			case event.Message.GetMetaTimeSig(&num, &denom, &cpt, &dsqpq):
				metas = append(metas, metaEvent{tick: tick, kind: metaTimeSig, num: int(num), denom: int(denom)})
			case event.Message.GetMetaTempo(&bpm):
				if bpm > 0 {
					metas = append(metas, metaEvent{tick: tick, kind: metaTempo, tempo: int(60000000 / bpm)})
				}
			case event.Message.GetMetaKeySig(&keyNote, &keyNum, &isMajor, &isFlat):
				k := int(keyNum)
				if isFlat {
					k = -k
				}
				metas = append(metas, metaEvent{tick: tick, kind: metaKey, key: k})
			}
		}

		// anything still held is closed by the end of the track
		end := scale(absTicks)
		for _, open := range sounding {
			for _, idx := range open {
				notes[idx].EndTick = end
			}
		}
	}

	for i := range notes {
		if notes[i].EndTick < notes[i].StartTick {
			logrus.WithFields(logrus.Fields{
				"pitch": notes[i].Pitch,
				"start": notes[i].StartTick,
				"end":   notes[i].EndTick,
			}).Warn("note ends before it starts, clamping")
			notes[i].EndTick = notes[i].StartTick
		}
		sort.SliceStable(notes[i].PitchBends, func(a, b int) bool {
			return notes[i].PitchBends[a].Tick < notes[i].PitchBends[b].Tick
		})
	}
	model.SortByStart(notes)

	bars := buildBars(metas, model.LastEndTick(notes))
	markTriplets(bars, notes)
	return notes, bars, nil
}

// buildBars lays bars from tick 0 until lastTick. A time signature change
// that falls inside a bar takes effect at the next barline.
func buildBars(metas []metaEvent, lastTick int) []model.Bar {
	sort.SliceStable(metas, func(i, j int) bool {
		return metas[i].tick < metas[j].tick
	})

	sig := model.TimeSignature{Numerator: 4, Denominator: 4}
	tempo := constants.DefaultTempo
	key := 0

	var bars []model.Bar
	var barStart int
	metaPos := 0
	for barStart < lastTick || len(bars) == 0 {
		for metaPos < len(metas) && metas[metaPos].tick <= barStart {
			m := metas[metaPos]
			switch m.kind {
			case metaTimeSig:
				if m.num > 0 && m.denom > 0 {
					sig = model.TimeSignature{Numerator: m.num, Denominator: m.denom}
				}
			case metaTempo:
				tempo = m.tempo
			case metaKey:
				key = m.key
			}
			metaPos++
		}

		b := model.Bar{
			BarNumber:                   len(bars),
			StartTick:                   barStart,
			TimeSignature:               sig,
			KeySignature:                key,
			TempoMicrosecondsPerQuarter: tempo,
		}
		bars = append(bars, b)
		if b.Length() <= 0 {
			break
		}
		barStart = b.EndTick()
	}
	return bars
}

// a note starting on the eighth-triplet grid but off the sixteenth grid
func markTriplets(bars []model.Bar, notes model.Notes) {
	for _, n := range notes {
		for i := range bars {
			if n.StartTick < bars[i].StartTick || n.StartTick >= bars[i].EndTick() {
				continue
			}
			offset := n.StartTick - bars[i].StartTick
			if offset%(constants.TicksPerQuarter/3) == 0 && offset%(constants.TicksPerQuarter/4) != 0 {
				bars[i].HasTriplets = true
			}
			break
		}
	}
}
