package midi

import (
	"io"
	"sort"

	"github.com/jsphweid/motifdex/constants"
	"github.com/jsphweid/motifdex/model"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

type timedMessage struct {
	tick int
	// note offs sort before note ons on the same tick
	order int
	msg   midi.Message
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > constants.MaxPitch {
		return constants.MaxPitch
	}
	return uint8(v)
}

func closeTrack(msgs []timedMessage) smf.Track {
	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].tick != msgs[j].tick {
			return msgs[i].tick < msgs[j].tick
		}
		return msgs[i].order < msgs[j].order
	})

	var track smf.Track
	var last int
	for _, m := range msgs {
		track.Add(uint32(m.tick-last), m.msg)
		last = m.tick
	}
	track.Close(0)
	return track
}

func conductorTrack(bars []model.Bar) smf.Track {
	var msgs []timedMessage
	var prev model.Bar
	for i, b := range bars {
		if i == 0 || b.TimeSignature != prev.TimeSignature {
			msgs = append(msgs, timedMessage{
				tick: b.StartTick,
				msg:  midi.Message(smf.MetaMeter(uint8(b.TimeSignature.Numerator), uint8(b.TimeSignature.Denominator))),
			})
		}
		if b.TempoMicrosecondsPerQuarter > 0 && (i == 0 || b.TempoMicrosecondsPerQuarter != prev.TempoMicrosecondsPerQuarter) {
			bpm := 60000000 / float64(b.TempoMicrosecondsPerQuarter)
			msgs = append(msgs, timedMessage{tick: b.StartTick, msg: midi.Message(smf.MetaTempo(bpm))})
		}
		prev = b
	}
	return closeTrack(msgs)
}

// Encode writes the notes back as a format 1 file: one conductor track built
// from the bars, then one track per voice. Melodic voices are spread over the
// non-percussion channels.
func Encode(notes model.Notes, bars []model.Bar) *smf.SMF {
	res := smf.New()
	res.TimeFormat = smf.MetricTicks(constants.TicksPerQuarter)
	res.Tracks = append(res.Tracks, conductorTrack(bars))

	var melodicChannel uint8
	byVoice := model.GroupByVoice(notes)
	for _, v := range model.VoiceNumbers(notes) {
		voiceNotes := byVoice[v]

		channel := uint8(constants.PercussionChannel)
		if !voiceNotes[0].IsPercussion {
			channel = melodicChannel % 16
			if channel == constants.PercussionChannel {
				melodicChannel++
				channel = melodicChannel % 16
			}
			melodicChannel++
		}

		msgs := []timedMessage{{
			tick: 0,
			msg:  midi.ProgramChange(channel, clampByte(voiceNotes[0].Instrument)),
		}}
		for _, n := range voiceNotes {
			if n.Duration() <= 0 {
				continue
			}
			msgs = append(msgs,
				timedMessage{tick: n.StartTick, order: 1, msg: midi.NoteOn(channel, clampByte(n.Pitch), clampByte(n.Volume))},
				timedMessage{tick: n.EndTick, order: 0, msg: midi.NoteOff(channel, clampByte(n.Pitch))},
			)
		}
		res.Tracks = append(res.Tracks, closeTrack(msgs))
	}
	return res
}

func WriteMidi(w io.Writer, notes model.Notes, bars []model.Bar) error {
	if _, err := Encode(notes, bars).WriteTo(w); err != nil {
		return errors.Wrap(err, "could not write midi")
	}
	return nil
}
