package model

import (
	"time"

	"github.com/jsphweid/motifdex/constants"
)

type TimeSignature struct {
	Numerator   int
	Denominator int
}

type Bar struct {
	BarNumber     int
	StartTick     int
	TimeSignature TimeSignature
	// sharps are positive, flats negative
	KeySignature                int
	TempoMicrosecondsPerQuarter int
	HasTriplets                 bool
}

// BeatLength is 0 for a malformed time signature.
func (b Bar) BeatLength() int {
	if b.TimeSignature.Denominator <= 0 {
		return 0
	}
	return constants.TicksPerWhole / b.TimeSignature.Denominator
}

func (b Bar) Beats() int {
	if b.TimeSignature.Numerator < 0 {
		return 0
	}
	return b.TimeSignature.Numerator
}

func (b Bar) Length() int {
	return b.BeatLength() * b.Beats()
}

func (b Bar) EndTick() int {
	return b.StartTick + b.Length()
}

// BarAt finds the bar containing tick. The last bar absorbs anything after it.
func BarAt(bars []Bar, tick int) (Bar, bool) {
	if len(bars) == 0 {
		return Bar{}, false
	}
	for i, b := range bars {
		if i == len(bars)-1 || tick < b.EndTick() {
			return b, true
		}
	}
	return Bar{}, false
}

// Duration is how long the bars take to play at their tempos. Bars without a
// tempo count at 120 bpm.
func Duration(bars []Bar) time.Duration {
	var micros int64
	for _, b := range bars {
		tempo := b.TempoMicrosecondsPerQuarter
		if tempo <= 0 {
			tempo = constants.DefaultTempo
		}
		micros += int64(b.Length()) * int64(tempo) / constants.TicksPerQuarter
	}
	return time.Duration(micros) * time.Microsecond
}
