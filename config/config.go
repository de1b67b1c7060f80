package config

import (
	"os"
	"runtime"

	"github.com/jsphweid/motifdex/constants"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Tuning holds every empirical threshold used by the simplification pipeline
// and the miners. The defaults are the values the pipeline was tuned with;
// none of them have a derivation beyond "works on real files".
type Tuning struct {
	// bend flattening
	BendTolerance        int `yaml:"bend_tolerance"`
	BendUnitsPerSemitone int `yaml:"bend_units_per_semitone"`

	// quantization
	QuantizeSnapTicks     int `yaml:"quantize_snap_ticks"`
	DurationSnapTolerance int `yaml:"duration_snap_tolerance"`

	// timing correction
	TimingToleranceDivisor int `yaml:"timing_tolerance_divisor"`
	TimingMaxTolerance     int `yaml:"timing_max_tolerance"`
	RunLength              int `yaml:"run_length"`
	RunMaxPitchStep        int `yaml:"run_max_pitch_step"`

	// duplicate removal
	DuplicateToleranceDivisor int `yaml:"duplicate_tolerance_divisor"`

	// voice splitting
	ChordTolerance        int     `yaml:"chord_tolerance"`
	ChordFraction         float64 `yaml:"chord_fraction"`
	MaxSplits             int     `yaml:"max_splits"`
	OverlapMaxTicks       int     `yaml:"overlap_max_ticks"`
	SmallOverlapDivisor   int     `yaml:"small_overlap_divisor"`
	SmallGapDivisor       int     `yaml:"small_gap_divisor"`
	ReclaimWindow         int     `yaml:"reclaim_window"`
	ReclaimPitchTolerance float64 `yaml:"reclaim_pitch_tolerance"`
	RemainingVoiceDivisor int     `yaml:"remaining_voice_divisor"`
	RemainingSongDivisor  int     `yaml:"remaining_song_divisor"`

	// higher simplification versions
	OrnamentMaxTicks int `yaml:"ornament_max_ticks"`

	// chords
	ChordSlotTicks int `yaml:"chord_slot_ticks"`
	MinChordSize   int `yaml:"min_chord_size"`
	MaxChordSize   int `yaml:"max_chord_size"`

	// token patterns
	MinPatternLength       int     `yaml:"min_pattern_length"`
	MaxPatternLength       int     `yaml:"max_pattern_length"`
	MinArtifactOccurrences int     `yaml:"min_artifact_occurrences"`
	UniformDurationFloor   int     `yaml:"uniform_duration_floor"`
	UniformDurationSpread  int     `yaml:"uniform_duration_spread"`
	MultipleFraction       float64 `yaml:"multiple_fraction"`

	// melody matching
	MelodyWindowBeats    []int `yaml:"melody_window_beats"`
	MinMelodyOccurrences int   `yaml:"min_melody_occurrences"`
	ContainmentTolerance int   `yaml:"containment_tolerance"`
	RejectSameStartPitch bool  `yaml:"reject_same_start_pitch"`

	// 0 means runtime.NumCPU()
	Workers int `yaml:"workers"`
}

func Default() Tuning {
	return Tuning{
		BendTolerance:        500,
		BendUnitsPerSemitone: 4096,

		QuantizeSnapTicks:     2,
		DurationSnapTolerance: 16,

		TimingToleranceDivisor: 4,
		TimingMaxTolerance:     6,
		RunLength:              4,
		RunMaxPitchStep:        12,

		DuplicateToleranceDivisor: 4,

		ChordTolerance:        3,
		ChordFraction:         0.10,
		MaxSplits:             4,
		OverlapMaxTicks:       8,
		SmallOverlapDivisor:   8,
		SmallGapDivisor:       3,
		ReclaimWindow:         300,
		ReclaimPitchTolerance: 7,
		RemainingVoiceDivisor: 5,
		RemainingSongDivisor:  6,

		OrnamentMaxTicks: 24,

		ChordSlotTicks: constants.HalfBeatTicks,
		MinChordSize:   2,
		MaxChordSize:   16,

		MinPatternLength:       3,
		MaxPatternLength:       12,
		MinArtifactOccurrences: 2,
		UniformDurationFloor:   4,
		UniformDurationSpread:  2,
		MultipleFraction:       0.8,

		MelodyWindowBeats:    []int{1, 2, 3, 4},
		MinMelodyOccurrences: 5,
		ContainmentTolerance: 3,
		RejectSameStartPitch: true,
	}
}

// Load reads a yaml file over the defaults. Fields missing from the file keep
// their default value. An empty path is not an error.
func Load(path string) (Tuning, error) {
	t := Default()
	if path == "" {
		return t, nil
	}

	dat, err := os.ReadFile(path)
	if err != nil {
		return t, errors.Wrapf(err, "could not read tuning file %v", path)
	}
	if err := yaml.Unmarshal(dat, &t); err != nil {
		return t, errors.Wrapf(err, "could not parse tuning file %v", path)
	}
	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

func (t Tuning) Validate() error {
	switch {
	case t.BendUnitsPerSemitone <= 0:
		return errors.New("bend_units_per_semitone must be positive")
	case t.TimingToleranceDivisor <= 0, t.DuplicateToleranceDivisor <= 0,
		t.SmallOverlapDivisor <= 0, t.SmallGapDivisor <= 0,
		t.RemainingVoiceDivisor <= 0, t.RemainingSongDivisor <= 0:
		return errors.New("tolerance divisors must be positive")
	case t.ChordSlotTicks <= 0:
		return errors.New("chord_slot_ticks must be positive")
	case t.MaxSplits < 1:
		return errors.New("max_splits must be at least 1")
	case t.RunLength < 2:
		return errors.New("run_length must be at least 2")
	}
	for _, b := range t.MelodyWindowBeats {
		if b <= 0 {
			return errors.Errorf("melody window of %v beats is not allowed", b)
		}
	}
	return nil
}

// WorkerCount is how many voices or voice pairs are processed at once.
func (t Tuning) WorkerCount() int {
	if t.Workers > 0 {
		return t.Workers
	}
	return runtime.NumCPU()
}
