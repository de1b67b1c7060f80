package constants

import "os"

// 96 ticks is one quarter note everywhere in the library, whatever the
// resolution of the source file was.
const TicksPerQuarter = 96

const HalfBeatTicks = TicksPerQuarter / 2

const TicksPerWhole = TicksPerQuarter * 4

// midi channel 10
const PercussionChannel = 9

const BendCenter = 8192

const MaxPitch = 127

// microseconds per quarter, 120 bpm
const DefaultTempo = 500000

func GetIndexDir() string {
	path := os.Getenv("INDEX_PATH")
	if path != "" {
		return path
	}
	return "./out"
}

func GetMediaDir() string {
	return os.Getenv("MEDIA_PATH")
}

func GetConfigPath() string {
	return os.Getenv("MOTIFDEX_CONFIG")
}

func GetArtifactTable() string {
	table := os.Getenv("ARTIFACT_TABLE")
	if table != "" {
		return table
	}
	return "motifdex-artifacts"
}

func GetDynamoEndpoint() string {
	endpoint := os.Getenv("DYNAMO_ENDPOINT")
	if endpoint != "" {
		return endpoint
	}
	return "http://localhost:8000"
}

const CatalogFilename = "catalog.dat"

const FileNumToNameFilename = "fileNumToName.dat"

const SongSummariesFilename = "songs.dat"

const ChordsFilename = "chords.dat"
