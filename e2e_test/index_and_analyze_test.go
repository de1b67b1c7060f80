//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/motifdex/cmd"
	"github.com/jsphweid/motifdex/midi"
	"github.com/jsphweid/motifdex/model"
	"github.com/stretchr/testify/assert"
)

func bars(count int) []model.Bar {
	var res []model.Bar
	for i := 0; i < count; i++ {
		res = append(res, model.Bar{
			BarNumber:                   i,
			StartTick:                   i * 384,
			TimeSignature:               model.TimeSignature{Numerator: 4, Denominator: 4},
			TempoMicrosecondsPerQuarter: 500000,
		})
	}
	return res
}

func chordSong() model.Notes {
	var notes model.Notes
	for i := 0; i < 8; i++ {
		pitches := []int{60, 64, 67}
		if i >= 4 {
			pitches = []int{60, 65, 69}
		}
		for _, p := range pitches {
			notes = append(notes, model.NewNote(p, 90, i*192, i*192+192, 0))
		}
	}
	return notes
}

// one motif a beat, a step higher every beat
func melodySong() model.Notes {
	var notes model.Notes
	for beat, p := range []int{60, 62, 64, 66, 68, 70, 72, 74} {
		start := beat * 96
		for i, step := range []int{0, 2, 4, 2} {
			notes = append(notes, model.NewNote(p+step, 90, start+i*24, start+i*24+24, 0))
		}
	}
	return notes
}

func midiBytes(notes model.Notes) []byte {
	var buf bytes.Buffer
	if err := midi.WriteMidi(&buf, notes, bars(4)); err != nil {
		panic(err.Error())
	}
	return buf.Bytes()
}

func TestMain(m *testing.M) {
	media, err := os.MkdirTemp("", "media")
	if err != nil {
		panic(err.Error())
	}
	index, err := os.MkdirTemp("", "index")
	if err != nil {
		panic(err.Error())
	}
	os.WriteFile(filepath.Join(media, "chords.mid"), midiBytes(chordSong()), 0666)
	os.WriteFile(filepath.Join(media, "melody.mid"), midiBytes(melodySong()), 0666)
	os.Setenv("MEDIA_PATH", media)
	os.Setenv("INDEX_PATH", index)

	if err := cmd.Index(0); err != nil {
		panic(err.Error())
	}
	if err := cmd.LoadServeFiles(); err != nil {
		panic(err.Error())
	}

	exitVal := m.Run()

	os.RemoveAll(media)
	os.RemoveAll(index)
	os.Exit(exitVal)
}

func analyze(query string, body []byte) *http.Response {
	req := httptest.NewRequest(http.MethodPost, "/analyze"+query, bytes.NewReader(body))
	w := httptest.NewRecorder()
	cmd.HandleAnalyze(w, req)
	return w.Result()
}

func TestAnalyzeChordsE2E(t *testing.T) {
	resp := analyze("?type=chord&version=1", midiBytes(chordSong()))
	respBody, _ := io.ReadAll(resp.Body)

	assert := assert.New(t)
	assert.Equal(200, resp.StatusCode)

	var analyzeResponse model.AnalyzeResponse
	err := json.Unmarshal(respBody, &analyzeResponse)
	if err != nil {
		panic(err.Error())
	}

	assert.Equal(1, analyzeResponse.Version)
	assert.Equal(24, analyzeResponse.NumNotes)
	assert.Contains(analyzeResponse.Artifacts, model.ArtifactResult{
		Type:      "Chord",
		Value:     "60,64,67",
		Instances: []model.TickRange{{Voice: -1, StartTick: 0, EndTick: 768}},
	})
}

func TestAnalyzeRejectsBadRequestsE2E(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(400, analyze("?version=9", midiBytes(chordSong())).StatusCode)
	assert.Equal(400, analyze("?type=nonsense", midiBytes(chordSong())).StatusCode)
	assert.Equal(400, analyze("", []byte("not midi")).StatusCode)
}

func TestCatalogE2E(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/catalog", nil)
	w := httptest.NewRecorder()
	cmd.HandleCatalog(w, req)

	resp := w.Result()
	respBody, _ := io.ReadAll(resp.Body)

	assert := assert.New(t)
	assert.Equal(200, resp.StatusCode)

	var entries []model.CatalogEntryResult
	err := json.Unmarshal(respBody, &entries)
	if err != nil {
		panic(err.Error())
	}
	assert.Contains(entries, model.CatalogEntryResult{
		Pattern:     "0:0:24,24:2:24,48:2:24,72:-2:24|96",
		Duration:    96,
		Occurrences: 8,
	})
}
