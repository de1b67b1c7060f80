package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jsphweid/motifdex/midi"
	"github.com/jsphweid/motifdex/model"
	"github.com/stretchr/testify/assert"
)

func cMajorMidi(t *testing.T) []byte {
	var notes model.Notes
	for _, p := range []int{60, 64, 67} {
		notes = append(notes, model.NewNote(p, 90, 0, 192, 0))
	}
	bars := []model.Bar{{
		TimeSignature:               model.TimeSignature{Numerator: 4, Denominator: 4},
		TempoMicrosecondsPerQuarter: 500000,
	}}
	var buf bytes.Buffer
	if err := midi.WriteMidi(&buf, notes, bars); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func postAnalyze(query string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/analyze"+query, bytes.NewReader(body))
	w := httptest.NewRecorder()
	HandleAnalyze(w, req)
	return w
}

func TestHandleAnalyzeStatus(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"defaults", "", http.StatusOK},
		{"negative version", "?version=-1", http.StatusBadRequest},
		{"version past the last", "?version=4", http.StatusBadRequest},
		{"version not a number", "?version=one", http.StatusBadRequest},
		{"unknown type", "?type=scale", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postAnalyze(tt.query, cMajorMidi(t))
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestHandleAnalyzeFindsChord(t *testing.T) {
	w := postAnalyze("?type=chord", cMajorMidi(t))

	assert := assert.New(t)
	assert.Equal(http.StatusOK, w.Code)
	var res model.AnalyzeResponse
	assert.Nil(json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(1, res.Version)
	assert.Equal(3, res.NumNotes)
	assert.Contains(res.Artifacts, model.ArtifactResult{
		Type:      "Chord",
		Value:     "60,64,67",
		Instances: []model.TickRange{{Voice: -1, StartTick: 0, EndTick: 192}},
	})
}
