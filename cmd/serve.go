package cmd

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/jsphweid/motifdex/bucket"
	"github.com/jsphweid/motifdex/constants"
	"github.com/jsphweid/motifdex/melody"
	"github.com/jsphweid/motifdex/midi"
	"github.com/jsphweid/motifdex/model"
	"github.com/jsphweid/motifdex/simplify"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const maxUploadBytes = 16 << 20

var (
	catalog   = melody.NewCatalog()
	serveAddr string
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "address to listen on")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serves",
	Long:  `Serves midi analysis and the indexed melody catalog over http.`,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

// LoadServeFiles loads the melody catalog of the index.
func LoadServeFiles() error {
	c, err := bucket.ReadCatalog(constants.GetIndexDir())
	if err != nil {
		return err
	}
	catalog = c
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Warn("could not write response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

func intParam(r *http.Request, name string, fallback int) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Errorf("%v must be a number", name)
	}
	return v, nil
}

func analysisFromRequest(r *http.Request) (analysis, error) {
	a := analysis{kind: r.URL.Query().Get("type")}
	if a.kind == "" {
		a.kind = "chord"
	}
	var err error
	if a.version, err = intParam(r, "version", 1); err != nil {
		return a, err
	}
	if a.version < 0 {
		return a, errors.Errorf("version %v is not allowed", a.version)
	}
	if a.minLen, err = intParam(r, "min", 0); err != nil {
		return a, err
	}
	a.maxLen, err = intParam(r, "max", 0)
	return a, err
}

// HandleAnalyze simplifies and mines the midi file in the request body.
func HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	a, err := analysisFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	parsed, err := midi.ReadMidi(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	song, err := midi.SongFromSMF(0, "upload", parsed)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := a.run(song)
	switch {
	case errors.Is(err, simplify.ErrNoFurtherSimplification), errors.Is(err, model.ErrUnknownArtifactType),
		errors.Is(err, model.ErrUnknownVersion):
		writeError(w, http.StatusBadRequest, err)
		return
	case err != nil:
		logrus.WithError(err).Error("analysis failed")
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, model.AnalyzeResponse{
		Version:    res.simp.Version,
		VoiceCount: res.simp.VoiceCount,
		NumNotes:   len(res.simp.Notes),
		Artifacts:  res.artifacts(),
	})
}

// HandleCatalog lists the most frequent melodies of the index.
func HandleCatalog(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", 100)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	res := make([]model.CatalogEntryResult, 0)
	for i, e := range catalog.Sorted() {
		if i == limit {
			break
		}
		res = append(res, model.CatalogEntryResult{
			Pattern:     e.Pattern.Key(),
			Duration:    e.Pattern.Duration,
			Occurrences: e.Count(),
		})
	}
	writeJSON(w, http.StatusOK, res)
}

func serve() {
	if err := LoadServeFiles(); err != nil {
		logrus.WithError(err).Warn("serving without a melody catalog")
	}

	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/analyze", HandleAnalyze).Methods("POST")
	router.HandleFunc("/catalog", HandleCatalog).Methods("GET")
	handler := cors.Default().Handler(router)

	logrus.WithField("addr", serveAddr).Info("listening")
	logrus.Fatal(http.ListenAndServe(serveAddr, handler))
}
