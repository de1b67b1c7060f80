// Package bucket builds the on-disk index: every song is simplified, its
// chords and melodies are mined, and the results of all songs are pooled.
package bucket

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jsphweid/motifdex/artifact"
	"github.com/jsphweid/motifdex/chord"
	"github.com/jsphweid/motifdex/config"
	"github.com/jsphweid/motifdex/constants"
	"github.com/jsphweid/motifdex/file"
	"github.com/jsphweid/motifdex/melody"
	"github.com/jsphweid/motifdex/midi"
	"github.com/jsphweid/motifdex/model"
	"github.com/jsphweid/motifdex/simplify"
	"github.com/jsphweid/motifdex/util"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// songs are indexed at this simplification version
const IndexVersion = 1

type Index struct {
	Songs   []model.SongSummary
	Chords  artifact.Collection
	Catalog *melody.Catalog
}

func NewIndex() Index {
	return Index{Chords: make(artifact.Collection), Catalog: melody.NewCatalog()}
}

type songResult struct {
	summary model.SongSummary
	chords  artifact.Collection
	catalog *melody.Catalog
}

func processSong(song model.Song, t config.Tuning) (songResult, error) {
	song, err := simplify.SimplifySong(song, IndexVersion, t)
	if err != nil {
		return songResult{}, err
	}
	simp, err := song.MustSimplification(IndexVersion)
	if err != nil {
		return songResult{}, err
	}
	catalog, err := melody.Mine(song, IndexVersion, t)
	if err != nil {
		return songResult{}, err
	}

	chords := chord.Mine(song.ID, simp, t)
	// the index only needs where a chord is, not which notes made it
	for _, m := range chords {
		for i := range m.Instances {
			m.Instances[i].Notes = nil
		}
	}
	return songResult{
		summary: model.SongSummary{
			ID:       song.ID,
			Name:     song.Name,
			Notes:    len(simp.Notes),
			Voices:   simp.VoiceCount,
			Bars:     len(song.Bars),
			Chords:   chords.InstanceCount(),
			Duration: model.Duration(song.Bars),
		},
		chords:  chords,
		catalog: catalog,
	}, nil
}

func processMidiFile(fileNum uint32, path string, t config.Tuning) (songResult, error) {
	song, err := midi.LoadSong(fileNum, path)
	if err != nil {
		return songResult{}, err
	}
	return processSong(song, t)
}

// ProcessAllMidiFiles indexes every song in m. A song that cannot be read or
// mined is skipped.
func ProcessAllMidiFiles(root string, m model.FileNumToMidiPath, t config.Tuning) Index {
	res := NewIndex()
	keys := util.GetKeys(m)
	for i, num := range keys {
		fmt.Printf("Processing %v of %v midi files\n", i+1, len(keys))
		path, _ := file.Path(root, m, num)
		song, err := processMidiFile(num, path, t)
		if err != nil {
			fmt.Printf("Skipping %v because: %v\n", m[num], err)
			continue
		}
		res.Songs = append(res.Songs, song.summary)
		res.Chords.Merge(song.chords)
		res.Catalog.Merge(song.catalog)
	}
	return res
}

// Files lists every file an index is made of.
func Files(dir string) []string {
	return []string{
		filepath.Join(dir, constants.CatalogFilename),
		filepath.Join(dir, constants.ChordsFilename),
		filepath.Join(dir, constants.SongSummariesFilename),
		filepath.Join(dir, constants.FileNumToNameFilename),
	}
}

// DeleteAll removes a previous index from dir.
func DeleteAll(dir string) error {
	for _, path := range Files(dir) {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "could not remove %v", path)
		}
	}
	return nil
}

func Write(dir string, idx Index, fileNums model.FileNumToMidiPath) error {
	if err := util.EnsureOutputDir(dir); err != nil {
		return errors.Wrap(err, "could not create index dir")
	}
	files := map[string]any{
		constants.CatalogFilename:       idx.Catalog,
		constants.ChordsFilename:        idx.Chords,
		constants.SongSummariesFilename: idx.Songs,
		constants.FileNumToNameFilename: fileNums,
	}
	for _, name := range util.GetKeys(files) {
		if err := util.CreateBinary(filepath.Join(dir, name), files[name]); err != nil {
			return err
		}
	}
	return nil
}

func ReadCatalog(dir string) (*melody.Catalog, error) {
	return util.ReadBinary[*melody.Catalog](filepath.Join(dir, constants.CatalogFilename))
}

// Read loads an index written by Write.
func Read(dir string) (Index, model.FileNumToMidiPath, error) {
	res := NewIndex()
	catalog, err := ReadCatalog(dir)
	if err != nil {
		return res, nil, err
	}
	res.Catalog = catalog
	if res.Chords, err = util.ReadBinary[artifact.Collection](filepath.Join(dir, constants.ChordsFilename)); err != nil {
		return res, nil, err
	}
	if res.Songs, err = util.ReadBinary[[]model.SongSummary](filepath.Join(dir, constants.SongSummariesFilename)); err != nil {
		return res, nil, err
	}
	fileNums, err := util.ReadBinary[model.FileNumToMidiPath](filepath.Join(dir, constants.FileNumToNameFilename))
	if err != nil {
		return res, nil, err
	}
	logrus.WithFields(logrus.Fields{
		"songs":    len(res.Songs),
		"chords":   len(res.Chords),
		"patterns": res.Catalog.Len(),
	}).Debug("read index")
	return res, fileNums, nil
}
