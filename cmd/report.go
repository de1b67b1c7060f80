package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/jsphweid/motifdex/bucket"
	"github.com/jsphweid/motifdex/constants"
	"github.com/spf13/cobra"
)

var reportTop int

func init() {
	reportCmd.Flags().IntVar(&reportTop, "top", 10, "how many chords and melodies to list")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Creates a report",
	Long:  `Summarizes the index in INDEX_PATH.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return report(constants.GetIndexDir())
	},
}

type indexReport struct {
	numSongs  int
	numFiles  int
	numNotes  int64
	numChords int64
	numBytes  uint64
	music     time.Duration
}

func report(dir string) error {
	idx, fileNums, err := bucket.Read(dir)
	if err != nil {
		return err
	}

	r := indexReport{numSongs: len(idx.Songs), numFiles: len(fileNums)}
	for _, s := range idx.Songs {
		r.numNotes += int64(s.Notes)
		r.numChords += int64(s.Chords)
		r.music += s.Duration
	}
	for _, path := range bucket.Files(dir) {
		if stats, err := os.Stat(path); err == nil {
			r.numBytes += uint64(stats.Size())
		}
	}

	fmt.Printf("songs: %v of %v files\n", humanize.Comma(int64(r.numSongs)), humanize.Comma(int64(r.numFiles)))
	fmt.Printf("music: %v\n", durafmt.Parse(r.music).LimitFirstN(2))
	fmt.Printf("notes: %v\n", humanize.Comma(r.numNotes))
	fmt.Printf("chords: %v distinct, %v instances\n", humanize.Comma(int64(len(idx.Chords))), humanize.Comma(r.numChords))
	fmt.Printf("melodies: %v\n", humanize.Comma(int64(idx.Catalog.Len())))
	fmt.Printf("index size: %v\n", humanize.Bytes(r.numBytes))

	fmt.Println("top chords:")
	for i, m := range idx.Chords.Sorted() {
		if i == reportTop {
			break
		}
		fmt.Printf("  %v: %v\n", m.Artifact.Value, humanize.Comma(int64(len(m.Instances))))
	}
	fmt.Println("top melodies:")
	for i, e := range idx.Catalog.Sorted() {
		if i == reportTop {
			break
		}
		fmt.Printf("  %v: %v\n", e.Pattern.Key(), humanize.Comma(int64(e.Count())))
	}
	return nil
}
