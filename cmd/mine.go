package cmd

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jsphweid/motifdex/artifact"
	"github.com/jsphweid/motifdex/db"
	"github.com/jsphweid/motifdex/midi"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	mineOpts  analysis
	mineTop   int
	mineStore string
)

func init() {
	mineCmd.Flags().StringVarP(&mineOpts.kind, "type", "t", "pitch", "pitch, rhythm, melody, chord, chordprogression or melodymatch")
	mineCmd.Flags().IntVar(&mineOpts.version, "version", 1, "simplification version to mine")
	mineCmd.Flags().IntVar(&mineOpts.minLen, "min", 0, "shortest token pattern, 0 for the configured length")
	mineCmd.Flags().IntVar(&mineOpts.maxLen, "max", 0, "longest token pattern, 0 for the configured length")
	mineCmd.Flags().IntVar(&mineTop, "top", 20, "how many results to print")
	mineCmd.Flags().StringVar(&mineStore, "store", "", "persist artifacts to this store (dynamo)")
	rootCmd.AddCommand(mineCmd)
}

var mineCmd = &cobra.Command{
	Use:   "mine <midi file>",
	Short: "Mines one midi file",
	Long:  `Simplifies a midi file and prints the recurring material of the requested type.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mineFile(args[0])
	},
}

func mineFile(path string) error {
	song, err := midi.LoadSong(0, path)
	if err != nil {
		return err
	}
	res, err := mineOpts.run(song)
	if err != nil {
		return err
	}

	results := res.artifacts()
	fmt.Printf("%v: %v distinct results\n", song.Name, humanize.Comma(int64(len(results))))
	for i, r := range results {
		if i == mineTop {
			break
		}
		fmt.Printf("%v %v: %v instances\n", r.Type, r.Value, humanize.Comma(int64(len(r.Instances))))
	}

	switch mineStore {
	case "":
		return nil
	case "dynamo":
		if res.collection == nil {
			return errors.New("only artifacts can be stored")
		}
		store, err := db.Connect()
		if err != nil {
			return err
		}
		return artifact.Persist(context.Background(), store, res.collection)
	default:
		return errors.Errorf("unknown store %q", mineStore)
	}
}
