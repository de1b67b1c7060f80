package cmd

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/jsphweid/motifdex/midi"
	"github.com/jsphweid/motifdex/simplify"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	simplifyVersion int
	simplifyOut     string
)

func init() {
	simplifyCmd.Flags().IntVar(&simplifyVersion, "version", 1, "simplification version to build")
	simplifyCmd.Flags().StringVarP(&simplifyOut, "out", "o", "", "write the simplified notes to this midi file")
	rootCmd.AddCommand(simplifyCmd)
}

var simplifyCmd = &cobra.Command{
	Use:   "simplify <midi file>",
	Short: "Simplifies a midi file",
	Long:  `Builds every simplification of a midi file up to --version and prints what each one holds.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return simplifyFile(args[0], simplifyVersion, simplifyOut)
	},
}

func simplifyFile(path string, version int, out string) error {
	song, err := midi.LoadSong(0, path)
	if err != nil {
		return err
	}
	song, err = simplify.SimplifySong(song, version, tuning)
	if err != nil {
		return err
	}
	for _, s := range song.Simplifications {
		fmt.Printf("version %v: %v voices, %v notes\n", s.Version, s.VoiceCount, humanize.Comma(int64(len(s.Notes))))
	}
	if out == "" {
		return nil
	}

	simp, err := song.MustSimplification(version)
	if err != nil {
		return err
	}
	f, err := os.Create(out)
	if err != nil {
		return errors.Wrapf(err, "could not create %v", out)
	}
	defer f.Close()
	return midi.WriteMidi(f, simp.Notes, song.Bars)
}
