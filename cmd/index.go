package cmd

import (
	"strconv"

	"github.com/jsphweid/motifdex/bucket"
	"github.com/jsphweid/motifdex/constants"
	"github.com/jsphweid/motifdex/file"
	"github.com/jsphweid/motifdex/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(indexCmd)
}

var indexCmd = &cobra.Command{
	Use:   "index [max files]",
	Short: "Creates index",
	Long:  `Simplifies and mines every midi file under MEDIA_PATH and writes the results to INDEX_PATH.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var maxNum int
		if len(args) == 1 {
			arg1, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			maxNum = arg1
		}
		return Index(maxNum)
	},
}

// Index rebuilds the index from at most maxNum files, 0 meaning all of them.
func Index(maxNum int) error {
	root := constants.GetMediaDir()
	dir := constants.GetIndexDir()
	paths, err := util.GatherAllMidiPaths(root, maxNum)
	if err != nil {
		return err
	}
	if err := bucket.DeleteAll(dir); err != nil {
		return err
	}
	fileNumMap := file.CreateFileNumMap(root, paths)
	idx := bucket.ProcessAllMidiFiles(root, fileNumMap, tuning)
	return bucket.Write(dir, idx, fileNumMap)
}
