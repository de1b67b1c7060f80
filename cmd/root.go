package cmd

import (
	"github.com/jsphweid/motifdex/config"
	"github.com/jsphweid/motifdex/constants"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	tuning     = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "motifdex",
	Short: "Finds recurring musical material in midi files",
	Long: `motifdex simplifies midi files into monophonic voices and mines them
for recurring pitch, rhythm and melody patterns, chords and melodies.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
		t, err := config.Load(configPath)
		if err != nil {
			return err
		}
		tuning = t
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", constants.GetConfigPath(), "yaml file overriding the default tuning")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every pipeline stage")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
