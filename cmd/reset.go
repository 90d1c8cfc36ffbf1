package cmd

import (
	"log"

	"github.com/mhaensel/jobradar/internal/logger"
	"github.com/mhaensel/jobradar/internal/seen"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the seen postings database so everything reports as new again",
	Run: func(cmd *cobra.Command, _ []string) {
		reset(cmd)
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)

	resetCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}

func reset(cmd *cobra.Command) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	store := seen.Load(config.State.File, logger)

	if !flagSet(cmd, "yes") {
		prompt := promptui.Select{
			Label: "Reset the seen postings database?",
			Items: []string{PromptYes, PromptNo},
		}

		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		if action != PromptYes {
			logger.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}
	}

	if err := store.Reset(); err != nil {
		logger.Fatal("resetting seen state", zap.Error(err))
	}
}
