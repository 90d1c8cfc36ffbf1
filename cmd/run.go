package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/mhaensel/jobradar/internal/logger"
	"github.com/mhaensel/jobradar/internal/pipeline"
	"github.com/mhaensel/jobradar/internal/report"
	"github.com/mhaensel/jobradar/internal/seen"
	"github.com/mhaensel/jobradar/internal/source"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scrape, score and report pipeline",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("dry-run", false, "validate the configuration and exit without running any source")
	runCmd.Flags().StringP("source", "s", "", "restrict the run to one named source")
	runCmd.Flags().BoolP("include-seen", "f", false, "keep already seen postings in the report")
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting jobradar", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	prof, err := config.Build()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	logger.Info("config loaded",
		zap.Int("queries", len(prof.SearchQueries)),
		zap.Int("target_companies", len(prof.TargetCompanies)),
	)

	if flagSet(cmd, "dry-run") {
		logger.Info("dry run, config valid, exiting")
		return
	}

	store := seen.Load(config.State.File, logger)

	session := source.NewSession(logger)
	adapters := source.All(session, prof, logger)

	if name := cmd.Flag("source").Value.String(); name != "" {
		adapter, ok := source.Select(adapters, name)
		if !ok {
			logger.Fatal("unknown source",
				zap.String("source", name),
				zap.Strings("available", source.Names(adapters)),
			)
		}
		adapters = []source.Adapter{adapter}
	}

	reporter, err := report.New(config.Reports.Dir, config.Reports.PagesDir, logger)
	if err != nil {
		logger.Fatal("creating report generator", zap.Error(err))
	}

	p := pipeline.New(pipeline.Config{
		Profile:       prof,
		Store:         store,
		Adapters:      adapters,
		Reporter:      reporter,
		Logger:        logger,
		RetentionDays: config.State.RetentionDays,
		IncludeSeen:   flagSet(cmd, "include-seen"),
	})

	summary, err := p.Run(ctx)
	if err != nil {
		logger.Fatal("pipeline failed", zap.Error(err))
	}

	logger.Info("done",
		zap.Int("raw", summary.Raw),
		zap.Int("deduplicated", summary.Deduped),
		zap.Int("new", summary.NewCount),
		zap.Int("reported", summary.Reported),
		zap.String("report", summary.ReportPath),
	)
}

func flagSet(cmd *cobra.Command, name string) bool {
	flag := cmd.Flag(name)
	return flag != nil && strings.EqualFold(flag.Value.String(), "true")
}
