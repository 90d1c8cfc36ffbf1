package cmd

import (
	"log"

	"github.com/mhaensel/jobradar/internal/profile"
	"github.com/mhaensel/jobradar/internal/seen"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "jobradar"
)

// Config is the full configuration document: the matching profile plus the
// process-level settings around it.
type Config struct {
	profile.File `mapstructure:",squash"`

	State   StateConfig   `mapstructure:"state"`
	Reports ReportsConfig `mapstructure:"reports"`
}

type StateConfig struct {
	File          string `mapstructure:"file"`
	RetentionDays int    `mapstructure:"retention_days"`
}

type ReportsConfig struct {
	Dir      string `mapstructure:"dir"`
	PagesDir string `mapstructure:"pages_dir"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobradar is a cli scraping job boards, scoring postings against your profile and reporting new matches",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobradar.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for the run and reset commands. If neither was
	// called, we can skip initialization.
	if runCmd.CalledAs() == "" && resetCmd.CalledAs() == "" {
		return
	}

	// We can't proceed if the config file parsed with error.
	if err := readConfig(); err != nil {
		log.Fatal(err)
	}
}

func readConfig() error {
	viper.SetDefault("state.file", "data/seen_jobs.json")
	viper.SetDefault("state.retention_days", seen.DefaultRetentionDays)
	viper.SetDefault("reports.dir", "reports")
	viper.SetDefault("reports.pages_dir", "docs")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	return viper.ReadInConfig()
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
