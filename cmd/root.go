// Package cmd implements the command-line interface for leadcrawl.
// It provides the root command and subcommands for running the lead pipeline.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jonesrussell/leadcrawl/cmd/discover"
	"github.com/jonesrussell/leadcrawl/cmd/enrich"
	cmdexport "github.com/jonesrussell/leadcrawl/cmd/export"
	"github.com/jonesrussell/leadcrawl/cmd/httpd"
	"github.com/jonesrussell/leadcrawl/cmd/leads"
	"github.com/jonesrussell/leadcrawl/cmd/migrate"
	"github.com/jonesrussell/leadcrawl/cmd/plan"
	"github.com/jonesrussell/leadcrawl/cmd/run"
	"github.com/jonesrussell/leadcrawl/cmd/schedule"
	"github.com/jonesrussell/leadcrawl/cmd/score"
	"github.com/jonesrussell/leadcrawl/cmd/send"
	"github.com/jonesrussell/leadcrawl/internal/config"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// Debug enables debug mode for all commands
	Debug bool

	// rootCmd represents the root command for the leadcrawl CLI.
	rootCmd = &cobra.Command{
		Use:   "leadcrawl",
		Short: "A company discovery and outreach pipeline",
		Long: `A pipeline that discovers companies via keyword search, crawls their sites
for contact signals, scores them, and schedules outreach sequences.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command
func Execute() error {
	// Load .env file early so environment variables are available
	_ = godotenv.Load()

	// Parse flags early to get the config path and debug flag
	_ = rootCmd.ParseFlags(os.Args[1:])

	if err := initConfig(); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	return rootCmd.ExecuteContext(context.Background())
}

// init initializes the root command and its subcommands.
func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml or ./config/config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "enable debug mode")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("leadcrawl version %s\n", "1.0.0")
		},
	})

	rootCmd.AddCommand(migrate.Command())
	rootCmd.AddCommand(discover.Command())
	rootCmd.AddCommand(enrich.Command())
	rootCmd.AddCommand(score.Command())
	rootCmd.AddCommand(plan.Command())
	rootCmd.AddCommand(send.Command())
	rootCmd.AddCommand(cmdexport.Command())
	rootCmd.AddCommand(leads.Command())
	rootCmd.AddCommand(run.Command())
	rootCmd.AddCommand(httpd.Command())
	rootCmd.AddCommand(schedule.Command())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	// Enable automatic environment variable reading before setting defaults
	// so environment variables take precedence over defaults.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := config.Init(); err != nil {
		return err
	}

	// Config file is optional; defaults and environment variables cover
	// everything.
	if err := viper.ReadInConfig(); err != nil {
		if cfgFile != "" {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if Debug || viper.GetBool("app.debug") {
		viper.Set("logger.level", "debug")
		Debug = true
	}

	return nil
}
