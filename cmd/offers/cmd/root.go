// Package cmd implements the offers CLI commands.
package cmd

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ambiyansyah-risyal/offerskit"
)

var (
	verbose       bool
	transportName string
	timeoutSecs   float64

	rootCmd = &cobra.Command{
		Use:   "offers",
		Short: "CLI client for the Offers microservice",
		Long: "offers is a command-line client for the Offers microservice.\n" +
			"It registers products, fetches offers, and manages the cached\n" +
			"access token. Configuration comes from the environment\n" +
			"(OFFERS_API_* variables) or a .env file.",
		SilenceUsage: true,
	}
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().
		StringVar(&transportName, "transport", "", "transport backend (pooled, simple)")
	rootCmd.PersistentFlags().
		Float64Var(&timeoutSecs, "timeout", 0, "request timeout in seconds")

	rootCmd.AddCommand(registerCmd())
	rootCmd.AddCommand(registerBatchCmd())
	rootCmd.AddCommand(offersCmd())
	rootCmd.AddCommand(cacheCmd())
	rootCmd.AddCommand(tokenCmd())
	rootCmd.AddCommand(authTestCmd())
	rootCmd.AddCommand(versionCmd())
}

func newLogger() offerskit.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
	return offerskit.NewZerologLogger(zl)
}

func loadSettings() (offerskit.Settings, error) {
	settings, err := offerskit.LoadSettings()
	if err != nil {
		return offerskit.Settings{}, err
	}
	if transportName != "" {
		settings.Transport = transportName
	}
	if timeoutSecs > 0 {
		settings.Timeout = time.Duration(timeoutSecs * float64(time.Second))
	}
	return settings, nil
}

func newClient() (*offerskit.Client, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}
	return offerskit.New(settings,
		offerskit.WithLogger(newLogger()),
		offerskit.WithRequestPlugins(offerskit.ProductValidationPlugin{}, &offerskit.RequestIDPlugin{}),
	)
}
