package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sagan/laras/config"
	"github.com/sagan/laras/version"
)

var RootCmd = &cobra.Command{
	Use:   "laras",
	Short: "laras " + version.Version,
	Long: `laras ` + version.Version + "." + `
Build cinematic multi-scene story drafts (LARAS JSON), enhance them with Gemini and export them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := log.ParseLevel(flagLogLevel)
		if err != nil {
			return fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
		}
		log.SetLevel(level)
		config.LoadDotEnv(flagEnvFile)
		return nil
	},
}

var (
	flagLogLevel string
	flagEnvFile  string
)

func init() {
	RootCmd.PersistentFlags().StringVarP(&flagLogLevel, "log-level", "", "info",
		`Log level: "trace", "debug", "info", "warn", "error"`)
	RootCmd.PersistentFlags().StringVarP(&flagEnvFile, "env-file", "", "",
		`Load env variables from this file. Defaults to ".env" in current dir if it exists`)
}

// Execute runs the root command. The command context is canceled on SIGINT / SIGTERM.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := RootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}
}
