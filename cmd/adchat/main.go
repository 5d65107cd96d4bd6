// Package main provides the adchat CLI application entry point.
// adchat is a terminal chat client for a remote advertising-analytics
// assistant, speaking the assistant's WebSocket envelope protocol.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"adchat/internal/config"
	"adchat/internal/logger"
	"adchat/internal/storage"
	"adchat/internal/store"
	"adchat/internal/tui"
	"adchat/internal/wsclient"
)

var (
	endpointFlag string
	stateDirFlag string
	logLevelFlag string
	logFileFlag  string
	version      = "0.1.0" // set at build time
)

// rootCmd starts the interactive chat TUI when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "adchat",
	Short: "Terminal chat client for the analytics assistant",
	Long: `adchat converses with a remote advertising-analytics assistant over a
persistent WebSocket connection, renders conversational turns (flagging
embedded chart images), and manages model parameters and linked
advertising accounts.`,
	RunE: runChat,
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("adchat v%s\n", version)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&endpointFlag, "endpoint", "", "WebSocket endpoint URL [default: "+config.DefaultEndpointURL+"]")
	rootCmd.PersistentFlags().StringVar(&stateDirFlag, "state-dir", "", "Directory for persisted state [default: ~/.adchat]")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Set log level (debug|info|warn|error) [default: info]")
	rootCmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "Write logs to file instead of stderr")

	for flagName, flag := range map[string]string{
		"endpoint":  "endpoint",
		"state-dir": "state-dir",
		"log-level": "log-level",
		"log-file":  "log-file",
	} {
		if err := viper.BindPFlag(flagName, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			fmt.Fprintf(os.Stderr, "Error binding %s flag: %v\n", flagName, err)
			os.Exit(1)
		}
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(accountsCmd)
	rootCmd.AddCommand(modelCmd)
}

// setup resolves configuration, configures logging and opens the state
// directory. Shared by the root command and the management subcommands.
func setup() (*config.Config, *storage.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, nil, fmt.Errorf("failed to configure logging: %w", err)
	}
	persist, err := storage.New(cfg.StateDir)
	if err != nil {
		return nil, nil, err
	}
	return cfg, persist, nil
}

func runChat(_ *cobra.Command, _ []string) error {
	cfg, persist, err := setup()
	if err != nil {
		return err
	}

	client := wsclient.New(wsclient.Options{
		URL:                  cfg.EndpointURL,
		ReconnectInterval:    cfg.ReconnectInterval,
		MaxReconnectAttempts: cfg.MaxReconnectAttempts,
	})
	chatStore := store.NewChatStore(client, persist)
	settingsStore := store.NewSettingsStore(persist)

	logger.Info("starting chat", "endpoint", cfg.EndpointURL, "state_dir", cfg.StateDir)
	return tui.Run(chatStore, settingsStore)
}
