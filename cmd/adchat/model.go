package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"adchat/pkg/chattypes"
)

var (
	modelNameFlag   string
	modelAPIKeyFlag string
	modelTempFlag   float64
	modelTokensFlag int
)

// modelCmd manages model settings without entering the TUI.
var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Manage model settings",
}

var modelShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current model settings",
	RunE: func(_ *cobra.Command, _ []string) error {
		settingsStore, err := openSettings()
		if err != nil {
			return err
		}
		settings := settingsStore.ModelSettings()
		fmt.Printf("model:       %s\n", settings.ModelName)
		fmt.Printf("api key:     %s\n", chattypes.MaskSecret(settings.APIKey))
		fmt.Printf("temperature: %.2f\n", settings.Temperature)
		fmt.Printf("max tokens:  %d\n", settings.MaxTokens)
		return nil
	},
}

var modelSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update model settings (only provided flags change)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		settingsStore, err := openSettings()
		if err != nil {
			return err
		}
		var update chattypes.ModelSettingsUpdate
		if cmd.Flags().Changed("name") {
			update.ModelName = &modelNameFlag
		}
		if cmd.Flags().Changed("api-key") {
			update.APIKey = &modelAPIKeyFlag
		}
		if cmd.Flags().Changed("temperature") {
			update.Temperature = &modelTempFlag
		}
		if cmd.Flags().Changed("max-tokens") {
			update.MaxTokens = &modelTokensFlag
		}
		settingsStore.UpdateModelSettings(update)
		fmt.Println("Updated.")
		return nil
	},
}

var modelResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default model settings",
	RunE: func(_ *cobra.Command, _ []string) error {
		settingsStore, err := openSettings()
		if err != nil {
			return err
		}
		settingsStore.ResetModelSettings()
		fmt.Println("Reset to defaults.")
		return nil
	},
}

func init() {
	modelSetCmd.Flags().StringVar(&modelNameFlag, "name", "", "Model identifier")
	modelSetCmd.Flags().StringVar(&modelAPIKeyFlag, "api-key", "", "Credential used by the assistant")
	modelSetCmd.Flags().Float64Var(&modelTempFlag, "temperature", chattypes.DefaultTemperature, "Sampling temperature")
	modelSetCmd.Flags().IntVar(&modelTokensFlag, "max-tokens", chattypes.DefaultMaxTokens, "Maximum output token budget")

	modelCmd.AddCommand(modelShowCmd)
	modelCmd.AddCommand(modelSetCmd)
	modelCmd.AddCommand(modelResetCmd)
}
