package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"adchat/internal/store"
	"adchat/pkg/chattypes"
)

var (
	accountName     string
	accountToken    string
	accountClientID string
	accountActive   bool
)

// accountsCmd manages linked advertising accounts without entering the TUI.
var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Manage linked advertising accounts",
}

var accountsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List linked accounts",
	RunE: func(_ *cobra.Command, _ []string) error {
		settingsStore, err := openSettings()
		if err != nil {
			return err
		}
		accounts := settingsStore.Accounts()
		if len(accounts) == 0 {
			fmt.Println("No linked accounts.")
			return nil
		}
		for _, account := range accounts {
			state := "inactive"
			if account.IsActive {
				state = "active"
			}
			fmt.Printf("%s  %s  client=%s  %s  linked %s\n",
				account.ID, account.Name, account.ClientID, state,
				account.CreatedAt.Format("2006-01-02"))
		}
		return nil
	},
}

var accountsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Link a new advertising account",
	RunE: func(_ *cobra.Command, _ []string) error {
		settingsStore, err := openSettings()
		if err != nil {
			return err
		}
		account, err := settingsStore.AddAccount(chattypes.LinkedAccountInput{
			Name:     accountName,
			Token:    accountToken,
			ClientID: accountClientID,
			IsActive: accountActive,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Linked account %s (%s)\n", account.Name, account.ID)
		return nil
	},
}

var accountsRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a linked account by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		settingsStore, err := openSettings()
		if err != nil {
			return err
		}
		if _, ok := settingsStore.AccountByID(args[0]); !ok {
			return fmt.Errorf("account '%s' not found", args[0])
		}
		settingsStore.RemoveAccount(args[0])
		fmt.Println("Removed.")
		return nil
	},
}

var accountsToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Flip the active flag of a linked account",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		settingsStore, err := openSettings()
		if err != nil {
			return err
		}
		if _, ok := settingsStore.AccountByID(args[0]); !ok {
			return fmt.Errorf("account '%s' not found", args[0])
		}
		settingsStore.ToggleAccount(args[0])
		account, _ := settingsStore.AccountByID(args[0])
		state := "inactive"
		if account.IsActive {
			state = "active"
		}
		fmt.Printf("%s is now %s\n", account.Name, state)
		return nil
	},
}

// openSettings builds a settings store over the configured state directory.
func openSettings() (*store.SettingsStore, error) {
	_, persist, err := setup()
	if err != nil {
		return nil, err
	}
	return store.NewSettingsStore(persist), nil
}

func init() {
	accountsAddCmd.Flags().StringVar(&accountName, "name", "", "Display name (required)")
	accountsAddCmd.Flags().StringVar(&accountToken, "token", "", "Access token (required)")
	accountsAddCmd.Flags().StringVar(&accountClientID, "client-id", "", "Client identifier (required)")
	accountsAddCmd.Flags().BoolVar(&accountActive, "active", true, "Create the account in the active state")

	accountsCmd.AddCommand(accountsListCmd)
	accountsCmd.AddCommand(accountsAddCmd)
	accountsCmd.AddCommand(accountsRemoveCmd)
	accountsCmd.AddCommand(accountsToggleCmd)
}
