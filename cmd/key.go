package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/cinemetrics/internal/config"
	"github.com/sells-group/cinemetrics/internal/prompt"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the OMDb API key stored in the OS keychain",
}

var keySetCmd = &cobra.Command{
	Use:   "set [key]",
	Short: "Store the OMDb API key in the OS keychain",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var key string
		if len(args) == 1 {
			key = args[0]
		} else {
			if !stdinIsTerminal() {
				return eris.New("key set: pass the key as an argument when stdin is not a terminal")
			}
			k, err := prompt.APIKey(cmd.Context(), os.Stdin, os.Stderr)
			if err != nil {
				return err
			}
			key = k
		}

		if err := config.SaveAPIKey(key); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "OMDb API key saved to keychain")
		return nil
	},
}

var keyDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the OMDb API key from the OS keychain",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := config.DeleteAPIKey(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "OMDb API key removed from keychain")
		return nil
	},
}

func init() {
	keyCmd.AddCommand(keySetCmd, keyDeleteCmd)
	rootCmd.AddCommand(keyCmd)
}
