package cmd

import (
	"fmt"

	"github.com/admin-concierge/services"
	"github.com/spf13/cobra"
)

var hashKeyCmd = &cobra.Command{
	Use:   "hash-key [api-key]",
	Short: "Print the bcrypt hash of an API key for auth.api_key_hash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := services.HashAPIKey(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}
