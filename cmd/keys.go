package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Emdad05/Quiz-Ai/internal/credentials"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage the API keys stored on this machine",
}

var keysListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored keys, masked",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		out := cmd.OutOrStdout()
		keys := rt.keyring.List(cmd.Context())
		if len(keys) == 0 {
			if len(rt.cfg.SystemKeys) > 0 {
				fmt.Fprintf(out, "No local keys. Using %d system key(s) from API_KEY.\n", len(rt.cfg.SystemKeys))
			} else {
				fmt.Fprintln(out, "No keys configured. Add one with: quizgenius keys add <key>")
			}
			return nil
		}
		for i, k := range keys {
			fmt.Fprintf(out, "%2d  %s\n", i+1, credentials.Mask(k))
		}
		return nil
	},
}

var keysAddCmd = &cobra.Command{
	Use:   "add <key>",
	Short: "Validate a key against the provider and store it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := rt.keyring.Add(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", credentials.Mask(args[0]))
		return nil
	},
}

var keysRemoveCmd = &cobra.Command{
	Use:   "remove <n>",
	Short: "Remove the n-th key shown by keys list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := parsePosition(args[0])
		if err != nil {
			return err
		}

		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := rt.keyring.Remove(cmd.Context(), n-1); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed key %d\n", n)
		return nil
	},
}

// parsePosition parses a 1-based list position.
func parsePosition(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid position %q: must be a number from 1", s)
	}
	return n, nil
}

func init() {
	keysCmd.AddCommand(keysListCmd)
	keysCmd.AddCommand(keysAddCmd)
	keysCmd.AddCommand(keysRemoveCmd)
}
