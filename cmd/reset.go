package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Emdad05/Quiz-Ai/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop the active quiz and return to the landing screen",
	Long: `Drop the active quiz and return to the landing screen.

In-progress attempts stay in history unless --all is given, which also
clears history, the remembered name and the stored API keys.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")

		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		if all {
			if err := rt.session.ClearHistory(ctx); err != nil {
				return err
			}
			for _, key := range []string{store.KeyUserName, store.KeyUserCredentials} {
				if err := rt.kv.Remove(ctx, key); err != nil {
					return fmt.Errorf("remove %s: %w", key, err)
				}
			}
		}
		if err := rt.session.Home(ctx); err != nil {
			return err
		}

		if all {
			fmt.Fprintln(cmd.OutOrStdout(), "All data cleared.")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "Session reset.")
		}
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("all", false, "Also clear history, the remembered name and stored keys")
}
