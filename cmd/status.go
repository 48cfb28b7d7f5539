package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the restored session state",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		sess := rt.session

		fmt.Fprintf(out, "Screen:       %s\n", sess.Screen())
		fmt.Fprintf(out, "Store:        %s\n", rt.cfg.Store.Backend)
		fmt.Fprintf(out, "Provider:     %s\n", rt.cfg.LLM.Provider)

		keys, source := rt.provider.Credentials(ctx)
		fmt.Fprintf(out, "Credentials:  %d (%s)\n", len(keys), source)

		if name := sess.RememberedName(ctx); name != "" {
			fmt.Fprintf(out, "Candidate:    %s\n", name)
		}
		if a, ok := sess.Attempt(); ok {
			fmt.Fprintf(out, "Attempt:      %s (%s)\n", a.Title, a.ID)
		}
		if sess.HasInProgress(ctx) {
			fmt.Fprintln(out, "In progress:  yes, resume it from history")
		}
		if notice := sess.TakeNotice(); notice != "" {
			fmt.Fprintln(out)
			fmt.Fprintln(out, notice)
		}
		return nil
	},
}
