package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newKeysCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage the Gemini API key pool",
	}

	cmd.AddCommand(newKeysStatusCommand())
	cmd.AddCommand(newKeysAddCommand())
	cmd.AddCommand(newKeysRemoveCommand())
	cmd.AddCommand(newKeysProbeCommand())

	return cmd
}

func newKeysStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show pool status with masked keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup()
			if err != nil {
				return err
			}
			defer app.close()

			st := app.manager.PoolStatus()

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"Name", "Key", "Status", "Usage", "Last Used"})
			for _, c := range st.Credentials {
				status := "active"
				if !c.Active {
					status = "quarantined"
				}
				lastUsed := "-"
				if !c.LastUsed.IsZero() {
					lastUsed = c.LastUsed.Format("2006-01-02 15:04:05")
				}
				t.AppendRow(table.Row{c.Name, c.MaskedKey, status, c.UsageCount, lastUsed})
			}
			t.AppendFooter(table.Row{"Total", st.Total, "Active", st.Active, ""})
			t.SetStyle(table.StyleLight)
			t.Render()
			return nil
		},
	}
}

func newKeysAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <key>",
		Short: "Add a credential to the pool",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup()
			if err != nil {
				return err
			}
			defer app.close()

			if !app.manager.AddKey(args[0], args[1]) {
				return fmt.Errorf("credential %q already exists", args[0])
			}
			pterm.Success.Printfln("Added credential %s", args[0])
			return nil
		},
	}
}

func newKeysRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a credential from the pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup()
			if err != nil {
				return err
			}
			defer app.close()

			if !app.manager.RemoveKey(args[0]) {
				return fmt.Errorf("credential %q not found", args[0])
			}
			pterm.Success.Printfln("Removed credential %s", args[0])
			return nil
		},
	}
}

func newKeysProbeCommand() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "probe <name>",
		Short: "Verify a credential with a trivial translation request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup()
			if err != nil {
				return err
			}
			defer app.close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			spinner, _ := pterm.DefaultSpinner.Start("Probing " + args[0])
			if err := app.manager.ProbeKey(ctx, args[0]); err != nil {
				spinner.Fail(err.Error())
				return fmt.Errorf("probe failed for %s: %w", args[0], err)
			}
			spinner.Success("Credential " + args[0] + " is working")
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "probe timeout")
	return cmd
}
