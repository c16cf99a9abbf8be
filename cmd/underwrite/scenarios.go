package main

import (
	"encoding/json"
	"fmt"

	"underwriting/pkg/core/report"

	"github.com/spf13/cobra"
)

func scenariosCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "scenarios",
		Aliases: []string{"sc"},
		Short:   "Manage stored scenarios",
	}
	cmd.AddCommand(
		scenariosListCmd(a),
		scenariosShowCmd(a),
		scenariosSelectCmd(a),
		scenariosDuplicateCmd(a),
		scenariosImportCmd(a),
		scenariosDeleteCmd(a),
	)
	return cmd
}

func scenariosListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored scenarios; * marks the active one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := a.scenarios(ctx)
			if err != nil {
				return err
			}
			list, err := st.List(ctx)
			if err != nil {
				return err
			}
			active, err := st.GetActive(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "  %-36s  %-30s  %-7s  %14s  %s\n", "ID", "Name", "Version", "Price", "Modified")
			for _, s := range list {
				mark := " "
				if s.ID == active.ID {
					mark = "*"
				}
				fmt.Fprintf(out, "%s %-36s  %-30s  %-7d  %14s  %s\n",
					mark, s.ID, s.Name, s.Version, report.Money(s.PurchasePrice),
					s.LastModified.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func scenariosShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Print a scenario as JSON (default: the active one)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			s, err := a.loadScenario(cmd.Context(), "", id)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(s)
		},
	}
}

func scenariosSelectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "select <id>",
		Short: "Make a scenario the active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := a.scenarios(ctx)
			if err != nil {
				return err
			}
			s, err := st.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if err := st.SetActiveID(ctx, s.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Active scenario: %s (%s)\n", s.Name, s.ID)
			return nil
		},
	}
}

func scenariosDuplicateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate <id>",
		Short: "Copy a scenario under a new id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := a.scenarios(ctx)
			if err != nil {
				return err
			}
			dup, err := st.Duplicate(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n", dup.Name, dup.ID)
			return nil
		},
	}
}

func scenariosImportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Store a scenario read from a file",
		Long:  "Store a scenario read from a file. A scenario whose id already exists is updated and its version bumped.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			activate, _ := cmd.Flags().GetBool("select")

			s, err := readScenarioFile(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			st, err := a.scenarios(ctx)
			if err != nil {
				return err
			}
			saved, err := st.Update(ctx, s)
			if err != nil {
				return err
			}
			if activate {
				if err := st.SetActiveID(ctx, saved.ID); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stored %s (%s) at version %d\n", saved.Name, saved.ID, saved.Version)
			return nil
		},
	}
	cmd.Flags().Bool("select", false, "Make the imported scenario active")
	return cmd
}

func scenariosDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := a.scenarios(ctx)
			if err != nil {
				return err
			}
			if err := st.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}
