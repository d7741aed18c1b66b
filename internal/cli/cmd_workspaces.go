package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// newWorkspacesCmd creates the workspaces command group
func newWorkspacesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workspaces",
		Aliases: []string{"ws", "workspace"},
		Short:   "Manage workspaces",
	}
	cmd.AddCommand(newWorkspacesListCmd())
	cmd.AddCommand(newWorkspacesCreateCmd())
	cmd.AddCommand(newWorkspacesUpdateCmd())
	cmd.AddCommand(newWorkspacesDeleteCmd())
	return cmd
}

func newWorkspacesListCmd() *cobra.Command {
	var orgID string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List workspaces",
		Long: `List workspaces, optionally scoped to one organization.

Example:
  kai workspaces list
  kai workspaces list --org org-123`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			workspaces, err := a.store.Workspaces(cmd.Context(), orgID)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(workspaces)
			}
			if len(workspaces) == 0 {
				fmt.Println("No workspaces found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tORGANIZATION\tNAME\tFOLDER")
			fmt.Fprintln(w, "──\t────────────\t────\t──────")
			for _, ws := range workspaces {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					ws.ID, ws.OrganizationID, truncate(ws.Name, 32), truncate(ws.FolderPath, 40))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&orgID, "org", "", "organization to scope the listing to")
	return cmd
}

func newWorkspacesCreateCmd() *cobra.Command {
	var orgID, folder string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a workspace under an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			ws, err := a.mut.CreateWorkspace(cmd.Context(), orgID, args[0], folder)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(ws)
			}
			fmt.Printf("Created workspace %s (%s)\n", ws.Name, ws.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&orgID, "org", "", "owning organization ID (required)")
	cmd.Flags().StringVar(&folder, "folder", "", "folder path on the host (required)")
	return cmd
}

func newWorkspacesUpdateCmd() *cobra.Command {
	var name, folder string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename a workspace or change its folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			ws, err := a.mut.UpdateWorkspace(cmd.Context(), args[0], name, folder)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(ws)
			}
			fmt.Printf("Updated workspace %s\n", ws.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&folder, "folder", "", "new folder path")
	return cmd
}

func newWorkspacesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.mut.DeleteWorkspace(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted workspace %s\n", args[0])
			return nil
		},
	}
}
