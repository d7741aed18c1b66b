package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// newOrgsCmd creates the orgs command group
func newOrgsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "orgs",
		Aliases: []string{"org", "organizations"},
		Short:   "Manage organizations",
	}
	cmd.AddCommand(newOrgsListCmd())
	cmd.AddCommand(newOrgsCreateCmd())
	cmd.AddCommand(newOrgsUpdateCmd())
	cmd.AddCommand(newOrgsDeleteCmd())
	return cmd
}

func newOrgsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List organizations",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			orgs, err := a.store.Organizations(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(orgs)
			}
			if len(orgs) == 0 {
				fmt.Println("No organizations found. Create one with: kai orgs create")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tFOLDER\tCREATED")
			fmt.Fprintln(w, "──\t────\t──────\t───────")
			for _, o := range orgs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					o.ID, truncate(o.Name, 32), truncate(o.FolderPath, 40), formatTime(o.CreatedAt))
			}
			return w.Flush()
		},
	}
}

func newOrgsCreateCmd() *cobra.Command {
	var folder string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			org, err := a.mut.CreateOrganization(cmd.Context(), args[0], folder)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(org)
			}
			fmt.Printf("Created organization %s (%s)\n", org.Name, org.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&folder, "folder", "", "folder path on the host (required)")
	return cmd
}

func newOrgsUpdateCmd() *cobra.Command {
	var name, folder string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename an organization or change its folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			org, err := a.mut.UpdateOrganization(cmd.Context(), args[0], name, folder)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(org)
			}
			fmt.Printf("Updated organization %s\n", org.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&folder, "folder", "", "new folder path")
	return cmd
}

func newOrgsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.mut.DeleteOrganization(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted organization %s\n", args[0])
			return nil
		},
	}
}
