package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kaihub/kai/internal/client"
)

// newSandboxCmd creates the sandbox command group
func newSandboxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sandbox",
		Aliases: []string{"sandboxes", "sb"},
		Short:   "Manage sandbox containers",
	}
	cmd.AddCommand(newSandboxListCmd())
	cmd.AddCommand(newSandboxCreateCmd())
	cmd.AddCommand(newSandboxStartCmd())
	cmd.AddCommand(newSandboxStopCmd())
	cmd.AddCommand(newSandboxDeleteCmd())
	return cmd
}

func newSandboxListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List sandboxes with their bound projects",
		Long: `List sandboxes joined with the project bound to each and that
project's workspace. The join is assembled from three concurrent
fetches; if any fails the listing fails rather than showing a
partial picture.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			infos, err := a.store.SandboxOverview(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(infos)
			}
			if len(infos) == 0 {
				fmt.Println("No sandboxes found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSTATUS\tPROJECT\tWORKSPACE")
			fmt.Fprintln(w, "──\t────\t──────\t───────\t─────────")
			for _, info := range infos {
				project, workspace := "-", "-"
				if info.Project != nil {
					project = info.Project.Name
				}
				if info.Workspace != nil {
					workspace = info.Workspace.Name
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					info.Sandbox.ID, truncate(info.Sandbox.Name, 32),
					sandboxBadge(info.Sandbox.Status), project, workspace)
			}
			return w.Flush()
		},
	}
}

func newSandboxCreateCmd() *cobra.Command {
	var projectID, folderMapping string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Provision a sandbox container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			sb, err := a.mut.CreateSandbox(cmd.Context(), client.SandboxRequest{
				Name:          args[0],
				ProjectID:     projectID,
				FolderMapping: folderMapping,
			})
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(sb)
			}
			fmt.Printf("Created sandbox %s (%s), status %s\n", sb.Name, sb.ID, sb.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "project to bind the sandbox to")
	cmd.Flags().StringVar(&folderMapping, "folder-mapping", "", "host folder to map into the container")
	return cmd
}

func newSandboxStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <id>",
		Short: "Start a stopped sandbox",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.mut.StartSandbox(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Started sandbox %s\n", args[0])
			return nil
		},
	}
}

func newSandboxStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop <id>",
		Short: "Stop a running sandbox",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.mut.StopSandbox(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Stopped sandbox %s\n", args[0])
			return nil
		},
	}
}

func newSandboxDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Destroy a sandbox container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.mut.DeleteSandbox(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted sandbox %s\n", args[0])
			return nil
		},
	}
}
