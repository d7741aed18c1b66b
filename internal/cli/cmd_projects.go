package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kaihub/kai/internal/mutate"
	"github.com/kaihub/kai/internal/progress"
)

// newProjectsCmd creates the projects command group
func newProjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project", "proj"},
		Short:   "Manage projects",
	}
	cmd.AddCommand(newProjectsListCmd())
	cmd.AddCommand(newProjectsShowCmd())
	cmd.AddCommand(newProjectsCreateCmd())
	cmd.AddCommand(newProjectsDeleteCmd())
	cmd.AddCommand(newProjectsMoveCmd())
	return cmd
}

func newProjectsListCmd() *cobra.Command {
	var workspaceID string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			projects, err := a.store.Projects(cmd.Context(), workspaceID)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(projects)
			}
			if len(projects) == 0 {
				fmt.Println("No projects found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tWORKSPACE\tNAME\tSANDBOX\tPHASE\tPROGRESS")
			fmt.Fprintln(w, "──\t─────────\t────\t───────\t─────\t────────")
			for _, p := range projects {
				phase, pct := "-", "-"
				if p.WorkflowState != nil {
					phase = progress.PhaseDisplayName(p.WorkflowState.CurrentPhaseID)
					pct = fmt.Sprintf("%d%%", progress.OverallProgress(p.WorkflowState))
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					p.ID, p.WorkspaceID, truncate(p.Name, 32), orDash(p.SandboxID), phase, pct)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&workspaceID, "workspace", "", "workspace to scope the listing to")
	return cmd
}

func newProjectsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			p, err := a.store.Project(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(p)
			}

			fmt.Printf("Project:   %s\n", p.Name)
			fmt.Printf("ID:        %s\n", p.ID)
			fmt.Printf("Workspace: %s\n", p.WorkspaceID)
			fmt.Printf("Folder:    %s\n", p.FolderPath)
			fmt.Printf("Sandbox:   %s\n", orDash(p.SandboxID))
			fmt.Printf("Workflow:  %s\n", orDash(p.WorkflowID))
			if p.WorkflowState != nil {
				fmt.Printf("Phase:     %s\n", progress.PhaseDisplayName(p.WorkflowState.CurrentPhaseID))
				fmt.Printf("Progress:  %d%%\n", progress.OverallProgress(p.WorkflowState))
			}
			return nil
		},
	}
}

func newProjectsCreateCmd() *cobra.Command {
	var workspaceID, folder string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a project under a workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			p, err := a.mut.CreateProject(cmd.Context(), workspaceID, args[0], folder)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(p)
			}
			fmt.Printf("Created project %s (%s)\n", p.Name, p.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&workspaceID, "workspace", "", "owning workspace ID (required)")
	cmd.Flags().StringVar(&folder, "folder", "", "folder path on the host (required)")
	return cmd
}

func newProjectsDeleteCmd() *cobra.Command {
	var deleteFolder bool
	var confirm string
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project",
		Long: `Delete a project's metadata.

With --delete-folder the project's folder on disk is removed as well.
That is irreversible and must be confirmed by passing --confirm DELETE
exactly; anything else aborts before a request is sent.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.mut.DeleteProject(cmd.Context(), args[0], deleteFolder, confirm); err != nil {
				return err
			}
			fmt.Printf("Deleted project %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&deleteFolder, "delete-folder", false, "also delete the project folder on disk")
	cmd.Flags().StringVar(&confirm, "confirm", "", fmt.Sprintf("type %s to confirm folder deletion", mutate.DeleteConfirmation))
	return cmd
}

func newProjectsMoveCmd() *cobra.Command {
	var fromWorkspace, toWorkspace string
	cmd := &cobra.Command{
		Use:   "move <id>",
		Short: "Move a project to another workspace",
		Long: `Move a project to another workspace.

A sandbox bound to the project is destroyed by the server as part of
the move.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			p, err := a.mut.MoveProject(cmd.Context(), args[0], fromWorkspace, toWorkspace)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(p)
			}
			fmt.Printf("Moved project %s to workspace %s\n", p.ID, p.WorkspaceID)
			return nil
		},
	}
	cmd.Flags().StringVar(&fromWorkspace, "from", "", "current workspace ID (for cache bookkeeping)")
	cmd.Flags().StringVar(&toWorkspace, "to", "", "destination workspace ID (required)")
	return cmd
}
