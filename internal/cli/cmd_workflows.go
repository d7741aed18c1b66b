package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kaihub/kai/internal/client"
	"github.com/kaihub/kai/internal/entity"
	kaierrors "github.com/kaihub/kai/internal/errors"
	"github.com/kaihub/kai/internal/progress"
)

// newWorkflowsCmd creates the workflows command group
func newWorkflowsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workflows",
		Aliases: []string{"workflow", "wf"},
		Short:   "Manage workflow definitions",
	}
	cmd.AddCommand(newWorkflowsListCmd())
	cmd.AddCommand(newWorkflowsShowCmd())
	cmd.AddCommand(newWorkflowsCreateCmd())
	cmd.AddCommand(newWorkflowsDeleteCmd())
	cmd.AddCommand(newWorkflowsStatusCmd())
	cmd.AddCommand(newWorkflowsCloneCmd())
	cmd.AddCommand(newWorkflowsVersionsCmd())
	cmd.AddCommand(newWorkflowsExportCmd())
	cmd.AddCommand(newWorkflowsImportCmd())
	return cmd
}

func newWorkflowsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List workflows",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			workflows, err := a.store.Workflows(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(workflows)
			}
			if len(workflows) == 0 {
				fmt.Println("No workflows found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSTATUS\tVERSION\tTEMPLATE")
			fmt.Fprintln(w, "──\t────\t──────\t───────\t────────")
			for _, wf := range workflows {
				template := ""
				if wf.IsTemplate {
					template = "yes"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
					wf.ID, truncate(wf.Name, 32), wf.Status, wf.CurrentVersion, template)
			}
			return w.Flush()
		},
	}
}

func newWorkflowsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a workflow's phases and steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			wf, err := a.store.Workflow(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(wf)
			}

			fmt.Printf("Workflow: %s (%s)\n", wf.Name, wf.ID)
			fmt.Printf("Status:   %s   Version: %d\n", wf.Status, wf.CurrentVersion)
			if wf.Description != "" {
				fmt.Printf("\n%s\n", wf.Description)
			}
			for _, phase := range wf.Definition.Phases {
				fmt.Printf("\n%s\n", progress.PhaseDisplayName(phase.ID))
				for _, step := range phase.Steps {
					fmt.Printf("  %-24s %s\n", step.ID, truncate(step.Title, 50))
				}
			}
			return nil
		},
	}
}

func newWorkflowsCreateCmd() *cobra.Command {
	var description string
	var template, lifecycle bool
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a workflow",
		Long: `Create a workflow.

With --lifecycle the new workflow starts from the built-in three-phase
lifecycle definition instead of empty.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			req := client.WorkflowRequest{
				Name:        args[0],
				Description: description,
				IsTemplate:  template,
			}
			if lifecycle {
				def := entity.DefaultLifecycle
				req.Definition = &def
			}
			wf, err := a.mut.CreateWorkflow(cmd.Context(), req)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(wf)
			}
			fmt.Printf("Created workflow %s (%s)\n", wf.Name, wf.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "workflow description")
	cmd.Flags().BoolVar(&template, "template", false, "mark as a reusable template")
	cmd.Flags().BoolVar(&lifecycle, "lifecycle", false, "start from the built-in lifecycle definition")
	return cmd
}

func newWorkflowsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a workflow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.mut.DeleteWorkflow(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted workflow %s\n", args[0])
			return nil
		},
	}
}

func newWorkflowsStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <draft|published|archived>",
		Short: "Change a workflow's status",
		Long: `Request a workflow status change.

Which transitions are legal is decided by the server; an illegal
request comes back as the server's error.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			wf, err := a.mut.ChangeWorkflowStatus(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("Workflow %s is now %s\n", wf.ID, wf.Status)
			return nil
		},
	}
}

func newWorkflowsCloneCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "clone <id>",
		Short: "Clone a workflow under a new name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			wf, err := a.mut.CloneWorkflow(cmd.Context(), args[0], name)
			if err != nil {
				return err
			}
			fmt.Printf("Cloned into workflow %s (%s)\n", wf.Name, wf.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "name for the clone (required)")
	return cmd
}

func newWorkflowsVersionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "versions <id>",
		Short: "List a workflow's version history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			versions, err := a.api.ListWorkflowVersions(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(versions)
			}
			if len(versions) == 0 {
				fmt.Println("No versions recorded.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "VERSION\tCREATED\tCOMMENT")
			fmt.Fprintln(w, "───────\t───────\t───────")
			for _, v := range versions {
				fmt.Fprintf(w, "%d\t%s\t%s\n", v.Version, formatTime(v.CreatedAt), truncate(v.Comment, 50))
			}
			return w.Flush()
		},
	}
}

func newWorkflowsExportCmd() *cobra.Command {
	var outFile string
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a workflow as portable JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			doc, err := a.api.ExportWorkflow(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if outFile == "" {
				return printJSON(doc)
			}
			data, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return fmt.Errorf("encode export: %w", err)
			}
			if err := os.WriteFile(outFile, append(data, '\n'), 0644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Printf("Exported workflow %s to %s\n", args[0], outFile)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func newWorkflowsImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Create a workflow from an exported JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read import file: %w", err)
			}
			var doc map[string]any
			if err := json.Unmarshal(data, &doc); err != nil {
				return kaierrors.ErrValidation("document", "not valid JSON: "+err.Error())
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			wf, err := a.mut.ImportWorkflow(cmd.Context(), doc)
			if err != nil {
				return err
			}
			fmt.Printf("Imported workflow %s (%s)\n", wf.Name, wf.ID)
			return nil
		},
	}
}
