package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kaihub/kai/internal/entity"
)

// newContextCmd creates the context command group for memory management
func newContextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "context",
		Aliases: []string{"memories", "mem"},
		Short:   "Manage contextual memories",
		Long: `Manage the contextual memories attached to organizations,
workspaces, and projects. Memories are stored server-side and fed to
tasks running in the project sandbox.`,
	}
	cmd.AddCommand(newContextListCmd())
	cmd.AddCommand(newContextAddCmd())
	cmd.AddCommand(newContextSearchCmd())
	cmd.AddCommand(newContextImportCmd())
	cmd.AddCommand(newContextSyncCmd())
	return cmd
}

func newContextListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <organization|workspace|project> <scope-id>",
		Short: "List memories for one scope",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			memories, err := a.api.ListMemories(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(memories)
			}
			if len(memories) == 0 {
				fmt.Println("No memories found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTYPE\tCONTENT")
			fmt.Fprintln(w, "──\t────\t───────")
			for _, m := range memories {
				fmt.Fprintf(w, "%s\t%s\t%s\n", m.ID, m.Metadata.MemoryType, truncate(m.Memory, 60))
			}
			return w.Flush()
		},
	}
}

func newContextAddCmd() *cobra.Command {
	var scope, scopeID, memType string
	cmd := &cobra.Command{
		Use:   "add <content>",
		Short: "Store a memory at a scope",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			m, err := a.api.AddMemory(cmd.Context(), &entity.Memory{
				Memory: args[0],
				Metadata: entity.MemoryMetadata{
					Scope:      scope,
					Hierarchy:  scopeID,
					MemoryType: memType,
				},
			})
			if err != nil {
				return err
			}
			fmt.Printf("Stored memory %s\n", m.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&scope, "scope", entity.ScopeProject, "scope level (organization, workspace, project)")
	cmd.Flags().StringVar(&scopeID, "scope-id", "", "scope entity ID (required)")
	cmd.Flags().StringVar(&memType, "type", "note", "memory type label")
	return cmd
}

func newContextSearchCmd() *cobra.Command {
	var scope, scopeID string
	var limit int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search memories semantically",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			memories, err := a.api.SearchMemories(cmd.Context(), entity.MemorySearchRequest{
				Query:   args[0],
				Scope:   scope,
				ScopeID: scopeID,
				Limit:   limit,
			})
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(memories)
			}
			if len(memories) == 0 {
				fmt.Println("No matches.")
				return nil
			}
			for _, m := range memories {
				fmt.Printf("%s  %s\n", m.ID, truncate(m.Memory, 70))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&scope, "scope", "", "restrict to a scope level")
	cmd.Flags().StringVar(&scopeID, "scope-id", "", "restrict to one scope entity")
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum results")
	return cmd
}

func newContextImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <organization|workspace|project> <scope-id>",
		Short: "Trigger a server-side memory import for a scope",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.api.ImportMemories(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Println("Import triggered.")
			return nil
		},
	}
}

func newContextSyncCmd() *cobra.Command {
	var trigger bool
	cmd := &cobra.Command{
		Use:   "sync <organization|workspace|project> <scope-id>",
		Short: "Show (or trigger) context sync for a scope",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if trigger {
				if err := a.api.TriggerSync(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				fmt.Println("Sync triggered.")
				return nil
			}

			status, err := a.api.GetSyncStatus(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(status)
			}
			state := "out of sync"
			if status.InSync {
				state = "in sync"
			}
			fmt.Printf("%s %s: %s", args[0], args[1], state)
			if status.PendingOps > 0 {
				fmt.Printf(" (%d pending operations)", status.PendingOps)
			}
			fmt.Println()
			return nil
		},
	}
	cmd.Flags().BoolVar(&trigger, "trigger", false, "start a sync instead of showing status")
	return cmd
}
