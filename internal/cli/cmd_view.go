package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	kaierrors "github.com/kaihub/kai/internal/errors"
	"github.com/kaihub/kai/internal/navstate"
)

// newViewCmd creates the view command group for display preferences
func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Manage per-view display preferences",
		Long: `Manage the display preferences kai remembers per view context
(projects, sandboxes, workflows, ...): view mode, search query, sort
settings, and tree expansion. Preferences and expansion persist across
sessions; hierarchy selection does not.`,
	}
	cmd.AddCommand(newViewShowCmd())
	cmd.AddCommand(newViewModeCmd())
	cmd.AddCommand(newViewSortCmd())
	cmd.AddCommand(newViewSearchCmd())
	cmd.AddCommand(newViewExpandCmd())
	cmd.AddCommand(newViewSelectCmd())
	return cmd
}

func newViewShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <context>",
		Short: "Show a view's stored preferences",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			nav, err := a.navManager()
			if err != nil {
				return err
			}
			v, err := nav.View(args[0])
			if err != nil {
				return err
			}
			p := v.Prefs()
			if jsonOut {
				return printJSON(p)
			}
			fmt.Printf("View mode: %s\n", p.ViewMode)
			fmt.Printf("Sort:      %s %s\n", p.SortBy, p.SortOrder)
			fmt.Printf("Search:    %s\n", orDash(p.SearchQuery))
			return nil
		},
	}
}

func newViewModeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mode <context> <grid|list>",
		Short: "Set a view's rendering mode",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[1] != navstate.ViewModeGrid && args[1] != navstate.ViewModeList {
				return kaierrors.ErrValidation("mode", "must be grid or list")
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			nav, err := a.navManager()
			if err != nil {
				return err
			}
			v, err := nav.View(args[0])
			if err != nil {
				return err
			}
			if err := v.SetViewMode(args[1]); err != nil {
				return err
			}
			fmt.Printf("View %s now renders as %s\n", args[0], args[1])
			return nil
		},
	}
}

func newViewSortCmd() *cobra.Command {
	var order string
	cmd := &cobra.Command{
		Use:   "sort <context> <field>",
		Short: "Set a view's sort field and order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if order != navstate.SortAsc && order != navstate.SortDesc {
				return kaierrors.ErrValidation("order", "must be asc or desc")
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			nav, err := a.navManager()
			if err != nil {
				return err
			}
			v, err := nav.View(args[0])
			if err != nil {
				return err
			}
			if err := v.SetSort(args[1], order); err != nil {
				return err
			}
			fmt.Printf("View %s sorts by %s %s\n", args[0], args[1], order)
			return nil
		},
	}
	cmd.Flags().StringVar(&order, "order", navstate.SortAsc, "sort order (asc or desc)")
	return cmd
}

func newViewExpandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expand <context> <org|workspace> <id>",
		Short: "Toggle an entity's tree expansion in a view",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[1] != "org" && args[1] != "workspace" {
				return kaierrors.ErrValidation("kind", "must be org or workspace")
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			nav, err := a.navManager()
			if err != nil {
				return err
			}
			v, err := nav.View(args[0])
			if err != nil {
				return err
			}

			var expanded bool
			if args[1] == "org" {
				if err := v.ToggleOrganization(args[2]); err != nil {
					return err
				}
				expanded = v.OrganizationExpanded(args[2])
			} else {
				if err := v.ToggleWorkspace(args[2]); err != nil {
					return err
				}
				expanded = v.WorkspaceExpanded(args[2])
			}
			state := "collapsed"
			if expanded {
				state = "expanded"
			}
			fmt.Printf("View %s: %s %s is now %s\n", args[0], args[1], args[2], state)
			return nil
		},
	}
}

func newViewSelectCmd() *cobra.Command {
	var orgID, workspaceID, projectID string
	var clear bool
	cmd := &cobra.Command{
		Use:   "select <context>",
		Short: "Move a view's hierarchy selection",
		Long: `Move a view's hierarchy selection. Selecting a different
organization clears the workspace and project below it; selecting a
different workspace clears the project. Selection is session-only.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if clear && (orgID != "" || workspaceID != "" || projectID != "") {
				return kaierrors.ErrValidation("clear", "cannot combine --clear with a selection")
			}
			if !clear && orgID == "" && workspaceID == "" && projectID == "" {
				return kaierrors.ErrValidation("selection", "pass --org, --workspace, --project, or --clear")
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			nav, err := a.navManager()
			if err != nil {
				return err
			}
			v, err := nav.View(args[0])
			if err != nil {
				return err
			}

			if clear {
				v.ClearSelection()
			} else {
				if orgID != "" {
					v.SelectOrganization(orgID)
				}
				if workspaceID != "" {
					v.SelectWorkspace(workspaceID)
				}
				if projectID != "" {
					v.SelectProject(projectID)
				}
			}

			org, ws, proj := v.Selection()
			if jsonOut {
				return printJSON(map[string]string{
					"organizationId": org,
					"workspaceId":    ws,
					"projectId":      proj,
				})
			}
			fmt.Printf("Organization: %s\n", orDash(org))
			fmt.Printf("Workspace:    %s\n", orDash(ws))
			fmt.Printf("Project:      %s\n", orDash(proj))
			return nil
		},
	}
	cmd.Flags().StringVar(&orgID, "org", "", "organization to select")
	cmd.Flags().StringVar(&workspaceID, "workspace", "", "workspace to select")
	cmd.Flags().StringVar(&projectID, "project", "", "project to select")
	cmd.Flags().BoolVar(&clear, "clear", false, "clear the whole selection")
	return cmd
}

func newViewSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <context> [query]",
		Short: "Set or clear a view's search filter",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			nav, err := a.navManager()
			if err != nil {
				return err
			}
			v, err := nav.View(args[0])
			if err != nil {
				return err
			}

			query := ""
			if len(args) == 2 {
				query = args[1]
			}
			if err := v.SetSearch(query); err != nil {
				return err
			}
			if query == "" {
				fmt.Printf("Cleared search for view %s\n", args[0])
			} else {
				fmt.Printf("View %s filters on %q\n", args[0], query)
			}
			return nil
		},
	}
}
