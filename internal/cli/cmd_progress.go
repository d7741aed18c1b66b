package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kaihub/kai/internal/entity"
	"github.com/kaihub/kai/internal/progress"
)

// newProgressCmd creates the progress command
func newProgressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress <project-id>",
		Short: "Show a project's workflow progress",
		Long: `Show per-phase and overall completion for a project's workflow.

Example:
  kai progress proj-123`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			state, err := a.store.WorkflowState(ctx, args[0])
			if err != nil {
				return err
			}

			def := lifecycleDefinition(cmd, a, args[0])

			if jsonOut {
				out := map[string]any{
					"currentPhaseId": state.CurrentPhaseID,
					"currentStepId":  state.CurrentStepID,
					"overall":        progress.OverallProgress(state),
					"phases":         map[string]int{},
				}
				phases := out["phases"].(map[string]int)
				for _, phase := range def.Phases {
					phases[phase.ID] = progress.PhaseProgress(state, phase.StepIDs())
				}
				return printJSON(out)
			}

			fmt.Printf("Current phase: %s\n", progress.PhaseDisplayName(state.CurrentPhaseID))
			if state.CurrentStepID != "" {
				fmt.Printf("Current step:  %s\n", state.CurrentStepID)
			}
			fmt.Println()

			barWidth := 30
			if termWidth() < 80 {
				barWidth = 15
			}
			for _, phase := range def.Phases {
				pct := progress.PhaseProgress(state, phase.StepIDs())
				marker := " "
				if phase.ID == state.CurrentPhaseID {
					marker = "▶"
				}
				fmt.Printf("%s %-30s %s %3d%%\n",
					marker, progress.PhaseDisplayName(phase.ID), progressBar(pct, barWidth), pct)
			}
			fmt.Printf("\nOverall: %d%%\n", progress.OverallProgress(state))
			return nil
		},
	}
}

// lifecycleDefinition resolves the workflow definition steps are judged
// against: the project's bound workflow when it has one, the built-in
// lifecycle otherwise.
func lifecycleDefinition(cmd *cobra.Command, a *app, projectID string) entity.WorkflowDefinition {
	p, err := a.store.Project(cmd.Context(), projectID)
	if err == nil && p.WorkflowID != "" {
		if wf, err := a.store.Workflow(cmd.Context(), p.WorkflowID); err == nil && len(wf.Definition.Phases) > 0 {
			return wf.Definition
		}
	}
	return entity.DefaultLifecycle
}

// newPhaseCmd creates the phase command group
func newPhaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phase",
		Short: "Manage a project's workflow phase",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "advance <project-id> <phase-id>",
		Short: "Move a project to another phase",
		Long: `Move a project's workflow to the named phase.

Step statuses recorded so far are preserved; the current step is
cleared. Any phase ID is accepted, including moving backwards.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if _, err := a.mut.AdvancePhase(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Project %s moved to %s\n", args[0], progress.PhaseDisplayName(args[1]))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init <project-id>",
		Short: "Reset a project to the initial workflow state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if _, err := a.mut.InitializeWorkflowState(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Project %s reset to %s\n", args[0],
				progress.PhaseDisplayName(progress.InitialState().CurrentPhaseID))
			return nil
		},
	})

	return cmd
}

// newStepCmd creates the step command group
func newStepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "step",
		Short: "Manage workflow step statuses",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <project-id> <step-id> <pending|in-progress|completed>",
		Short: "Set one step's status",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			state, err := a.mut.SetStepStatus(cmd.Context(), args[0], args[1], args[2])
			if err != nil {
				return err
			}
			fmt.Printf("%s → %s (overall %d%%)\n",
				args[1], stepBadge(args[2]), progress.OverallProgress(state))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list <project-id>",
		Short: "List step statuses for a project's current phase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			state, err := a.store.WorkflowState(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			def := lifecycleDefinition(cmd, a, args[0])
			phase := def.FindPhase(state.CurrentPhaseID)
			if phase == nil {
				fmt.Printf("Phase %s is not part of the workflow definition.\n", state.CurrentPhaseID)
				return nil
			}

			fmt.Printf("%s\n\n", progress.PhaseDisplayName(phase.ID))
			for _, step := range phase.Steps {
				fmt.Printf("  %-24s %s\n", step.ID, stepBadge(state.StepStatus(step.ID)))
			}
			return nil
		},
	})

	return cmd
}
