// Package progress derives display values from a project's workflow state.
//
// All functions are pure: they take the flat step-status map and the static
// phase/step definition as explicit arguments and never consult globals.
// The status map is intentionally decoupled from the definition tree so
// stale or renamed steps degrade to "pending" instead of breaking rendering.
package progress

import (
	"math"

	"github.com/kaihub/kai/internal/entity"
)

// BadgeVariant tags how a step status should be rendered.
type BadgeVariant string

const (
	BadgeSecondary BadgeVariant = "secondary"
	BadgeDefault   BadgeVariant = "default"
	BadgeOutline   BadgeVariant = "outline"
)

// phaseDisplayNames maps built-in phase IDs to their display labels.
// Unknown IDs pass through unchanged.
var phaseDisplayNames = map[string]string{
	"rapid-prototyping":       "🚀 Rapid Prototyping",
	"automated-qa":            "🤖 Automated QA",
	"continuous-optimization": "📈 Continuous Optimization",
}

var statusDisplayNames = map[string]string{
	entity.StepStatusPending:    "Pending",
	entity.StepStatusInProgress: "In Progress",
	entity.StepStatusCompleted:  "Completed",
}

var statusBadgeVariants = map[string]BadgeVariant{
	entity.StepStatusPending:    BadgeSecondary,
	entity.StepStatusInProgress: BadgeDefault,
	entity.StepStatusCompleted:  BadgeOutline,
}

// PhaseProgress returns the integer completion percentage of a phase given
// the declared step IDs of that phase. A step counts as completed only when
// its status is exactly "completed"; a step absent from the map is pending.
// Returns 0 for an empty step list.
func PhaseProgress(state *entity.WorkflowState, phaseStepIDs []string) int {
	if len(phaseStepIDs) == 0 {
		return 0
	}
	completed := 0
	for _, id := range phaseStepIDs {
		if state.StepStatus(id) == entity.StepStatusCompleted {
			completed++
		}
	}
	return percent(completed, len(phaseStepIDs))
}

// OverallProgress returns the integer completion percentage over all
// entries present in the status map, not over the steps declared in the
// workflow definition. That asymmetry with PhaseProgress matches the
// recorded behavior of the status map's writers; see OverallDeclaredProgress
// for the definition-anchored variant. Returns 0 for an empty map.
func OverallProgress(state *entity.WorkflowState) int {
	if state == nil || len(state.StepStatuses) == 0 {
		return 0
	}
	completed := 0
	for _, status := range state.StepStatuses {
		if status == entity.StepStatusCompleted {
			completed++
		}
	}
	return percent(completed, len(state.StepStatuses))
}

// OverallDeclaredProgress computes overall completion against the steps the
// definition declares, ignoring status entries for steps that no longer
// exist. This is the consistent definition; OverallProgress is kept for
// wire-compatible display parity.
func OverallDeclaredProgress(state *entity.WorkflowState, def *entity.WorkflowDefinition) int {
	if def == nil {
		return 0
	}
	return PhaseProgress(state, def.AllStepIDs())
}

// AdvancePhase returns a new state pointing at nextPhaseID with the current
// step cleared and all step statuses preserved. The input is never mutated;
// persisting the result is the caller's job. No reachability check is made
// against the transition graph: the graph is visualization metadata only.
func AdvancePhase(state *entity.WorkflowState, nextPhaseID string) *entity.WorkflowState {
	out := state.Clone()
	if out == nil {
		out = &entity.WorkflowState{StepStatuses: map[string]string{}}
	}
	out.CurrentPhaseID = nextPhaseID
	out.CurrentStepID = ""
	return out
}

// WithStepStatus returns a new state with one step's status replaced. The
// input is never mutated.
func WithStepStatus(state *entity.WorkflowState, stepID, status string) *entity.WorkflowState {
	out := state.Clone()
	if out == nil {
		out = &entity.WorkflowState{}
	}
	if out.StepStatuses == nil {
		out.StepStatuses = map[string]string{}
	}
	out.StepStatuses[stepID] = status
	return out
}

// InitialState returns the default workflow state for a newly bound project.
func InitialState() *entity.WorkflowState {
	return &entity.WorkflowState{
		CurrentPhaseID: "rapid-prototyping",
		CurrentStepID:  "",
		StepStatuses:   map[string]string{},
	}
}

// PhaseDisplayName returns the display label for a phase ID. Unknown IDs
// are returned unchanged; this function never fails.
func PhaseDisplayName(phaseID string) string {
	if name, ok := phaseDisplayNames[phaseID]; ok {
		return name
	}
	return phaseID
}

// StatusDisplayName returns the display label for a step status. Any
// unrecognized status is returned unchanged.
func StatusDisplayName(status string) string {
	if name, ok := statusDisplayNames[status]; ok {
		return name
	}
	return status
}

// StatusBadgeVariant returns the badge variant for a step status. Any
// unrecognized status falls back to the secondary variant.
func StatusBadgeVariant(status string) BadgeVariant {
	if v, ok := statusBadgeVariants[status]; ok {
		return v
	}
	return BadgeSecondary
}

func percent(completed, total int) int {
	return int(math.Round(float64(completed) / float64(total) * 100))
}
