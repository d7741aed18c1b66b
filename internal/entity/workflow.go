package entity

import "time"

// Workflow status constants.
const (
	WorkflowStatusDraft     = "draft"
	WorkflowStatusPublished = "published"
	WorkflowStatusArchived  = "archived"
)

// Step status constants for WorkflowState.StepStatuses. A step absent from
// the map is implicitly pending.
const (
	StepStatusPending    = "pending"
	StepStatusInProgress = "in-progress"
	StepStatusCompleted  = "completed"
)

// Step type constants.
const (
	StepTypeProcess       = "process"
	StepTypeMilestone     = "milestone"
	StepTypeDecision      = "decision"
	StepTypeDocumentation = "documentation"
)

// Transition type constants. The transition graph is visualization metadata;
// phase advancement is never validated against it.
const (
	TransitionForward  = "forward"
	TransitionFeedback = "feedback"
	TransitionLoop     = "loop"
)

// Workflow is a reusable, versioned definition of phases and steps.
type Workflow struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Description    string             `json:"description,omitempty"`
	Status         string             `json:"status"`
	CurrentVersion int                `json:"currentVersion"`
	Definition     WorkflowDefinition `json:"definition"`
	IsTemplate     bool               `json:"isTemplate"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

// WorkflowDefinition is the static tree of phases plus the transition graph
// between phase IDs.
type WorkflowDefinition struct {
	Phases      []Phase           `json:"phases"`
	Transitions []PhaseTransition `json:"transitions,omitempty"`
}

// Phase groups an ordered list of steps.
type Phase struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	TitleEn     string         `json:"titleEn,omitempty"`
	Description string         `json:"description,omitempty"`
	Color       string         `json:"color,omitempty"`
	Steps       []WorkflowStep `json:"steps"`
}

// WorkflowStep is a single step within a phase, optionally carrying an
// executable task prompt.
type WorkflowStep struct {
	ID                string         `json:"id"`
	Title             string         `json:"title"`
	Description       string         `json:"description,omitempty"`
	Type              string         `json:"type"`
	HasExecutableTask bool           `json:"hasExecutableTask,omitempty"`
	QwenCodePrompt    string         `json:"qwenCodePrompt,omitempty"`
	TaskFile          string         `json:"taskFile,omitempty"`
	Workflows         []WorkflowLink `json:"workflows,omitempty"`
}

// WorkflowLink points a step at a reference workflow document.
type WorkflowLink struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Description string `json:"description,omitempty"`
	Phase       string `json:"phase,omitempty"`
}

// PhaseTransition is a directed edge between phase IDs.
type PhaseTransition struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Type  string `json:"type"`
	Label string `json:"label,omitempty"`
}

// WorkflowState is the per-project progress record over a bound workflow.
// It is the only mutable derived-state object in the model. StepStatuses
// keys should be a subset of the declared step IDs, but unknown keys are
// display-inert and never pruned.
type WorkflowState struct {
	CurrentPhaseID string            `json:"currentPhaseId"`
	CurrentStepID  string            `json:"currentStepId,omitempty"`
	StepStatuses   map[string]string `json:"stepStatuses"`
}

// WorkflowVersion is a snapshot entry in a workflow's version history.
type WorkflowVersion struct {
	Version    int                `json:"version"`
	Definition WorkflowDefinition `json:"definition"`
	CreatedAt  time.Time          `json:"createdAt"`
	Comment    string             `json:"comment,omitempty"`
}

// FindPhase returns the phase with the given ID, or nil.
func (d *WorkflowDefinition) FindPhase(id string) *Phase {
	for i := range d.Phases {
		if d.Phases[i].ID == id {
			return &d.Phases[i]
		}
	}
	return nil
}

// StepIDs returns the IDs of the phase's steps in declared order.
func (p *Phase) StepIDs() []string {
	ids := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		ids[i] = s.ID
	}
	return ids
}

// AllStepIDs returns every declared step ID across all phases.
func (d *WorkflowDefinition) AllStepIDs() []string {
	var ids []string
	for _, p := range d.Phases {
		ids = append(ids, p.StepIDs()...)
	}
	return ids
}

// FindStep returns the step with the given ID and its owning phase, or nils.
func (d *WorkflowDefinition) FindStep(stepID string) (*Phase, *WorkflowStep) {
	for i := range d.Phases {
		for j := range d.Phases[i].Steps {
			if d.Phases[i].Steps[j].ID == stepID {
				return &d.Phases[i], &d.Phases[i].Steps[j]
			}
		}
	}
	return nil, nil
}

// Clone returns a deep copy of the workflow state. Callers that derive new
// states must not alias the status map of the input.
func (ws *WorkflowState) Clone() *WorkflowState {
	if ws == nil {
		return nil
	}
	out := &WorkflowState{
		CurrentPhaseID: ws.CurrentPhaseID,
		CurrentStepID:  ws.CurrentStepID,
		StepStatuses:   make(map[string]string, len(ws.StepStatuses)),
	}
	for k, v := range ws.StepStatuses {
		out.StepStatuses[k] = v
	}
	return out
}

// StepStatus returns the effective status of a step: absence means pending.
func (ws *WorkflowState) StepStatus(stepID string) string {
	if ws == nil || ws.StepStatuses == nil {
		return StepStatusPending
	}
	if s, ok := ws.StepStatuses[stepID]; ok {
		return s
	}
	return StepStatusPending
}
