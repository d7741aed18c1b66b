package entity

// DefaultLifecycle is the built-in three-phase development lifecycle used
// when a project adopts a workflow without a custom definition. The server
// seeds new workflows from the same template, so IDs here must stay in sync
// with the phase IDs the API reports.
var DefaultLifecycle = WorkflowDefinition{
	Phases: []Phase{
		{
			ID:          "rapid-prototyping",
			Title:       "Rapid Prototyping",
			TitleEn:     "Rapid Prototyping",
			Description: "Requirements gathering, design, and initial implementation with quick feedback loops",
			Color:       "#E3F2FD",
			Steps: []WorkflowStep{
				{ID: "trigger", Title: "Kick off requirements", Type: StepTypeMilestone,
					Description: "Start with requirements and initial planning"},
				{ID: "requirements", Title: "Define requirements", Type: StepTypeProcess,
					Description: "Define requirements and user stories"},
				{ID: "design", Title: "Design contracts", Type: StepTypeProcess,
					Description: "Design API contracts and UX patterns"},
				{ID: "preview", Title: "Preview environment", Type: StepTypeProcess,
					Description: "Set up preview environment and initial development"},
				{ID: "dogfooding", Title: "Internal trial", Type: StepTypeDecision,
					Description: "Internal testing and feedback"},
				{ID: "acceptance-criteria", Title: "File improvements and bugs", Type: StepTypeDocumentation,
					Description: "Document issues and improvement items"},
				{ID: "ready-for-qa", Title: "Ready for QA", Type: StepTypeMilestone,
					Description: "Ready for QA phase"},
			},
		},
		{
			ID:          "automated-qa",
			Title:       "Build Automated QA",
			TitleEn:     "Build Automated QA",
			Description: "Establish comprehensive automated testing and quality assurance",
			Color:       "#E8F5E9",
			Steps: []WorkflowStep{
				{ID: "qa-version", Title: "Lock version", Type: StepTypeMilestone,
					Description: "Lock version for QA"},
				{ID: "qa-cicd", Title: "Write automated QA (CI/CD)", Type: StepTypeProcess,
					Description: "Set up CI/CD pipelines"},
				{ID: "qa-version-run", Title: "Release build", Type: StepTypeProcess,
					Description: "Package and deploy for testing"},
				{ID: "qa-preview", Title: "Preview environment", Type: StepTypeProcess,
					Description: "Deploy to preview environment"},
				{ID: "qa-automated", Title: "Automated QA run", Type: StepTypeProcess,
					Description: "Run automated test suites"},
				{ID: "qa-official-version", Title: "Promote to production candidate", Type: StepTypeMilestone,
					Description: "Promote to production candidate"},
				{ID: "qa-production", Title: "Production deploy", Type: StepTypeProcess,
					Description: "Deploy to production"},
			},
		},
		{
			ID:          "continuous-optimization",
			Title:       "Continuous Optimization",
			TitleEn:     "Continuous Optimization",
			Description: "Ongoing improvements, monitoring, and feature development",
			Color:       "#FFF3E0",
			Steps: []WorkflowStep{
				{ID: "feature-updates", Title: "Develop features / fix bugs", Type: StepTypeProcess,
					Description: "Develop new features and fix bugs"},
				{ID: "opt-cicd", Title: "Maintain automated QA (CI/CD)", Type: StepTypeProcess,
					Description: "Maintain and improve CI/CD"},
				{ID: "opt-version", Title: "Release build", Type: StepTypeProcess,
					Description: "Release new version"},
				{ID: "opt-preview", Title: "Preview environment", Type: StepTypeProcess,
					Description: "Preview environment deployment"},
				{ID: "opt-automated", Title: "Automated QA run", Type: StepTypeProcess,
					Description: "Run automated tests"},
				{ID: "opt-dogfooding", Title: "Internal trial", Type: StepTypeDecision,
					Description: "Internal testing of new features"},
				{ID: "opt-official-version", Title: "Promote to production", Type: StepTypeMilestone,
					Description: "Promote to production"},
				{ID: "opt-production", Title: "Production deploy", Type: StepTypeProcess,
					Description: "Production deployment"},
			},
		},
	},
	Transitions: []PhaseTransition{
		{From: "rapid-prototyping", To: "automated-qa", Type: TransitionForward},
		{From: "automated-qa", To: "continuous-optimization", Type: TransitionForward, Label: "User trial"},
		{From: "continuous-optimization", To: "rapid-prototyping", Type: TransitionFeedback, Label: "Feedback loop"},
		{From: "automated-qa", To: "rapid-prototyping", Type: TransitionFeedback, Label: "QA feedback"},
	},
}
