package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kaihub/kai/internal/client"
	"github.com/kaihub/kai/internal/entity"
	"github.com/kaihub/kai/internal/watcher"
)

// newTasksCmd creates the tasks command group
func newTasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task"},
		Short:   "Inspect and run project tasks",
	}
	cmd.AddCommand(newTasksListCmd())
	cmd.AddCommand(newTasksWatchCmd())
	cmd.AddCommand(newTasksExecCmd())
	cmd.AddCommand(newTasksAdhocCmd())
	cmd.AddCommand(newTasksCancelCmd())
	return cmd
}

func newTasksListCmd() *cobra.Command {
	var (
		statuses []string
		taskType string
		search   string
		limit    int
	)
	cmd := &cobra.Command{
		Use:     "list <project-id>",
		Aliases: []string{"ls"},
		Short:   "List a project's task history",
		Long: `List a project's task executions, newest first.

Example:
  kai tasks list proj-123
  kai tasks list proj-123 --status running --status queued
  kai tasks list proj-123 --search deploy --limit 20`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			history, err := a.api.ListTasks(cmd.Context(), args[0], &entity.TaskFilter{
				Status: statuses,
				Type:   taskType,
				Search: search,
				Limit:  limit,
			})
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(history)
			}
			if len(history.Tasks) == 0 {
				fmt.Println("No tasks found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTATUS\tSTEP\tTITLE\tSTARTED\tDURATION")
			fmt.Fprintln(w, "──\t──────\t────\t─────\t───────\t────────")
			for _, t := range history.Tasks {
				step := t.StepID
				if t.IsAdhoc {
					step = "adhoc"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					t.ID, t.Status, orDash(step), truncate(t.Title, 40),
					formatTime(t.StartTime), formatDuration(t.Duration))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Printf("\n%d of %d tasks\n", len(history.Tasks), history.Total)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&statuses, "status", nil, "filter by status (repeatable)")
	cmd.Flags().StringVar(&taskType, "type", "", "filter by task type")
	cmd.Flags().StringVar(&search, "search", "", "filter by title substring")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum entries to return")
	return cmd
}

func newTasksWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <project-id>",
		Short: "Follow task execution live",
		Long: `Stream task updates for a project until interrupted.

Uses the server's event stream when available and falls back to
polling the task history otherwise.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			fmt.Printf("Watching tasks for project %s (Ctrl-C to stop)\n", args[0])
			return a.watch.Watch(cmd.Context(), args[0], func(ev watcher.Event) {
				switch ev.Type {
				case watcher.EventTaskStarted:
					fmt.Printf("▶ %s  %s [%s]\n", ev.Task.ID, truncate(ev.Task.Title, 50), ev.Task.Status)
				case watcher.EventTaskDone:
					line := fmt.Sprintf("✔ %s  %s [%s]", ev.Task.ID, truncate(ev.Task.Title, 50), ev.Task.Status)
					if ev.Task.Error != "" {
						line += "  " + ev.Task.Error
					}
					fmt.Println(line)
				default:
					fmt.Printf("… %s  [%s]\n", ev.Task.ID, ev.Task.Status)
				}
			})
		},
	}
}

func newTasksExecCmd() *cobra.Command {
	var input string
	var wait bool
	cmd := &cobra.Command{
		Use:   "exec <project-id> <step-id>",
		Short: "Execute a workflow step's task in the project sandbox",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			started, err := a.api.ExecuteStep(cmd.Context(), args[0], args[1], client.StepExecutionRequest{
				AdditionalInput: input,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Started task %s for step %s\n", started.TaskID, args[1])

			if !wait {
				return nil
			}
			task, err := a.watch.WaitTerminal(cmd.Context(), args[0], started.TaskID)
			if err != nil {
				return err
			}
			fmt.Printf("Task %s finished: %s\n", task.ID, task.Status)
			if task.Error != "" {
				fmt.Printf("Error: %s\n", task.Error)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "additional input passed to the step task")
	cmd.Flags().BoolVar(&wait, "wait", false, "block until the task reaches a terminal status")
	return cmd
}

func newTasksAdhocCmd() *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "adhoc <project-id> <prompt>",
		Short: "Run a one-off task in the project sandbox",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if title == "" {
				title = truncate(args[1], 60)
			}
			started, err := a.api.ExecuteAdhocTask(cmd.Context(), args[0], client.AdhocTaskRequest{
				Title:  title,
				Prompt: args[1],
			})
			if err != nil {
				return err
			}
			fmt.Printf("Started ad-hoc task %s\n", started.TaskID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "task title (defaults to the prompt)")
	return cmd
}

func newTasksCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <project-id> <task-id>",
		Short: "Cancel a queued or running task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.api.CancelTask(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Cancellation requested for task %s\n", args[1])
			return nil
		},
	}
}
