package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dori/tasknag/internal/app"
	"github.com/dori/tasknag/internal/db"
	"github.com/dori/tasknag/internal/model"
	"github.com/dori/tasknag/internal/views"
)

var (
	version = "0.1.0"
	dbPath  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tasknag",
		Short: "Personal task tracker with background reminders",
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", db.DefaultDBPath(), "database path")

	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(doneCmd())
	rootCmd.AddCommand(rmCmd())
	rootCmd.AddCommand(remindCmd())
	rootCmd.AddCommand(categoriesCmd())
	rootCmd.AddCommand(daemonCmd())
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tasknag v%s\n", version)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func openApp() (*app.App, error) {
	database, err := db.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return app.New(database), nil
}

func addCmd() *cobra.Command {
	var category string
	var progress int

	cmd := &cobra.Command{
		Use:   "add [task]",
		Short: "Add a task (supports due:tomorrow style dates)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, dueDate := parseQuickAdd(strings.Join(args, " "))

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			task, err := a.CreateTask(name, category, model.StatusNew, progress, dueDate)
			if err != nil {
				return err
			}

			fmt.Printf("Created: %s\n", task.Name)
			if task.DueDate != nil {
				fmt.Printf("Due: %s\n", formatDueDate(*task.DueDate))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", model.DefaultCategoryID, "category id")
	cmd.Flags().IntVarP(&progress, "progress", "p", 0, "initial progress (0-100)")
	return cmd
}

func listCmd() *cobra.Command {
	var view string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks in a smart list",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			tasks, err := a.ListTasks(views.View(view))
			if err != nil {
				return err
			}

			if len(tasks) == 0 {
				fmt.Println("No tasks.")
				return nil
			}
			for _, t := range tasks {
				printTask(t)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&view, "view", "v", string(views.ViewAll), "view (all, upcoming, pastdue, completed)")
	return cmd
}

func doneCmd() *cobra.Command {
	var dropReminders bool

	cmd := &cobra.Command{
		Use:   "done [task-id]",
		Short: "Toggle a task between completed and open",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			task, err := a.ToggleComplete(args[0])
			if err != nil {
				return err
			}

			if task.IsCompleted() && dropReminders {
				n, err := a.RemoveRemindersForTask(task.ID)
				if err != nil {
					return err
				}
				if n > 0 {
					fmt.Printf("Dropped %d reminder(s)\n", n)
				}
			}

			fmt.Printf("%s: %s\n", task.Status, task.Name)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dropReminders, "drop-reminders", false, "delete the task's reminders when completing it")
	return cmd
}

func rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm [task-id]",
		Short: "Delete a task and its reminders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.DeleteTask(args[0]); err != nil {
				return err
			}
			fmt.Println("Deleted.")
			return nil
		},
	}
}

func remindCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Manage reminders",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add [task-id] [when]",
		Short: "Schedule a reminder (e.g. \"2026-09-01 09:00\" or tomorrow)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fireAt, err := parseWhen(strings.Join(args[1:], " "))
			if err != nil {
				return err
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			r, err := a.CreateReminder(args[0], fireAt)
			if err != nil {
				return err
			}
			fmt.Printf("Reminder %s fires at %s\n", r.ID[:8], r.FireAt.Local().Format("2006-01-02 15:04"))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list [task-id]",
		Short: "List a task's reminders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			reminders, err := a.ListReminders(args[0])
			if err != nil {
				return err
			}
			for _, r := range reminders {
				state := "pending"
				if r.Notified() {
					state = "sent " + r.NotifiedAt.Local().Format("2006-01-02 15:04")
				}
				fmt.Printf("%s  %s  [%s]\n", r.ID[:8], r.FireAt.Local().Format("2006-01-02 15:04"), state)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rm [reminder-id]",
		Short: "Delete a reminder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()
			return a.DeleteReminder(args[0])
		},
	})

	return cmd
}

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage categories",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			categories, err := a.ListCategories()
			if err != nil {
				return err
			}
			for _, c := range categories {
				marker := " "
				if c.IsSystem {
					marker = "*"
				}
				fmt.Printf("%s %-12s %-16s %d task(s)\n", marker, c.ID, c.Name, c.TaskCount)
			}
			return nil
		},
	})

	var icon, description string
	add := &cobra.Command{
		Use:   "add [name]",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			c, err := a.CreateCategory(args[0], icon, description)
			if err != nil {
				return err
			}
			fmt.Printf("Created category %s (%s)\n", c.Name, c.ID[:8])
			return nil
		},
	}
	add.Flags().StringVar(&icon, "icon", "", "display icon")
	add.Flags().StringVar(&description, "description", "", "description")
	cmd.AddCommand(add)

	var reassignTo string
	rm := &cobra.Command{
		Use:   "rm [category-id]",
		Short: "Delete a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if reassignTo != "" {
				return a.DeleteCategoryReassign(args[0], reassignTo)
			}
			return a.DeleteCategory(args[0])
		},
	}
	rm.Flags().StringVar(&reassignTo, "reassign", "", "move tasks to this category instead of failing")
	cmd.AddCommand(rm)

	return cmd
}

func printTask(t model.Task) {
	check := " "
	if t.IsCompleted() {
		check = "x"
	}

	due := ""
	if t.DueDate != nil {
		due = "  due " + formatDueDate(*t.DueDate)
	}

	progress := ""
	if t.Progress > 0 && !t.IsCompleted() {
		progress = fmt.Sprintf("  %d%%", t.Progress)
	}

	fmt.Printf("[%s] %s  %s%s%s\n", check, t.ID[:8], t.Name, due, progress)
}

func formatDueDate(t time.Time) string {
	now := time.Now()

	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return "today"
	}

	tomorrow := now.AddDate(0, 0, 1)
	if t.Year() == tomorrow.Year() && t.YearDay() == tomorrow.YearDay() {
		return "tomorrow"
	}

	if t.Year() == now.Year() {
		return t.Format("Mon, Jan 2")
	}

	return t.Format("Jan 2, 2006")
}
