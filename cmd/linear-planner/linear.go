package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"linear-planner/internal/helpers"
	"linear-planner/internal/models"
	"linear-planner/internal/services"
)

const dateLayout = "2006-01-02"

func newTeamsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "teams",
		Short: "List Linear teams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.sync()

			teams, err := app.linear.GetTeams(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list teams: %w", err)
			}

			helpers.PrintTitle("Teams")
			for _, team := range teams {
				helpers.PrintDetail(0, "%-6s %-30s %s", team.Key, team.Name, team.ID)
			}
			helpers.PrintInfo("%d teams", len(teams))
			return nil
		},
	}
}

func newTeamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Manage Linear teams",
	}

	var spec models.TeamSpec
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a Linear team",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.sync()

			team, err := app.linear.CreateTeam(cmd.Context(), spec)
			if err != nil {
				return fmt.Errorf("failed to create team: %w", err)
			}

			helpers.PrintSuccess("Created team: %s (%s) %s", team.Name, team.Key, team.ID)
			return nil
		},
	}
	createCmd.Flags().StringVarP(&spec.Name, "name", "n", "", "Team name")
	createCmd.Flags().StringVarP(&spec.Key, "key", "k", "", "Team key, used as the issue identifier prefix")
	createCmd.Flags().StringVar(&spec.Description, "description", "", "Team description")
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("key")

	cmd.AddCommand(createCmd)
	return cmd
}

func newProjectsCmd() *cobra.Command {
	var teamID string

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List the projects of a team",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.sync()

			team, err := resolveTeam(app, teamID)
			if err != nil {
				return err
			}

			projects, err := app.linear.GetProjects(cmd.Context(), team)
			if err != nil {
				return fmt.Errorf("failed to list projects: %w", err)
			}

			helpers.PrintTitle("Projects")
			for _, project := range projects {
				helpers.PrintDetail(0, "%-40s %s", project.Name, project.ID)
			}
			helpers.PrintInfo("%d projects", len(projects))
			return nil
		},
	}
	cmd.Flags().StringVarP(&teamID, "team", "t", "", "Linear team id (defaults to planning.default_team_id)")
	return cmd
}

func newIssuesCmd() *cobra.Command {
	var teamID, projectID string

	cmd := &cobra.Command{
		Use:   "issues",
		Short: "List the issues of a team, optionally narrowed to a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.sync()

			team, err := resolveTeam(app, teamID)
			if err != nil {
				return err
			}

			issues, err := app.linear.GetIssues(cmd.Context(), team, projectID)
			if err != nil {
				return fmt.Errorf("failed to list issues: %w", err)
			}

			helpers.PrintTitle("Issues")
			services.DisplayIssues(issues)
			return nil
		},
	}
	cmd.Flags().StringVarP(&teamID, "team", "t", "", "Linear team id (defaults to planning.default_team_id)")
	cmd.Flags().StringVarP(&projectID, "project", "p", "", "Only list issues of this project")
	return cmd
}

func newIssueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Create, update and delete Linear issues",
	}
	cmd.AddCommand(newIssueCreateCmd())
	cmd.AddCommand(newIssueUpdateCmd())
	cmd.AddCommand(newIssueDeleteCmd())
	return cmd
}

// issueFlags are the issue fields shared by issue create and issue update
type issueFlags struct {
	title       string
	description string
	teamID      string
	projectID   string
	priority    int
	assigneeID  string
	dueDate     string
	labels      []string
}

func (f *issueFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "Issue title")
	cmd.Flags().StringVar(&f.description, "description", "", "Issue description (Markdown)")
	cmd.Flags().StringVarP(&f.teamID, "team", "t", "", "Linear team id")
	cmd.Flags().StringVarP(&f.projectID, "project", "p", "", "Linear project id")
	cmd.Flags().IntVar(&f.priority, "priority", 0, "Priority: 0 none, 1 urgent, 2 high, 3 medium, 4 low")
	cmd.Flags().StringVar(&f.assigneeID, "assignee", "", "Assignee user id")
	cmd.Flags().StringVar(&f.dueDate, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&f.labels, "labels", nil, "Label names (comma separated)")
}

func (f *issueFlags) due() (*time.Time, error) {
	if f.dueDate == "" {
		return nil, nil
	}
	due, err := time.Parse(dateLayout, f.dueDate)
	if err != nil {
		return nil, fmt.Errorf("invalid --due %q, expected YYYY-MM-DD", f.dueDate)
	}
	return &due, nil
}

func newIssueCreateCmd() *cobra.Command {
	var flags issueFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an issue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			due, err := flags.due()
			if err != nil {
				return err
			}

			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.sync()

			teamID, err := resolveTeam(app, flags.teamID)
			if err != nil {
				return err
			}

			issue, err := app.linear.CreateIssue(cmd.Context(), models.IssueSpec{
				Title:       flags.title,
				Description: flags.description,
				TeamID:      teamID,
				ProjectID:   flags.projectID,
				Priority:    flags.priority,
				AssigneeID:  flags.assigneeID,
				DueDate:     due,
				Labels:      flags.labels,
			})
			if err != nil {
				return fmt.Errorf("failed to create issue: %w", err)
			}

			helpers.PrintSuccess("Created issue: %s %s", issue.Identifier, issue.Title)
			if issue.URL != "" {
				helpers.PrintInfo("URL: %s", issue.URL)
			}
			return nil
		},
	}
	flags.bind(cmd)
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newIssueUpdateCmd() *cobra.Command {
	var flags issueFlags

	cmd := &cobra.Command{
		Use:   "update <issue-id>",
		Short: "Update the given fields of an issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			update, err := flags.update(cmd)
			if err != nil {
				return err
			}

			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.sync()

			issue, err := app.linear.UpdateIssue(cmd.Context(), args[0], update)
			if err != nil {
				return fmt.Errorf("failed to update issue: %w", err)
			}

			helpers.PrintSuccess("Updated issue: %s %s", issue.Identifier, issue.Title)
			return nil
		},
	}
	flags.bind(cmd)
	return cmd
}

// update builds an IssueUpdate from the flags set on the command line
func (f *issueFlags) update(cmd *cobra.Command) (models.IssueUpdate, error) {
	var update models.IssueUpdate
	changed := cmd.Flags().Changed

	if changed("title") {
		update.Title = &f.title
	}
	if changed("description") {
		update.Description = &f.description
	}
	if changed("team") {
		update.TeamID = &f.teamID
	}
	if changed("project") {
		update.ProjectID = &f.projectID
	}
	if changed("priority") {
		update.Priority = &f.priority
	}
	if changed("assignee") {
		update.AssigneeID = &f.assigneeID
	}
	if changed("due") {
		due, err := f.due()
		if err != nil {
			return update, err
		}
		update.DueDate = due
	}
	if changed("labels") {
		update.Labels = append([]string{}, f.labels...)
	}

	return update, nil
}

func newIssueDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <issue-id>",
		Short: "Delete an issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !assumeYes && !confirm(fmt.Sprintf("Delete issue %s?", args[0])) {
				helpers.PrintInfo("Operation cancelled by user")
				return nil
			}

			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.sync()

			ok, err := app.linear.DeleteIssue(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to delete issue: %w", err)
			}
			if !ok {
				helpers.PrintWarning("Linear did not confirm deletion of %s", args[0])
				return nil
			}

			helpers.PrintSuccess("Deleted issue %s", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func resolveTeam(app *appContext, teamID string) (string, error) {
	if teamID != "" {
		return teamID, nil
	}
	if app.cfg.Planning.DefaultTeamID != "" {
		return app.cfg.Planning.DefaultTeamID, nil
	}
	return "", fmt.Errorf("--team is required when planning.default_team_id is not set")
}
