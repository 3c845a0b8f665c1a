package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"linear-planner/internal/helpers"
	"linear-planner/internal/models"
)

var (
	milestoneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#83a598")).Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#928374"))
	priorityStyles = map[int]lipgloss.Style{
		1: lipgloss.NewStyle().Foreground(lipgloss.Color("#fb4934")).Bold(true),
		2: lipgloss.NewStyle().Foreground(lipgloss.Color("#fabd2f")),
		3: lipgloss.NewStyle().Foreground(lipgloss.Color("#8ec07c")),
	}
)

// Plan output formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// PriorityLabel renders a plan priority as P1..P3
func PriorityLabel(priority int) string {
	label := fmt.Sprintf("P%d", priority)
	if style, ok := priorityStyles[priority]; ok {
		return style.Render(label)
	}
	return label
}

// DisplayPlan prints a generated plan as a milestone tree
func DisplayPlan(params models.PlanParams, plan *models.Plan) {
	helpers.PrintTitle("Project Plan: %s", params.ProjectName)
	helpers.PrintInfo("Template: %s", plan.Template)
	helpers.PrintInfo("Description: %s", plan.ProjectDescription)
	helpers.PrintSeparator()

	for i, milestone := range plan.Milestones {
		helpers.PrintDetail(0, "%s", milestoneStyle.Render(fmt.Sprintf("%d. %s", i+1, milestone.Title)))
		helpers.PrintDetail(1, "%s", dimStyle.Render(milestone.Description))

		for j, issue := range milestone.Issues {
			helpers.PrintDetail(1, "%d.%d %s [%s] %s", i+1, j+1, issue.Title, PriorityLabel(issue.Priority),
				dimStyle.Render(formatHours(issue.EstimatedHours)))
			if len(issue.Labels) > 0 {
				helpers.PrintDetail(2, "%s", dimStyle.Render("labels: "+strings.Join(issue.Labels, ", ")))
			}
		}
	}

	helpers.PrintSeparator()
	helpers.PrintInfo("Summary: %d milestones, %d issues, %d estimated hours",
		len(plan.Milestones), plan.TotalIssues(), plan.TotalEstimatedHours())
}

// DisplayPlanResult prints the entities created from a plan
func DisplayPlanResult(result *models.PlanResult) {
	helpers.PrintSuccess("Created project: %s (%s)", result.Project.Name, result.Project.ID)
	if result.Project.URL != "" {
		helpers.PrintInfo("URL: %s", result.Project.URL)
	}

	issues := 0
	for _, m := range result.Milestones {
		helpers.PrintDetail(0, "%s", milestoneStyle.Render(issueRef(m.Milestone)))
		for _, issue := range m.Issues {
			helpers.PrintDetail(1, "%s", issueRef(issue))
		}
		issues += 1 + len(m.Issues)
	}

	helpers.PrintSuccess("Created %d issues across %d milestones", issues, len(result.Milestones))
}

// DisplayIssues prints a flat issue list
func DisplayIssues(issues []models.Issue) {
	for i := range issues {
		helpers.PrintDetail(0, "%s [P%d]", issueRef(&issues[i]), issues[i].Priority)
		if labels := issues[i].LabelNames(); len(labels) > 0 {
			helpers.PrintDetail(1, "%s", dimStyle.Render("labels: "+strings.Join(labels, ", ")))
		}
	}
	helpers.PrintInfo("%d issues", len(issues))
}

func issueRef(issue *models.Issue) string {
	if issue == nil {
		return "(missing)"
	}
	if issue.Identifier != "" {
		return fmt.Sprintf("%s %s", issue.Identifier, issue.Title)
	}
	return fmt.Sprintf("%s %s", issue.ID, issue.Title)
}

func formatHours(hours int) string {
	if hours == 0 {
		return ""
	}
	return fmt.Sprintf("~%dh", hours)
}

// SavePlan writes the plan in the given format plus a Markdown summary to
// outputDir and returns both paths.
func SavePlan(params models.PlanParams, plan *models.Plan, outputDir, format string, at time.Time) (string, string, error) {
	if err := helpers.EnsureDir(outputDir); err != nil {
		return "", "", fmt.Errorf("failed to create output directory: %w", err)
	}

	saved := &models.SavedPlan{
		Params:      params,
		Plan:        *plan,
		GeneratedAt: at.UTC(),
	}

	var planPath string
	switch format {
	case FormatYAML:
		planPath = helpers.GetOutputPath(outputDir, helpers.GenerateOutputFilename("project-plan", "yaml", at))
		if err := helpers.SaveYAML(saved, planPath); err != nil {
			return "", "", fmt.Errorf("failed to save plan: %w", err)
		}
	case FormatJSON, "":
		planPath = helpers.GetOutputPath(outputDir, helpers.GenerateOutputFilename("project-plan", "json", at))
		if err := helpers.SaveJSON(saved, planPath); err != nil {
			return "", "", fmt.Errorf("failed to save plan: %w", err)
		}
	default:
		return "", "", fmt.Errorf("unsupported plan format %q", format)
	}

	summaryPath := helpers.GetOutputPath(outputDir, helpers.GenerateOutputFilename("project-plan-summary", "md", at))
	if err := helpers.SaveText(RenderMarkdownSummary(params, plan), summaryPath); err != nil {
		return "", "", fmt.Errorf("failed to save summary: %w", err)
	}

	return planPath, summaryPath, nil
}

// LoadPlan reads a plan saved by SavePlan
func LoadPlan(path string) (*models.SavedPlan, error) {
	var saved models.SavedPlan
	if err := helpers.LoadDocument(path, &saved); err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	if len(saved.Plan.Milestones) == 0 {
		return nil, fmt.Errorf("plan in %s has no milestones", path)
	}
	return &saved, nil
}

// RenderMarkdownSummary renders a plan as Markdown
func RenderMarkdownSummary(params models.PlanParams, plan *models.Plan) string {
	var summary strings.Builder

	summary.WriteString(fmt.Sprintf("# %s\n\n", params.ProjectName))
	summary.WriteString(fmt.Sprintf("%s\n\n", plan.ProjectDescription))
	summary.WriteString(fmt.Sprintf("**Template:** %s\n", plan.Template))
	summary.WriteString(fmt.Sprintf("**Milestones:** %d\n", len(plan.Milestones)))
	summary.WriteString(fmt.Sprintf("**Issues:** %d\n", plan.TotalIssues()))
	summary.WriteString(fmt.Sprintf("**Estimated Hours:** %d\n\n", plan.TotalEstimatedHours()))

	for i, milestone := range plan.Milestones {
		summary.WriteString(fmt.Sprintf("## Milestone %d: %s\n\n", i+1, milestone.Title))
		summary.WriteString(fmt.Sprintf("%s\n\n", milestone.Description))

		for j, issue := range milestone.Issues {
			summary.WriteString(fmt.Sprintf("### %d.%d %s\n\n", i+1, j+1, issue.Title))
			summary.WriteString(fmt.Sprintf("**Priority:** P%d", issue.Priority))
			if issue.EstimatedHours > 0 {
				summary.WriteString(fmt.Sprintf(" | **Estimate:** %dh", issue.EstimatedHours))
			}
			summary.WriteString("\n\n")
			summary.WriteString(fmt.Sprintf("%s\n\n", issue.Description))

			if len(issue.Labels) > 0 {
				summary.WriteString(fmt.Sprintf("**Labels:** %s\n\n", strings.Join(issue.Labels, ", ")))
			}
		}
	}

	return summary.String()
}
