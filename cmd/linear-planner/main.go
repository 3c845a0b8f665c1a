package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"linear-planner/internal/config"
	"linear-planner/internal/helpers"
	"linear-planner/internal/models"
	"linear-planner/internal/services"
	"linear-planner/internal/templates"
)

var (
	configFile string
	dryRun     bool
	assumeYes  bool
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "linear-planner",
		Short: "Linear Planner - template-driven project plans for Linear",
		Long: `Linear Planner generates milestone and issue plans from industry templates
and creates them as projects and issues in Linear.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.yaml", "Configuration file path")

	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newTemplatesCmd())
	rootCmd.AddCommand(newPlanCmd())
	rootCmd.AddCommand(newCreateCmd())
	rootCmd.AddCommand(newTeamsCmd())
	rootCmd.AddCommand(newTeamCmd())
	rootCmd.AddCommand(newProjectsCmd())
	rootCmd.AddCommand(newIssuesCmd())
	rootCmd.AddCommand(newIssueCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		helpers.PrintError("Error: %v", err)
		stop()
		os.Exit(1)
	}
}

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a sample configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if helpers.FileExists(configFile) && !force {
				if !helpers.IsInteractive() {
					return fmt.Errorf("%s already exists, use --force to overwrite", configFile)
				}
				if !confirm(fmt.Sprintf("%s already exists. Overwrite it?", configFile)) {
					helpers.PrintInfo("Operation cancelled by user")
					return nil
				}
			}

			if err := config.Sample().Save(configFile); err != nil {
				return err
			}

			helpers.PrintSuccess("Wrote %s", configFile)
			helpers.PrintInfo("Set linear.api_key or LINEAR_API_KEY before talking to Linear")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing configuration file")
	return cmd
}

func newTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the built-in plan templates",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			catalog := templates.Default()

			keywords := make(map[string][]string)
			for _, rule := range catalog.Rules() {
				keywords[rule.TemplateID] = append(keywords[rule.TemplateID], rule.Keyword)
			}

			helpers.PrintTitle("Plan Templates")
			for _, schema := range catalog.Templates() {
				issues := 0
				for _, m := range schema.Milestones {
					issues += len(m.Issues)
				}

				match := strings.Join(keywords[schema.ID], ", ")
				if match == "" {
					match = "(fallback)"
				}
				helpers.PrintDetail(0, "%-10s %-28s keywords: %-12s %d milestones, %d issues",
					schema.ID, schema.Name, match, len(schema.Milestones), issues)
			}
		},
	}
}

// planFlags are the plan parameters shared by plan and create
type planFlags struct {
	name     string
	scope    string
	industry string
	timeline string
	tech     []string
	audience string
}

func (f *planFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.name, "name", "n", "", "Project name")
	cmd.Flags().StringVarP(&f.scope, "scope", "s", "", "Project scope")
	cmd.Flags().StringVarP(&f.industry, "industry", "i", "", "Industry used to pick a template")
	cmd.Flags().StringVar(&f.timeline, "timeline", "", "Project timeline")
	cmd.Flags().StringSliceVar(&f.tech, "tech", nil, "Technical requirements (comma separated)")
	cmd.Flags().StringVar(&f.audience, "audience", "", "Target audience")
}

func (f *planFlags) params() (models.PlanParams, error) {
	if strings.TrimSpace(f.name) == "" {
		return models.PlanParams{}, fmt.Errorf("--name is required")
	}
	if strings.TrimSpace(f.scope) == "" {
		return models.PlanParams{}, fmt.Errorf("--scope is required")
	}
	return models.PlanParams{
		ProjectName:           f.name,
		ProjectScope:          f.scope,
		Industry:              f.industry,
		Timeline:              f.timeline,
		TechnicalRequirements: f.tech,
		TargetAudience:        f.audience,
	}, nil
}

func newPlanCmd() *cobra.Command {
	var (
		flags     planFlags
		save      bool
		outputDir string
		format    string
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate and display a project plan without calling Linear",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := flags.params()
			if err != nil {
				return err
			}

			cfg, err := config.Load(configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			plan := templates.GeneratePlan(params)
			services.DisplayPlan(params, &plan)

			if !save {
				return nil
			}
			if outputDir == "" {
				outputDir = cfg.Planning.OutputDir
			}

			planPath, summaryPath, err := services.SavePlan(params, &plan, outputDir, format, time.Now())
			if err != nil {
				return err
			}
			helpers.PrintSuccess("Plan saved to: %s", planPath)
			helpers.PrintSuccess("Summary saved to: %s", summaryPath)
			return nil
		},
	}
	flags.bind(cmd)
	cmd.Flags().BoolVar(&save, "save", false, "Save the plan and a Markdown summary")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (defaults to planning.output_dir)")
	cmd.Flags().StringVar(&format, "format", services.FormatJSON, "Saved plan format (json, yaml)")
	return cmd
}

func newCreateCmd() *cobra.Command {
	var (
		flags    planFlags
		teamID   string
		fromFile string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a Linear project with milestones and issues from a plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, plan, err := resolvePlan(fromFile, &flags)
			if err != nil {
				return err
			}

			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.sync()

			if teamID == "" {
				teamID = app.cfg.Planning.DefaultTeamID
			}
			if teamID == "" {
				return fmt.Errorf("--team is required when planning.default_team_id is not set")
			}

			planner := services.NewPlanService(app.linear, app.log).WithProgress(helpers.PrintProgress)
			services.DisplayPlan(params, &plan)

			if dryRun {
				helpers.PrintInfo("Dry run mode - nothing will be created in Linear")
				return nil
			}

			total := len(plan.Milestones) + plan.TotalIssues()
			if !assumeYes && !confirm(fmt.Sprintf("Create project %q with %d issues in Linear?", params.ProjectName, total)) {
				helpers.PrintInfo("Operation cancelled by user")
				return nil
			}

			result, err := planner.CreateProjectFromPlan(cmd.Context(), teamID, params, plan)
			if err != nil {
				return fmt.Errorf("failed to create project from plan: %w", err)
			}

			services.DisplayPlanResult(result)
			return nil
		},
	}
	flags.bind(cmd)
	cmd.Flags().StringVarP(&teamID, "team", "t", "", "Linear team id (defaults to planning.default_team_id)")
	cmd.Flags().StringVar(&fromFile, "from", "", "Create from a saved plan file instead of flags")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "Show what would be created without calling Linear")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// resolvePlan returns the plan saved in fromFile, or a plan generated from
// the flags when fromFile is empty.
func resolvePlan(fromFile string, flags *planFlags) (models.PlanParams, models.Plan, error) {
	if fromFile != "" {
		saved, err := services.LoadPlan(fromFile)
		if err != nil {
			return models.PlanParams{}, models.Plan{}, err
		}
		helpers.PrintSuccess("Loaded plan for project: %s", saved.Params.ProjectName)
		return saved.Params, saved.Plan, nil
	}

	params, err := flags.params()
	if err != nil {
		return models.PlanParams{}, models.Plan{}, err
	}
	return params, templates.GeneratePlan(params), nil
}
