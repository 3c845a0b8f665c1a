// Package linearplanner wraps the Linear API for team, project and issue
// management and turns industry templates into milestone and issue plans
// that can be created in Linear in one call.
package linearplanner

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"linear-planner/internal/config"
	"linear-planner/internal/logger"
	"linear-planner/internal/models"
	"linear-planner/internal/repositories"
	"linear-planner/internal/services"
	"linear-planner/internal/templates"
)

type (
	Team             = models.Team
	Project          = models.Project
	Issue            = models.Issue
	Label            = models.Label
	TeamSpec         = models.TeamSpec
	ProjectSpec      = models.ProjectSpec
	IssueSpec        = models.IssueSpec
	IssueUpdate      = models.IssueUpdate
	PlanParams       = models.PlanParams
	Plan             = models.Plan
	Milestone        = models.Milestone
	IssueTemplate    = models.IssueTemplate
	PlanResult       = models.PlanResult
	CreatedMilestone = models.CreatedMilestone
	APIError         = repositories.APIError
	ProgressFunc     = services.ProgressFunc
)

var (
	// ErrNotFound is matched with errors.Is when an id does not resolve
	ErrNotFound = models.ErrNotFound
	// ErrProjectIDMissing is returned when Linear reports a created project
	// without returning it or its id
	ErrProjectIDMissing = services.ErrProjectIDMissing
	// ErrAPIKeyRequired is returned by New when Config.APIKey is empty
	ErrAPIKeyRequired = errors.New("linear API key is required")
)

// Config configures a Client. Only APIKey is required.
type Config struct {
	APIKey string
	// BaseURL defaults to the public Linear GraphQL endpoint.
	BaseURL string
	// TimeoutSeconds bounds each HTTP request. Defaults to 30.
	TimeoutSeconds int
	// Logger receives diagnostics. Defaults to a no-op logger.
	Logger *zap.SugaredLogger
	// Progress, if set, is called before each issue CreateProjectWithPlan creates.
	Progress ProgressFunc
}

// Client is the library entry point
type Client struct {
	linear  *services.LinearService
	planner *services.PlanService
}

// New creates a Client
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrAPIKeyRequired
	}

	linearConfig := &config.LinearConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Timeout: cfg.TimeoutSeconds,
	}
	if linearConfig.BaseURL == "" {
		linearConfig.BaseURL = config.DefaultBaseURL
	}
	if linearConfig.Timeout <= 0 {
		linearConfig.Timeout = 30
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	linear := services.NewLinearService(repositories.NewLinearRepository(linearConfig), log)
	return &Client{
		linear:  linear,
		planner: services.NewPlanService(linear, log).WithProgress(cfg.Progress),
	}, nil
}

// CreateTeam creates a team
func (c *Client) CreateTeam(ctx context.Context, spec TeamSpec) (*Team, error) {
	return c.linear.CreateTeam(ctx, spec)
}

// CreateProject creates a project owned by spec.TeamID
func (c *Client) CreateProject(ctx context.Context, spec ProjectSpec) (*Project, error) {
	project, err := c.linear.CreateProject(ctx, spec)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectIDMissing
	}
	return project, nil
}

// CreateIssue creates an issue. Label names that do not exist for the team are skipped.
func (c *Client) CreateIssue(ctx context.Context, spec IssueSpec) (*Issue, error) {
	return c.linear.CreateIssue(ctx, spec)
}

// GetTeams lists the teams visible to the API key
func (c *Client) GetTeams(ctx context.Context) ([]Team, error) {
	return c.linear.GetTeams(ctx)
}

// GetProjects lists the projects of a team
func (c *Client) GetProjects(ctx context.Context, teamID string) ([]Project, error) {
	return c.linear.GetProjects(ctx, teamID)
}

// GetIssues lists the issues of a team, narrowed to a project when projectID is not empty
func (c *Client) GetIssues(ctx context.Context, teamID, projectID string) ([]Issue, error) {
	return c.linear.GetIssues(ctx, teamID, projectID)
}

// UpdateIssue applies the non-nil fields of update
func (c *Client) UpdateIssue(ctx context.Context, issueID string, update IssueUpdate) (*Issue, error) {
	return c.linear.UpdateIssue(ctx, issueID, update)
}

// DeleteIssue deletes an issue
func (c *Client) DeleteIssue(ctx context.Context, issueID string) (bool, error) {
	return c.linear.DeleteIssue(ctx, issueID)
}

// GenerateProjectPlan builds a plan without calling Linear
func (c *Client) GenerateProjectPlan(params PlanParams) Plan {
	return templates.GeneratePlan(params)
}

// CreateProjectWithPlan creates a project under teamID along with one
// milestone issue per plan milestone and the milestone's issues. The team
// gets a "milestone" label if it has none.
func (c *Client) CreateProjectWithPlan(ctx context.Context, teamID string, params PlanParams) (*PlanResult, error) {
	return c.planner.CreateProjectWithPlan(ctx, teamID, params)
}

// CreateProjectFromPlan is CreateProjectWithPlan for a plan built or edited by the caller
func (c *Client) CreateProjectFromPlan(ctx context.Context, teamID string, params PlanParams, plan Plan) (*PlanResult, error) {
	return c.planner.CreateProjectFromPlan(ctx, teamID, params, plan)
}
